package models

// RoutingClass selects the strategy used for a request.
type RoutingClass string

const (
	RoutingBypass                 RoutingClass = "bypass"
	RoutingCdnCacheFirst          RoutingClass = "cdn_cache_first"
	RoutingNavigationNetworkFirst RoutingClass = "navigation_network_first"
	RoutingStaticCacheFirst       RoutingClass = "static_cache_first"
)

// AllRoutingClasses lists every class in classifier rule order.
var AllRoutingClasses = []RoutingClass{
	RoutingBypass,
	RoutingCdnCacheFirst,
	RoutingNavigationNetworkFirst,
	RoutingStaticCacheFirst,
}

func (c RoutingClass) String() string {
	return string(c)
}

package interfaces

//go:generate mockgen -package=mock -source=host.go -destination=mock/host.go

// HostControl exposes the two control primitives the lifecycle controller
// signals to whatever hosts it.
type HostControl interface {
	// SkipWaiting asks the host to activate the installed generation without
	// waiting for the previous one to be released.
	SkipWaiting()
	// ClaimClients binds every client to the activated generation now.
	ClaimClients(generation string, store Store)
}

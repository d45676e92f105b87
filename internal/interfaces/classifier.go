package interfaces

import (
	"go-sw-cache/internal/models"
)

//go:generate mockgen -package=mock -source=classifier.go -destination=mock/classifier.go

// Classifier maps a request to its routing class. Implementations must be
// pure: same request, same class, no side effects.
type Classifier interface {
	Classify(req *models.Request) models.RoutingClass
}

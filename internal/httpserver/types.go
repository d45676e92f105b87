package httpserver

import "go-sw-cache/internal/models"

// ClassHeader names the routing class that served a proxied response
const ClassHeader = "X-SW-Cache-Class"

// LifecycleStatus describes the installed and the serving generation
type LifecycleStatus struct {
	Generation       string                `json:"generation"`
	State            models.LifecycleState `json:"state"`
	ActiveGeneration string                `json:"active_generation,omitempty"`
}

// InstallResponse reports an install and, when the generation skipped
// waiting, the activation that followed it
type InstallResponse struct {
	Success  bool                   `json:"success"`
	Install  *models.InstallResult  `json:"install"`
	Activate *models.ActivateResult `json:"activate,omitempty"`
}

// ActivateResponse reports an activation
type ActivateResponse struct {
	Success  bool                   `json:"success"`
	Activate *models.ActivateResult `json:"activate"`
}

// GenerationsResponse lists stored generations
type GenerationsResponse struct {
	Generations []string `json:"generations"`
	Active      string   `json:"active,omitempty"`
}

// ErrorResponse is the body of every admin error
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

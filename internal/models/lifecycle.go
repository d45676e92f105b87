package models

// LifecycleState is the state of one generation's controller.
type LifecycleState string

const (
	StateParsed     LifecycleState = "parsed"
	StateInstalling LifecycleState = "installing"
	StateWaiting    LifecycleState = "waiting"
	StateActivating LifecycleState = "activating"
	StateActive     LifecycleState = "active"
	StateRedundant  LifecycleState = "redundant"
)

// InstallResult is reported back to the host after a successful install.
type InstallResult struct {
	Generation  string `json:"generation"`
	Assets      int    `json:"assets"`
	SkipWaiting bool   `json:"skip_waiting"`
}

// ActivateResult is reported back to the host after activation.
type ActivateResult struct {
	Generation string   `json:"generation"`
	Deleted    []string `json:"deleted"`
	Claimed    bool     `json:"claimed"`
}

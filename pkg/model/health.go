package model

// MemoryUsage reports process heap usage in whole megabytes.
type MemoryUsage struct {
	UsedMB  uint64 `json:"usedMB"`
	TotalMB uint64 `json:"totalMB"`
}

// HealthChecks holds the passive per-subsystem check flags.
type HealthChecks struct {
	Server string `json:"server"`
	Memory string `json:"memory"`
}

// HealthReport is the /health response body. It is built fresh on
// every request and never fails the request itself.
type HealthReport struct {
	Status        string       `json:"status"`
	Hostname      string       `json:"hostname"`
	Timestamp     string       `json:"timestamp"`
	UptimeSeconds float64      `json:"uptimeSeconds"`
	SurvivorCount int64        `json:"survivorCount"`
	Memory        MemoryUsage  `json:"memory"`
	Checks        HealthChecks `json:"checks"`
}

// ReadyResponse is the /ready response body.
type ReadyResponse struct {
	Ready     bool   `json:"ready"`
	Hostname  string `json:"hostname"`
	Timestamp string `json:"timestamp"`
}

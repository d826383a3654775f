package model

// LoadTestResult is the /load response body. Durations are wall-clock
// seconds; ActualDurationSeconds is always at least the requested value
// because the burn loop only checks the deadline between batches.
type LoadTestResult struct {
	Status                   string  `json:"status"`
	Hostname                 string  `json:"hostname"`
	RequestedDurationSeconds int     `json:"requestedDurationSeconds"`
	ActualDurationSeconds    float64 `json:"actualDurationSeconds"`
	Iterations               int     `json:"iterations"`
	Message                  string  `json:"message"`
}

// internal/domain/models/metrics.go
package models

// Metrics summarizes a user's project portfolio.
type Metrics struct {
	TotalFinishedProjects int     `json:"totalFinishedProjects"`
	TotalWIPProjects      int     `json:"totalWIPProjects"`
	TotalRevenues         float64 `json:"totalRevenues"`
	AverageHourlyRate     float64 `json:"averageHourlyRate"`
}

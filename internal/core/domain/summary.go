package domain

// SystemSummary is the aggregate health view across all tracked targets.
type SystemSummary struct {
	Overall HealthStatus         `json:"overall"`
	Counts  map[HealthStatus]int `json:"counts"`
	Total   int                  `json:"total"`
}

// Summarize aggregates records using the domination rule: the worst status
// wins. An empty record set reports Unknown.
func Summarize(records map[TargetID]HealthRecord) SystemSummary {
	summary := SystemSummary{
		Overall: StatusUnknown,
		Counts: map[HealthStatus]int{
			StatusHealthy:   0,
			StatusDegraded:  0,
			StatusUnhealthy: 0,
			StatusUnknown:   0,
		},
	}

	if len(records) == 0 {
		return summary
	}

	summary.Overall = StatusHealthy
	for _, rec := range records {
		summary.Counts[rec.Status]++
		summary.Total++
		summary.Overall = summary.Overall.Worse(rec.Status)
	}
	return summary
}

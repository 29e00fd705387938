package dto

// StatsResponse reports the derived per-organization metrics.
type StatsResponse struct {
	Total                 int     `json:"total"`
	Open                  int     `json:"open"`
	Resolved              int     `json:"resolved"`
	AvgFirstResponseHours float64 `json:"avg_first_response_hours"`
}

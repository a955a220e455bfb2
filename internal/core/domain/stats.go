package domain

// Stats is the aggregate dashboard view available to administrators.
type Stats struct {
	UsersByRole        map[Role]int64 `json:"users_by_role"`
	TotalUsers         int64          `json:"total_users"`
	Quotes             int64          `json:"quotes"`
	TotalAssistanceSum float64        `json:"total_assistance_sum"`
	TotalCliniqueSum   float64        `json:"total_clinique_sum"`
	TotalQuoteSum      float64        `json:"total_quote_sum"`
}

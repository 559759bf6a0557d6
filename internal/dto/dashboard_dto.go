package dto

type ActivityResponse struct {
	ID          string  `json:"id"`
	Type        string  `json:"type"`
	Description string  `json:"description"`
	UserID      string  `json:"user_id"`
	UserName    string  `json:"user_name,omitempty"`
	TicketID    *string `json:"ticket_id"`
	CreatedAt   string  `json:"created_at"`
}

// DashboardResponse is recomputed on every request; nothing here is cached.
type DashboardResponse struct {
	OpenTickets    int64              `json:"open_tickets"`
	UrgentTickets  int64              `json:"urgent_tickets"`
	TotalTickets   int64              `json:"total_tickets"`
	DoneTickets    int64              `json:"done_tickets"`
	ResolutionRate float64            `json:"resolution_rate"` // percent, 0 when no tickets
	RecentActivity []ActivityResponse `json:"recent_activity"`
	TodayTickets   []TicketResponse   `json:"today_tickets"`
	LowStockParts  []PartResponse     `json:"low_stock_parts"`
}

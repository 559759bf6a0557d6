package dto

type CreateTicketRequest struct {
	Title        string  `json:"title"         validate:"required,min=3,max=200"`
	Description  string  `json:"description"   validate:"required,min=3"`
	ClientID     string  `json:"client_id"     validate:"required,uuid"`
	MachineID    *string `json:"machine_id"    validate:"omitempty,uuid"`
	TechnicianID *string `json:"technician_id" validate:"omitempty,uuid"`
	Priority     string  `json:"priority"      validate:"omitempty,oneof=low normal high critical"`
	PlannedDate  string  `json:"planned_date"  validate:"omitempty,datetime=2006-01-02"`
}

type AssignTicketRequest struct {
	TechnicianID string `json:"technician_id" validate:"required,uuid"`
}

type CancelTicketRequest struct {
	Reason string `json:"reason" validate:"required,min=3,max=500"`
}

type TicketFilter struct {
	Status       string
	Priority     string
	ClientID     string
	TechnicianID string
	PlannedDate  string // YYYY-MM-DD
	Page         int
	Limit        int
}

type TicketResponse struct {
	ID             string  `json:"id"`
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	ClientID       string  `json:"client_id"`
	ClientName     string  `json:"client_name,omitempty"`
	MachineID      *string `json:"machine_id"`
	MachineName    string  `json:"machine_name,omitempty"`
	TechnicianID   *string `json:"technician_id"`
	TechnicianName string  `json:"technician_name,omitempty"`
	CreatorID      string  `json:"creator_id"`
	Status         string  `json:"status"`
	Priority       string  `json:"priority"`
	PlannedDate    *string `json:"planned_date"`
	ClosedAt       *string `json:"closed_at"`
	CancelReason   *string `json:"cancel_reason,omitempty"`
	CreatedAt      string  `json:"created_at"`
}

type TicketListResponse struct {
	Data  []TicketResponse `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
}

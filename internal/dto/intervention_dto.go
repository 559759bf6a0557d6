package dto

// PartConsumption is one (part, quantity) line consumed during an intervention.
type PartConsumption struct {
	PartID   string `json:"part_id"  validate:"required,uuid"`
	Quantity int    `json:"quantity" validate:"required,gt=0"`
}

type RecordInterventionRequest struct {
	TicketID      string            `json:"ticket_id"     validate:"required,uuid"`
	WorkReport    string            `json:"work_report"   validate:"required,min=3"`
	MinutesSpent  int               `json:"minutes_spent" validate:"gte=0"`
	PartsConsumed []PartConsumption `json:"parts_consumed" validate:"omitempty,dive"`
	Photos        []string          `json:"photos"`
	Signature     *string           `json:"signature"`
	Satisfaction  *int              `json:"satisfaction"  validate:"omitempty,min=1,max=5"`
	ClientComment *string           `json:"client_comment"`
	Billable      *bool             `json:"billable"`
}

type InterventionResponse struct {
	ID             string                  `json:"id"`
	TicketID       string                  `json:"ticket_id"`
	TicketTitle    string                  `json:"ticket_title,omitempty"`
	TechnicianID   string                  `json:"technician_id"`
	TechnicianName string                  `json:"technician_name,omitempty"`
	WorkReport     string                  `json:"work_report"`
	MinutesSpent   int                     `json:"minutes_spent"`
	Photos         []string                `json:"photos"`
	Signature      *string                 `json:"signature"`
	Satisfaction   *int                    `json:"satisfaction"`
	ClientComment  *string                 `json:"client_comment"`
	Billable       bool                    `json:"billable"`
	PartsConsumed  []StockMovementResponse `json:"parts_consumed,omitempty"`
	CreatedAt      string                  `json:"created_at"`
}

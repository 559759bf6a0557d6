package dto

type CreateMachineRequest struct {
	Name        string `json:"name"         validate:"required,min=2,max=200"`
	Model       string `json:"model"        validate:"required,min=1,max=200"`
	Serial      string `json:"serial"       validate:"required,min=1,max=100"`
	Category    string `json:"category"     validate:"omitempty,max=100"`
	ClientID    string `json:"client_id"    validate:"required,uuid"`
	Status      string `json:"status"       validate:"omitempty,oneof=active maintenance out_of_service"`
	InstalledAt string `json:"installed_at" validate:"omitempty,datetime=2006-01-02"`
}

type UpdateMachineRequest struct {
	Name     string `json:"name"     validate:"omitempty,min=2,max=200"`
	Model    string `json:"model"    validate:"omitempty,min=1,max=200"`
	Category string `json:"category" validate:"omitempty,max=100"`
	Status   string `json:"status"   validate:"omitempty,oneof=active maintenance out_of_service"`
}

type MachineFilter struct {
	ClientID string
	Status   string
	Page     int
	Limit    int
}

type MachineResponse struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Model       string  `json:"model"`
	Serial      string  `json:"serial"`
	Category    string  `json:"category"`
	ClientID    string  `json:"client_id"`
	ClientName  string  `json:"client_name,omitempty"`
	Status      string  `json:"status"`
	InstalledAt *string `json:"installed_at"`
}

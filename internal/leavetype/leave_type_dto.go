package leavetype

type CreateLeaveTypeRequest struct {
	Name             string `json:"name" binding:"required,max=100"`
	Description      string `json:"description"`
	MaxDays          int    `json:"max_days" binding:"required,gte=0"`
	CarryForwardDays int    `json:"carry_forward_days" binding:"gte=0"`
	ColorCode        string `json:"color_code"`
}

type UpdateLeaveTypeRequest struct {
	Name             string `json:"name" binding:"required,max=100"`
	Description      string `json:"description"`
	MaxDays          int    `json:"max_days" binding:"required,gte=0"`
	CarryForwardDays int    `json:"carry_forward_days" binding:"gte=0"`
	ColorCode        string `json:"color_code"`
	Status           string `json:"status" binding:"required,oneof=ACTIVE INACTIVE"`
}

type LeaveTypeResponse struct {
	ID               string `json:"id"`
	TenantID         string `json:"tenant_id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	MaxDays          int    `json:"max_days"`
	CarryForwardDays int    `json:"carry_forward_days"`
	ColorCode        string `json:"color_code"`
	Status           string `json:"status"`
	CreatedBy        string `json:"created_by"`
}

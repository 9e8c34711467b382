package leaverequest

import "time"

const dateLayout = "2006-01-02"

// SubmitLeaveRequestRequest takes either an explicit date list or an inclusive
// start/end range; the range is expanded to individual days before validation.
type SubmitLeaveRequestRequest struct {
	EmployeeID  string   `json:"employee_id" binding:"required,uuid"`
	LeaveTypeID string   `json:"leave_type_id" binding:"required,uuid"`
	RecordYear  int      `json:"record_year" binding:"required,gte=2000,lte=2200"`
	Dates       []string `json:"dates" binding:"omitempty,min=1"`
	StartDate   string   `json:"start_date" binding:"omitempty"`
	EndDate     string   `json:"end_date" binding:"omitempty"`
	Reason      string   `json:"reason" binding:"required,max=500"`
}

type ApproveLeaveRequestRequest struct {
	Comment string `json:"comment" binding:"max=500"`
}

type RejectLeaveRequestRequest struct {
	Comment string `json:"comment" binding:"required,max=500"`
}

type LeaveRequestResponse struct {
	ID                string   `json:"id"`
	RequestNumber     string   `json:"request_number"`
	TenantID          string   `json:"tenant_id"`
	EmployeeID        string   `json:"employee_id"`
	LeaveTypeID       string   `json:"leave_type_id"`
	RecordYear        int      `json:"record_year"`
	StartDate         string   `json:"start_date"`
	EndDate           string   `json:"end_date"`
	TotalDays         int      `json:"total_days"`
	Reason            string   `json:"reason"`
	Status            string   `json:"status"`
	SupervisorComment string   `json:"supervisor_comment,omitempty"`
	DecidedBy         string   `json:"decided_by,omitempty"`
	DecidedAt         string   `json:"decided_at,omitempty"`
	Dates             []string `json:"dates,omitempty"`
}

// EmployeeLeaveRequestsResponse pairs an employee's requests with the
// aggregated day totals per status.
type EmployeeLeaveRequestsResponse struct {
	Requests     []LeaveRequestResponse `json:"requests"`
	PendingDays  int                    `json:"pending_days"`
	ApprovedDays int                    `json:"approved_days"`
	RejectedDays int                    `json:"rejected_days"`
}

func mapToResponse(lr LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:                lr.ID.String(),
		RequestNumber:     lr.RequestNumber,
		TenantID:          lr.TenantID.String(),
		EmployeeID:        lr.EmployeeID.String(),
		LeaveTypeID:       lr.LeaveTypeID.String(),
		RecordYear:        lr.RecordYear,
		StartDate:         lr.StartDate.Format(dateLayout),
		EndDate:           lr.EndDate.Format(dateLayout),
		TotalDays:         lr.TotalDays,
		Reason:            lr.Reason,
		Status:            lr.Status,
		SupervisorComment: lr.SupervisorComment,
	}
	if lr.DecidedBy != nil {
		resp.DecidedBy = lr.DecidedBy.String()
	}
	if lr.DecidedAt != nil {
		resp.DecidedAt = lr.DecidedAt.Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(requests []LeaveRequest) []LeaveRequestResponse {
	resp := make([]LeaveRequestResponse, len(requests))
	for i, lr := range requests {
		resp[i] = mapToResponse(lr)
	}
	return resp
}

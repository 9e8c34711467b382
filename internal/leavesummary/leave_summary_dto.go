package leavesummary

type LeaveSummaryResponse struct {
	ID              string `json:"id"`
	TenantID        string `json:"tenant_id"`
	RecordYear      int    `json:"record_year"`
	EmployeeID      string `json:"employee_id"`
	LeaveTypeID     string `json:"leave_type_id"`
	AnnualDays      int    `json:"annual_days"`
	CarriedOverDays int    `json:"carried_over_days"`
	UsedDays        int    `json:"used_days"`
	BalanceDays     int    `json:"balance_days"`
}

func mapToResponse(s LeaveSummary) LeaveSummaryResponse {
	return LeaveSummaryResponse{
		ID:              s.ID.String(),
		TenantID:        s.TenantID.String(),
		RecordYear:      s.RecordYear,
		EmployeeID:      s.EmployeeID.String(),
		LeaveTypeID:     s.LeaveTypeID.String(),
		AnnualDays:      s.AnnualDays,
		CarriedOverDays: s.CarriedOverDays,
		UsedDays:        s.UsedDays,
		BalanceDays:     s.BalanceDays,
	}
}

func mapToListResponse(summaries []LeaveSummary) []LeaveSummaryResponse {
	resp := make([]LeaveSummaryResponse, len(summaries))
	for i, s := range summaries {
		resp[i] = mapToResponse(s)
	}
	return resp
}

package dto

// CreateReassignmentRequest asks to delegate the caller's approval authority
// to another staff member for an inclusive date range.
type CreateReassignmentRequest struct {
	TempManagerID int64  `json:"temp_manager_id" binding:"required"`
	StartDate     string `json:"start_date" binding:"required"`
	EndDate       string `json:"end_date" binding:"required"`
}

// HandleReassignmentRequest is the delegate's decision on an incoming
// delegation request.
type HandleReassignmentRequest struct {
	ReassignmentID int64  `json:"reassignment_id" binding:"required"`
	Action         string `json:"action" binding:"required,oneof=APPROVE REJECT"`
}

package dto

// WithdrawRequest files a withdrawal against the caller's approved request.
type WithdrawRequest struct {
	RequestID int64  `json:"request_id" binding:"required"`
	Reason    string `json:"reason"`
}

// ApproveWithdrawalRequest approves a pending withdrawal.
type ApproveWithdrawalRequest struct {
	WithdrawalID int64 `json:"withdrawal_id" binding:"required"`
}

// RejectWithdrawalRequest rejects a pending withdrawal with a reason.
type RejectWithdrawalRequest struct {
	WithdrawalID int64  `json:"withdrawal_id" binding:"required"`
	Reason       string `json:"reason" binding:"required"`
}

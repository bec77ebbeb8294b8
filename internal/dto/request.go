package dto

// SubmissionEntry is one (date, type) pair of a batch submission. Dates use
// the YYYY-MM-DD wire format.
type SubmissionEntry struct {
	Date string `json:"date" binding:"required"`
	Type string `json:"type" binding:"required"`
}

// SubmitRequest carries a batch of WFH dates to apply for.
type SubmitRequest struct {
	Entries []SubmissionEntry `json:"requested_dates" binding:"required,min=1,dive"`
	Reason  string            `json:"reason" binding:"required"`
}

// SubmitResult sorts every submitted entry into exactly one outcome bucket.
// Note is the exception: it repeats entries from Success whose ISO week
// already held two or more requests.
type SubmitResult struct {
	Success      []SubmissionEntry `json:"success_dates"`
	Note         []SubmissionEntry `json:"note_dates"`
	SameDay      []SubmissionEntry `json:"error_dates"`
	Weekend      []SubmissionEntry `json:"weekend_dates"`
	Past         []SubmissionEntry `json:"past_dates"`
	PastDeadline []SubmissionEntry `json:"past_deadline_dates"`
	Duplicate    []SubmissionEntry `json:"duplicate_dates"`
	InsertError  []SubmissionEntry `json:"insert_error_dates"`
}

// NewSubmitResult returns a result with every bucket initialised so the JSON
// payload always lists all eight.
func NewSubmitResult() *SubmitResult {
	return &SubmitResult{
		Success:      []SubmissionEntry{},
		Note:         []SubmissionEntry{},
		SameDay:      []SubmissionEntry{},
		Weekend:      []SubmissionEntry{},
		Past:         []SubmissionEntry{},
		PastDeadline: []SubmissionEntry{},
		Duplicate:    []SubmissionEntry{},
		InsertError:  []SubmissionEntry{},
	}
}

// ApproveRequest approves a pending request.
type ApproveRequest struct {
	RequestID int64 `json:"request_id" binding:"required"`
}

// RejectRequest rejects a pending request with a mandatory reason.
type RejectRequest struct {
	RequestID int64  `json:"request_id" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// RevokeRequest revokes an approved request.
type RevokeRequest struct {
	RequestID int64  `json:"request_id" binding:"required"`
	Reason    string `json:"reason" binding:"required"`
}

// CancelRequest cancels the caller's own pending request.
type CancelRequest struct {
	RequestID int64 `json:"request_id" binding:"required"`
}

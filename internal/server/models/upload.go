package models

import "time"

// Upload lifecycle states. Pending is the initial state; approved and
// rejected are terminal.
const (
	UploadStatusPending  = "pending"
	UploadStatusApproved = "approved"
	UploadStatusRejected = "rejected"
)

// Upload describes a user-submitted file and its approval metadata.
// The blob itself lives in blob storage under Filename.
type Upload struct {
	ID            string `json:"id"`
	Filename      string `json:"filename"`
	OriginalName  string `json:"original_name"`
	Mimetype      string `json:"mimetype"`
	Size          int64  `json:"size"`
	Description   string `json:"description"`
	UploaderEmail string `json:"uploader_email"`

	Status     string    `json:"status"`
	UploadedAt time.Time `json:"uploaded_at"`

	// Audit fields, set by the approve/reject transition.
	ApprovedBy      *string    `json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `json:"approved_at,omitempty"`
	RejectionReason *string    `json:"rejection_reason,omitempty"`
}

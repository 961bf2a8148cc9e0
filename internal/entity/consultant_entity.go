package entity

import (
	"time"

	"github.com/google/uuid"
)

// Consultant is a counselor account. RcUserID is the consultant's chat-backend
// id, required for chat-room membership provisioning.
type Consultant struct {
	Id         uuid.UUID
	IdentityID string
	Username   string
	Email      string
	RcUserID   string
	// ViewAllFeedback grants access to feedback groups across the agency.
	ViewAllFeedback bool
	Absent          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// ConsultantAgency associates a consultant with an agency. It is read-only
// input to the enquiry workflow: the association set determines chat-room
// membership.
type ConsultantAgency struct {
	Id         uuid.UUID
	Consultant *Consultant
	AgencyID   int64
	CreatedAt  time.Time
}

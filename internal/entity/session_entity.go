package entity

import (
	"time"

	"github.com/google/uuid"

	"counseling-be/internal/consultingtype"
)

type SessionStatus int

const (
	SessionStatusInitial SessionStatus = iota
	SessionStatusNew
	SessionStatusInProgress
	SessionStatusDone
)

// Session is one counseling case. GroupID/FeedbackGroupID reference rooms in
// the external chat backend and stay nil until provisioned. A non-nil
// EnquiryMessageDate means the enquiry workflow committed; it doubles as the
// duplicate-submission guard.
type Session struct {
	Id                 uuid.UUID
	UserID             uuid.UUID
	ConsultantID       *uuid.UUID
	ConsultingType     consultingtype.ConsultingType
	Status             SessionStatus
	GroupID            *string
	FeedbackGroupID    *string
	EnquiryMessageDate *time.Time
	AgencyID           int64
	Postcode           string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// SessionData carries registration-supplied metadata persisted alongside a
// fresh session.
type SessionData struct {
	Id        uuid.UUID
	SessionID uuid.UUID
	Age       *string
	State     *string
	CreatedAt time.Time
}

package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is a counseling asker. The identity provider is the system of record
// for credentials; IdentityID is immutable once set. RcUserID stays nil until
// the chat-backend account has been linked.
type User struct {
	Id             uuid.UUID
	IdentityID     string
	Username       string
	Email          string
	RcUserID       *string
	LanguageFormal bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserAgency links a user to an agency for group-chat shaped consulting types.
type UserAgency struct {
	Id        uuid.UUID
	UserID    uuid.UUID
	AgencyID  int64
	CreatedAt time.Time
}

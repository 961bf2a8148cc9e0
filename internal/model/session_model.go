package model

import (
	"time"

	"github.com/google/uuid"
)

type Session struct {
	Id                 uuid.UUID  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID             uuid.UUID  `gorm:"type:uuid;not null;index"`
	ConsultantID       *uuid.UUID `gorm:"type:uuid;index"`
	ConsultingType     int        `gorm:"not null"`
	Status             int        `gorm:"not null;default:0"`
	GroupID            *string    `gorm:"type:varchar(17);index"`
	FeedbackGroupID    *string    `gorm:"type:varchar(17)"`
	EnquiryMessageDate *time.Time
	AgencyID           int64     `gorm:"not null;index"`
	Postcode           string    `gorm:"type:varchar(5)"`
	CreatedAt          time.Time `gorm:"autoCreateTime"`
	UpdatedAt          time.Time `gorm:"autoUpdateTime"`
}

func (Session) TableName() string {
	return "sessions"
}

type SessionData struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Age       *string   `gorm:"type:varchar(3)"`
	State     *string   `gorm:"type:varchar(2)"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (SessionData) TableName() string {
	return "session_data"
}

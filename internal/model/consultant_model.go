package model

import (
	"time"

	"github.com/google/uuid"
)

type Consultant struct {
	Id         uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IdentityID string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	Username   string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Email      string    `gorm:"type:varchar(255);not null"`
	RcUserID   string    `gorm:"type:varchar(17)"`

	ViewAllFeedback bool      `gorm:"not null;default:false"`
	Absent          bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime"`
}

func (Consultant) TableName() string {
	return "consultants"
}

type ConsultantAgency struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	ConsultantID uuid.UUID `gorm:"type:uuid;not null;index"`
	AgencyID     int64     `gorm:"not null;index"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`

	Consultant *Consultant `gorm:"foreignKey:ConsultantID"`
}

func (ConsultantAgency) TableName() string {
	return "consultant_agencies"
}

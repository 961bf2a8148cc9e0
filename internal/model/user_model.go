package model

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	IdentityID     string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	Username       string    `gorm:"type:varchar(255);uniqueIndex;not null"`
	Email          string    `gorm:"type:varchar(255);not null"`
	RcUserID       *string   `gorm:"type:varchar(17)"`
	LanguageFormal bool      `gorm:"default:false"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
	UpdatedAt      time.Time `gorm:"autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

type UserAgency struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserID    uuid.UUID `gorm:"type:uuid;not null;index"`
	AgencyID  int64     `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

func (UserAgency) TableName() string {
	return "user_agencies"
}

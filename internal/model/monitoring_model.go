package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Monitoring struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Group     string    `gorm:"column:monitoring_group;type:varchar(50);not null"`
	Key       string    `gorm:"column:monitoring_key;type:varchar(50);not null"`
	Value     *bool
	Options   datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt time.Time      `gorm:"autoCreateTime"`
}

func (Monitoring) TableName() string {
	return "session_monitoring"
}

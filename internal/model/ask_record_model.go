package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type AskRecord struct {
	Id         uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId     string         `gorm:"type:varchar(128);not null;index"`
	Tier       string         `gorm:"type:varchar(16);not null"`
	Intent     string         `gorm:"type:varchar(32);not null;index"`
	Source     string         `gorm:"type:varchar(16);not null"`
	Confidence float64        `gorm:"not null"`
	Status     string         `gorm:"type:varchar(16);not null"`
	Message    string         `gorm:"type:text"`
	Result     datatypes.JSON `gorm:"type:jsonb"`
	CreatedAt  time.Time      `gorm:"autoCreateTime"`
}

func (AskRecord) TableName() string {
	return "ask_records"
}

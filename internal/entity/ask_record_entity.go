package entity

import (
	"time"

	"github.com/google/uuid"
)

// AskRecord is one handled /ask request.
type AskRecord struct {
	Id         uuid.UUID
	UserId     string
	Tier       string
	Intent     string
	Source     string
	Confidence float64
	Status     string
	Message    string
	Result     map[string]interface{}
	CreatedAt  time.Time
}

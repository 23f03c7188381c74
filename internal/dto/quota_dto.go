package dto

import (
	"fmt"
	"time"
)

const QuotaExceededErrorType = "quota_exceeded"

// LimitExceededError is returned when a daily quota rejects a request.
type LimitExceededError struct {
	Resource   string    `json:"resource"`
	Limit      int       `json:"limit"`
	Used       int       `json:"used"`
	ResetAfter time.Time `json:"reset_after"`
}

func (e *LimitExceededError) Error() string {
	return fmt.Sprintf("daily %s quota exceeded", e.Resource)
}

// LimitExceededData is the data payload for 429 responses
type LimitExceededData struct {
	Resource         string    `json:"resource"`
	Limit            int       `json:"limit"`
	Used             int       `json:"used"`
	ResetAfter       time.Time `json:"reset_after"`
	ShowModalPricing bool      `json:"show_modal_pricing"`
}

// LimitExceededResponse is the full 429 response structure
type LimitExceededResponse struct {
	Success   bool              `json:"success"`
	Code      int               `json:"code"`
	Message   string            `json:"message"`
	ErrorType string            `json:"error_type"`
	Data      LimitExceededData `json:"data"`
}

func NewLimitExceededResponse(e *LimitExceededError) LimitExceededResponse {
	return LimitExceededResponse{
		Success:   false,
		Code:      429,
		Message:   "当日配额已用尽，请升级后继续使用。",
		ErrorType: QuotaExceededErrorType,
		Data: LimitExceededData{
			Resource:         e.Resource,
			Limit:            e.Limit,
			Used:             e.Used,
			ResetAfter:       e.ResetAfter,
			ShowModalPricing: true,
		},
	}
}

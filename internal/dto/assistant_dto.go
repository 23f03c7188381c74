package dto

import (
	"time"

	"github.com/google/uuid"
)

type AskRequest struct {
	Message    string                 `json:"message" validate:"max=8000"`
	Context    map[string]interface{} `json:"context,omitempty"`
	ResumeText string                 `json:"resume_text,omitempty"`
}

type AskResponse struct {
	Intent      string                 `json:"intent"`
	Result      map[string]interface{} `json:"result"`
	Suggestions []string               `json:"suggestions"`
}

type JobMatchRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	TopN       int    `json:"top_n" validate:"gte=0,lte=50"`
	Source     string `json:"source,omitempty"`
}

type JobMatchResponse struct {
	Matches        []map[string]interface{} `json:"matches"`
	TotalEvaluated int                      `json:"total_evaluated"`
	Error          string                   `json:"error,omitempty"`
}

type DocumentAnalyzeRequest struct {
	DocumentType string `json:"document_type" validate:"required"`
	Text         string `json:"text" validate:"required"`
}

type DocumentAnalyzeResponse struct {
	DocumentType string                 `json:"document_type"`
	Extracted    map[string]interface{} `json:"extracted"`
	Error        string                 `json:"error,omitempty"`
}

type QuotaResponse struct {
	UserID    string         `json:"user_id"`
	Tier      string         `json:"tier"`
	Remaining map[string]int `json:"remaining"`
	Limits    map[string]int `json:"limits"`
	MaxTopN   int            `json:"max_top_n"`
}

type StubUpgradeRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Tier   string `json:"tier" validate:"required,oneof=basic pro"`
}

type HistoryQuery struct {
	Intent string `query:"intent" validate:"omitempty,oneof=job_match resume_upload poetry credit mbti unknown"`
	Limit  int    `query:"limit" validate:"gte=0,lte=100"`
}

type AskRecordResponse struct {
	Id         uuid.UUID `json:"id"`
	Intent     string    `json:"intent"`
	Source     string    `json:"source"`
	Confidence float64   `json:"confidence"`
	Status     string    `json:"status"`
	Message    string    `json:"message"`
	CreatedAt  time.Time `json:"created_at"`
}

type HistoryResponse struct {
	Total   int64               `json:"total"`
	Records []AskRecordResponse `json:"records"`
}

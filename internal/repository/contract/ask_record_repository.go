package contract

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/repository/specification"
)

type AskRecordRepository interface {
	Create(ctx context.Context, record *entity.AskRecord) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AskRecord, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
}

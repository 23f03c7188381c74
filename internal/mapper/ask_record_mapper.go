package mapper

import (
	"encoding/json"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/model"

	"gorm.io/datatypes"
)

type AskRecordMapper struct{}

func NewAskRecordMapper() *AskRecordMapper {
	return &AskRecordMapper{}
}

func (m *AskRecordMapper) ToModel(r *entity.AskRecord) (*model.AskRecord, error) {
	if r == nil {
		return nil, nil
	}

	var result datatypes.JSON
	if r.Result != nil {
		raw, err := json.Marshal(r.Result)
		if err != nil {
			return nil, err
		}
		result = datatypes.JSON(raw)
	}

	return &model.AskRecord{
		Id:         r.Id,
		UserId:     r.UserId,
		Tier:       r.Tier,
		Intent:     r.Intent,
		Source:     r.Source,
		Confidence: r.Confidence,
		Status:     r.Status,
		Message:    r.Message,
		Result:     result,
		CreatedAt:  r.CreatedAt,
	}, nil
}

func (m *AskRecordMapper) ToEntity(r *model.AskRecord) *entity.AskRecord {
	if r == nil {
		return nil
	}

	var result map[string]interface{}
	if len(r.Result) > 0 {
		// Rows written by ToModel always hold an object; anything else is dropped.
		_ = json.Unmarshal(r.Result, &result)
	}

	return &entity.AskRecord{
		Id:         r.Id,
		UserId:     r.UserId,
		Tier:       r.Tier,
		Intent:     r.Intent,
		Source:     r.Source,
		Confidence: r.Confidence,
		Status:     r.Status,
		Message:    r.Message,
		Result:     result,
		CreatedAt:  r.CreatedAt,
	}
}

func (m *AskRecordMapper) ToEntities(models []*model.AskRecord) []*entity.AskRecord {
	out := make([]*entity.AskRecord, 0, len(models))
	for _, r := range models {
		out = append(out, m.ToEntity(r))
	}
	return out
}

package implementation

import (
	"context"

	"ai-assistant-be/internal/entity"
	"ai-assistant-be/internal/mapper"
	"ai-assistant-be/internal/model"
	"ai-assistant-be/internal/repository/contract"
	"ai-assistant-be/internal/repository/specification"

	"gorm.io/gorm"
)

type AskRecordRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.AskRecordMapper
}

func NewAskRecordRepository(db *gorm.DB) contract.AskRecordRepository {
	return &AskRecordRepositoryImpl{
		db:     db,
		mapper: mapper.NewAskRecordMapper(),
	}
}

func (r *AskRecordRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *AskRecordRepositoryImpl) Create(ctx context.Context, record *entity.AskRecord) error {
	m, err := r.mapper.ToModel(record)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*record = *r.mapper.ToEntity(m)
	return nil
}

func (r *AskRecordRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.AskRecord, error) {
	var models []*model.AskRecord
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)
	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return r.mapper.ToEntities(models), nil
}

func (r *AskRecordRepositoryImpl) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	var count int64
	query := r.applySpecifications(r.db.WithContext(ctx).Model(&model.AskRecord{}), specs...)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

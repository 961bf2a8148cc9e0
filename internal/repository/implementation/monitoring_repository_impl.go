package implementation

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"counseling-be/internal/entity"
	"counseling-be/internal/mapper"
	"counseling-be/internal/model"
	"counseling-be/internal/repository/contract"
	"counseling-be/internal/repository/specification"
)

type MonitoringRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.MonitoringMapper
}

func NewMonitoringRepository(db *gorm.DB) contract.MonitoringRepository {
	return &MonitoringRepositoryImpl{
		db:     db,
		mapper: mapper.NewMonitoringMapper(),
	}
}

func (r *MonitoringRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *MonitoringRepositoryImpl) CreateAll(ctx context.Context, rows []*entity.Monitoring) error {
	if len(rows) == 0 {
		return nil
	}
	models := r.mapper.ToModels(rows)
	return r.db.WithContext(ctx).Create(&models).Error
}

func (r *MonitoringRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Monitoring, error) {
	var models []*model.Monitoring
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *MonitoringRepositoryImpl) DeleteBySessionID(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&model.Monitoring{}).Error
}

package implementation

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"counseling-be/internal/entity"
	"counseling-be/internal/mapper"
	"counseling-be/internal/model"
	"counseling-be/internal/repository/contract"
	"counseling-be/internal/repository/specification"
)

type ConsultantRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.ConsultantMapper
}

func NewConsultantRepository(db *gorm.DB) contract.ConsultantRepository {
	return &ConsultantRepositoryImpl{
		db:     db,
		mapper: mapper.NewConsultantMapper(),
	}
}

func (r *ConsultantRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *ConsultantRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Consultant, error) {
	var m model.Consultant
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *ConsultantRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Consultant, error) {
	var models []*model.Consultant
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	entities := make([]*entity.Consultant, len(models))
	for i, m := range models {
		entities[i] = r.mapper.ToEntity(m)
	}
	return entities, nil
}

func (r *ConsultantRepositoryImpl) FindAgencyRelations(ctx context.Context, agencyID int64) ([]*entity.ConsultantAgency, error) {
	var models []*model.ConsultantAgency
	err := r.db.WithContext(ctx).
		Preload("Consultant").
		Where("agency_id = ?", agencyID).
		Order("created_at ASC").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	return r.mapper.AgenciesToEntities(models), nil
}

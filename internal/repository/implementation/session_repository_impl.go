package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"counseling-be/internal/entity"
	"counseling-be/internal/mapper"
	"counseling-be/internal/model"
	"counseling-be/internal/repository/contract"
	"counseling-be/internal/repository/specification"
)

type SessionRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SessionMapper
}

func NewSessionRepository(db *gorm.DB) contract.SessionRepository {
	return &SessionRepositoryImpl{
		db:     db,
		mapper: mapper.NewSessionMapper(),
	}
}

func (r *SessionRepositoryImpl) applySpecifications(db *gorm.DB, specs ...specification.Specification) *gorm.DB {
	for _, spec := range specs {
		db = spec.Apply(db)
	}
	return db
}

func (r *SessionRepositoryImpl) Create(ctx context.Context, session *entity.Session) error {
	m := r.mapper.ToModel(session)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*session = *r.mapper.ToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) Update(ctx context.Context, session *entity.Session) error {
	m := r.mapper.ToModel(session)
	// Save skips zero values for nullable columns, so use a full column map.
	err := r.db.WithContext(ctx).Model(&model.Session{}).Where("id = ?", m.Id).
		Updates(map[string]interface{}{
			"consultant_id":        m.ConsultantID,
			"status":               m.Status,
			"group_id":             m.GroupID,
			"feedback_group_id":    m.FeedbackGroupID,
			"enquiry_message_date": m.EnquiryMessageDate,
			"postcode":             m.Postcode,
		}).Error
	return err
}

func (r *SessionRepositoryImpl) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Session{}).Error
}

func (r *SessionRepositoryImpl) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	var m model.Session
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return r.mapper.ToEntity(&m), nil
}

func (r *SessionRepositoryImpl) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	var models []*model.Session
	query := r.applySpecifications(r.db.WithContext(ctx), specs...)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}

	return r.mapper.ToEntities(models), nil
}

func (r *SessionRepositoryImpl) CommitEnquiry(ctx context.Context, sessionID uuid.UUID, groupID string, date time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ? AND enquiry_message_date IS NULL", sessionID).
		Updates(map[string]interface{}{
			"enquiry_message_date": date,
			"group_id":             groupID,
			"status":               int(entity.SessionStatusNew),
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *SessionRepositoryImpl) UpdateFeedbackGroupID(ctx context.Context, sessionID uuid.UUID, feedbackGroupID string) error {
	return r.db.WithContext(ctx).Model(&model.Session{}).
		Where("id = ?", sessionID).
		Update("feedback_group_id", feedbackGroupID).Error
}

func (r *SessionRepositoryImpl) CreateSessionData(ctx context.Context, data *entity.SessionData) error {
	m := r.mapper.SessionDataToModel(data)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*data = *r.mapper.SessionDataToEntity(m)
	return nil
}

func (r *SessionRepositoryImpl) DeleteSessionDataBySessionID(ctx context.Context, sessionID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("session_id = ?", sessionID).Delete(&model.SessionData{}).Error
}

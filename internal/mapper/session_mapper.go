package mapper

import (
	"counseling-be/internal/consultingtype"
	"counseling-be/internal/entity"
	"counseling-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.Session) *entity.Session {
	if s == nil {
		return nil
	}
	return &entity.Session{
		Id:                 s.Id,
		UserID:             s.UserID,
		ConsultantID:       s.ConsultantID,
		ConsultingType:     consultingtype.ConsultingType(s.ConsultingType),
		Status:             entity.SessionStatus(s.Status),
		GroupID:            s.GroupID,
		FeedbackGroupID:    s.FeedbackGroupID,
		EnquiryMessageDate: s.EnquiryMessageDate,
		AgencyID:           s.AgencyID,
		Postcode:           s.Postcode,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.Session) *model.Session {
	if s == nil {
		return nil
	}
	return &model.Session{
		Id:                 s.Id,
		UserID:             s.UserID,
		ConsultantID:       s.ConsultantID,
		ConsultingType:     int(s.ConsultingType),
		Status:             int(s.Status),
		GroupID:            s.GroupID,
		FeedbackGroupID:    s.FeedbackGroupID,
		EnquiryMessageDate: s.EnquiryMessageDate,
		AgencyID:           s.AgencyID,
		Postcode:           s.Postcode,
		CreatedAt:          s.CreatedAt,
		UpdatedAt:          s.UpdatedAt,
	}
}

func (m *SessionMapper) ToEntities(sessions []*model.Session) []*entity.Session {
	entities := make([]*entity.Session, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}

func (m *SessionMapper) SessionDataToModel(d *entity.SessionData) *model.SessionData {
	if d == nil {
		return nil
	}
	return &model.SessionData{
		Id:        d.Id,
		SessionID: d.SessionID,
		Age:       d.Age,
		State:     d.State,
		CreatedAt: d.CreatedAt,
	}
}

func (m *SessionMapper) SessionDataToEntity(d *model.SessionData) *entity.SessionData {
	if d == nil {
		return nil
	}
	return &entity.SessionData{
		Id:        d.Id,
		SessionID: d.SessionID,
		Age:       d.Age,
		State:     d.State,
		CreatedAt: d.CreatedAt,
	}
}

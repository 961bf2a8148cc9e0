package mapper

import (
	"counseling-be/internal/entity"
	"counseling-be/internal/model"
)

type ConsultantMapper struct{}

func NewConsultantMapper() *ConsultantMapper {
	return &ConsultantMapper{}
}

func (m *ConsultantMapper) ToEntity(c *model.Consultant) *entity.Consultant {
	if c == nil {
		return nil
	}
	return &entity.Consultant{
		Id:              c.Id,
		IdentityID:      c.IdentityID,
		Username:        c.Username,
		Email:           c.Email,
		RcUserID:        c.RcUserID,
		ViewAllFeedback: c.ViewAllFeedback,
		Absent:          c.Absent,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *ConsultantMapper) ToModel(c *entity.Consultant) *model.Consultant {
	if c == nil {
		return nil
	}
	return &model.Consultant{
		Id:              c.Id,
		IdentityID:      c.IdentityID,
		Username:        c.Username,
		Email:           c.Email,
		RcUserID:        c.RcUserID,
		ViewAllFeedback: c.ViewAllFeedback,
		Absent:          c.Absent,
		CreatedAt:       c.CreatedAt,
		UpdatedAt:       c.UpdatedAt,
	}
}

func (m *ConsultantMapper) AgencyToEntity(a *model.ConsultantAgency) *entity.ConsultantAgency {
	if a == nil {
		return nil
	}
	return &entity.ConsultantAgency{
		Id:         a.Id,
		Consultant: m.ToEntity(a.Consultant),
		AgencyID:   a.AgencyID,
		CreatedAt:  a.CreatedAt,
	}
}

func (m *ConsultantMapper) AgenciesToEntities(list []*model.ConsultantAgency) []*entity.ConsultantAgency {
	entities := make([]*entity.ConsultantAgency, len(list))
	for i, a := range list {
		entities[i] = m.AgencyToEntity(a)
	}
	return entities
}

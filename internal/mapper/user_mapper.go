package mapper

import (
	"counseling-be/internal/entity"
	"counseling-be/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:             u.Id,
		IdentityID:     u.IdentityID,
		Username:       u.Username,
		Email:          u.Email,
		RcUserID:       u.RcUserID,
		LanguageFormal: u.LanguageFormal,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:             u.Id,
		IdentityID:     u.IdentityID,
		Username:       u.Username,
		Email:          u.Email,
		RcUserID:       u.RcUserID,
		LanguageFormal: u.LanguageFormal,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (m *UserMapper) ToEntities(users []*model.User) []*entity.User {
	entities := make([]*entity.User, len(users))
	for i, u := range users {
		entities[i] = m.ToEntity(u)
	}
	return entities
}

func (m *UserMapper) UserAgencyToEntity(a *model.UserAgency) *entity.UserAgency {
	if a == nil {
		return nil
	}
	return &entity.UserAgency{
		Id:        a.Id,
		UserID:    a.UserID,
		AgencyID:  a.AgencyID,
		CreatedAt: a.CreatedAt,
	}
}

func (m *UserMapper) UserAgencyToModel(a *entity.UserAgency) *model.UserAgency {
	if a == nil {
		return nil
	}
	return &model.UserAgency{
		Id:        a.Id,
		UserID:    a.UserID,
		AgencyID:  a.AgencyID,
		CreatedAt: a.CreatedAt,
	}
}

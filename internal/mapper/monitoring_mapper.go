package mapper

import (
	"encoding/json"

	"gorm.io/datatypes"

	"counseling-be/internal/entity"
	"counseling-be/internal/model"
)

type MonitoringMapper struct{}

func NewMonitoringMapper() *MonitoringMapper {
	return &MonitoringMapper{}
}

func (m *MonitoringMapper) ToEntity(r *model.Monitoring) *entity.Monitoring {
	if r == nil {
		return nil
	}
	options := map[string]bool{}
	if len(r.Options) > 0 {
		// Corrupt option payloads degrade to an empty set rather than failing
		// a read path.
		_ = json.Unmarshal(r.Options, &options)
	}
	return &entity.Monitoring{
		Id:        r.Id,
		SessionID: r.SessionID,
		Group:     r.Group,
		Key:       r.Key,
		Value:     r.Value,
		Options:   options,
		CreatedAt: r.CreatedAt,
	}
}

func (m *MonitoringMapper) ToModel(r *entity.Monitoring) *model.Monitoring {
	if r == nil {
		return nil
	}
	options, _ := json.Marshal(r.Options)
	return &model.Monitoring{
		Id:        r.Id,
		SessionID: r.SessionID,
		Group:     r.Group,
		Key:       r.Key,
		Value:     r.Value,
		Options:   datatypes.JSON(options),
		CreatedAt: r.CreatedAt,
	}
}

func (m *MonitoringMapper) ToEntities(rows []*model.Monitoring) []*entity.Monitoring {
	entities := make([]*entity.Monitoring, len(rows))
	for i, r := range rows {
		entities[i] = m.ToEntity(r)
	}
	return entities
}

func (m *MonitoringMapper) ToModels(rows []*entity.Monitoring) []*model.Monitoring {
	models := make([]*model.Monitoring, len(rows))
	for i, r := range rows {
		models[i] = m.ToModel(r)
	}
	return models
}

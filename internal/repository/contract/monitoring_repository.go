package contract

import (
	"context"

	"github.com/google/uuid"

	"counseling-be/internal/entity"
	"counseling-be/internal/repository/specification"
)

type MonitoringRepository interface {
	CreateAll(ctx context.Context, rows []*entity.Monitoring) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Monitoring, error)
	DeleteBySessionID(ctx context.Context, sessionID uuid.UUID) error
}

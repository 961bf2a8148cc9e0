package contract

import (
	"context"

	"counseling-be/internal/entity"
	"counseling-be/internal/repository/specification"
)

type ConsultantRepository interface {
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Consultant, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Consultant, error)

	// FindAgencyRelations resolves the consultant<->agency associations for an
	// agency, consultants preloaded.
	FindAgencyRelations(ctx context.Context, agencyID int64) ([]*entity.ConsultantAgency, error)
}

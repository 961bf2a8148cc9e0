package contract

import (
	"context"

	"github.com/google/uuid"

	"counseling-be/internal/entity"
	"counseling-be/internal/repository/specification"
)

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	Update(ctx context.Context, user *entity.User) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)

	// Agency relations (kept here for cohesion; a user owns its relations)
	CreateUserAgency(ctx context.Context, relation *entity.UserAgency) error
	DeleteUserAgency(ctx context.Context, id uuid.UUID) error
	DeleteUserAgenciesByUserID(ctx context.Context, userID uuid.UUID) error
}

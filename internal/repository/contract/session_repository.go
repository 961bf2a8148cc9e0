package contract

import (
	"context"
	"time"

	"github.com/google/uuid"

	"counseling-be/internal/entity"
	"counseling-be/internal/repository/specification"
)

type SessionRepository interface {
	Create(ctx context.Context, session *entity.Session) error
	Update(ctx context.Context, session *entity.Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error)
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error)

	// CommitEnquiry sets the enquiry timestamp, group id and NEW status in one
	// conditional update guarded on the timestamp still being unset. Returns
	// false when another submission already committed.
	CommitEnquiry(ctx context.Context, sessionID uuid.UUID, groupID string, date time.Time) (bool, error)

	UpdateFeedbackGroupID(ctx context.Context, sessionID uuid.UUID, feedbackGroupID string) error

	CreateSessionData(ctx context.Context, data *entity.SessionData) error
	DeleteSessionDataBySessionID(ctx context.Context, sessionID uuid.UUID) error
}

package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"counseling-be/internal/consultingtype"
	"counseling-be/internal/entity"
	"counseling-be/internal/repository/unitofwork"
)

// GroupName is the chat-backend room name for a session's primary group.
func GroupName(sessionID uuid.UUID) string {
	return fmt.Sprintf("session-%s", sessionID)
}

// FeedbackGroupName is the room name for a session's feedback group.
func FeedbackGroupName(sessionID uuid.UUID) string {
	return fmt.Sprintf("feedback-%s", sessionID)
}

type ISessionService interface {
	// Initialize creates the INITIAL session row for a freshly registered
	// asker. No chat resources exist yet at this point.
	Initialize(ctx context.Context, userID uuid.UUID, agencyID int64, postcode string, t consultingtype.ConsultingType) (*entity.Session, error)

	// SaveSessionData persists registration-supplied metadata for a session.
	SaveSessionData(ctx context.Context, sessionID uuid.UUID, age, state *string) error
}

type sessionService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewSessionService(uowFactory unitofwork.RepositoryFactory) ISessionService {
	return &sessionService{uowFactory: uowFactory}
}

func (s *sessionService) Initialize(ctx context.Context, userID uuid.UUID, agencyID int64, postcode string, t consultingtype.ConsultingType) (*entity.Session, error) {
	session := &entity.Session{
		Id:             uuid.New(),
		UserID:         userID,
		ConsultingType: t,
		Status:         entity.SessionStatusInitial,
		AgencyID:       agencyID,
		Postcode:       postcode,
		CreatedAt:      time.Now(),
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.SessionRepository().Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

func (s *sessionService) SaveSessionData(ctx context.Context, sessionID uuid.UUID, age, state *string) error {
	if age == nil && state == nil {
		return nil
	}
	data := &entity.SessionData{
		Id:        uuid.New(),
		SessionID: sessionID,
		Age:       age,
		State:     state,
		CreatedAt: time.Now(),
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.SessionRepository().CreateSessionData(ctx, data)
}

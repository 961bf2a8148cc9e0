package service

import (
	"context"

	"github.com/google/uuid"

	"counseling-be/internal/entity"
	"counseling-be/internal/repository/unitofwork"
)

type IMonitoringService interface {
	// Initialize writes the unanswered monitoring rows for a fresh session.
	Initialize(ctx context.Context, session *entity.Session) error

	// RollbackInitialize removes the rows again, partial writes included.
	RollbackInitialize(ctx context.Context, sessionID uuid.UUID) error
}

type monitoringService struct {
	uowFactory unitofwork.RepositoryFactory
}

func NewMonitoringService(uowFactory unitofwork.RepositoryFactory) IMonitoringService {
	return &monitoringService{uowFactory: uowFactory}
}

func (s *monitoringService) Initialize(ctx context.Context, session *entity.Session) error {
	rows := entity.InitialMonitoringList(session.Id, session.ConsultingType)
	if len(rows) == 0 {
		return nil
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.MonitoringRepository().CreateAll(ctx, rows)
}

func (s *monitoringService) RollbackInitialize(ctx context.Context, sessionID uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	return uow.MonitoringRepository().DeleteBySessionID(ctx, sessionID)
}

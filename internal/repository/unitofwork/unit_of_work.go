package unitofwork

import (
	"context"

	"counseling-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	UserRepository() contract.UserRepository
	SessionRepository() contract.SessionRepository
	ConsultantRepository() contract.ConsultantRepository
	MonitoringRepository() contract.MonitoringRepository
}

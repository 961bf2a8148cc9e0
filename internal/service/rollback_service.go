package service

import (
	"context"

	"github.com/google/uuid"

	"counseling-be/internal/entity"
	"counseling-be/internal/pkg/logger"
	"counseling-be/internal/repository/unitofwork"
	"counseling-be/pkg/events"
	"counseling-be/pkg/keycloak"
	"counseling-be/pkg/rocketchat"
)

// CompensationLedger records what a workflow run has created so far. It is
// built incrementally, owned by exactly one invocation, and consumed once by
// the rollback service. Append a reference the moment the step that created it
// succeeds, never earlier.
type CompensationLedger struct {
	// GroupID is the primary chat group. GroupCredentials are the credentials
	// that created it; nil means the system account did.
	GroupID          string
	GroupCredentials *rocketchat.Credentials

	// FeedbackGroupID is always system-created.
	FeedbackGroupID string

	// Session under construction or mutation. SessionIsNew decides between
	// deleting the row and resetting its enquiry fields; SessionCommitted
	// marks that the enquiry commit point was reached and must be undone.
	Session          *entity.Session
	SessionIsNew     bool
	SessionCommitted bool

	// MonitoringWritten covers partially written rows too.
	MonitoringWritten bool

	// User is the local account row, UserAgencyID a created agency relation.
	User         *entity.User
	UserAgencyID *uuid.UUID

	// RollBackUserAccount gates deletion of the local user row and the
	// identity-provider account. Set deliberately per branch: enquiry creation
	// for a pre-existing user must never tear down the account.
	RollBackUserAccount bool
	IdentityID          string

	// Reason is the triggering failure, carried for the audit event.
	Reason string
}

type IRollbackService interface {
	// Rollback undoes everything the ledger references, in reverse dependency
	// order. It never fails: every compensating action is guarded on its own
	// and failures are logged for manual remediation.
	Rollback(ctx context.Context, ledger *CompensationLedger)
}

// EventPublisher is the slice of the NATS publisher the services need.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

type rollbackService struct {
	uowFactory unitofwork.RepositoryFactory
	chat       rocketchat.Client
	identity   keycloak.Client
	natsPub    EventPublisher
	logger     logger.ILogger
}

func NewRollbackService(
	uowFactory unitofwork.RepositoryFactory,
	chat rocketchat.Client,
	identity keycloak.Client,
	natsPub EventPublisher,
	sysLogger logger.ILogger,
) IRollbackService {
	return &rollbackService{
		uowFactory: uowFactory,
		chat:       chat,
		identity:   identity,
		natsPub:    natsPub,
		logger:     sysLogger,
	}
}

func (s *rollbackService) Rollback(ctx context.Context, ledger *CompensationLedger) {
	if ledger == nil {
		return
	}
	uow := s.uowFactory.NewUnitOfWork(ctx)

	s.deleteGroup(ctx, ledger)
	s.deleteMonitoring(ctx, uow, ledger)
	s.deleteFeedbackGroup(ctx, ledger)
	s.compensateSession(ctx, uow, ledger)
	s.deleteUserAgency(ctx, uow, ledger)
	s.rollbackUserAccount(ctx, uow, ledger)

	s.publishAudit(ctx, ledger)
}

func (s *rollbackService) deleteGroup(ctx context.Context, ledger *CompensationLedger) {
	if ledger.GroupID == "" {
		return
	}
	var ok bool
	var err error
	if ledger.GroupCredentials != nil {
		ok, err = s.chat.DeleteGroup(ctx, ledger.GroupID, *ledger.GroupCredentials)
	} else {
		ok, err = s.chat.DeleteGroupAsSystemUser(ctx, ledger.GroupID)
	}
	if err != nil || !ok {
		s.logger.Error("rollback", "could not delete chat group, manual cleanup required", map[string]interface{}{
			"group_id": ledger.GroupID,
			"error":    errString(err),
		})
	}
}

func (s *rollbackService) deleteFeedbackGroup(ctx context.Context, ledger *CompensationLedger) {
	if ledger.FeedbackGroupID == "" {
		return
	}
	ok, err := s.chat.DeleteGroupAsSystemUser(ctx, ledger.FeedbackGroupID)
	if err != nil || !ok {
		s.logger.Error("rollback", "could not delete feedback group, manual cleanup required", map[string]interface{}{
			"group_id": ledger.FeedbackGroupID,
			"error":    errString(err),
		})
	}
}

func (s *rollbackService) deleteMonitoring(ctx context.Context, uow unitofwork.UnitOfWork, ledger *CompensationLedger) {
	if !ledger.MonitoringWritten || ledger.Session == nil {
		return
	}
	if err := uow.MonitoringRepository().DeleteBySessionID(ctx, ledger.Session.Id); err != nil {
		s.logger.Error("rollback", "could not delete monitoring rows", map[string]interface{}{
			"session_id": ledger.Session.Id,
			"error":      err.Error(),
		})
	}
}

func (s *rollbackService) compensateSession(ctx context.Context, uow unitofwork.UnitOfWork, ledger *CompensationLedger) {
	if ledger.Session == nil {
		return
	}
	repo := uow.SessionRepository()

	if ledger.SessionIsNew {
		if err := repo.DeleteSessionDataBySessionID(ctx, ledger.Session.Id); err != nil {
			s.logger.Error("rollback", "could not delete session data", map[string]interface{}{
				"session_id": ledger.Session.Id,
				"error":      err.Error(),
			})
		}
		if err := repo.Delete(ctx, ledger.Session.Id); err != nil {
			s.logger.Error("rollback", "could not delete session", map[string]interface{}{
				"session_id": ledger.Session.Id,
				"error":      err.Error(),
			})
		}
		return
	}

	if !ledger.SessionCommitted {
		// Pre-existing session, commit point never reached: nothing persisted.
		return
	}

	session := ledger.Session
	session.Status = entity.SessionStatusInitial
	session.GroupID = nil
	session.FeedbackGroupID = nil
	session.EnquiryMessageDate = nil
	if err := repo.Update(ctx, session); err != nil {
		s.logger.Error("rollback", "could not reset session enquiry fields", map[string]interface{}{
			"session_id": session.Id,
			"error":      err.Error(),
		})
	}
}

func (s *rollbackService) deleteUserAgency(ctx context.Context, uow unitofwork.UnitOfWork, ledger *CompensationLedger) {
	if ledger.UserAgencyID == nil {
		return
	}
	if err := uow.UserRepository().DeleteUserAgency(ctx, *ledger.UserAgencyID); err != nil {
		s.logger.Error("rollback", "could not delete user-agency relation", map[string]interface{}{
			"relation_id": *ledger.UserAgencyID,
			"error":       err.Error(),
		})
	}
}

func (s *rollbackService) rollbackUserAccount(ctx context.Context, uow unitofwork.UnitOfWork, ledger *CompensationLedger) {
	if !ledger.RollBackUserAccount {
		return
	}
	if ledger.User != nil {
		if err := uow.UserRepository().Delete(ctx, ledger.User.Id); err != nil {
			s.logger.Error("rollback", "could not delete local user", map[string]interface{}{
				"user_id": ledger.User.Id,
				"error":   err.Error(),
			})
		}
	}
	if ledger.IdentityID != "" {
		if err := s.identity.RollbackUser(ctx, ledger.IdentityID); err != nil {
			s.logger.Error("rollback", "could not delete identity-provider account, manual cleanup required", map[string]interface{}{
				"identity_id": ledger.IdentityID,
				"error":       err.Error(),
			})
		}
	}
}

func (s *rollbackService) publishAudit(ctx context.Context, ledger *CompensationLedger) {
	if s.natsPub == nil || !ledger.RollBackUserAccount {
		return
	}
	userID := ledger.IdentityID
	if ledger.User != nil {
		userID = ledger.User.Id.String()
	}
	if err := s.natsPub.Publish(ctx, events.NewAccountRolledBack(userID, ledger.Reason)); err != nil {
		s.logger.Warn("rollback", "could not publish rollback audit event", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

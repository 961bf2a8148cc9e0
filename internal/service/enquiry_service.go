package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"counseling-be/internal/consultingtype"
	"counseling-be/internal/entity"
	"counseling-be/internal/pkg/apperror"
	"counseling-be/internal/pkg/logger"
	"counseling-be/internal/pkg/usernames"
	"counseling-be/internal/repository/specification"
	"counseling-be/internal/repository/unitofwork"
	"counseling-be/pkg/rocketchat"
)

type IEnquiryService interface {
	// CreateEnquiryMessage provisions the chat room for a session and posts
	// the asker's first message. The whole sequence compensates itself on
	// failure; callers see exactly one of success, ValidationError,
	// ConflictError or InternalError.
	CreateEnquiryMessage(ctx context.Context, userID, sessionID uuid.UUID, messageText string, callerCreds rocketchat.Credentials) error
}

type enquiryService struct {
	uowFactory      unitofwork.RepositoryFactory
	chat            rocketchat.Client
	typeManager     *consultingtype.Manager
	monitoring      IMonitoringService
	rollbackService IRollbackService
	notifications   IEnquiryNotificationService
	logger          logger.ILogger
}

func NewEnquiryService(
	uowFactory unitofwork.RepositoryFactory,
	chat rocketchat.Client,
	typeManager *consultingtype.Manager,
	monitoring IMonitoringService,
	rollbackService IRollbackService,
	notifications IEnquiryNotificationService,
	sysLogger logger.ILogger,
) IEnquiryService {
	return &enquiryService{
		uowFactory:      uowFactory,
		chat:            chat,
		typeManager:     typeManager,
		monitoring:      monitoring,
		rollbackService: rollbackService,
		notifications:   notifications,
		logger:          sysLogger,
	}
}

func (s *enquiryService) CreateEnquiryMessage(ctx context.Context, userID, sessionID uuid.UUID, messageText string, callerCreds rocketchat.Credentials) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Preconditions are read-only: a failure here never needs compensation.
	session, user, err := s.loadAndGuard(ctx, uow, userID, sessionID)
	if err != nil {
		return err
	}
	if err := s.verifyCallerIdentity(ctx, user, callerCreds); err != nil {
		return err
	}

	settings, err := s.typeManager.GetSettings(session.ConsultingType)
	if err != nil {
		return apperror.Validation("session %s has unknown consulting type", sessionID)
	}

	// Everything below has side effects. The ledger is appended to the moment
	// a step succeeds so a later failure compensates exactly what exists.
	ledger := &CompensationLedger{Session: session}

	groupID, err := s.chat.CreateGroup(ctx, GroupName(sessionID), callerCreds)
	if err != nil {
		return apperror.Internal(err, "could not create chat group for session %s", sessionID)
	}
	ledger.GroupID = groupID
	ledger.GroupCredentials = &callerCreds

	if err := s.attachChatUser(ctx, uow, user, callerCreds.UserID); err != nil {
		return s.fail(ctx, ledger, err, "could not attach chat user id")
	}

	relations, err := uow.ConsultantRepository().FindAgencyRelations(ctx, session.AgencyID)
	if err != nil {
		return s.fail(ctx, ledger, err, "could not resolve agency consultants")
	}

	if err := s.provisionMembers(ctx, groupID, relations); err != nil {
		return s.fail(ctx, ledger, err, "could not provision group members")
	}

	if settings.Monitoring {
		ledger.MonitoringWritten = true
		if err := s.monitoring.Initialize(ctx, session); err != nil {
			return s.fail(ctx, ledger, err, "could not initialize monitoring")
		}
	}

	if err := s.chat.PostMessage(ctx, groupID, callerCreds, messageText); err != nil {
		return s.fail(ctx, ledger, err, "could not post enquiry message")
	}

	// Commit point. The conditional update also closes the double-submission
	// race: only one concurrent invocation can flip the enquiry date.
	now := time.Now()
	committed, err := uow.SessionRepository().CommitEnquiry(ctx, sessionID, groupID, now)
	if err != nil {
		return s.fail(ctx, ledger, err, "could not commit enquiry")
	}
	if !committed {
		s.rollback(ctx, ledger, "lost enquiry commit race")
		return apperror.Conflict("enquiry for session %s was already submitted", sessionID)
	}
	ledger.SessionCommitted = true
	session.GroupID = &groupID
	session.EnquiryMessageDate = &now
	session.Status = entity.SessionStatusNew

	// Post-commit, best effort: a failed welcome message is not worth tearing
	// the enquiry down for.
	if settings.SendWelcomeMessage && settings.WelcomeMessage != "" {
		if err := s.chat.PostMessageAsSystemUser(ctx, groupID, settings.WelcomeMessage); err != nil {
			s.logger.Warn("enquiry", "could not post welcome message", map[string]interface{}{
				"session_id": sessionID,
				"error":      err.Error(),
			})
		}
	}

	if settings.FeedbackChat {
		if err := s.initializeFeedbackChat(ctx, uow, ledger, session, relations, now); err != nil {
			return s.fail(ctx, ledger, err, "could not initialize feedback chat")
		}
	}

	s.notifications.Dispatch(session)

	s.logger.Info("enquiry", "enquiry created", map[string]interface{}{
		"session_id": sessionID,
		"group_id":   groupID,
	})
	return nil
}

func (s *enquiryService) loadAndGuard(ctx context.Context, uow unitofwork.UnitOfWork, userID, sessionID uuid.UUID) (*entity.Session, *entity.User, error) {
	session, err := uow.SessionRepository().FindOne(ctx, specification.ByID{ID: sessionID})
	if err != nil {
		return nil, nil, apperror.Internal(err, "could not load session %s", sessionID)
	}
	if session == nil || session.UserID != userID {
		return nil, nil, apperror.Validation("session %s does not belong to the calling user", sessionID)
	}
	if session.EnquiryMessageDate != nil {
		return nil, nil, apperror.Conflict("enquiry for session %s was already submitted", sessionID)
	}

	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: userID})
	if err != nil {
		return nil, nil, apperror.Internal(err, "could not load user %s", userID)
	}
	if user == nil {
		return nil, nil, apperror.Validation("user %s not found", userID)
	}
	return session, user, nil
}

// verifyCallerIdentity checks that the chat-backend account behind the
// supplied credentials is the same person as the local user. Defends against
// identity spoofing between the two systems.
func (s *enquiryService) verifyCallerIdentity(ctx context.Context, user *entity.User, creds rocketchat.Credentials) error {
	info, err := s.chat.GetUserInfo(ctx, creds.UserID)
	if err != nil {
		return apperror.Internal(err, "could not verify chat identity")
	}
	if info == nil || !usernames.Match(info.Username, user.Username) {
		return apperror.Validation("chat credentials do not match user %s", user.Id)
	}
	return nil
}

func (s *enquiryService) attachChatUser(ctx context.Context, uow unitofwork.UnitOfWork, user *entity.User, rcUserID string) error {
	user.RcUserID = &rcUserID
	return uow.UserRepository().Update(ctx, user)
}

func (s *enquiryService) provisionMembers(ctx context.Context, groupID string, relations []*entity.ConsultantAgency) error {
	if err := s.chat.AddMember(ctx, s.chat.TechnicalUserID(), groupID); err != nil {
		return err
	}
	for _, relation := range relations {
		consultant := relation.Consultant
		if consultant == nil || consultant.RcUserID == "" {
			continue
		}
		if err := s.chat.AddMember(ctx, consultant.RcUserID, groupID); err != nil {
			return err
		}
	}
	return nil
}

// initializeFeedbackChat builds the supervisory room. Any failure inside is a
// hard failure of the whole enquiry: the commit from the main flow is undone
// along with the rooms.
func (s *enquiryService) initializeFeedbackChat(ctx context.Context, uow unitofwork.UnitOfWork, ledger *CompensationLedger, session *entity.Session, relations []*entity.ConsultantAgency, createdAt time.Time) error {
	feedbackGroupID, err := s.chat.CreateGroupAsSystemUser(ctx, FeedbackGroupName(session.Id))
	if err != nil {
		return err
	}
	ledger.FeedbackGroupID = feedbackGroupID

	if err := s.chat.AddMember(ctx, s.chat.SystemUserID(), feedbackGroupID); err != nil {
		return err
	}

	for _, relation := range relations {
		consultant := relation.Consultant
		if consultant == nil || consultant.RcUserID == "" || !consultant.ViewAllFeedback {
			continue
		}
		if err := s.chat.AddMember(ctx, consultant.RcUserID, feedbackGroupID); err != nil {
			return err
		}
	}

	// Join/invite noise from provisioning must not survive in the room. A
	// failed purge fails the sub-step, it is not cosmetic-optional.
	if err := s.chat.PurgeSystemMessages(ctx, feedbackGroupID, createdAt, createdAt.Add(24*time.Hour)); err != nil {
		return err
	}

	if err := uow.SessionRepository().UpdateFeedbackGroupID(ctx, session.Id, feedbackGroupID); err != nil {
		return err
	}
	session.FeedbackGroupID = &feedbackGroupID
	return nil
}

func (s *enquiryService) fail(ctx context.Context, ledger *CompensationLedger, cause error, msg string) error {
	s.rollback(ctx, ledger, msg)
	return apperror.Internal(cause, "%s", msg)
}

func (s *enquiryService) rollback(ctx context.Context, ledger *CompensationLedger, reason string) {
	ledger.Reason = reason
	s.logger.Warn("enquiry", "rolling back enquiry workflow", map[string]interface{}{
		"session_id": ledger.Session.Id,
		"group_id":   ledger.GroupID,
		"reason":     reason,
	})
	s.rollbackService.Rollback(ctx, ledger)
}

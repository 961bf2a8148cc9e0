package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"counseling-be/internal/consultingtype"
	"counseling-be/internal/dto"
	"counseling-be/internal/entity"
	"counseling-be/internal/pkg/apperror"
	"counseling-be/internal/pkg/logger"
	"counseling-be/internal/pkg/usernames"
	"counseling-be/internal/repository/specification"
	"counseling-be/internal/repository/unitofwork"
	"counseling-be/pkg/agency"
	"counseling-be/pkg/events"
	"counseling-be/pkg/keycloak"
	"counseling-be/pkg/rocketchat"
)

// allocation attempts before giving up on finding a free anonymous name.
const maxUsernameAllocations = 5

type IUserAccountService interface {
	// CreateAccount registers an asker across the identity provider, the
	// local store and, depending on the consulting-type shape, either a
	// session or a chat/agency relation. Compensates on failure.
	CreateAccount(ctx context.Context, req *dto.RegisterUserRequest) (*dto.RegisterUserResponse, error)
}

type userAccountService struct {
	uowFactory      unitofwork.RepositoryFactory
	identity        keycloak.Client
	chat            rocketchat.Client
	agencies        agency.Client
	typeManager     *consultingtype.Manager
	sessionService  ISessionService
	allocator       IUsernameAllocator
	rollbackService IRollbackService
	natsPub         EventPublisher
	logger          logger.ILogger
}

func NewUserAccountService(
	uowFactory unitofwork.RepositoryFactory,
	identity keycloak.Client,
	chat rocketchat.Client,
	agencies agency.Client,
	typeManager *consultingtype.Manager,
	sessionService ISessionService,
	allocator IUsernameAllocator,
	rollbackService IRollbackService,
	natsPub EventPublisher,
	sysLogger logger.ILogger,
) IUserAccountService {
	return &userAccountService{
		uowFactory:      uowFactory,
		identity:        identity,
		chat:            chat,
		agencies:        agencies,
		typeManager:     typeManager,
		sessionService:  sessionService,
		allocator:       allocator,
		rollbackService: rollbackService,
		natsPub:         natsPub,
		logger:          sysLogger,
	}
}

func (s *userAccountService) CreateAccount(ctx context.Context, req *dto.RegisterUserRequest) (*dto.RegisterUserResponse, error) {
	t, err := consultingtype.Parse(req.ConsultingType)
	if err != nil {
		return nil, apperror.Validation("unknown consulting type %q", req.ConsultingType)
	}
	settings, err := s.typeManager.GetSettings(t)
	if err != nil {
		return nil, apperror.Validation("unknown consulting type %q", req.ConsultingType)
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)

	// Read-only preconditions first; a failure here never needs compensation.
	if err := s.verifyAgency(ctx, req.AgencyID, t); err != nil {
		return nil, err
	}
	username, err := s.resolveUsername(ctx, uow, req.Username)
	if err != nil {
		return nil, err
	}

	// From here on every step appends to the ledger before the next one runs.
	ledger := &CompensationLedger{RollBackUserAccount: true}

	created, err := s.identity.CreateUser(ctx, username, req.Email, "")
	if err != nil {
		// Conflict short-circuits: the provider created nothing, so there is
		// nothing to compensate.
		if errors.Is(err, keycloak.ErrUsernameConflict) {
			return nil, apperror.Conflict("username %q is already taken", usernames.Decode(username))
		}
		if errors.Is(err, keycloak.ErrEmailConflict) {
			return nil, apperror.Conflict("email address is already in use")
		}
		return nil, apperror.Internal(err, "could not create identity-provider account")
	}
	ledger.IdentityID = created.ID

	for _, role := range settings.Roles {
		if err := s.identity.UpdateRole(ctx, created.ID, role); err != nil {
			return nil, s.fail(ctx, ledger, err, "could not assign role")
		}
	}
	if err := s.identity.UpdatePassword(ctx, created.ID, req.Password); err != nil {
		return nil, s.fail(ctx, ledger, err, "could not set password")
	}

	email := req.Email
	if email == "" {
		email, err = s.identity.UpdateDummyEmail(ctx, created.ID)
		if err != nil {
			return nil, s.fail(ctx, ledger, err, "could not assign placeholder email")
		}
	}

	user := &entity.User{
		Id:             uuid.New(),
		IdentityID:     created.ID,
		Username:       username,
		Email:          email,
		LanguageFormal: settings.LanguageFormal,
		CreatedAt:      time.Now(),
	}
	if err := uow.UserRepository().Create(ctx, user); err != nil {
		return nil, s.fail(ctx, ledger, err, "could not persist local user")
	}
	ledger.User = user

	response := &dto.RegisterUserResponse{Username: usernames.Decode(username)}

	switch settings.Shape {
	case consultingtype.ShapeGroupChat:
		if err := s.initializeChatRelation(ctx, uow, ledger, user, username, req); err != nil {
			return nil, err
		}
	default:
		session, err := s.sessionService.Initialize(ctx, user.Id, req.AgencyID, req.Postcode, t)
		if err != nil {
			return nil, s.fail(ctx, ledger, err, "could not initialize session")
		}
		ledger.Session = session
		ledger.SessionIsNew = true

		if err := s.sessionService.SaveSessionData(ctx, session.Id, req.Age, req.State); err != nil {
			return nil, s.fail(ctx, ledger, err, "could not persist session data")
		}
		response.SessionID = session.Id.String()
	}

	if s.natsPub != nil {
		event := events.NewUserRegistered(user.Id.String(), usernames.Decode(username), int(t))
		if err := s.natsPub.Publish(ctx, event); err != nil {
			s.logger.Warn("registration", "could not publish registration event", map[string]interface{}{
				"user_id": user.Id,
				"error":   err.Error(),
			})
		}
	}

	s.logger.Info("registration", "account created", map[string]interface{}{
		"user_id":         user.Id,
		"consulting_type": t.String(),
	})
	return response, nil
}

func (s *userAccountService) verifyAgency(ctx context.Context, agencyID int64, t consultingtype.ConsultingType) error {
	found, err := s.agencies.GetAgency(ctx, agencyID)
	if err != nil {
		return apperror.Internal(err, "could not resolve agency %d", agencyID)
	}
	if found == nil {
		return apperror.Validation("agency %d does not exist", agencyID)
	}
	if found.ConsultingType != int(t) {
		return apperror.Validation("agency %d does not offer consulting type %s", agencyID, t)
	}
	return nil
}

// resolveUsername encodes the chosen name for the chat backend's charset, or
// allocates an anonymous one when none was chosen, re-checking availability
// after each allocation.
func (s *userAccountService) resolveUsername(ctx context.Context, uow unitofwork.UnitOfWork, chosen string) (string, error) {
	if chosen != "" {
		encoded := usernames.Encode(chosen)
		count, err := uow.UserRepository().Count(ctx, specification.ByUsername{Username: encoded})
		if err != nil {
			return "", apperror.Internal(err, "could not check username availability")
		}
		if count > 0 {
			return "", apperror.Conflict("username %q is already taken", chosen)
		}
		return encoded, nil
	}

	for i := 0; i < maxUsernameAllocations; i++ {
		candidate, err := s.allocator.Next(ctx)
		if err != nil {
			return "", apperror.Internal(err, "could not allocate anonymous username")
		}
		encoded := usernames.Encode(candidate)
		count, err := uow.UserRepository().Count(ctx, specification.ByUsername{Username: encoded})
		if err != nil {
			return "", apperror.Internal(err, "could not check username availability")
		}
		if count == 0 {
			return encoded, nil
		}
	}
	return "", apperror.Internal(nil, "could not find a free anonymous username")
}

// initializeChatRelation is the group-chat-shaped branch: log the fresh
// account into the chat backend once so the backend finalizes it, record the
// chat user id, then bind the user to the agency.
func (s *userAccountService) initializeChatRelation(ctx context.Context, uow unitofwork.UnitOfWork, ledger *CompensationLedger, user *entity.User, username string, req *dto.RegisterUserRequest) error {
	login, err := s.chat.LoginFirstTime(ctx, username, req.Password)
	if err != nil {
		return s.fail(ctx, ledger, err, "could not log user into chat backend")
	}
	if login.UserID == "" || login.Token == "" {
		return s.fail(ctx, ledger, errors.New("incomplete chat login response"), "could not log user into chat backend")
	}

	user.RcUserID = &login.UserID
	if err := uow.UserRepository().Update(ctx, user); err != nil {
		return s.fail(ctx, ledger, err, "could not persist chat user id")
	}

	relation := &entity.UserAgency{
		Id:        uuid.New(),
		UserID:    user.Id,
		AgencyID:  req.AgencyID,
		CreatedAt: time.Now(),
	}
	if err := uow.UserRepository().CreateUserAgency(ctx, relation); err != nil {
		return s.fail(ctx, ledger, err, "could not persist user-agency relation")
	}
	ledger.UserAgencyID = &relation.Id

	if err := s.chat.Logout(ctx, rocketchat.Credentials{UserID: login.UserID, Token: login.Token}); err != nil {
		s.logger.Warn("registration", "could not log user out of chat backend", map[string]interface{}{
			"user_id": user.Id,
			"error":   err.Error(),
		})
	}
	return nil
}

func (s *userAccountService) fail(ctx context.Context, ledger *CompensationLedger, cause error, msg string) error {
	ledger.Reason = msg
	s.logger.Warn("registration", "rolling back registration workflow", map[string]interface{}{
		"identity_id": ledger.IdentityID,
		"reason":      msg,
	})
	s.rollbackService.Rollback(ctx, ledger)
	return apperror.Internal(cause, "%s", msg)
}

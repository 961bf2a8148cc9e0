package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"counseling-be/internal/consultingtype"
	"counseling-be/internal/dto"
	"counseling-be/internal/pkg/apperror"
	"counseling-be/internal/pkg/usernames"
	"counseling-be/pkg/agency"
)

type accountHarness struct {
	store    *fakeStore
	chat     *fakeChat
	identity *fakeIdentity
	service  IUserAccountService
}

func newAccountHarness() *accountHarness {
	store := newFakeStore()
	chat := newFakeChat()
	identity := newFakeIdentity()

	agencies := &fakeAgencyClient{agencies: map[int64]*agency.Agency{
		42: {ID: 42, Name: "Suchtberatung Nord", ConsultingType: int(consultingtype.Sucht)},
		77: {ID: 77, Name: "Kreuzbund Gruppe", ConsultingType: int(consultingtype.Kreuzbund)},
	}}

	typeManager := consultingtype.NewManager()
	rollback := NewRollbackService(store, chat, identity, nil, nopLogger{})
	sessions := NewSessionService(store)
	allocator := NewMemoryUsernameAllocator("Ratsuchende_r ")

	svc := NewUserAccountService(
		store,
		identity,
		chat,
		agencies,
		typeManager,
		sessions,
		allocator,
		rollback,
		nil,
		nopLogger{},
	)

	return &accountHarness{store: store, chat: chat, identity: identity, service: svc}
}

func registerRequest(consultingType string, agencyID int64) *dto.RegisterUserRequest {
	return &dto.RegisterUserRequest{
		Username:       "asker1",
		Password:       "correct horse",
		ConsultingType: consultingType,
		AgencyID:       agencyID,
		Postcode:       "12345",
		TermsAccepted:  true,
	}
}

func TestCreateAccountSessionShape(t *testing.T) {
	h := newAccountHarness()

	res, err := h.service.CreateAccount(context.Background(), registerRequest("SUCHT", 42))
	require.NoError(t, err)
	require.NotNil(t, res)
	assert.Equal(t, "asker1", res.Username)
	assert.NotEmpty(t, res.SessionID)

	// One identity-provider account, one local user, one session.
	assert.Len(t, h.identity.created, 1)
	assert.Len(t, h.store.users, 1)
	assert.Len(t, h.store.sessions, 1)

	// Session shape never creates a user-agency relation.
	assert.Empty(t, h.store.userAgencies)

	for _, user := range h.store.users {
		assert.Equal(t, usernames.Encode("asker1"), user.Username)
		assert.NotEmpty(t, user.Email, "placeholder email expected when none supplied")
	}
	for _, session := range h.store.sessions {
		assert.Equal(t, consultingtype.Sucht, session.ConsultingType)
		assert.Equal(t, int64(42), session.AgencyID)
		assert.Nil(t, session.EnquiryMessageDate)
	}
}

func TestCreateAccountGroupChatShape(t *testing.T) {
	h := newAccountHarness()

	res, err := h.service.CreateAccount(context.Background(), registerRequest("KREUZBUND", 77))
	require.NoError(t, err)
	assert.Empty(t, res.SessionID)

	// Group-chat shape never creates a session.
	assert.Empty(t, h.store.sessions)
	assert.Len(t, h.store.userAgencies, 1)

	// The chat-backend user id from first login is recorded.
	for _, user := range h.store.users {
		require.NotNil(t, user.RcUserID)
		assert.True(t, user.LanguageFormal)
	}
	assert.Equal(t, 1, h.chat.counts["LoginFirstTime"])
	assert.Equal(t, 1, h.chat.counts["Logout"])
}

func TestCreateAccountUsernameConflictShortCircuits(t *testing.T) {
	h := newAccountHarness()
	h.identity.conflict = true

	_, err := h.service.CreateAccount(context.Background(), registerRequest("SUCHT", 42))
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))

	// Nothing was created, so nothing may be compensated.
	assert.Empty(t, h.store.users)
	assert.Empty(t, h.store.sessions)
	assert.Empty(t, h.identity.rolledBack)
	assert.Equal(t, 0, h.chat.totalCalls())
}

func TestCreateAccountAgencyMismatch(t *testing.T) {
	h := newAccountHarness()

	// Agency 77 offers KREUZBUND, not SUCHT.
	_, err := h.service.CreateAccount(context.Background(), registerRequest("SUCHT", 77))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, h.identity.created)

	_, err = h.service.CreateAccount(context.Background(), registerRequest("SUCHT", 999))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
	assert.Empty(t, h.identity.created)
}

func TestCreateAccountLocalUsernameTaken(t *testing.T) {
	h := newAccountHarness()

	_, err := h.service.CreateAccount(context.Background(), registerRequest("SUCHT", 42))
	require.NoError(t, err)

	_, err = h.service.CreateAccount(context.Background(), registerRequest("SUCHT", 42))
	require.Error(t, err)
	assert.True(t, apperror.IsConflict(err))
	assert.Len(t, h.identity.created, 1, "second attempt must not reach the identity provider")
}

func TestCreateAccountAnonymousUsername(t *testing.T) {
	h := newAccountHarness()
	req := registerRequest("SUCHT", 42)
	req.Username = ""

	res, err := h.service.CreateAccount(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "Ratsuchende_r 1", res.Username)

	for _, user := range h.store.users {
		assert.Equal(t, usernames.Encode("Ratsuchende_r 1"), user.Username)
	}
}

func TestCreateAccountRollsBackOnFailure(t *testing.T) {
	tests := []struct {
		name           string
		consultingType string
		agencyID       int64
		setup          func(h *accountHarness)
	}{
		{
			name:           "role assignment fails",
			consultingType: "SUCHT",
			agencyID:       42,
			setup:          func(h *accountHarness) { h.identity.failRole = true },
		},
		{
			name:           "password update fails",
			consultingType: "SUCHT",
			agencyID:       42,
			setup:          func(h *accountHarness) { h.identity.failPassword = true },
		},
		{
			name:           "placeholder email fails",
			consultingType: "SUCHT",
			agencyID:       42,
			setup:          func(h *accountHarness) { h.identity.failDummy = true },
		},
		{
			name:           "local user insert fails",
			consultingType: "SUCHT",
			agencyID:       42,
			setup:          func(h *accountHarness) { h.store.failUserCreate = true },
		},
		{
			name:           "session insert fails",
			consultingType: "SUCHT",
			agencyID:       42,
			setup:          func(h *accountHarness) { h.store.failSessionCreate = true },
		},
		{
			name:           "chat first login fails",
			consultingType: "KREUZBUND",
			agencyID:       77,
			setup:          func(h *accountHarness) { h.chat.failures["LoginFirstTime"] = -1 },
		},
		{
			name:           "chat user id persist fails",
			consultingType: "KREUZBUND",
			agencyID:       77,
			setup:          func(h *accountHarness) { h.store.failUserUpdate = true },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newAccountHarness()
			tt.setup(h)

			_, err := h.service.CreateAccount(context.Background(), registerRequest(tt.consultingType, tt.agencyID))
			require.Error(t, err)
			assert.True(t, apperror.IsInternal(err), "unexpected error kind: %v", err)

			// The identity-provider account was torn down again.
			assert.Equal(t, h.identity.created, h.identity.rolledBack)

			// No local state survives.
			assert.Empty(t, h.store.users)
			assert.Empty(t, h.store.sessions)
			assert.Empty(t, h.store.userAgencies)
		})
	}
}

package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"counseling-be/internal/entity"
)

// A failing compensating action must not stop the remaining ones.
func TestRollbackContinuesPastFailures(t *testing.T) {
	store := newFakeStore()
	chat := newFakeChat()
	identity := newFakeIdentity()

	chat.groups["grp-1"] = "session-x"
	chat.groups["fb-1"] = "feedback-x"
	chat.failures["DeleteGroup"] = -1 // primary group deletion keeps failing

	sessionID := uuid.New()
	userID := uuid.New()
	store.sessions[sessionID] = &entity.Session{Id: sessionID, UserID: userID}
	store.users[userID] = &entity.User{Id: userID, IdentityID: "idp-9"}
	store.monitoring[sessionID] = []*entity.Monitoring{{Id: uuid.New(), SessionID: sessionID}}

	svc := NewRollbackService(store, chat, identity, nil, nopLogger{})

	svc.Rollback(context.Background(), &CompensationLedger{
		GroupID:             "grp-1",
		FeedbackGroupID:     "fb-1",
		Session:             store.sessions[sessionID],
		SessionIsNew:        true,
		MonitoringWritten:   true,
		User:                store.users[userID],
		IdentityID:          "idp-9",
		RollBackUserAccount: true,
	})

	// The primary group could not be deleted, everything else still ran.
	assert.Contains(t, chat.groups, "grp-1")
	assert.NotContains(t, chat.groups, "fb-1")
	assert.Empty(t, store.monitoring[sessionID])
	assert.Empty(t, store.sessions)
	assert.Empty(t, store.users)
	assert.Equal(t, []string{"idp-9"}, identity.rolledBack)
}

func TestRollbackWithEmptyLedgerIsNoOp(t *testing.T) {
	store := newFakeStore()
	chat := newFakeChat()
	identity := newFakeIdentity()
	svc := NewRollbackService(store, chat, identity, nil, nopLogger{})

	svc.Rollback(context.Background(), &CompensationLedger{})
	svc.Rollback(context.Background(), nil)

	assert.Equal(t, 0, chat.totalCalls())
	assert.Empty(t, identity.rolledBack)
}

func TestRollbackResetsCommittedSession(t *testing.T) {
	store := newFakeStore()
	chat := newFakeChat()
	identity := newFakeIdentity()

	sessionID := uuid.New()
	groupID := "grp-1"
	date := time.Now()
	store.sessions[sessionID] = &entity.Session{
		Id:                 sessionID,
		Status:             entity.SessionStatusNew,
		GroupID:            &groupID,
		EnquiryMessageDate: &date,
	}

	svc := NewRollbackService(store, chat, identity, nil, nopLogger{})
	svc.Rollback(context.Background(), &CompensationLedger{
		Session:          store.sessions[sessionID],
		SessionCommitted: true,
	})

	session := store.sessions[sessionID]
	assert.Equal(t, entity.SessionStatusInitial, session.Status)
	assert.Nil(t, session.GroupID)
	assert.Nil(t, session.FeedbackGroupID)
	assert.Nil(t, session.EnquiryMessageDate)
}

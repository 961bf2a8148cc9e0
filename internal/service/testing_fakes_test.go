package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"counseling-be/internal/entity"
	"counseling-be/internal/repository/contract"
	"counseling-be/internal/repository/specification"
	"counseling-be/internal/repository/unitofwork"
	"counseling-be/pkg/agency"
	"counseling-be/pkg/keycloak"
	"counseling-be/pkg/rocketchat"
)

// fakeStore is an in-memory stand-in for the whole persistence layer. It
// implements both the repository factory and the unit of work so services can
// run unmodified against it.
type fakeStore struct {
	mu sync.Mutex

	users        map[uuid.UUID]*entity.User
	userAgencies map[uuid.UUID]*entity.UserAgency
	sessions     map[uuid.UUID]*entity.Session
	sessionData  map[uuid.UUID]*entity.SessionData
	monitoring   map[uuid.UUID][]*entity.Monitoring
	relations    []*entity.ConsultantAgency

	failUserCreate        bool
	failUserUpdate        bool
	failSessionCreate     bool
	failSessionDataCreate bool
	failMonitoringCreate  bool
	failCommit            bool
	failFeedbackUpdate    bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		users:        make(map[uuid.UUID]*entity.User),
		userAgencies: make(map[uuid.UUID]*entity.UserAgency),
		sessions:     make(map[uuid.UUID]*entity.Session),
		sessionData:  make(map[uuid.UUID]*entity.SessionData),
		monitoring:   make(map[uuid.UUID][]*entity.Monitoring),
	}
}

func (s *fakeStore) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork { return s }

func (s *fakeStore) Begin(ctx context.Context) error { return nil }
func (s *fakeStore) Commit() error                   { return nil }
func (s *fakeStore) Rollback() error                 { return nil }

func (s *fakeStore) UserRepository() contract.UserRepository       { return &fakeUserRepo{s} }
func (s *fakeStore) SessionRepository() contract.SessionRepository { return &fakeSessionRepo{s} }
func (s *fakeStore) ConsultantRepository() contract.ConsultantRepository {
	return &fakeConsultantRepo{s}
}
func (s *fakeStore) MonitoringRepository() contract.MonitoringRepository {
	return &fakeMonitoringRepo{s}
}

type fakeUserRepo struct{ s *fakeStore }

func (r *fakeUserRepo) Create(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUserCreate {
		return errors.New("user insert failed")
	}
	copied := *user
	r.s.users[user.Id] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, user *entity.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failUserUpdate {
		return errors.New("user update failed")
	}
	copied := *user
	r.s.users[user.Id] = &copied
	return nil
}

func (r *fakeUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.users, id)
	return nil
}

func (r *fakeUserRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, user := range r.s.users {
		if matchUser(user, specs) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for _, user := range r.s.users {
		if matchUser(user, specs) {
			n++
		}
	}
	return n, nil
}

func matchUser(user *entity.User, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if user.Id != s.ID {
				return false
			}
		case specification.ByUsername:
			if user.Username != s.Username {
				return false
			}
		case specification.ByIdentityID:
			if user.IdentityID != s.IdentityID {
				return false
			}
		}
	}
	return true
}

func (r *fakeUserRepo) CreateUserAgency(ctx context.Context, relation *entity.UserAgency) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *relation
	r.s.userAgencies[relation.Id] = &copied
	return nil
}

func (r *fakeUserRepo) DeleteUserAgency(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.userAgencies, id)
	return nil
}

func (r *fakeUserRepo) DeleteUserAgenciesByUserID(ctx context.Context, userID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, relation := range r.s.userAgencies {
		if relation.UserID == userID {
			delete(r.s.userAgencies, id)
		}
	}
	return nil
}

type fakeSessionRepo struct{ s *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSessionCreate {
		return errors.New("session insert failed")
	}
	copied := *session
	r.s.sessions[session.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) Update(ctx context.Context, session *entity.Session) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	copied := *session
	r.s.sessions[session.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.sessions, id)
	return nil
}

func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, session := range r.s.sessions {
		if matchSession(session, specs) {
			copied := *session
			return &copied, nil
		}
	}
	return nil, nil
}

func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Session, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Session
	for _, session := range r.s.sessions {
		if matchSession(session, specs) {
			copied := *session
			out = append(out, &copied)
		}
	}
	return out, nil
}

func matchSession(session *entity.Session, specs []specification.Specification) bool {
	for _, spec := range specs {
		switch s := spec.(type) {
		case specification.ByID:
			if session.Id != s.ID {
				return false
			}
		case specification.OwnedByUser:
			if session.UserID != s.UserID {
				return false
			}
		case specification.ByAgencyID:
			if session.AgencyID != s.AgencyID {
				return false
			}
		}
	}
	return true
}

func (r *fakeSessionRepo) CommitEnquiry(ctx context.Context, sessionID uuid.UUID, groupID string, date time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failCommit {
		return false, errors.New("commit failed")
	}
	session, ok := r.s.sessions[sessionID]
	if !ok || session.EnquiryMessageDate != nil {
		return false, nil
	}
	session.EnquiryMessageDate = &date
	session.GroupID = &groupID
	session.Status = entity.SessionStatusNew
	return true, nil
}

func (r *fakeSessionRepo) UpdateFeedbackGroupID(ctx context.Context, sessionID uuid.UUID, feedbackGroupID string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failFeedbackUpdate {
		return errors.New("feedback update failed")
	}
	session, ok := r.s.sessions[sessionID]
	if !ok {
		return errors.New("session not found")
	}
	session.FeedbackGroupID = &feedbackGroupID
	return nil
}

func (r *fakeSessionRepo) CreateSessionData(ctx context.Context, data *entity.SessionData) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failSessionDataCreate {
		return errors.New("session data insert failed")
	}
	copied := *data
	r.s.sessionData[data.Id] = &copied
	return nil
}

func (r *fakeSessionRepo) DeleteSessionDataBySessionID(ctx context.Context, sessionID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for id, data := range r.s.sessionData {
		if data.SessionID == sessionID {
			delete(r.s.sessionData, id)
		}
	}
	return nil
}

type fakeConsultantRepo struct{ s *fakeStore }

func (r *fakeConsultantRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Consultant, error) {
	return nil, nil
}

func (r *fakeConsultantRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Consultant, error) {
	return nil, nil
}

func (r *fakeConsultantRepo) FindAgencyRelations(ctx context.Context, agencyID int64) ([]*entity.ConsultantAgency, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.ConsultantAgency
	for _, relation := range r.s.relations {
		if relation.AgencyID == agencyID {
			out = append(out, relation)
		}
	}
	return out, nil
}

type fakeMonitoringRepo struct{ s *fakeStore }

func (r *fakeMonitoringRepo) CreateAll(ctx context.Context, rows []*entity.Monitoring) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.failMonitoringCreate {
		// Simulate a partial write before failing.
		if len(rows) > 0 {
			r.s.monitoring[rows[0].SessionID] = rows[:1]
		}
		return errors.New("monitoring insert failed")
	}
	if len(rows) > 0 {
		r.s.monitoring[rows[0].SessionID] = append(r.s.monitoring[rows[0].SessionID], rows...)
	}
	return nil
}

func (r *fakeMonitoringRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Monitoring, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var out []*entity.Monitoring
	for _, rows := range r.s.monitoring {
		out = append(out, rows...)
	}
	return out, nil
}

func (r *fakeMonitoringRepo) DeleteBySessionID(ctx context.Context, sessionID uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.monitoring, sessionID)
	return nil
}

// fakeChat is a scriptable chat backend. failures maps a method name to the
// 1-based call number that should fail; -1 fails every call.
type fakeChat struct {
	mu       sync.Mutex
	seq      int
	groups   map[string]string
	members  map[string][]string
	posted   map[string][]string
	purged   []string
	userInfo map[string]string
	failures map[string]int
	counts   map[string]int
	calls    int
}

func newFakeChat() *fakeChat {
	return &fakeChat{
		groups:   make(map[string]string),
		members:  make(map[string][]string),
		posted:   make(map[string][]string),
		userInfo: make(map[string]string),
		failures: make(map[string]int),
		counts:   make(map[string]int),
	}
}

func (f *fakeChat) hit(method string) error {
	f.calls++
	f.counts[method]++
	if n, ok := f.failures[method]; ok && (n == -1 || n == f.counts[method]) {
		return fmt.Errorf("%s failed", method)
	}
	return nil
}

func (f *fakeChat) CreateGroup(ctx context.Context, name string, creds rocketchat.Credentials) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("CreateGroup"); err != nil {
		return "", err
	}
	f.seq++
	id := fmt.Sprintf("grp-%d", f.seq)
	f.groups[id] = name
	return id, nil
}

func (f *fakeChat) CreateGroupAsSystemUser(ctx context.Context, name string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("CreateGroupAsSystemUser"); err != nil {
		return "", err
	}
	f.seq++
	id := fmt.Sprintf("fb-%d", f.seq)
	f.groups[id] = name
	return id, nil
}

func (f *fakeChat) DeleteGroup(ctx context.Context, groupID string, creds rocketchat.Credentials) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteGroup"); err != nil {
		return false, err
	}
	delete(f.groups, groupID)
	return true, nil
}

func (f *fakeChat) DeleteGroupAsSystemUser(ctx context.Context, groupID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("DeleteGroupAsSystemUser"); err != nil {
		return false, err
	}
	delete(f.groups, groupID)
	return true, nil
}

func (f *fakeChat) AddMember(ctx context.Context, userID, groupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("AddMember"); err != nil {
		return err
	}
	f.members[groupID] = append(f.members[groupID], userID)
	return nil
}

func (f *fakeChat) RemoveMember(ctx context.Context, userID, groupID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hit("RemoveMember")
}

func (f *fakeChat) PostMessage(ctx context.Context, groupID string, creds rocketchat.Credentials, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("PostMessage"); err != nil {
		return err
	}
	f.posted[groupID] = append(f.posted[groupID], text)
	return nil
}

func (f *fakeChat) PostMessageAsSystemUser(ctx context.Context, groupID, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("PostMessageAsSystemUser"); err != nil {
		return err
	}
	f.posted[groupID] = append(f.posted[groupID], text)
	return nil
}

func (f *fakeChat) LoginFirstTime(ctx context.Context, username, password string) (*rocketchat.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("LoginFirstTime"); err != nil {
		return nil, err
	}
	return &rocketchat.LoginResult{UserID: "rc-" + username, Token: "tok-" + username}, nil
}

func (f *fakeChat) Logout(ctx context.Context, creds rocketchat.Credentials) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hit("Logout")
}

func (f *fakeChat) GetUserInfo(ctx context.Context, userID string) (*rocketchat.UserInfo, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("GetUserInfo"); err != nil {
		return nil, err
	}
	username, ok := f.userInfo[userID]
	if !ok {
		return nil, fmt.Errorf("no such chat user %s", userID)
	}
	return &rocketchat.UserInfo{UserID: userID, Username: username}, nil
}

func (f *fakeChat) PurgeSystemMessages(ctx context.Context, groupID string, oldest, latest time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.hit("PurgeSystemMessages"); err != nil {
		return err
	}
	f.purged = append(f.purged, groupID)
	return nil
}

func (f *fakeChat) SystemUserID() string    { return "sys" }
func (f *fakeChat) TechnicalUserID() string { return "tech" }

func (f *fakeChat) totalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// fakeIdentity is a scriptable identity provider.
type fakeIdentity struct {
	mu           sync.Mutex
	seq          int
	created      []string
	rolledBack   []string
	roles        map[string][]string
	conflict     bool
	failRole     bool
	failPassword bool
	failDummy    bool
}

func newFakeIdentity() *fakeIdentity {
	return &fakeIdentity{roles: make(map[string][]string)}
}

func (f *fakeIdentity) CreateUser(ctx context.Context, username, email, password string) (*keycloak.CreatedUser, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conflict {
		return nil, keycloak.ErrUsernameConflict
	}
	f.seq++
	id := fmt.Sprintf("idp-%d", f.seq)
	f.created = append(f.created, id)
	return &keycloak.CreatedUser{ID: id}, nil
}

func (f *fakeIdentity) UpdateRole(ctx context.Context, userID, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failRole {
		return errors.New("role update failed")
	}
	f.roles[userID] = append(f.roles[userID], role)
	return nil
}

func (f *fakeIdentity) UpdatePassword(ctx context.Context, userID, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failPassword {
		return errors.New("password update failed")
	}
	return nil
}

func (f *fakeIdentity) UpdateDummyEmail(ctx context.Context, userID string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDummy {
		return "", errors.New("dummy email failed")
	}
	return userID + "@dummy.local", nil
}

func (f *fakeIdentity) RollbackUser(ctx context.Context, userID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rolledBack = append(f.rolledBack, userID)
	return nil
}

type fakeAgencyClient struct {
	agencies map[int64]*agency.Agency
}

func (f *fakeAgencyClient) GetAgency(ctx context.Context, agencyID int64) (*agency.Agency, error) {
	return f.agencies[agencyID], nil
}

type fakeNotifier struct {
	mu         sync.Mutex
	dispatched []*entity.Session
}

func (f *fakeNotifier) Dispatch(session *entity.Session) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dispatched = append(f.dispatched, session)
}

func (f *fakeNotifier) Start() error { return nil }

func (f *fakeNotifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.dispatched)
}

type nopLogger struct{}

func (nopLogger) Debug(module, message string, details map[string]interface{}) {}
func (nopLogger) Info(module, message string, details map[string]interface{})  {}
func (nopLogger) Warn(module, message string, details map[string]interface{})  {}
func (nopLogger) Error(module, message string, details map[string]interface{}) {}
func (nopLogger) Sync() error {
	return nil
}

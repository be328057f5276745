package http_handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/auth"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/locker"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/terminal"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/application/user"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/infrastructure/memory"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/infrastructure/security"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/middleware"
	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/transport/http/response"
)

// The handler tests run real services on top of in-memory stores, so a
// request walks the same code path it would in production minus the
// database and the broker.

// ---- stores ----

// userStore backs auth.UserRepo, terminal.UserDirectory and user.Repo at once.
type userStore struct {
	mu     sync.Mutex
	byID   map[int64]domain.User
	nextID int64
}

func newUserStore() *userStore {
	return &userStore{byID: make(map[int64]domain.User), nextID: 1}
}

func (s *userStore) put(u domain.User) domain.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.ID == 0 {
		u.ID = s.nextID
		s.nextID++
	} else if u.ID >= s.nextID {
		s.nextID = u.ID + 1
	}
	s.byID[u.ID] = u
	return u
}

func (s *userStore) get(id int64) (domain.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[id]
	return u, ok
}

func (s *userStore) GetByEmail(_ context.Context, email string) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (s *userStore) GetByID(_ context.Context, id int64) (domain.User, error) {
	u, ok := s.get(id)
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (s *userStore) Create(_ context.Context, u domain.User) (domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.Email == u.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	u.ID = s.nextID
	s.nextID++
	u.CreatedAt = time.Now()
	s.byID[u.ID] = u
	return u, nil
}

func (s *userStore) LinkGoogle(_ context.Context, userID int64, googleID, avatar string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.GoogleID = googleID
	u.Avatar = avatar
	u.Provider = domain.ProviderGoogle
	u.EmailVerified = true
	s.byID[userID] = u
	return nil
}

func (s *userStore) SetVerificationCode(_ context.Context, userID int64, code string, expires time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.VerificationCode = code
	u.VerificationExpires = &expires
	s.byID[userID] = u
	return nil
}

func (s *userStore) ConsumeVerificationCode(_ context.Context, userID int64, code string, now time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[userID]
	if !ok {
		return false, nil
	}
	if u.EmailVerified || u.VerificationCode == "" || u.VerificationCode != code {
		return false, nil
	}
	if u.VerificationExpires == nil || now.After(*u.VerificationExpires) {
		return false, nil
	}
	u.EmailVerified = true
	u.VerificationCode = ""
	u.VerificationExpires = nil
	s.byID[userID] = u
	return true, nil
}

func (s *userStore) SetRoleAndTerminal(_ context.Context, userID int64, role string, terminalID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.Role = role
	u.AssignedTerminalID = terminalID
	s.byID[userID] = u
	return nil
}

func (s *userStore) List(_ context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.User, 0, len(s.byID))
	for _, u := range s.byID {
		out = append(out, u)
	}
	return out, nil
}

func (s *userStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrUserNotFound()
	}
	delete(s.byID, id)
	return nil
}

type termStore struct {
	mu     sync.Mutex
	byID   map[int64]domain.Terminal
	nextID int64
}

func newTermStore() *termStore {
	return &termStore{byID: make(map[int64]domain.Terminal), nextID: 1}
}

func (s *termStore) put(t domain.Terminal) domain.Terminal {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == 0 {
		t.ID = s.nextID
		s.nextID++
	} else if t.ID >= s.nextID {
		s.nextID = t.ID + 1
	}
	s.byID[t.ID] = t
	return t
}

func (s *termStore) Create(_ context.Context, t domain.Terminal) (domain.Terminal, error) {
	return s.put(t), nil
}

func (s *termStore) GetByID(_ context.Context, id int64) (domain.Terminal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[id]
	if !ok {
		return domain.Terminal{}, domain.ErrTerminalNotFound()
	}
	return t, nil
}

func (s *termStore) GetByNumber(_ context.Context, number string) (domain.Terminal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, t := range s.byID {
		if t.TerminalNumber == number {
			return t, nil
		}
	}
	return domain.Terminal{}, domain.ErrTerminalNotFound()
}

func (s *termStore) List(_ context.Context) ([]domain.Terminal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Terminal, 0, len(s.byID))
	for _, t := range s.byID {
		out = append(out, t)
	}
	return out, nil
}

func (s *termStore) Update(_ context.Context, t domain.Terminal) (domain.Terminal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[t.ID]; !ok {
		return domain.Terminal{}, domain.ErrTerminalNotFound()
	}
	s.byID[t.ID] = t
	return t, nil
}

func (s *termStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrTerminalNotFound()
	}
	delete(s.byID, id)
	return nil
}

func (s *termStore) SetAssignedUser(_ context.Context, terminalID int64, userID *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.byID[terminalID]
	if !ok {
		return domain.ErrTerminalNotFound()
	}
	t.AssignedUserID = userID
	s.byID[terminalID] = t
	return nil
}

type assignStore struct {
	mu     sync.Mutex
	byID   map[int64]domain.TerminalAssignment
	nextID int64
}

func newAssignStore() *assignStore {
	return &assignStore{byID: make(map[int64]domain.TerminalAssignment), nextID: 1}
}

func (s *assignStore) Create(_ context.Context, a domain.TerminalAssignment) (domain.TerminalAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.byID {
		if existing.IsActive && strings.EqualFold(existing.MACAddress, a.MACAddress) {
			return domain.TerminalAssignment{}, domain.ErrMACAddressInUse()
		}
	}
	a.ID = s.nextID
	s.nextID++
	s.byID[a.ID] = a
	return a, nil
}

func (s *assignStore) GetActiveByTerminal(_ context.Context, terminalID int64) (domain.TerminalAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.IsActive && a.TerminalID == terminalID {
			return a, nil
		}
	}
	return domain.TerminalAssignment{}, domain.ErrAssignmentNotFound()
}

func (s *assignStore) GetActiveByUser(_ context.Context, userID int64) (domain.TerminalAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.IsActive && a.UserID == userID {
			return a, nil
		}
	}
	return domain.TerminalAssignment{}, domain.ErrAssignmentNotFound()
}

func (s *assignStore) GetActiveByMAC(_ context.Context, mac string) (domain.TerminalAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.byID {
		if a.IsActive && strings.EqualFold(a.MACAddress, mac) {
			return a, nil
		}
	}
	return domain.TerminalAssignment{}, domain.ErrAssignmentNotFound()
}

func (s *assignStore) ListActive(_ context.Context) ([]domain.TerminalAssignment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.TerminalAssignment, 0, len(s.byID))
	for _, a := range s.byID {
		if a.IsActive {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *assignStore) Deactivate(_ context.Context, terminalID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, a := range s.byID {
		if a.IsActive && a.TerminalID == terminalID {
			a.IsActive = false
			s.byID[id] = a
		}
	}
	return nil
}

type lockerStore struct {
	mu     sync.Mutex
	byID   map[int64]domain.Locker
	nextID int64
}

func newLockerStore() *lockerStore {
	return &lockerStore{byID: make(map[int64]domain.Locker), nextID: 1}
}

func (s *lockerStore) put(l domain.Locker) domain.Locker {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l.ID == 0 {
		l.ID = s.nextID
		s.nextID++
	} else if l.ID >= s.nextID {
		s.nextID = l.ID + 1
	}
	s.byID[l.ID] = l
	return l
}

func (s *lockerStore) Create(_ context.Context, l domain.Locker) (domain.Locker, error) {
	return s.put(l), nil
}

func (s *lockerStore) CreateBatch(ctx context.Context, ls []domain.Locker) ([]domain.Locker, error) {
	out := make([]domain.Locker, 0, len(ls))
	for _, l := range ls {
		created, err := s.Create(ctx, l)
		if err != nil {
			return nil, err
		}
		out = append(out, created)
	}
	return out, nil
}

func (s *lockerStore) GetByID(_ context.Context, id int64) (domain.Locker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byID[id]
	if !ok {
		return domain.Locker{}, domain.ErrLockerNotFound()
	}
	return l, nil
}

func (s *lockerStore) GetByNumber(_ context.Context, terminalID int64, number string) (domain.Locker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, l := range s.byID {
		if l.TerminalID == terminalID && l.LockerNumber == number {
			return l, nil
		}
	}
	return domain.Locker{}, domain.ErrLockerNotFound()
}

func (s *lockerStore) ListByTerminal(_ context.Context, terminalID int64) ([]domain.Locker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Locker, 0)
	for _, l := range s.byID {
		if l.TerminalID == terminalID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *lockerStore) ListAvailable(_ context.Context, terminalID int64) ([]domain.Locker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Locker, 0)
	for _, l := range s.byID {
		if l.TerminalID == terminalID && l.Status == domain.LockerActive {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *lockerStore) ListPurchasedBy(_ context.Context, userID int64) ([]domain.Locker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Locker, 0)
	for _, l := range s.byID {
		if l.PurchasedBy != nil && *l.PurchasedBy == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (s *lockerStore) Update(_ context.Context, l domain.Locker) (domain.Locker, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[l.ID]; !ok {
		return domain.Locker{}, domain.ErrLockerNotFound()
	}
	s.byID[l.ID] = l
	return l, nil
}

func (s *lockerStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[id]; !ok {
		return domain.ErrLockerNotFound()
	}
	delete(s.byID, id)
	return nil
}

func (s *lockerStore) MarkPurchased(_ context.Context, lockerID, userID int64, at time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l, ok := s.byID[lockerID]
	if !ok || l.Status != domain.LockerActive {
		return false, nil
	}
	l.Status = domain.LockerOccupied
	l.PurchasedBy = &userID
	l.PurchasedAt = &at
	s.byID[lockerID] = l
	return true, nil
}

type keyStore struct {
	mu     sync.Mutex
	byID   map[int64]domain.Key
	nextID int64
}

func newKeyStore() *keyStore {
	return &keyStore{byID: make(map[int64]domain.Key), nextID: 1}
}

func (s *keyStore) Create(_ context.Context, k domain.Key) (domain.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	k.ID = s.nextID
	s.nextID++
	s.byID[k.ID] = k
	return k, nil
}

func (s *keyStore) GetByCode(_ context.Context, code string) (domain.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.byID {
		if strings.EqualFold(k.KeyCode, code) {
			return k, nil
		}
	}
	return domain.Key{}, domain.ErrKeyNotFound()
}

func (s *keyStore) GetActiveByLocker(_ context.Context, lockerID int64) (domain.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range s.byID {
		if k.LockerID == lockerID && k.Status == domain.KeyActive {
			return k, nil
		}
	}
	return domain.Key{}, domain.ErrKeyNotFound()
}

func (s *keyStore) Update(_ context.Context, k domain.Key) (domain.Key, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[k.ID]; !ok {
		return domain.Key{}, domain.ErrKeyNotFound()
	}
	s.byID[k.ID] = k
	return k, nil
}

func (s *keyStore) TouchLastUsed(_ context.Context, keyID int64, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.byID[keyID]
	if !ok {
		return domain.ErrKeyNotFound()
	}
	k.LastUsed = &at
	s.byID[keyID] = k
	return nil
}

// ---- auth collaborators ----

type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hash:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hash:"+password {
		return domain.ErrInvalidCredentials()
	}
	return nil
}

type captureDispatcher struct {
	mu    sync.Mutex
	codes []auth.VerificationCodeEvent
}

func (d *captureDispatcher) PublishVerificationCode(_ context.Context, evt auth.VerificationCodeEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.codes = append(d.codes, evt)
	return nil
}

func (d *captureDispatcher) PublishWelcome(_ context.Context, _ auth.WelcomeEvent) error {
	return nil
}

func (d *captureDispatcher) lastCode() (auth.VerificationCodeEvent, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.codes) == 0 {
		return auth.VerificationCodeEvent{}, false
	}
	return d.codes[len(d.codes)-1], true
}

type stubResolver struct {
	profile auth.ExternalProfile
	err     error
}

func (r *stubResolver) Resolve(_ context.Context, _ string) (auth.ExternalProfile, error) {
	if r.err != nil {
		return auth.ExternalProfile{}, r.err
	}
	return r.profile, nil
}

func authProfile(id, email, name string) auth.ExternalProfile {
	return auth.ExternalProfile{ID: id, Email: email, Name: name, AvatarURL: "https://lh3.example/avatar.png"}
}

// ---- environment ----

type testEnv struct {
	auth     *AuthHandler
	terminal *TerminalHandler
	locker   *LockerHandler
	user     *UserHandler

	users       *userStore
	terminals   *termStore
	assignments *assignStore
	lockers     *lockerStore
	keys        *keyStore
	dispatcher  *captureDispatcher
	resolver    *stubResolver
	ledger      *memory.RefreshTokenLedger
	signer      *security.JWTSigner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	env := &testEnv{
		users:       newUserStore(),
		terminals:   newTermStore(),
		assignments: newAssignStore(),
		lockers:     newLockerStore(),
		keys:        newKeyStore(),
		dispatcher:  &captureDispatcher{},
		resolver:    &stubResolver{},
		ledger:      memory.NewRefreshTokenLedger(),
		signer:      security.NewJWTSigner("access-test-secret", "refresh-test-secret", "easykey"),
	}

	authSvc := auth.NewService(
		env.users, plainHasher{}, env.signer, env.ledger,
		env.dispatcher, env.resolver,
		auth.Config{
			AccessTTL:           15 * time.Minute,
			RefreshTTL:          7 * 24 * time.Hour,
			VerificationCodeTTL: 10 * time.Minute,
		},
	)

	env.auth = NewAuthHandler(authSvc)
	env.terminal = NewTerminalHandler(terminal.NewService(env.terminals, env.assignments, env.users))
	env.locker = NewLockerHandler(locker.NewService(env.lockers, env.keys, env.terminals))
	env.user = NewUserHandler(user.NewService(env.users))
	return env
}

func (e *testEnv) seedVerifiedUser(email, password, role string) domain.User {
	return e.users.put(domain.User{
		Name:          "Seeded User",
		Email:         email,
		PasswordHash:  "hash:" + password,
		Provider:      domain.ProviderLocal,
		Role:          role,
		IsActive:      true,
		EmailVerified: true,
	})
}

// ---- request plumbing ----

func mustJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal body: %v", err)
	}
	return bytes.NewReader(b)
}

// withUserCtx injects an authenticated identity the way the auth
// middleware would.
func withUserCtx(r *http.Request, userID int64, role string) *http.Request {
	return r.WithContext(middleware.WithUser(r.Context(), userID, role))
}

// withURLParam attaches a chi route parameter to a request built outside a
// router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}

// mustReadData decodes the {"data": ...} envelope into out.
func mustReadData(t *testing.T, rr *httptest.ResponseRecorder, out any) {
	t.Helper()
	var env struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode envelope: %v (body %q)", err, rr.Body.String())
	}
	if env.Data == nil {
		t.Fatalf("response has no data field: %q", rr.Body.String())
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode data: %v (body %q)", err, rr.Body.String())
	}
}

func mustReadError(t *testing.T, rr *httptest.ResponseRecorder) response.ErrorPayload {
	t.Helper()
	var body response.ErrorBody
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode error body: %v (body %q)", err, rr.Body.String())
	}
	return body.Error
}

func requireStatus(t *testing.T, rr *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rr.Code != want {
		t.Fatalf("status = %d, want %d (body %q)", rr.Code, want, rr.Body.String())
	}
}

func requireErrorCode(t *testing.T, rr *httptest.ResponseRecorder, wantStatus int, wantCode string) {
	t.Helper()
	requireStatus(t, rr, wantStatus)
	if got := mustReadError(t, rr); got.Code != wantCode {
		t.Fatalf("error code = %q, want %q", got.Code, wantCode)
	}
}

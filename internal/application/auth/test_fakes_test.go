package auth

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/syedmuhammadazwar/EasyKey-Backend/internal/domain"
)

/*
In-memory fakes for the auth ports. Each fake records the calls it saw
and exposes per-method error fields so individual tests can force a
failure path without standing up real infrastructure.
*/

// ---------- users ----------

type setCodeCall struct {
	userID  int64
	code    string
	expires time.Time
}

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]domain.User

	getByEmailErr error
	getByIDErr    error
	createErr     error
	linkErr       error
	setCodeErr    error
	consumeErr    error

	setCodeCalls []setCodeCall
	linkCalls    []int64
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: map[int64]domain.User{}}
}

// put seeds a user directly, assigning an ID if it has none.
func (r *fakeUserRepo) put(u domain.User) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u.ID == 0 {
		r.nextID++
		u.ID = r.nextID
	} else if u.ID > r.nextID {
		r.nextID = u.ID
	}
	r.byID[u.ID] = u
	return u
}

func (r *fakeUserRepo) get(id int64) domain.User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.byID[id]
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getByEmailErr != nil {
		return domain.User{}, r.getByEmailErr
	}
	for _, u := range r.byID {
		if u.Email == email {
			return u, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound()
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id int64) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.getByIDErr != nil {
		return domain.User{}, r.getByIDErr
	}
	u, ok := r.byID[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound()
	}
	return u, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, u domain.User) (domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return domain.User{}, r.createErr
	}
	for _, existing := range r.byID {
		if existing.Email == u.Email {
			return domain.User{}, domain.ErrEmailAlreadyExists()
		}
	}
	r.nextID++
	u.ID = r.nextID
	u.CreatedAt = time.Now()
	r.byID[u.ID] = u
	return u, nil
}

func (r *fakeUserRepo) LinkGoogle(ctx context.Context, userID int64, googleID, avatar string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.linkErr != nil {
		return r.linkErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.GoogleID = googleID
	u.Avatar = avatar
	u.Provider = domain.ProviderGoogle
	u.EmailVerified = true
	r.byID[userID] = u
	r.linkCalls = append(r.linkCalls, userID)
	return nil
}

func (r *fakeUserRepo) SetVerificationCode(ctx context.Context, userID int64, code string, expires time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.setCodeErr != nil {
		return r.setCodeErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return domain.ErrUserNotFound()
	}
	u.VerificationCode = code
	exp := expires
	u.VerificationExpires = &exp
	r.byID[userID] = u
	r.setCodeCalls = append(r.setCodeCalls, setCodeCall{userID: userID, code: code, expires: expires})
	return nil
}

func (r *fakeUserRepo) ConsumeVerificationCode(ctx context.Context, userID int64, code string, now time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.consumeErr != nil {
		return false, r.consumeErr
	}
	u, ok := r.byID[userID]
	if !ok {
		return false, nil
	}
	// Mirrors the conditional UPDATE: matching code, not expired at now
	// (the expiry instant itself still counts), not yet verified.
	if u.EmailVerified || u.VerificationCode == "" || u.VerificationCode != code {
		return false, nil
	}
	if u.VerificationExpires == nil || now.After(*u.VerificationExpires) {
		return false, nil
	}
	u.EmailVerified = true
	u.VerificationCode = ""
	u.VerificationExpires = nil
	r.byID[userID] = u
	return true, nil
}

// ---------- hasher ----------

type fakeHasher struct {
	hashFn    func(password string) (string, error)
	compareFn func(hash, password string) error
}

func (h *fakeHasher) Hash(password string) (string, error) {
	if h.hashFn != nil {
		return h.hashFn(password)
	}
	return "hash:" + password, nil
}

func (h *fakeHasher) Compare(hash, password string) error {
	if h.compareFn != nil {
		return h.compareFn(hash, password)
	}
	if hash != "hash:"+password {
		return fmt.Errorf("hash mismatch")
	}
	return nil
}

// ---------- signer ----------

type fakeSigner struct {
	mu      sync.Mutex
	seq     int
	signErr error

	// issued maps token string to the claims it was signed with, so
	// Verify can be exact without real crypto.
	issued map[string]TokenClaims
}

func newFakeSigner() *fakeSigner {
	return &fakeSigner{issued: map[string]TokenClaims{}}
}

func (s *fakeSigner) Sign(userID int64, email, role string, typ TokenType, ttl time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signErr != nil {
		return "", s.signErr
	}
	s.seq++
	tok := fmt.Sprintf("%s-%d-%d", typ, userID, s.seq)
	s.issued[tok] = TokenClaims{
		UserID: userID,
		Email:  email,
		Role:   role,
		Type:   typ,
		Exp:    time.Now().Add(ttl),
	}
	return tok, nil
}

func (s *fakeSigner) Verify(token string, typ TokenType) (TokenClaims, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.issued[token]
	if !ok || c.Type != typ {
		return TokenClaims{}, domain.ErrTokenInvalid()
	}
	if time.Now().After(c.Exp) {
		return TokenClaims{}, domain.ErrTokenExpired()
	}
	return c, nil
}

// ---------- ledger ----------

type fakeLedger struct {
	mu     sync.Mutex
	tokens map[string]domain.RefreshToken

	issueErr   error
	consumeErr error
	revokeErr  error
}

func newFakeLedger() *fakeLedger {
	return &fakeLedger{tokens: map[string]domain.RefreshToken{}}
}

func (l *fakeLedger) Issue(ctx context.Context, token string, userID int64, expiresAt time.Time) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.issueErr != nil {
		return l.issueErr
	}
	l.tokens[token] = domain.RefreshToken{
		Token:     token,
		UserID:    userID,
		ExpiresAt: expiresAt,
	}
	return nil
}

func (l *fakeLedger) Get(ctx context.Context, token string) (domain.RefreshToken, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	rt, ok := l.tokens[token]
	if !ok {
		return domain.RefreshToken{}, domain.ErrRefreshTokenInvalid()
	}
	return rt, nil
}

func (l *fakeLedger) ConsumeActive(ctx context.Context, token string, now time.Time) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.consumeErr != nil {
		return 0, l.consumeErr
	}
	rt, ok := l.tokens[token]
	if !ok || !rt.Usable(now) {
		return 0, domain.ErrRefreshTokenInvalid()
	}
	rt.IsRevoked = true
	l.tokens[token] = rt
	return rt.UserID, nil
}

func (l *fakeLedger) Revoke(ctx context.Context, token string) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.revokeErr != nil {
		return l.revokeErr
	}
	if rt, ok := l.tokens[token]; ok {
		rt.IsRevoked = true
		l.tokens[token] = rt
	}
	return nil
}

func (l *fakeLedger) RevokeAllForUser(ctx context.Context, userID int64) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.revokeErr != nil {
		return l.revokeErr
	}
	for tok, rt := range l.tokens {
		if rt.UserID == userID {
			rt.IsRevoked = true
			l.tokens[tok] = rt
		}
	}
	return nil
}

func (l *fakeLedger) activeCountFor(userID int64) int {
	l.mu.Lock()
	defer l.mu.Unlock()
	n := 0
	for _, rt := range l.tokens {
		if rt.UserID == userID && !rt.IsRevoked {
			n++
		}
	}
	return n
}

func (l *fakeLedger) isRevoked(token string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tokens[token].IsRevoked
}

// ---------- dispatcher ----------

type fakeDispatcher struct {
	mu         sync.Mutex
	codeEvents []VerificationCodeEvent
	welcomes   []WelcomeEvent

	codeErr    error
	welcomeErr error
}

func (d *fakeDispatcher) PublishVerificationCode(ctx context.Context, evt VerificationCodeEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.codeErr != nil {
		return d.codeErr
	}
	d.codeEvents = append(d.codeEvents, evt)
	return nil
}

func (d *fakeDispatcher) PublishWelcome(ctx context.Context, evt WelcomeEvent) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.welcomeErr != nil {
		return d.welcomeErr
	}
	d.welcomes = append(d.welcomes, evt)
	return nil
}

func (d *fakeDispatcher) lastCodeEvent(t *testing.T) VerificationCodeEvent {
	t.Helper()
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.codeEvents) == 0 {
		t.Fatalf("no verification code events published")
	}
	return d.codeEvents[len(d.codeEvents)-1]
}

// ---------- resolver ----------

type fakeResolver struct {
	profile ExternalProfile
	err     error

	tokens []string
}

func (r *fakeResolver) Resolve(ctx context.Context, accessToken string) (ExternalProfile, error) {
	r.tokens = append(r.tokens, accessToken)
	if r.err != nil {
		return ExternalProfile{}, r.err
	}
	return r.profile, nil
}

// ---------- wiring ----------

type auditEntry struct {
	action string
	fields map[string]string
}

func newSvcForTest(t *testing.T) (*Service, *fakeUserRepo, *fakeHasher, *fakeSigner, *fakeLedger, *fakeDispatcher, *fakeResolver, *[]auditEntry) {
	t.Helper()

	users := newFakeUserRepo()
	hasher := &fakeHasher{}
	signer := newFakeSigner()
	ledger := newFakeLedger()
	mail := &fakeDispatcher{}
	resolver := &fakeResolver{}

	audits := &[]auditEntry{}
	svc := NewService(users, hasher, signer, ledger, mail, resolver, Config{
		AccessTTL:           15 * time.Minute,
		RefreshTTL:          7 * 24 * time.Hour,
		VerificationCodeTTL: 10 * time.Minute,
	}).WithAudit(func(action string, fields map[string]string) {
		cp := map[string]string{}
		for k, v := range fields {
			cp[k] = v
		}
		*audits = append(*audits, auditEntry{action: action, fields: cp})
	})

	return svc, users, hasher, signer, ledger, mail, resolver, audits
}

// seedLocalUser puts a verified, active local account in the repo with
// password "correct horse".
func seedLocalUser(users *fakeUserRepo, email string) domain.User {
	return users.put(domain.User{
		Name:          "Sam",
		Email:         email,
		PasswordHash:  "hash:correct horse",
		Provider:      domain.ProviderLocal,
		Role:          string(domain.RoleUser),
		IsActive:      true,
		EmailVerified: true,
	})
}

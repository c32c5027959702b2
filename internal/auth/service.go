package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexa091904/semi-project/internal/db"
	"github.com/alexa091904/semi-project/internal/metrics"
	"github.com/alexa091904/semi-project/internal/validation"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrSessionExpired     = fmt.Errorf("%w: session expired", ErrUnauthorized)
)

// Store persists admins and their sessions.
type Store interface {
	CreateAdmin(ctx context.Context, admin *Admin) error
	GetAdminByUsername(ctx context.Context, username string) (*Admin, error)
	GetAdminByID(ctx context.Context, id uuid.UUID) (*Admin, error)
	UpdateProfile(ctx context.Context, admin *Admin) error
	CreateSession(ctx context.Context, session *Session) error
	GetSession(ctx context.Context, id uuid.UUID) (*Session, error)
	TouchSession(ctx context.Context, id uuid.UUID, at time.Time) error
	DeleteSession(ctx context.Context, id uuid.UUID) error
}

type Service struct {
	store       Store
	tokens      *TokenManager
	idleTimeout time.Duration
	metrics     *metrics.Metrics
	validate    *validation.Validator
	now         func() time.Time
}

func NewService(store Store, tokens *TokenManager, idleTimeout time.Duration, m *metrics.Metrics) *Service {
	if m == nil {
		m = metrics.NewMock()
	}
	return &Service{
		store:       store,
		tokens:      tokens,
		idleTimeout: idleTimeout,
		metrics:     m,
		validate:    validation.New(),
		now:         time.Now,
	}
}

// Login checks the credentials, opens a session and returns its signed token.
func (s *Service) Login(ctx context.Context, req LoginRequest) (string, *Admin, error) {
	if err := s.validate.Struct(req); err != nil {
		return "", nil, err
	}

	admin, err := s.store.GetAdminByUsername(ctx, req.Username)
	if errors.Is(err, ErrAdminNotFound) {
		s.metrics.Records.RecordLoginFailed(ctx)
		return "", nil, ErrInvalidCredentials
	}
	if err != nil {
		return "", nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.Password), []byte(req.Password)); err != nil {
		s.metrics.Records.RecordLoginFailed(ctx)
		return "", nil, ErrInvalidCredentials
	}

	now := s.now().UTC()
	session := &Session{
		ID:         uuid.New(),
		AdminID:    admin.ID,
		LastSeenAt: now,
		CreatedAt:  now,
	}
	if err := s.store.CreateSession(ctx, session); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}

	token, err := s.tokens.Issue(session.ID)
	if err != nil {
		return "", nil, fmt.Errorf("issue token: %w", err)
	}
	return token, admin, nil
}

// Logout destroys the session behind token. Unknown or invalid tokens are
// ignored so logging out is always safe.
func (s *Service) Logout(ctx context.Context, token string) error {
	sessionID, err := s.tokens.Parse(token)
	if err != nil {
		return nil
	}
	return s.store.DeleteSession(ctx, sessionID)
}

// Authenticate resolves token to a live session and records the activity.
// Sessions idle for longer than the configured window are deleted.
func (s *Service) Authenticate(ctx context.Context, token string) (*Session, error) {
	sessionID, err := s.tokens.Parse(token)
	if err != nil {
		return nil, ErrUnauthorized
	}

	session, err := s.store.GetSession(ctx, sessionID)
	if errors.Is(err, ErrSessionNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	now := s.now().UTC()
	if s.idleTimeout > 0 && now.Sub(session.LastSeenAt) > s.idleTimeout {
		if err := s.store.DeleteSession(ctx, session.ID); err != nil {
			return nil, err
		}
		return nil, ErrSessionExpired
	}

	if err := s.store.TouchSession(ctx, session.ID, now); err != nil {
		return nil, err
	}
	session.LastSeenAt = now
	return session, nil
}

func (s *Service) Profile(ctx context.Context, adminID uuid.UUID) (*Profile, error) {
	admin, err := s.store.GetAdminByID(ctx, adminID)
	if errors.Is(err, ErrAdminNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return profileOf(admin), nil
}

// UpdateProfile changes the username and, when given, the names.
func (s *Service) UpdateProfile(ctx context.Context, adminID uuid.UUID, req ProfileRequest) (*Profile, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, err
	}

	admin, err := s.store.GetAdminByID(ctx, adminID)
	if errors.Is(err, ErrAdminNotFound) {
		return nil, ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}

	if req.Username != admin.Username {
		existing, err := s.store.GetAdminByUsername(ctx, req.Username)
		switch {
		case err == nil && existing.ID != admin.ID:
			return nil, usernameTaken()
		case err != nil && !errors.Is(err, ErrAdminNotFound):
			return nil, err
		}
	}

	admin.Username = req.Username
	if req.FirstName != nil {
		admin.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		admin.LastName = *req.LastName
	}

	err = s.store.UpdateProfile(ctx, admin)
	if db.IsUniqueViolation(err) {
		return nil, usernameTaken()
	}
	if err != nil {
		return nil, err
	}
	return profileOf(admin), nil
}

func usernameTaken() error {
	return validation.FieldError("username", "has already been taken")
}

// EnsureAdmin creates the admin account when no admin with username exists.
// It reports whether an account was created.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) (bool, error) {
	_, err := s.store.GetAdminByUsername(ctx, username)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, ErrAdminNotFound) {
		return false, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return false, fmt.Errorf("hash admin password: %w", err)
	}

	admin := &Admin{
		ID:       uuid.New(),
		Username: username,
		Password: string(hashed),
	}
	if err := s.store.CreateAdmin(ctx, admin); err != nil {
		return false, err
	}
	return true, nil
}

package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/models"
	"github.com/Nzyazin/ledgerconsole/internal/core/notify"
	"github.com/Nzyazin/ledgerconsole/internal/core/observable"
	"github.com/Nzyazin/ledgerconsole/internal/core/repository"
	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/sync/singleflight"
)

const minPasswordLength = 6

// Authenticator exchanges credentials with the ledger's auth endpoints.
type Authenticator interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.AuthResponse, error)
	Register(ctx context.Context, req models.RegisterRequest) (*models.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*models.AuthResponse, error)
}

// Navigator returns the presentation layer to the entry (login) screen.
type Navigator interface {
	ToEntry()
}

type NavigatorFunc func()

func (f NavigatorFunc) ToEntry() { f() }

type Manager struct {
	store    repository.CredentialRepository
	notifier notify.Notifier
	nav      Navigator
	log      logger.Logger

	mu      sync.Mutex
	auth    Authenticator
	state   *observable.Store[models.SessionState]
	refresh singleflight.Group
}

func NewManager(store repository.CredentialRepository, notifier notify.Notifier, nav Navigator, log logger.Logger) *Manager {
	m := &Manager{
		store:    store,
		notifier: notifier,
		nav:      nav,
		log:      log,
	}
	m.state = observable.NewStore(m.stateFromStore())
	return m
}

// Bind sets the authenticator. The auth client is built on top of the request
// pipeline, which itself reads tokens from the manager, hence the late bind.
func (m *Manager) Bind(auth Authenticator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = auth
}

func (m *Manager) authenticator() Authenticator {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.auth
}

// AccessToken never blocks on the network.
func (m *Manager) AccessToken() (string, bool) {
	token, ok := m.store.Get(repository.KeyAccessToken)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (m *Manager) RefreshToken() (string, bool) {
	token, ok := m.store.Get(repository.KeyRefreshToken)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}

func (m *Manager) Login(ctx context.Context, req models.LoginRequest) (*models.Session, error) {
	if req.Email == "" || req.Password == "" {
		m.notifier.Notify("Please fill in all fields", notify.SeverityWarning)
		return nil, ErrIncompleteForm
	}

	auth := m.authenticator()
	if auth == nil {
		return nil, ErrNoAuthenticator
	}

	resp, err := auth.Login(ctx, req)
	if err != nil {
		m.log.Warn("Login failed", logger.StringField("email", req.Email), logger.ErrorField("error", err))
		return nil, &AuthError{Op: "login", Message: userMessage(err, "Login failed"), Err: err}
	}

	s, err := m.establish(resp)
	if err != nil {
		return nil, &AuthError{Op: "login", Message: "Login failed", Err: err}
	}
	m.log.Info("Logged in", logger.StringField("email", s.Email))
	return s, nil
}

func (m *Manager) Register(ctx context.Context, req models.RegisterRequest) (*models.Session, error) {
	if req.Email == "" || req.Password == "" || req.FullName == "" {
		m.notifier.Notify("Please fill in all fields", notify.SeverityWarning)
		return nil, ErrIncompleteForm
	}
	if len(req.Password) < minPasswordLength {
		m.notifier.Notify("Password must be at least 6 characters", notify.SeverityWarning)
		return nil, ErrWeakPassword
	}

	auth := m.authenticator()
	if auth == nil {
		return nil, ErrNoAuthenticator
	}

	resp, err := auth.Register(ctx, req)
	if err != nil {
		m.log.Warn("Registration failed", logger.StringField("email", req.Email), logger.ErrorField("error", err))
		return nil, &AuthError{Op: "register", Message: userMessage(err, "Registration failed"), Err: err}
	}

	s, err := m.establish(resp)
	if err != nil {
		return nil, &AuthError{Op: "register", Message: "Registration failed", Err: err}
	}
	m.log.Info("Registered", logger.StringField("email", s.Email))
	return s, nil
}

// Refresh returns (nil, false) without a network call when no refresh token
// is stored. A failed exchange logs the user out. Concurrent callers share one
// exchange.
func (m *Manager) Refresh(ctx context.Context) (*models.Session, bool) {
	refreshToken, ok := m.RefreshToken()
	if !ok {
		return nil, false
	}

	auth := m.authenticator()
	if auth == nil {
		m.log.Error("Refresh requested without authenticator")
		return nil, false
	}

	v, _, _ := m.refresh.Do(refreshToken, func() (interface{}, error) {
		resp, err := auth.Refresh(ctx, refreshToken)
		if err != nil {
			m.log.Warn("Token refresh failed", logger.ErrorField("error", err))
			m.Logout()
			return nil, nil
		}

		s, err := m.establish(resp)
		if err != nil {
			m.log.Error("Refreshed session could not be stored", logger.ErrorField("error", err))
			m.Logout()
			return nil, nil
		}
		m.log.Debug("Token refreshed", logger.StringField("email", s.Email))
		return s, nil
	})

	s, _ := v.(*models.Session)
	return s, s != nil
}

// Logout is idempotent. The info notification is emitted only when there was
// something to clear.
func (m *Manager) Logout() {
	m.mu.Lock()
	_, hadUser := m.store.Get(repository.KeyUser)
	_, hadToken := m.store.Get(repository.KeyAccessToken)
	if err := m.store.Remove(repository.SessionKeys...); err != nil {
		m.log.Error("Failed to clear credentials", logger.ErrorField("error", err))
	}
	m.mu.Unlock()

	m.state.Set(models.SessionState{})
	m.nav.ToEntry()

	if hadUser || hadToken {
		m.log.Info("Logged out")
		m.notifier.Notify("You have been logged out", notify.SeverityInfo)
	}
}

func (m *Manager) State() models.SessionState {
	return m.state.Get()
}

func (m *Manager) IsAuthenticated() bool {
	user, ok := m.loadUser()
	return ok && user.IsAuthenticated
}

func (m *Manager) Subscribe(fn func(models.SessionState)) func() {
	return m.state.Subscribe(fn)
}

func (m *Manager) establish(resp *models.AuthResponse) (*models.Session, error) {
	if resp == nil || resp.AccessToken == "" || resp.RefreshToken == "" {
		return nil, ErrInvalidAuthResult
	}

	user := models.User{Email: resp.Email, FullName: resp.FullName, IsAuthenticated: true}
	userJSON, err := json.Marshal(user)
	if err != nil {
		return nil, fmt.Errorf("encode user: %w", err)
	}

	m.mu.Lock()
	err = m.persist(resp, string(userJSON))
	m.mu.Unlock()
	if err != nil {
		return nil, err
	}

	m.state.Set(models.SessionState{
		IsAuthenticated: true,
		Email:           user.Email,
		FullName:        user.FullName,
		ExpiresAt:       tokenExpiry(resp.AccessToken),
	})

	return &models.Session{User: user, AccessToken: resp.AccessToken, RefreshToken: resp.RefreshToken}, nil
}

func (m *Manager) persist(resp *models.AuthResponse, userJSON string) error {
	if err := m.store.Set(repository.KeyAccessToken, resp.AccessToken); err != nil {
		return fmt.Errorf("store access token: %w", err)
	}
	if err := m.store.Set(repository.KeyRefreshToken, resp.RefreshToken); err != nil {
		return fmt.Errorf("store refresh token: %w", err)
	}
	if err := m.store.Set(repository.KeyUser, userJSON); err != nil {
		return fmt.Errorf("store user: %w", err)
	}
	return nil
}

func (m *Manager) loadUser() (models.User, bool) {
	raw, ok := m.store.Get(repository.KeyUser)
	if !ok || raw == "" {
		return models.User{}, false
	}
	var user models.User
	if err := json.Unmarshal([]byte(raw), &user); err != nil {
		m.log.Warn("Stored user record is unreadable", logger.ErrorField("error", err))
		return models.User{}, false
	}
	return user, true
}

func (m *Manager) stateFromStore() models.SessionState {
	user, ok := m.loadUser()
	if !ok {
		return models.SessionState{}
	}
	st := models.SessionState{
		IsAuthenticated: user.IsAuthenticated,
		Email:           user.Email,
		FullName:        user.FullName,
	}
	if token, ok := m.AccessToken(); ok {
		st.ExpiresAt = tokenExpiry(token)
	}
	return st
}

// tokenExpiry reads the exp claim without verifying the signature; it is for
// display only.
func tokenExpiry(token string) *time.Time {
	var claims jwt.RegisteredClaims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	t := claims.ExpiresAt.Time
	return &t
}

// Package session owns the authentication lifecycle: register, login,
// logout, and restoring the persisted session on process start.
package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/mahamusharaf/vastr-storefront/internal/domain"
	"github.com/mahamusharaf/vastr-storefront/internal/store"
	apperrors "github.com/mahamusharaf/vastr-storefront/pkg/errors"
	"github.com/mahamusharaf/vastr-storefront/pkg/httpclient"
	"github.com/mahamusharaf/vastr-storefront/pkg/logger"
	"github.com/mahamusharaf/vastr-storefront/pkg/validator"
)

// State is the session lifecycle state.
type State int

const (
	StateAnonymous State = iota
	StateAuthenticating
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticating:
		return "authenticating"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// HTTPDoer is the interface for executing HTTP requests.
type HTTPDoer interface {
	Do(ctx context.Context, req *http.Request) (*http.Response, error)
}

// credentials is the request body for both auth endpoints.
type credentials struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// Service owns the current session snapshot and its persistence. The session
// and profile are stored under separate keys; only this service writes them.
type Service struct {
	http    HTTPDoer
	baseURL string
	store   store.Store
	logger  *slog.Logger

	mu      sync.Mutex
	state   State
	current *domain.Session
}

// NewService creates a session service in the Anonymous state. Call Restore
// on process start to pick up a persisted session.
func NewService(doer HTTPDoer, baseURL string, st store.Store, log *slog.Logger) *Service {
	return &Service{
		http:    doer,
		baseURL: baseURL,
		store:   st,
		logger:  log,
		state:   StateAnonymous,
	}
}

// State returns the current lifecycle state.
func (s *Service) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Current returns a copy of the active session, or nil when anonymous.
func (s *Service) Current() *domain.Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	cpy := *s.current
	return &cpy
}

// Register creates a new account. Success does NOT establish a session: the
// backend requires a separate login (email-verification style flow). The
// returned string is the server's confirmation message.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	if err := validator.Validate(credentials{Email: email, Password: password}); err != nil {
		return "", apperrors.InvalidInput(err.Error())
	}

	resp, err := s.postJSON(ctx, "/auth/register", credentials{Email: email, Password: password})
	if err != nil {
		return "", apperrors.NetworkUnavailable(fmt.Errorf("register: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", httpclient.ParseResponseError(resp, "/auth/register")
	}

	var payload struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Message == "" {
		// Registration succeeded even when the confirmation body is odd.
		return "Account created successfully", nil
	}

	logger.WithContext(ctx, s.logger).Info("account registered",
		slog.String("email", email),
	)
	return payload.Message, nil
}

// Login authenticates against the backend and, on success, persists the
// token and profile and transitions to Authenticated. On any failure the
// state is Anonymous and the returned error carries what the screen may show.
func (s *Service) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if err := validator.Validate(credentials{Email: email, Password: password}); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}

	s.setState(StateAuthenticating, nil)

	resp, err := s.postJSON(ctx, "/auth/login", credentials{Email: email, Password: password})
	if err != nil {
		s.setState(StateAnonymous, nil)
		return nil, apperrors.NetworkUnavailable(fmt.Errorf("login: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		s.setState(StateAnonymous, nil)
		return nil, httpclient.ParseResponseError(resp, "/auth/login")
	}

	var payload struct {
		Token    string         `json:"token"`
		UserData domain.Profile `json:"user_data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil || payload.Token == "" {
		s.setState(StateAnonymous, nil)
		return nil, apperrors.NetworkUnavailable(fmt.Errorf("login: undecodable response body"))
	}

	if err := s.store.Set(ctx, store.KeySessionToken, payload.Token); err != nil {
		s.setState(StateAnonymous, nil)
		return nil, err
	}
	if err := s.store.Set(ctx, store.KeySessionProfile, payload.UserData); err != nil {
		// Token key stays behind; Restore treats the pair as incomplete.
		s.setState(StateAnonymous, nil)
		return nil, err
	}

	session := &domain.Session{
		Token:     payload.Token,
		Profile:   payload.UserData,
		ExpiresAt: tokenExpiry(payload.Token),
	}
	s.setState(StateAuthenticated, session)

	logger.WithContext(ctx, s.logger).Info("session established",
		slog.String("email", payload.UserData.Email),
	)
	return s.Current(), nil
}

// Logout clears the session. Both key removals are attempted even when the
// first fails; the in-memory state becomes Anonymous unconditionally.
func (s *Service) Logout(ctx context.Context) error {
	tokenErr := s.store.Remove(ctx, store.KeySessionToken)
	profileErr := s.store.Remove(ctx, store.KeySessionProfile)

	s.setState(StateAnonymous, nil)

	if tokenErr != nil || profileErr != nil {
		logger.WithContext(ctx, s.logger).Warn("logout could not remove all session keys",
			slog.Any("token_error", tokenErr),
			slog.Any("profile_error", profileErr),
		)
	}
	return errors.Join(tokenErr, profileErr)
}

// Restore loads a persisted session on process start. Only when both the
// token and the profile are present does the state become Authenticated; a
// partial leftover key is left in place and the state stays Anonymous.
func (s *Service) Restore(ctx context.Context) State {
	log := logger.WithContext(ctx, s.logger)

	var token string
	if err := s.store.Get(ctx, store.KeySessionToken, &token); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Warn("session token unreadable, treating as signed out",
				slog.String("error", err.Error()),
			)
		}
		s.setState(StateAnonymous, nil)
		return StateAnonymous
	}

	var profile domain.Profile
	if err := s.store.Get(ctx, store.KeySessionProfile, &profile); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Warn("session profile unreadable, treating as signed out",
				slog.String("error", err.Error()),
			)
		}
		s.setState(StateAnonymous, nil)
		return StateAnonymous
	}

	session := &domain.Session{
		Token:     token,
		Profile:   profile,
		ExpiresAt: tokenExpiry(token),
	}
	s.setState(StateAuthenticated, session)

	log.Info("session restored", slog.String("email", profile.Email))
	return StateAuthenticated
}

// Token returns the active token for authenticated requests, or empty.
func (s *Service) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return ""
	}
	return s.current.Token
}

func (s *Service) setState(state State, session *domain.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = state
	s.current = session
}

// postJSON issues one POST with a JSON body to the versioned auth API.
func (s *Service) postJSON(ctx context.Context, endpoint string, body any) (*http.Response, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal %s body: %w", endpoint, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/api/v1"+endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("create %s request: %w", endpoint, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	return s.http.Do(ctx, req)
}

// tokenExpiry extracts the expiry claim from a JWT without verifying its
// signature; verification is the server's job. Opaque tokens yield zero.
func tokenExpiry(token string) time.Time {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}
	}
	return exp.Time
}

package session

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/jml312/recreate-client/internal/data"
	"github.com/jml312/recreate-client/internal/exceptions"
	"github.com/jml312/recreate-client/internal/gateway"
	"github.com/jml312/recreate-client/internal/storage"
	"github.com/jml312/recreate-client/internal/token"
	"github.com/jml312/recreate-client/internal/validate"
	"github.com/sirupsen/logrus"
)

// Store owns the single authenticated session: decoded identity plus the
// notification list, alive until logout or token expiry.
type Store struct {
	mu        sync.Mutex
	gateway   gateway.Caller
	state     *storage.StateStore
	validator *validate.Validator
	log       *logrus.Entry
	now       func() time.Time

	current *data.Session
	loading bool

	emailSent     bool
	passwordReset bool
	errors        map[string]string
}

func NewStore(caller gateway.Caller, state *storage.StateStore, validator *validate.Validator, logger *logrus.Logger) *Store {
	return &Store{
		gateway:   caller,
		state:     state,
		validator: validator,
		log:       logger.WithField("store", "session"),
		now:       time.Now,
		errors:    map[string]string{},
	}
}

type tokenEnvelope struct {
	Token string `json:"token"`
}

func (s *Store) Login(ctx context.Context, credentials data.Credentials) (data.Session, error) {
	return s._exchange(ctx, "auth/login", credentials)
}

func (s *Store) Register(ctx context.Context, registration data.Registration) (data.Session, error) {
	if err := s.validator.ValidateRegistration(registration); err != nil {
		return data.Session{}, s._fail(err)
	}
	return s._exchange(ctx, "auth/register", registration)
}

// GoogleAuth trades a provider token for a session. When the identity has
// no local account the API answers 404 and the caller must collect a
// username and password, then go through Register.
func (s *Store) GoogleAuth(ctx context.Context, providerToken string) (data.Session, error) {
	sess, err := s._exchange(ctx, "auth/googleauth", map[string]string{"tokenId": providerToken})
	if err != nil {
		if he, ok := err.(*exceptions.HttpError); ok && he.StatusCode == http.StatusNotFound {
			return data.Session{}, exceptions.NewAccountRequired("google")
		}
		return data.Session{}, err
	}
	return sess, nil
}

func (s *Store) ForgotPassword(ctx context.Context, email string) error {
	s._setOneShots(false, false)
	payload, err := s.gateway.Call(ctx, http.MethodPost, "auth/forgotpassword", map[string]string{"email": email}, false)
	if err != nil {
		return s._fail(err)
	}
	var result struct {
		IsEmailSent bool `json:"isEmailSent"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return s._fail(exceptions.Http(0, map[string]string{"response": err.Error()}))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emailSent = result.IsEmailSent
	s.errors = map[string]string{}
	return nil
}

func (s *Store) ResetPassword(ctx context.Context, resetToken string, newPassword string) error {
	s._setOneShots(false, false)
	payload, err := s.gateway.Call(ctx, http.MethodPatch, "auth/resetpassword/"+resetToken, map[string]string{"password": newPassword}, false)
	if err != nil {
		return s._fail(err)
	}
	var result struct {
		IsPasswordReset bool `json:"isPasswordReset"`
	}
	if err := json.Unmarshal(payload, &result); err != nil {
		return s._fail(exceptions.Http(0, map[string]string{"response": err.Error()}))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.passwordReset = result.IsPasswordReset
	s.errors = map[string]string{}
	return nil
}

// Restore rebuilds the session from the persisted token at startup. An
// expired or undecodable token behaves exactly like Logout. No network
// call is made.
func (s *Store) Restore() (data.Session, bool) {
	raw, ok := s.state.LoadToken()
	if !ok {
		return data.Session{}, false
	}
	sess, err := token.Decode(raw)
	if err != nil {
		s.log.WithError(err).Warn("Discarding undecodable persisted token")
		s.Logout()
		return data.Session{}, false
	}
	if sess.Expired(s.now()) {
		s.log.WithField("username", sess.Username).Info("Persisted token expired")
		s.Logout()
		return data.Session{}, false
	}
	if len(sess.Notifications) == 0 {
		_ = s.state.SetNotificationsRead(true)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &sess
	return sess, true
}

// Adopt replaces the session from a freshly issued token, already
// persisted by the caller. Used after account updates.
func (s *Store) Adopt(sess data.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &sess
}

// Logout clears the session and the persisted token. Safe to call twice.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = nil
	s.emailSent = false
	s.passwordReset = false
	s.errors = map[string]string{}
	if err := s.state.ClearToken(); err != nil {
		s.log.WithError(err).Warn("Failed to clear persisted token")
	}
}

func (s *Store) Current() (data.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return data.Session{}, false
	}
	return *s.current, true
}

func (s *Store) Authenticated() bool {
	_, ok := s.Current()
	return ok
}

// ClearNotifications marks every notification read, server-side first.
func (s *Store) ClearNotifications(ctx context.Context) error {
	if _, err := s.gateway.Call(ctx, http.MethodPatch, "user/notifications", nil, true); err != nil {
		return s._fail(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.Notifications = nil
	}
	if err := s.state.SetNotificationsRead(true); err != nil {
		s.log.WithError(err).Warn("Failed to persist notifications-read flag")
	}
	return nil
}

func (s *Store) ConsumeEmailSent() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	sent := s.emailSent
	s.emailSent = false
	return sent
}

func (s *Store) ConsumePasswordReset() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	reset := s.passwordReset
	s.passwordReset = false
	return reset
}

func (s *Store) Errors() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot := make(map[string]string, len(s.errors))
	for field, message := range s.errors {
		snapshot[field] = message
	}
	return snapshot
}

func (s *Store) _exchange(ctx context.Context, endpoint string, body any) (data.Session, error) {
	payload, err := s.gateway.Call(ctx, http.MethodPost, endpoint, body, false)
	if err != nil {
		return data.Session{}, s._fail(err)
	}
	var envelope tokenEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return data.Session{}, s._fail(exceptions.Http(0, map[string]string{"response": err.Error()}))
	}
	sess, err := token.Decode(envelope.Token)
	if err != nil {
		return data.Session{}, s._fail(exceptions.AuthFailed(map[string]string{"token": err.Error()}))
	}
	if err := s.state.SaveToken(envelope.Token); err != nil {
		return data.Session{}, s._fail(exceptions.Http(0, map[string]string{"storage": err.Error()}))
	}
	if len(sess.Notifications) == 0 {
		_ = s.state.SetNotificationsRead(true)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = &sess
	s.errors = map[string]string{}
	s.log.WithField("username", sess.Username).Info("Session established")
	return sess, nil
}

func (s *Store) _setOneShots(emailSent bool, passwordReset bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.emailSent = emailSent
	s.passwordReset = passwordReset
}

func (s *Store) _fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = exceptions.FieldErrors(err)
	s.log.WithField("errors", s.errors).Warn("Session operation failed")
	return err
}

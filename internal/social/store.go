package social

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/jml312/recreate-client/internal/data"
	"github.com/jml312/recreate-client/internal/exceptions"
	"github.com/jml312/recreate-client/internal/gateway"
	"github.com/jml312/recreate-client/internal/propagate"
	"github.com/jml312/recreate-client/internal/session"
	"github.com/jml312/recreate-client/internal/storage"
	"github.com/jml312/recreate-client/internal/token"
	"github.com/jml312/recreate-client/internal/validate"
	"github.com/sirupsen/logrus"
)

// Store mirrors exactly one profile at a time, self or another user.
// Switching subjects discards the previous profile wholesale.
type Store struct {
	mu        sync.Mutex
	gateway   gateway.Caller
	state     *storage.StateStore
	sessions  *session.Store
	validator *validate.Validator
	log       *logrus.Entry

	profile    data.Profile
	hasProfile bool
	loading    bool

	didFollow      bool
	didUnfollow    bool
	accountUpdated bool
	likesDeleted   bool
	recipesDeleted bool
	accountDeleted bool
	errors         map[string]string
}

func NewStore(caller gateway.Caller, state *storage.StateStore, sessions *session.Store, validator *validate.Validator, logger *logrus.Logger) *Store {
	return &Store{
		gateway:   caller,
		state:     state,
		sessions:  sessions,
		validator: validator,
		log:       logger.WithField("store", "social"),
		errors:    map[string]string{},
	}
}

func (s *Store) FetchSelf(ctx context.Context) (data.Profile, error) {
	return s._fetch(ctx, "user/me")
}

func (s *Store) FetchByUsername(ctx context.Context, username string) (data.Profile, error) {
	return s._fetch(ctx, "user/"+username)
}

// UpdateAccount validates locally, then persists the refreshed token the
// API returns and re-derives the session from it, so callers never juggle
// a stale identity.
func (s *Store) UpdateAccount(ctx context.Context, update data.AccountUpdate) (data.Session, error) {
	if err := s.validator.ValidateUsername(update.Username); err != nil {
		return data.Session{}, s._fail(err)
	}
	payload, err := s.gateway.Call(ctx, http.MethodPatch, "user/update", update, true)
	if err != nil {
		return data.Session{}, s._fail(err)
	}
	var envelope struct {
		Token string `json:"token"`
	}
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
	s.sessions.Adopt(sess)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accountUpdated = true
	if s.hasProfile && s.profile.Id == sess.Id {
		s.profile.Username = sess.Username
		s.profile.SelectedAvatar = sess.SelectedAvatar
	}
	s.errors = map[string]string{}
	return sess, nil
}

// Follow toggles the relationship and adopts the authoritative follower
// list the API returns for the viewed profile.
func (s *Store) Follow(ctx context.Context, targetId string, next bool) error {
	body := map[string]any{"userToFollowId": targetId, "following": next}
	payload, err := s.gateway.Call(ctx, http.MethodPatch, "user/follow", body, true)
	if err != nil {
		return s._fail(err)
	}
	var envelope struct {
		Followers []data.FollowSummary `json:"userToFollowFollowers"`
		Following bool                 `json:"following"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return s._fail(exceptions.Http(0, map[string]string{"response": err.Error()}))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasProfile {
		s.profile.Followers = envelope.Followers
	}
	s.didFollow = envelope.Following
	s.didUnfollow = !envelope.Following
	s.errors = map[string]string{}
	return nil
}

func (s *Store) DeleteLikes(ctx context.Context) error {
	if _, err := s.gateway.Call(ctx, http.MethodDelete, "user/delete-likes", nil, true); err != nil {
		return s._fail(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasProfile {
		s.profile.Likes = nil
	}
	s.likesDeleted = true
	s.errors = map[string]string{}
	return nil
}

func (s *Store) DeleteRecipes(ctx context.Context) error {
	if _, err := s.gateway.Call(ctx, http.MethodDelete, "user/delete-recipes", nil, true); err != nil {
		return s._fail(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasProfile {
		s.profile.Recipes = nil
	}
	s.recipesDeleted = true
	s.errors = map[string]string{}
	return nil
}

// DeleteAccount tears down the remote account; the caller is expected to
// follow with a session logout.
func (s *Store) DeleteAccount(ctx context.Context) error {
	if _, err := s.gateway.Call(ctx, http.MethodDelete, "user/delete-account", nil, true); err != nil {
		return s._fail(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = data.Profile{}
	s.hasProfile = false
	s.accountDeleted = true
	s.errors = map[string]string{}
	return nil
}

// ApplyMutation keeps the viewed profile's nested recipe sublists in step
// with recipe-store mutations.
func (s *Store) ApplyMutation(m propagate.Mutation) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.hasProfile {
		s.profile = propagate.ApplyProfile(s.profile, m)
	}
}

func (s *Store) Profile() (data.Profile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profile, s.hasProfile
}

func (s *Store) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
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

// ConsumeToasts reads and clears every one-shot flag in a single call,
// the way a view drains them after rendering a toast.
type Toasts struct {
	DidFollow      bool
	DidUnfollow    bool
	AccountUpdated bool
	LikesDeleted   bool
	RecipesDeleted bool
	AccountDeleted bool
}

func (s *Store) ConsumeToasts() Toasts {
	s.mu.Lock()
	defer s.mu.Unlock()
	toasts := Toasts{
		DidFollow:      s.didFollow,
		DidUnfollow:    s.didUnfollow,
		AccountUpdated: s.accountUpdated,
		LikesDeleted:   s.likesDeleted,
		RecipesDeleted: s.recipesDeleted,
		AccountDeleted: s.accountDeleted,
	}
	s.didFollow = false
	s.didUnfollow = false
	s.accountUpdated = false
	s.likesDeleted = false
	s.recipesDeleted = false
	s.accountDeleted = false
	return toasts
}

// Reset discards the viewed profile, for logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.profile = data.Profile{}
	s.hasProfile = false
	s.errors = map[string]string{}
}

func (s *Store) _fetch(ctx context.Context, endpoint string) (data.Profile, error) {
	s.mu.Lock()
	s.loading = true
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()
	payload, err := s.gateway.Call(ctx, http.MethodGet, endpoint, nil, true)
	if err != nil {
		return data.Profile{}, s._fail(err)
	}
	var profile data.Profile
	if err := json.Unmarshal(payload, &profile); err != nil {
		return data.Profile{}, s._fail(exceptions.Http(0, map[string]string{"response": err.Error()}))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	// one profile at a time; the previous subject's data is gone
	s.profile = profile
	s.hasProfile = true
	s.errors = map[string]string{}
	return profile, nil
}

func (s *Store) _fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = exceptions.FieldErrors(err)
	s.log.WithField("errors", s.errors).Warn("Profile operation failed")
	return err
}

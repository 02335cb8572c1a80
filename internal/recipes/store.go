package recipes

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/jml312/recreate-client/internal/data"
	"github.com/jml312/recreate-client/internal/exceptions"
	"github.com/jml312/recreate-client/internal/gateway"
	"github.com/jml312/recreate-client/internal/propagate"
	"github.com/jml312/recreate-client/internal/validate"
	"github.com/sirupsen/logrus"
	"golang.org/x/exp/slices"
)

const DefaultPageSize = 6

type Slot int

const (
	Feed Slot = iota
	TopRanked
	Authored
	Liked
)

// Store holds the four cached recipe views plus the focused recipe used
// by the edit flow. It is the sole writer of its slots; views read
// snapshots and mutate only through the methods below.
type Store struct {
	mu        sync.Mutex
	gateway   gateway.Caller
	validator *validate.Validator
	log       *logrus.Entry

	lists    propagate.Lists
	focused  data.Recipe
	loading  bool
	pageSize int

	created bool
	updated bool
	deleted bool
	errors  map[string]string
}

func NewStore(caller gateway.Caller, validator *validate.Validator, logger *logrus.Logger) *Store {
	return &Store{
		gateway:   caller,
		validator: validator,
		log:       logger.WithField("store", "recipes"),
		pageSize:  DefaultPageSize,
		errors:    map[string]string{},
	}
}

// mutationEnvelope is the authoritative entity state the API returns from
// every write endpoint.
type mutationEnvelope struct {
	CurrentRecipe data.Recipe `json:"currentRecipe"`
}

func (s *Store) FetchFeed(ctx context.Context) error {
	return s._fetchSlot(ctx, "recipes/all", Feed)
}

func (s *Store) FetchTopRanked(ctx context.Context) error {
	return s._fetchSlot(ctx, "recipes/top3", TopRanked)
}

func (s *Store) FetchAuthored(ctx context.Context) error {
	return s._fetchSlot(ctx, "recipes/user", Authored)
}

func (s *Store) FetchLiked(ctx context.Context) error {
	return s._fetchSlot(ctx, "recipes/likes", Liked)
}

func (s *Store) FetchByID(ctx context.Context, id string) (data.Recipe, error) {
	s._setLoading(true)
	defer s._setLoading(false)
	payload, err := s.gateway.Call(ctx, http.MethodGet, fmt.Sprintf("recipes/recipe/%s", id), nil, true)
	if err != nil {
		return data.Recipe{}, s._fail(err)
	}
	var recipe data.Recipe
	if err := json.Unmarshal(payload, &recipe); err != nil {
		return data.Recipe{}, s._fail(exceptions.Http(0, map[string]string{"response": err.Error()}))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.focused = recipe
	s.errors = map[string]string{}
	return recipe, nil
}

// Create validates locally first; a rejected draft never reaches the
// network. On success the new entity lands in the authored and feed lists
// and the one-shot created flag is raised.
func (s *Store) Create(ctx context.Context, draft data.RecipeDraft) (data.Recipe, error) {
	normalized, err := s._normalize(draft)
	if err != nil {
		return data.Recipe{}, s._fail(err)
	}
	s._setLoading(true)
	defer s._setLoading(false)
	payload, err := s.gateway.Call(ctx, http.MethodPost, "recipes/create", normalized, true)
	if err != nil {
		return data.Recipe{}, s._fail(err)
	}
	var envelope mutationEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return data.Recipe{}, s._fail(exceptions.Http(0, map[string]string{"response": err.Error()}))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = propagate.Apply(s.lists, propagate.Mutation{Kind: propagate.Created, Recipe: envelope.CurrentRecipe})
	s.focused = envelope.CurrentRecipe
	s.created = true
	s.errors = map[string]string{}
	return envelope.CurrentRecipe, nil
}

// Update rewrites the returned entity into every list that holds the id.
func (s *Store) Update(ctx context.Context, id string, draft data.RecipeDraft) (data.Recipe, error) {
	normalized, err := s._normalize(draft)
	if err != nil {
		return data.Recipe{}, s._fail(err)
	}
	s._setLoading(true)
	defer s._setLoading(false)
	payload, err := s.gateway.Call(ctx, http.MethodPut, fmt.Sprintf("recipes/update/%s", id), normalized, true)
	if err != nil {
		return data.Recipe{}, s._fail(err)
	}
	var envelope mutationEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return data.Recipe{}, s._fail(exceptions.Http(0, map[string]string{"response": err.Error()}))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = propagate.Apply(s.lists, propagate.Mutation{Kind: propagate.Updated, Recipe: envelope.CurrentRecipe})
	s.focused = envelope.CurrentRecipe
	s.updated = true
	s.errors = map[string]string{}
	return envelope.CurrentRecipe, nil
}

// Remove deletes the id from every cached list on success.
func (s *Store) Remove(ctx context.Context, id string) error {
	s._setLoading(true)
	defer s._setLoading(false)
	if _, err := s.gateway.Call(ctx, http.MethodDelete, fmt.Sprintf("recipes/delete/%s", id), nil, true); err != nil {
		return s._fail(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = propagate.Apply(s.lists, propagate.Mutation{Kind: propagate.Deleted, Recipe: data.Recipe{Id: id}})
	if s.focused.Id == id {
		s.focused = data.Recipe{}
	}
	s.deleted = true
	s.errors = map[string]string{}
	return nil
}

// RemoveAll clears every recipe the session user authored.
func (s *Store) RemoveAll(ctx context.Context) error {
	s._setLoading(true)
	defer s._setLoading(false)
	if _, err := s.gateway.Call(ctx, http.MethodDelete, "recipes/delete", nil, true); err != nil {
		return s._fail(err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, recipe := range s.lists.Authored {
		s.lists = propagate.Apply(s.lists, propagate.Mutation{Kind: propagate.Deleted, Recipe: recipe})
	}
	s.deleted = true
	s.errors = map[string]string{}
	return nil
}

// ToggleLike applies the flip optimistically, issues the call, and reverts
// the local change if the call fails. The server response remains
// authoritative on success.
func (s *Store) ToggleLike(ctx context.Context, id string, username string, next bool) (data.Recipe, error) {
	s.mu.Lock()
	previous, cached := propagate.Find(s.lists, id)
	if !cached && s.focused.Id == id {
		previous, cached = s.focused, true
	}
	if !cached {
		s.mu.Unlock()
		return data.Recipe{}, s._fail(exceptions.Invalid("recipe", "Recipe is not loaded"))
	}
	optimistic := _withLike(previous, username, next)
	s.lists = propagate.Apply(s.lists, propagate.Mutation{Kind: propagate.Liked, Recipe: optimistic})
	if s.focused.Id == id {
		s.focused = optimistic
	}
	s.mu.Unlock()

	body := map[string]any{"liked": next, "likeCount": optimistic.LikeCount}
	payload, err := s.gateway.Call(ctx, http.MethodPatch, fmt.Sprintf("recipes/like/%s", id), body, true)
	if err != nil {
		s.mu.Lock()
		revert := propagate.Mutation{Kind: propagate.Liked, Recipe: previous}
		s.lists = propagate.Apply(s.lists, revert)
		if s.focused.Id == id {
			s.focused = previous
		}
		s.mu.Unlock()
		return data.Recipe{}, s._fail(err)
	}
	var envelope mutationEnvelope
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return data.Recipe{}, s._fail(exceptions.Http(0, map[string]string{"response": err.Error()}))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = propagate.Apply(s.lists, propagate.Mutation{Kind: propagate.Liked, Recipe: envelope.CurrentRecipe})
	if s.focused.Id == id {
		s.focused = envelope.CurrentRecipe
	}
	s.errors = map[string]string{}
	return envelope.CurrentRecipe, nil
}

// Page slices a slot client-side: fixed size, 1-based index, bounds
// clamped to the list. The same index always yields the same slice for an
// unchanged list.
func (s *Store) Page(slot Slot, page int) []data.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s._slot(slot)
	if page < 1 || s.pageSize < 1 {
		return []data.Recipe{}
	}
	start := (page - 1) * s.pageSize
	if start >= len(list) {
		return []data.Recipe{}
	}
	end := start + s.pageSize
	if end > len(list) {
		end = len(list)
	}
	return slices.Clone(list[start:end])
}

// Pages reports how many pages the slot currently spans.
func (s *Store) Pages(slot Slot) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s._slot(slot)
	if len(list) == 0 {
		return 0
	}
	return (len(list) + s.pageSize - 1) / s.pageSize
}

func (s *Store) SetPageSize(size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if size > 0 {
		s.pageSize = size
	}
}

func (s *Store) Snapshot(slot Slot) []data.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s._slot(slot))
}

func (s *Store) Focused() data.Recipe {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.focused
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

// ConsumeCreated reads and clears the one-shot created flag.
func (s *Store) ConsumeCreated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	created := s.created
	s.created = false
	return created
}

func (s *Store) ConsumeUpdated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	updated := s.updated
	s.updated = false
	return updated
}

func (s *Store) ConsumeDeleted() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := s.deleted
	s.deleted = false
	return deleted
}

// Reset drops every cached list, for logout.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lists = propagate.Lists{}
	s.focused = data.Recipe{}
	s.created, s.updated, s.deleted = false, false, false
	s.errors = map[string]string{}
}

func (s *Store) _fetchSlot(ctx context.Context, endpoint string, slot Slot) error {
	s._setLoading(true)
	defer s._setLoading(false)
	payload, err := s.gateway.Call(ctx, http.MethodGet, endpoint, nil, true)
	if err != nil {
		return s._fail(err)
	}
	var list []data.Recipe
	if err := json.Unmarshal(payload, &list); err != nil {
		return s._fail(exceptions.Http(0, map[string]string{"response": err.Error()}))
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	switch slot {
	case Feed:
		s.lists.Feed = list
	case TopRanked:
		s.lists.TopRanked = list
	case Authored:
		s.lists.Authored = list
	case Liked:
		s.lists.Liked = list
	}
	s.errors = map[string]string{}
	return nil
}

func (s *Store) _slot(slot Slot) []data.Recipe {
	switch slot {
	case TopRanked:
		return s.lists.TopRanked
	case Authored:
		return s.lists.Authored
	case Liked:
		return s.lists.Liked
	default:
		return s.lists.Feed
	}
}

func (s *Store) _normalize(draft data.RecipeDraft) (data.RecipeDraft, error) {
	normalized := data.RecipeDraft{
		Title:       s.validator.NormalizeTitle(draft.Title),
		Cuisine:     draft.Cuisine,
		Ingredients: make([]string, len(draft.Ingredients)),
	}
	for i, ingredient := range draft.Ingredients {
		name, quantity := s.validator.ParseQuantity(ingredient)
		normalized.Ingredients[i] = s.validator.NormalizeIngredient(name, quantity)
	}
	if err := s.validator.ValidateDraft(normalized); err != nil {
		return data.RecipeDraft{}, err
	}
	return normalized, nil
}

func (s *Store) _setLoading(loading bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loading = loading
}

func (s *Store) _fail(err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.errors = exceptions.FieldErrors(err)
	s.log.WithField("errors", s.errors).Warn("Recipe operation failed")
	return err
}

func _withLike(recipe data.Recipe, username string, next bool) data.Recipe {
	patched := recipe
	patched.IsLiked = next
	patched.Likers = slices.Clone(recipe.Likers)
	if next {
		if !slices.Contains(patched.Likers, username) {
			patched.Likers = append(patched.Likers, username)
		}
		patched.LikeCount = recipe.LikeCount + 1
	} else {
		if i := slices.Index(patched.Likers, username); i >= 0 {
			patched.Likers = append(patched.Likers[:i], patched.Likers[i+1:]...)
		}
		patched.LikeCount = recipe.LikeCount - 1
	}
	return patched
}

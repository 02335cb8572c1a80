package test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jml312/recreate-client/internal/data"
	"github.com/jml312/recreate-client/internal/token"
)

// LocalAPI is an in-memory double of the remote recipe API, good enough
// for store tests: accounts, recipes, likes, follows, and signed bearer
// tokens with the same claim layout the real server uses.
type LocalAPI struct {
	Server *httptest.Server
	Secret []byte

	mu       sync.Mutex
	accounts map[string]*Account
	googleId map[string]string
	recipes  map[string]*data.Recipe
	order    []string
	calls    int
	failNext string
}

type Account struct {
	Id             string
	Username       string
	FullName       string
	Email          string
	Password       string
	SelectedAvatar string
	CreateTime     time.Time
	Notifications  []data.Notification
	Followers      []string
	Following      []string
	ResetToken     string
}

type route struct {
	method  string
	path    string
	params  []string
	matcher *regexp.Regexp
	handle  func(api *LocalAPI, w http.ResponseWriter, r *http.Request, caller *Account, params map[string]string)
	auth    bool
}

func _compileRoute(method, path string, auth bool, handle func(*LocalAPI, http.ResponseWriter, *http.Request, *Account, map[string]string)) route {
	var params []string
	namex := regexp.MustCompile(":[^/]+")
	pattern := namex.ReplaceAllStringFunc(path, func(found string) string {
		params = append(params, found[1:])
		return "([^/]+)"
	})
	return route{
		method:  method,
		path:    path,
		params:  params,
		matcher: regexp.MustCompile("^" + pattern + "$"),
		handle:  handle,
		auth:    auth,
	}
}

func NewLocalAPI(t *testing.T) *LocalAPI {
	api := &LocalAPI{
		Secret:   []byte("local-secret"),
		accounts: make(map[string]*Account),
		googleId: make(map[string]string),
		recipes:  make(map[string]*data.Recipe),
	}
	routes := []route{
		_compileRoute("POST", "auth/login", false, (*LocalAPI)._login),
		_compileRoute("POST", "auth/register", false, (*LocalAPI)._register),
		_compileRoute("POST", "auth/googleauth", false, (*LocalAPI)._googleAuth),
		_compileRoute("POST", "auth/forgotpassword", false, (*LocalAPI)._forgotPassword),
		_compileRoute("PATCH", "auth/resetpassword/:token", false, (*LocalAPI)._resetPassword),
		_compileRoute("GET", "recipes/all", true, (*LocalAPI)._allRecipes),
		_compileRoute("GET", "recipes/top3", true, (*LocalAPI)._topRecipes),
		_compileRoute("GET", "recipes/user", true, (*LocalAPI)._userRecipes),
		_compileRoute("GET", "recipes/likes", true, (*LocalAPI)._likedRecipes),
		_compileRoute("GET", "recipes/recipe/:id", true, (*LocalAPI)._recipeById),
		_compileRoute("POST", "recipes/create", true, (*LocalAPI)._createRecipe),
		_compileRoute("PUT", "recipes/update/:id", true, (*LocalAPI)._updateRecipe),
		_compileRoute("DELETE", "recipes/delete/:id", true, (*LocalAPI)._deleteRecipe),
		_compileRoute("DELETE", "recipes/delete", true, (*LocalAPI)._deleteAllRecipes),
		_compileRoute("PATCH", "recipes/like/:id", true, (*LocalAPI)._likeRecipe),
		_compileRoute("GET", "user/me", true, (*LocalAPI)._me),
		_compileRoute("PATCH", "user/notifications", true, (*LocalAPI)._clearNotifications),
		_compileRoute("PATCH", "user/update", true, (*LocalAPI)._updateAccount),
		_compileRoute("PATCH", "user/follow", true, (*LocalAPI)._follow),
		_compileRoute("DELETE", "user/delete-likes", true, (*LocalAPI)._deleteLikes),
		_compileRoute("DELETE", "user/delete-recipes", true, (*LocalAPI)._deleteUserRecipes),
		_compileRoute("DELETE", "user/delete-account", true, (*LocalAPI)._deleteAccount),
		_compileRoute("GET", "user/:username", true, (*LocalAPI)._profile),
	}
	api.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := strings.TrimPrefix(r.URL.Path, "/")
		api.mu.Lock()
		api.calls++
		failing := api.failNext != "" && strings.HasPrefix(r.Method+" "+path, api.failNext)
		if failing {
			api.failNext = ""
		}
		api.mu.Unlock()
		if failing {
			_writeJSON(w, http.StatusInternalServerError, map[string]string{"message": "induced failure"})
			return
		}
		for _, rt := range routes {
			if rt.method != r.Method {
				continue
			}
			values := rt.matcher.FindStringSubmatch(path)
			if values == nil {
				continue
			}
			params := make(map[string]string, len(rt.params))
			for i, name := range rt.params {
				params[name] = values[i+1]
			}
			var caller *Account
			if rt.auth {
				caller = api._authorize(r)
				if caller == nil {
					_writeJSON(w, http.StatusUnauthorized, map[string]string{"tokenAuth": "Invalid or missing token"})
					return
				}
			}
			rt.handle(api, w, r, caller, params)
			return
		}
		_writeJSON(w, http.StatusNotFound, map[string]string{"message": "route not found"})
	}))
	t.Cleanup(api.Server.Close)
	return api
}

// Calls reports how many HTTP requests reached the double, so tests can
// assert that local validation failures never dialed out.
func (api *LocalAPI) Calls() int {
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.calls
}

// FailNext makes the next request matching "METHOD path-prefix" answer 500.
func (api *LocalAPI) FailNext(method, pathPrefix string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.failNext = method + " " + pathPrefix
}

func (api *LocalAPI) SeedAccount(username, email, password string) *Account {
	api.mu.Lock()
	defer api.mu.Unlock()
	account := &Account{
		Id:             uuid.NewString(),
		Username:       username,
		FullName:       strings.ToUpper(username[:1]) + username[1:],
		Email:          email,
		Password:       password,
		SelectedAvatar: data.DefaultAvatar,
		CreateTime:     time.Now().Add(-24 * time.Hour),
	}
	api.accounts[username] = account
	return account
}

func (api *LocalAPI) LinkGoogle(tokenId, username string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	api.googleId[tokenId] = username
}

func (api *LocalAPI) SeedRecipe(author string, title string, cuisine data.Cuisine, ingredients []string) data.Recipe {
	api.mu.Lock()
	defer api.mu.Unlock()
	recipe := &data.Recipe{
		Id:          uuid.NewString(),
		Title:       title,
		Cuisine:     cuisine,
		Ingredients: ingredients,
		Username:    author,
		CreatedAt:   time.Now().Add(-time.Hour),
	}
	api.recipes[recipe.Id] = recipe
	api.order = append(api.order, recipe.Id)
	return *recipe
}

// Issue mints a bearer token for a seeded account, 16 hours of validity.
func (api *LocalAPI) Issue(t *testing.T, username string) string {
	return api.IssueExpiring(t, username, 16*time.Hour)
}

func (api *LocalAPI) IssueExpiring(t *testing.T, username string, validity time.Duration) string {
	api.mu.Lock()
	account, ok := api.accounts[username]
	api.mu.Unlock()
	if !ok {
		t.Fatalf("No seeded account named %s", username)
	}
	signed, err := api._issueLocked(account, validity)
	if err != nil {
		t.Fatalf("Failed to sign token: %s", err)
	}
	return signed
}

func (api *LocalAPI) Recipe(id string) (data.Recipe, bool) {
	api.mu.Lock()
	defer api.mu.Unlock()
	recipe, ok := api.recipes[id]
	if !ok {
		return data.Recipe{}, false
	}
	return *recipe, true
}

func (api *LocalAPI) _issueLocked(account *Account, validity time.Duration) (string, error) {
	return token.Sign(data.Session{
		Id:             account.Id,
		Username:       account.Username,
		FullName:       account.FullName,
		SelectedAvatar: account.SelectedAvatar,
		CreateTime:     account.CreateTime,
		Notifications:  account.Notifications,
		ExpiresAt:      time.Now().Add(validity),
	}, api.Secret)
}

func (api *LocalAPI) _authorize(r *http.Request) *Account {
	raw := r.Header.Get("Authorization")
	if raw == "" {
		return nil
	}
	sess, err := token.Decode(raw)
	if err != nil || sess.Expired(time.Now()) {
		return nil
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	return api.accounts[sess.Username]
}

func (api *LocalAPI) _login(w http.ResponseWriter, r *http.Request, _ *Account, _ map[string]string) {
	var body data.Credentials
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	if body.CaptchaToken == "" {
		_writeJSON(w, http.StatusBadRequest, map[string]string{"captcha": "Captcha verification failed"})
		return
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	for _, account := range api.accounts {
		if account.Email == body.Email {
			if account.Password != body.Password {
				_writeJSON(w, http.StatusBadRequest, map[string]string{"passwordAuth": "Incorrect password"})
				return
			}
			api._respondToken(w, account)
			return
		}
	}
	_writeJSON(w, http.StatusBadRequest, map[string]string{"emailAuth": "No account with this email"})
}

func (api *LocalAPI) _register(w http.ResponseWriter, r *http.Request, _ *Account, _ map[string]string) {
	var body data.Registration
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	if body.CaptchaToken == "" {
		_writeJSON(w, http.StatusBadRequest, map[string]string{"captcha": "Captcha verification failed"})
		return
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if _, ok := api.accounts[body.Username]; ok {
		_writeJSON(w, http.StatusBadRequest, map[string]string{"usernameExists": "Username already exists"})
		return
	}
	for _, account := range api.accounts {
		if account.Email == body.Email {
			_writeJSON(w, http.StatusBadRequest, map[string]string{"emailExists": "Email already exists"})
			return
		}
	}
	avatar := body.SelectedAvatar
	if avatar == "" {
		avatar = data.DefaultAvatar
	}
	account := &Account{
		Id:             uuid.NewString(),
		Username:       body.Username,
		FullName:       body.FullName,
		Email:          body.Email,
		Password:       body.Password,
		SelectedAvatar: avatar,
		CreateTime:     time.Now(),
	}
	api.accounts[account.Username] = account
	api._respondToken(w, account)
}

func (api *LocalAPI) _googleAuth(w http.ResponseWriter, r *http.Request, _ *Account, _ map[string]string) {
	var body struct {
		TokenId string `json:"tokenId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if username, ok := api.googleId[body.TokenId]; ok {
		api._respondToken(w, api.accounts[username])
		return
	}
	_writeJSON(w, http.StatusNotFound, map[string]string{"account": "No account for this identity"})
}

func (api *LocalAPI) _forgotPassword(w http.ResponseWriter, r *http.Request, _ *Account, _ map[string]string) {
	var body struct {
		Email string `json:"email"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	api.mu.Lock()
	defer api.mu.Unlock()
	for _, account := range api.accounts {
		if account.Email == body.Email {
			account.ResetToken = uuid.NewString()
			_writeJSON(w, http.StatusOK, map[string]bool{"isEmailSent": true})
			return
		}
	}
	_writeJSON(w, http.StatusBadRequest, map[string]string{"emailAuth": "No account with this email"})
}

func (api *LocalAPI) _resetPassword(w http.ResponseWriter, r *http.Request, _ *Account, params map[string]string) {
	var body struct {
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&body)
	api.mu.Lock()
	defer api.mu.Unlock()
	for _, account := range api.accounts {
		if account.ResetToken != "" && account.ResetToken == params["token"] {
			account.Password = body.Password
			account.ResetToken = ""
			_writeJSON(w, http.StatusOK, map[string]bool{"isPasswordReset": true})
			return
		}
	}
	_writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid reset token"})
}

func (api *LocalAPI) _allRecipes(w http.ResponseWriter, _ *http.Request, caller *Account, _ map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	_writeJSON(w, http.StatusOK, api._listLocked(caller, func(*data.Recipe) bool { return true }))
}

func (api *LocalAPI) _topRecipes(w http.ResponseWriter, _ *http.Request, caller *Account, _ map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	all := api._listLocked(caller, func(*data.Recipe) bool { return true })
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].LikeCount > all[j].LikeCount
	})
	if len(all) > 3 {
		all = all[:3]
	}
	_writeJSON(w, http.StatusOK, all)
}

func (api *LocalAPI) _userRecipes(w http.ResponseWriter, _ *http.Request, caller *Account, _ map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	_writeJSON(w, http.StatusOK, api._listLocked(caller, func(r *data.Recipe) bool {
		return r.Username == caller.Username
	}))
}

func (api *LocalAPI) _likedRecipes(w http.ResponseWriter, _ *http.Request, caller *Account, _ map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	_writeJSON(w, http.StatusOK, api._listLocked(caller, func(r *data.Recipe) bool {
		return r.LikedBy(caller.Username)
	}))
}

func (api *LocalAPI) _recipeById(w http.ResponseWriter, _ *http.Request, caller *Account, params map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	recipe, ok := api.recipes[params["id"]]
	if !ok {
		_writeJSON(w, http.StatusNotFound, map[string]string{"message": "recipe not found"})
		return
	}
	_writeJSON(w, http.StatusOK, _project(recipe, caller))
}

func (api *LocalAPI) _createRecipe(w http.ResponseWriter, r *http.Request, caller *Account, _ map[string]string) {
	var draft data.RecipeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		_writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	for _, existing := range api.recipes {
		if strings.EqualFold(existing.Title, draft.Title) {
			_writeJSON(w, http.StatusBadRequest, map[string]string{"titleExists": "Recipe title already exists"})
			return
		}
	}
	recipe := &data.Recipe{
		Id:          uuid.NewString(),
		Title:       draft.Title,
		Cuisine:     draft.Cuisine,
		Ingredients: draft.Ingredients,
		Username:    caller.Username,
		CreatedAt:   time.Now(),
	}
	api.recipes[recipe.Id] = recipe
	api.order = append(api.order, recipe.Id)
	_writeJSON(w, http.StatusOK, map[string]any{"currentRecipe": _project(recipe, caller)})
}

func (api *LocalAPI) _updateRecipe(w http.ResponseWriter, r *http.Request, caller *Account, params map[string]string) {
	var draft data.RecipeDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		_writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	recipe, ok := api.recipes[params["id"]]
	if !ok || recipe.Username != caller.Username {
		_writeJSON(w, http.StatusNotFound, map[string]string{"message": "recipe not found"})
		return
	}
	recipe.Title = draft.Title
	recipe.Cuisine = draft.Cuisine
	recipe.Ingredients = draft.Ingredients
	_writeJSON(w, http.StatusOK, map[string]any{"currentRecipe": _project(recipe, caller)})
}

func (api *LocalAPI) _deleteRecipe(w http.ResponseWriter, _ *http.Request, caller *Account, params map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	recipe, ok := api.recipes[params["id"]]
	if !ok || recipe.Username != caller.Username {
		_writeJSON(w, http.StatusNotFound, map[string]string{"message": "recipe not found"})
		return
	}
	api._removeLocked(recipe.Id)
	_writeJSON(w, http.StatusOK, map[string]any{"currentRecipe": _project(recipe, caller)})
}

func (api *LocalAPI) _deleteAllRecipes(w http.ResponseWriter, _ *http.Request, caller *Account, _ map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	for _, id := range append([]string{}, api.order...) {
		if api.recipes[id] != nil && api.recipes[id].Username == caller.Username {
			api._removeLocked(id)
		}
	}
	_writeJSON(w, http.StatusOK, map[string]string{})
}

func (api *LocalAPI) _likeRecipe(w http.ResponseWriter, r *http.Request, caller *Account, params map[string]string) {
	var body struct {
		Liked bool `json:"liked"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	recipe, ok := api.recipes[params["id"]]
	if !ok {
		_writeJSON(w, http.StatusNotFound, map[string]string{"message": "recipe not found"})
		return
	}
	liked := recipe.LikedBy(caller.Username)
	if body.Liked && !liked {
		recipe.Likers = append(recipe.Likers, caller.Username)
		if author, ok := api.accounts[recipe.Username]; ok && author.Username != caller.Username {
			author.Notifications = append(author.Notifications, data.Notification{
				Kind:        data.NotificationLike,
				Username:    caller.Username,
				RecipeTitle: recipe.Title,
				CreatedAt:   time.Now(),
			})
		}
	} else if !body.Liked && liked {
		for i, liker := range recipe.Likers {
			if liker == caller.Username {
				recipe.Likers = append(recipe.Likers[:i], recipe.Likers[i+1:]...)
				break
			}
		}
	}
	recipe.LikeCount = len(recipe.Likers)
	_writeJSON(w, http.StatusOK, map[string]any{"currentRecipe": _project(recipe, caller)})
}

func (api *LocalAPI) _me(w http.ResponseWriter, r *http.Request, caller *Account, _ map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	_writeJSON(w, http.StatusOK, api._profileLocked(caller, caller))
}

func (api *LocalAPI) _profile(w http.ResponseWriter, _ *http.Request, caller *Account, params map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	subject, ok := api.accounts[params["username"]]
	if !ok {
		_writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
		return
	}
	_writeJSON(w, http.StatusOK, api._profileLocked(subject, caller))
}

func (api *LocalAPI) _clearNotifications(w http.ResponseWriter, _ *http.Request, caller *Account, _ map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	caller.Notifications = nil
	_writeJSON(w, http.StatusOK, map[string]string{})
}

func (api *LocalAPI) _updateAccount(w http.ResponseWriter, r *http.Request, caller *Account, _ map[string]string) {
	var body data.AccountUpdate
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	if body.Username != caller.Username {
		if _, taken := api.accounts[body.Username]; taken {
			_writeJSON(w, http.StatusBadRequest, map[string]string{"usernameExists": "Username already exists"})
			return
		}
	}
	previous := caller.Username
	delete(api.accounts, previous)
	caller.Username = body.Username
	if body.SelectedAvatar != "" {
		caller.SelectedAvatar = body.SelectedAvatar
	}
	api.accounts[caller.Username] = caller
	for _, recipe := range api.recipes {
		if recipe.Username == previous {
			recipe.Username = caller.Username
		}
		for i, liker := range recipe.Likers {
			if liker == previous {
				recipe.Likers[i] = caller.Username
			}
		}
	}
	api._respondToken(w, caller)
}

func (api *LocalAPI) _follow(w http.ResponseWriter, r *http.Request, caller *Account, _ map[string]string) {
	var body struct {
		UserToFollowId string `json:"userToFollowId"`
		Following      bool   `json:"following"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		_writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad request"})
		return
	}
	api.mu.Lock()
	defer api.mu.Unlock()
	var target *Account
	for _, account := range api.accounts {
		if account.Id == body.UserToFollowId {
			target = account
			break
		}
	}
	if target == nil {
		_writeJSON(w, http.StatusNotFound, map[string]string{"message": "user not found"})
		return
	}
	target.Followers = _toggleMember(target.Followers, caller.Username, body.Following)
	caller.Following = _toggleMember(caller.Following, target.Username, body.Following)
	if body.Following {
		target.Notifications = append(target.Notifications, data.Notification{
			Kind:      data.NotificationFollow,
			Username:  caller.Username,
			CreatedAt: time.Now(),
		})
	}
	_writeJSON(w, http.StatusOK, map[string]any{
		"userToFollowFollowers": api._summariesLocked(target.Followers),
		"following":             body.Following,
	})
}

func (api *LocalAPI) _deleteLikes(w http.ResponseWriter, _ *http.Request, caller *Account, _ map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	for _, recipe := range api.recipes {
		for i, liker := range recipe.Likers {
			if liker == caller.Username {
				recipe.Likers = append(recipe.Likers[:i], recipe.Likers[i+1:]...)
				recipe.LikeCount = len(recipe.Likers)
				break
			}
		}
	}
	_writeJSON(w, http.StatusOK, map[string]string{})
}

func (api *LocalAPI) _deleteUserRecipes(w http.ResponseWriter, _ *http.Request, caller *Account, _ map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	for _, id := range append([]string{}, api.order...) {
		if api.recipes[id] != nil && api.recipes[id].Username == caller.Username {
			api._removeLocked(id)
		}
	}
	_writeJSON(w, http.StatusOK, map[string]string{})
}

func (api *LocalAPI) _deleteAccount(w http.ResponseWriter, _ *http.Request, caller *Account, _ map[string]string) {
	api.mu.Lock()
	defer api.mu.Unlock()
	for _, id := range append([]string{}, api.order...) {
		if api.recipes[id] != nil && api.recipes[id].Username == caller.Username {
			api._removeLocked(id)
		}
	}
	delete(api.accounts, caller.Username)
	_writeJSON(w, http.StatusOK, map[string]string{})
}

func (api *LocalAPI) _respondToken(w http.ResponseWriter, account *Account) {
	signed, err := api._issueLocked(account, 16*time.Hour)
	if err != nil {
		_writeJSON(w, http.StatusInternalServerError, map[string]string{"message": err.Error()})
		return
	}
	_writeJSON(w, http.StatusOK, map[string]string{"token": signed})
}

func (api *LocalAPI) _listLocked(caller *Account, keep func(*data.Recipe) bool) []data.Recipe {
	listed := make([]data.Recipe, 0, len(api.order))
	for _, id := range api.order {
		if recipe, ok := api.recipes[id]; ok && keep(recipe) {
			listed = append(listed, _project(recipe, caller))
		}
	}
	return listed
}

func (api *LocalAPI) _profileLocked(subject *Account, caller *Account) map[string]any {
	return map[string]any{
		"_id":            subject.Id,
		"username":       subject.Username,
		"fullName":       subject.FullName,
		"selectedAvatar": subject.SelectedAvatar,
		"date":           subject.CreateTime,
		"followers":      api._summariesLocked(subject.Followers),
		"following":      api._summariesLocked(subject.Following),
		"recipes": api._listLocked(caller, func(r *data.Recipe) bool {
			return r.Username == subject.Username
		}),
		"likes": api._listLocked(caller, func(r *data.Recipe) bool {
			return r.LikedBy(subject.Username)
		}),
	}
}

func (api *LocalAPI) _summariesLocked(usernames []string) []data.FollowSummary {
	summaries := make([]data.FollowSummary, 0, len(usernames))
	for _, username := range usernames {
		avatar := data.DefaultAvatar
		if account, ok := api.accounts[username]; ok {
			avatar = account.SelectedAvatar
		}
		summaries = append(summaries, data.FollowSummary{
			Username:       username,
			SelectedAvatar: avatar,
		})
	}
	return summaries
}

func (api *LocalAPI) _removeLocked(id string) {
	delete(api.recipes, id)
	for i, ordered := range api.order {
		if ordered == id {
			api.order = append(api.order[:i], api.order[i+1:]...)
			break
		}
	}
}

func _project(recipe *data.Recipe, caller *Account) data.Recipe {
	projected := *recipe
	projected.Likers = append([]string{}, recipe.Likers...)
	projected.LikeCount = len(recipe.Likers)
	if caller != nil {
		projected.IsLiked = recipe.LikedBy(caller.Username)
	}
	return projected
}

func _toggleMember(members []string, member string, present bool) []string {
	for i, existing := range members {
		if existing == member {
			if present {
				return members
			}
			return append(members[:i], members[i+1:]...)
		}
	}
	if present {
		return append(members, member)
	}
	return members
}

func _writeJSON(w http.ResponseWriter, statusCode int, body any) {
	serialized, err := json.Marshal(body)
	if err != nil {
		http.Error(w, fmt.Sprintf(`{"message": %q}`, err.Error()), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_, _ = w.Write(serialized)
}

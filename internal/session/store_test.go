package session

import (
	"context"
	"testing"
	"time"

	"github.com/jml312/recreate-client/internal/data"
	"github.com/jml312/recreate-client/internal/exceptions"
	"github.com/jml312/recreate-client/internal/gateway"
	"github.com/jml312/recreate-client/internal/storage"
	"github.com/jml312/recreate-client/internal/test"
	"github.com/jml312/recreate-client/internal/validate"
	"github.com/sirupsen/logrus"
)

type harness struct {
	api   *test.LocalAPI
	state *storage.StateStore
	store *Store
}

func _newHarness(t *testing.T) harness {
	api := test.NewLocalAPI(t)
	state, err := storage.NewStateStore("", logrus.New())
	if err != nil {
		t.Fatalf("Failed to open state store: %s", err)
	}
	t.Cleanup(func() { _ = state.Close() })
	g := gateway.NewGateway(api.Server.URL, state, logrus.New())
	return harness{
		api:   api,
		state: state,
		store: NewStore(g, state, validate.NewValidator(), logrus.New()),
	}
}

func TestLoginEstablishesAndPersistsSession(t *testing.T) {
	h := _newHarness(t)
	h.api.SeedAccount("philip", "philip@example.com", "longenough")

	sess, err := h.store.Login(context.Background(), data.Credentials{
		Email:        "philip@example.com",
		Password:     "longenough",
		CaptchaToken: "challenge-ok",
	})
	if err != nil {
		t.Fatalf("Failed to log in: %s", err)
	}
	if sess.Username != "philip" {
		t.Fatalf("Unexpected session identity: %v", sess)
	}
	if !h.store.Authenticated() {
		t.Fatalf("Expected an authenticated store")
	}
	if _, ok := h.state.LoadToken(); !ok {
		t.Fatalf("Expected the token persisted")
	}
}

func TestLoginSurfacesFieldKeyedFailures(t *testing.T) {
	h := _newHarness(t)
	h.api.SeedAccount("philip", "philip@example.com", "longenough")

	_, err := h.store.Login(context.Background(), data.Credentials{
		Email:        "nobody@example.com",
		Password:     "longenough",
		CaptchaToken: "challenge-ok",
	})
	if !exceptions.IsAuthError(err) {
		t.Fatalf("Expected an auth failure, found %v", err)
	}
	if h.store.Errors()["emailAuth"] == "" {
		t.Fatalf("Expected the failure keyed on emailAuth, found %v", h.store.Errors())
	}

	_, err = h.store.Login(context.Background(), data.Credentials{
		Email:        "philip@example.com",
		Password:     "wrong",
		CaptchaToken: "challenge-ok",
	})
	if h.store.Errors()["passwordAuth"] == "" {
		t.Fatalf("Expected the failure keyed on passwordAuth, found %v", h.store.Errors())
	}
	if err == nil || h.store.Authenticated() {
		t.Fatalf("Expected no session after a failed login")
	}
}

func TestLoginRequiresCaptchaToken(t *testing.T) {
	h := _newHarness(t)
	h.api.SeedAccount("philip", "philip@example.com", "longenough")

	_, err := h.store.Login(context.Background(), data.Credentials{
		Email:    "philip@example.com",
		Password: "longenough",
	})
	if err == nil {
		t.Fatalf("Expected a missing captcha token to fail")
	}
	if h.store.Errors()["captcha"] == "" {
		t.Fatalf("Expected the failure keyed on captcha, found %v", h.store.Errors())
	}
}

func TestRegisterValidatesLocallyWithoutNetworkCall(t *testing.T) {
	h := _newHarness(t)
	before := h.api.Calls()
	_, err := h.store.Register(context.Background(), data.Registration{
		FirstName:    "Philip",
		LastName:     "Cali",
		Username:     "pc",
		Email:        "philip@example.com",
		Password:     "longenough",
		CaptchaToken: "challenge-ok",
	})
	if !exceptions.IsValidation(err) {
		t.Fatalf("Expected a local validation failure, found %v", err)
	}
	if h.api.Calls() != before {
		t.Fatalf("Expected no request for a rejected registration")
	}
}

func TestRegisterSurfacesConflicts(t *testing.T) {
	h := _newHarness(t)
	h.api.SeedAccount("philip", "philip@example.com", "longenough")

	_, err := h.store.Register(context.Background(), data.Registration{
		FirstName:    "Other",
		LastName:     "Person",
		FullName:     "Other Person",
		Username:     "philip",
		Email:        "other@example.com",
		Password:     "longenough",
		CaptchaToken: "challenge-ok",
	})
	if _, ok := err.(*exceptions.ConflictError); !ok {
		t.Fatalf("Expected a username conflict, found %v", err)
	}
	if h.store.Errors()["usernameExists"] == "" {
		t.Fatalf("Expected the failure keyed on usernameExists, found %v", h.store.Errors())
	}
}

func TestGoogleAuthWithoutAccountAsksForRegistration(t *testing.T) {
	h := _newHarness(t)
	_, err := h.store.GoogleAuth(context.Background(), "unknown-identity")
	if _, ok := err.(*exceptions.NoAccountError); !ok {
		t.Fatalf("Expected a no-account failure, found %v", err)
	}
}

func TestGoogleAuthWithLinkedAccount(t *testing.T) {
	h := _newHarness(t)
	h.api.SeedAccount("philip", "philip@example.com", "longenough")
	h.api.LinkGoogle("provider-token", "philip")

	sess, err := h.store.GoogleAuth(context.Background(), "provider-token")
	if err != nil {
		t.Fatalf("Failed to authenticate: %s", err)
	}
	if sess.Username != "philip" {
		t.Fatalf("Unexpected session identity: %v", sess)
	}
}

func TestForgotAndResetPasswordFlow(t *testing.T) {
	h := _newHarness(t)
	account := h.api.SeedAccount("philip", "philip@example.com", "oldpassword")

	if err := h.store.ForgotPassword(context.Background(), "philip@example.com"); err != nil {
		t.Fatalf("Failed to request reset: %s", err)
	}
	if !h.store.ConsumeEmailSent() {
		t.Fatalf("Expected the email-sent flag raised")
	}
	if h.store.ConsumeEmailSent() {
		t.Fatalf("Expected the email-sent flag consumed")
	}

	if err := h.store.ResetPassword(context.Background(), account.ResetToken, "newpassword"); err != nil {
		t.Fatalf("Failed to reset password: %s", err)
	}
	if !h.store.ConsumePasswordReset() {
		t.Fatalf("Expected the password-reset flag raised")
	}

	if _, err := h.store.Login(context.Background(), data.Credentials{
		Email:        "philip@example.com",
		Password:     "newpassword",
		CaptchaToken: "challenge-ok",
	}); err != nil {
		t.Fatalf("Expected the new password to work, failed with %s", err)
	}
}

func TestRestoreRebuildsSessionWithoutNetwork(t *testing.T) {
	h := _newHarness(t)
	h.api.SeedAccount("philip", "philip@example.com", "longenough")
	if err := h.state.SaveToken(h.api.Issue(t, "philip")); err != nil {
		t.Fatalf("Failed to persist token: %s", err)
	}

	before := h.api.Calls()
	sess, ok := h.store.Restore()
	if !ok || sess.Username != "philip" {
		t.Fatalf("Expected the session restored, found %v, %v", sess, ok)
	}
	if h.api.Calls() != before {
		t.Fatalf("Expected restore to stay offline")
	}
}

func TestRestoreDiscardsExpiredToken(t *testing.T) {
	h := _newHarness(t)
	h.api.SeedAccount("philip", "philip@example.com", "longenough")
	if err := h.state.SaveToken(h.api.IssueExpiring(t, "philip", -time.Hour)); err != nil {
		t.Fatalf("Failed to persist token: %s", err)
	}

	if _, ok := h.store.Restore(); ok {
		t.Fatalf("Expected an expired token rejected")
	}
	if h.store.Authenticated() {
		t.Fatalf("Expected no session")
	}
	if _, ok := h.state.LoadToken(); ok {
		t.Fatalf("Expected the expired token cleared")
	}
}

func TestRestoreDiscardsGarbageToken(t *testing.T) {
	h := _newHarness(t)
	if err := h.state.SaveToken("not-a-token"); err != nil {
		t.Fatalf("Failed to persist token: %s", err)
	}
	if _, ok := h.store.Restore(); ok {
		t.Fatalf("Expected a garbage token rejected")
	}
	if _, ok := h.state.LoadToken(); ok {
		t.Fatalf("Expected the garbage token cleared")
	}
}

func TestLogoutIsIdempotent(t *testing.T) {
	h := _newHarness(t)
	h.api.SeedAccount("philip", "philip@example.com", "longenough")
	if _, err := h.store.Login(context.Background(), data.Credentials{
		Email:        "philip@example.com",
		Password:     "longenough",
		CaptchaToken: "challenge-ok",
	}); err != nil {
		t.Fatalf("Failed to log in: %s", err)
	}

	h.store.Logout()
	if h.store.Authenticated() {
		t.Fatalf("Expected no session after logout")
	}
	if _, ok := h.state.LoadToken(); ok {
		t.Fatalf("Expected the token cleared")
	}
	h.store.Logout()
	if h.store.Authenticated() {
		t.Fatalf("Expected a second logout to change nothing")
	}
}

func TestClearNotifications(t *testing.T) {
	h := _newHarness(t)
	h.api.SeedAccount("philip", "philip@example.com", "longenough")
	h.api.SeedAccount("sawyer", "sawyer@example.com", "longenough")
	seeded := h.api.SeedRecipe("philip", "Beef Stew", data.CuisineAmerican, []string{"beef", "salt", "onion"})

	// a like from another user leaves a notification on the author
	if err := h.state.SaveToken(h.api.Issue(t, "sawyer")); err != nil {
		t.Fatalf("Failed to persist token: %s", err)
	}
	g := gateway.NewGateway(h.api.Server.URL, h.state, logrus.New())
	if _, err := g.Call(context.Background(), "PATCH", "recipes/like/"+seeded.Id, map[string]any{"liked": true}, true); err != nil {
		t.Fatalf("Failed to like as the other user: %s", err)
	}

	if _, err := h.store.Login(context.Background(), data.Credentials{
		Email:        "philip@example.com",
		Password:     "longenough",
		CaptchaToken: "challenge-ok",
	}); err != nil {
		t.Fatalf("Failed to log in: %s", err)
	}
	sess, _ := h.store.Current()
	if len(sess.Notifications) != 1 || sess.Notifications[0].Kind != data.NotificationLike {
		t.Fatalf("Expected one like notification, found %v", sess.Notifications)
	}
	if h.state.NotificationsRead() {
		t.Fatalf("Expected the read flag unset while notifications are pending")
	}

	if err := h.store.ClearNotifications(context.Background()); err != nil {
		t.Fatalf("Failed to clear notifications: %s", err)
	}
	sess, _ = h.store.Current()
	if len(sess.Notifications) != 0 {
		t.Fatalf("Expected notifications cleared, found %v", sess.Notifications)
	}
	if !h.state.NotificationsRead() {
		t.Fatalf("Expected the read flag persisted")
	}
}

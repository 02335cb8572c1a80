package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jml312/recreate-client/internal/exceptions"
	"github.com/sirupsen/logrus"
)

type staticTokens string

func (st staticTokens) LoadToken() (string, bool) {
	return string(st), st != ""
}

func TestCallSendsStoredTokenVerbatim(t *testing.T) {
	var seen http.Header
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = r.Header.Clone()
		requests++
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok": true}`))
	}))
	defer server.Close()

	g := NewGateway(server.URL, staticTokens("Bearer stored-exactly"), logrus.New())
	payload, err := g.Call(context.Background(), http.MethodGet, "recipes/all", nil, true)
	if err != nil {
		t.Fatalf("Unexpected call failure: %s", err)
	}
	if len(payload) == 0 {
		t.Fatalf("Expected a payload")
	}
	if requests != 1 {
		t.Fatalf("Expected exactly one request, saw %d", requests)
	}
	if auth := seen.Get("Authorization"); auth != "Bearer stored-exactly" {
		t.Fatalf("Expected the stored token verbatim, found %q", auth)
	}
	if seen.Get("X-Request-Id") == "" {
		t.Fatalf("Expected a request id header")
	}
}

func TestCallRejectsAuthRequiredWithoutTokenBeforeNetwork(t *testing.T) {
	var requests int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
	}))
	defer server.Close()

	g := NewGateway(server.URL, staticTokens(""), logrus.New())
	_, err := g.Call(context.Background(), http.MethodGet, "recipes/all", nil, true)
	if !exceptions.IsAuthError(err) {
		t.Fatalf("Expected an auth failure, found %v", err)
	}
	if requests != 0 {
		t.Fatalf("Expected no request to leave the client, saw %d", requests)
	}
}

func TestCallClassifiesErrorPayloads(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"emailExists": "Email already exists"}`))
	}))
	defer server.Close()

	g := NewGateway(server.URL, staticTokens(""), logrus.New())
	_, err := g.Call(context.Background(), http.MethodPost, "auth/register", map[string]string{}, false)
	if err == nil {
		t.Fatalf("Expected the 400 to surface as an error")
	}
	fields := exceptions.FieldErrors(err)
	if fields["emailExists"] != "Email already exists" {
		t.Fatalf("Expected the field message preserved, found %v", fields)
	}
	if _, ok := err.(*exceptions.ConflictError); !ok {
		t.Fatalf("Expected a conflict classification, found %T", err)
	}
}

func TestCallClassifiesUnauthorizedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"tokenAuth": "Invalid token"}`))
	}))
	defer server.Close()

	g := NewGateway(server.URL, staticTokens("Bearer stale"), logrus.New())
	_, err := g.Call(context.Background(), http.MethodGet, "user/me", nil, true)
	if !exceptions.IsAuthError(err) {
		t.Fatalf("Expected an auth failure, found %v", err)
	}
}

func TestCallSurfacesNetworkFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	g := NewGateway(server.URL, staticTokens(""), logrus.New())
	_, err := g.Call(context.Background(), http.MethodGet, "recipes/all", nil, false)
	if err == nil {
		t.Fatalf("Expected a network failure to surface")
	}
	if fields := exceptions.FieldErrors(err); fields["network"] == "" {
		t.Fatalf("Expected a network field message, found %v", fields)
	}
}

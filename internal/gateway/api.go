package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jml312/recreate-client/internal/exceptions"
	"github.com/sirupsen/logrus"
)

// Caller is the single outbound contract every store depends on.
type Caller interface {
	Call(ctx context.Context, method string, endpoint string, body any, requiresAuth bool) (json.RawMessage, error)
}

// TokenSource supplies the persisted bearer token, when one exists.
type TokenSource interface {
	LoadToken() (string, bool)
}

type Gateway struct {
	BaseURL string
	Client  *http.Client
	Tokens  TokenSource
	log     *logrus.Entry
}

func NewGateway(baseURL string, tokens TokenSource, logger *logrus.Logger) *Gateway {
	return &Gateway{
		BaseURL: strings.TrimSuffix(baseURL, "/"),
		Client:  &http.Client{},
		Tokens:  tokens,
		log:     logger.WithField("component", "gateway"),
	}
}

// Call issues one request and fails fast: no retry, no timeout beyond the
// caller's context, server error payloads passed through unchanged.
func (g *Gateway) Call(ctx context.Context, method string, endpoint string, body any, requiresAuth bool) (json.RawMessage, error) {
	var authToken string
	if requiresAuth {
		stored, ok := g.Tokens.LoadToken()
		if !ok {
			return nil, exceptions.Unauthenticated()
		}
		authToken = stored
	}
	var reader io.Reader
	if body != nil {
		serialized, err := json.Marshal(body)
		if err != nil {
			return nil, exceptions.Http(0, map[string]string{"request": err.Error()})
		}
		reader = bytes.NewReader(serialized)
	}
	req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s/%s", g.BaseURL, strings.TrimPrefix(endpoint, "/")), reader)
	if err != nil {
		return nil, exceptions.Http(0, map[string]string{"request": err.Error()})
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-Id", uuid.NewString())
	if authToken != "" {
		// The stored value goes out verbatim; the server decides the scheme.
		req.Header.Set("Authorization", authToken)
	}
	start := time.Now()
	resp, err := g.Client.Do(req)
	if err != nil {
		g.log.WithFields(logrus.Fields{
			"method":   method,
			"endpoint": endpoint,
			"error":    err.Error(),
		}).Warn("Request failed before a response arrived")
		return nil, exceptions.Http(0, map[string]string{"network": err.Error()})
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, exceptions.Http(resp.StatusCode, map[string]string{"network": err.Error()})
	}
	g.log.WithFields(logrus.Fields{
		"method":   method,
		"endpoint": endpoint,
		"status":   resp.StatusCode,
		"duration": time.Since(start),
	}).Debug("Request completed")
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, exceptions.FromResponse(resp.StatusCode, _decodeErrorFields(payload))
	}
	return payload, nil
}

// The API reports failures as a flat JSON object keyed by field name.
// Anything else (HTML error pages, plain text) collapses to "message".
func _decodeErrorFields(payload []byte) map[string]string {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		text := strings.TrimSpace(string(payload))
		if text == "" {
			return nil
		}
		return map[string]string{"message": text}
	}
	fields := make(map[string]string, len(raw))
	for key, value := range raw {
		var message string
		if err := json.Unmarshal(value, &message); err != nil {
			message = string(value)
		}
		fields[key] = message
	}
	return fields
}

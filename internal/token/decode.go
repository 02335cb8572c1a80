package token

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"github.com/jml312/recreate-client/internal/data"
)

// The bearer token is an opaque credential signed by the API; the client
// never verifies it, only reads the expiry claim and the identity fields
// embedded for session bootstrap.

type sessionClaims struct {
	Id             string              `json:"_id"`
	Username       string              `json:"username"`
	FullName       string              `json:"fullName"`
	SelectedAvatar string              `json:"selectedAvatar"`
	Date           string              `json:"date"`
	Notifications  []data.Notification `json:"notifications"`
	jwt.RegisteredClaims
}

func Decode(raw string) (data.Session, error) {
	trimmed := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(raw), "Bearer "))
	if trimmed == "" {
		return data.Session{}, fmt.Errorf("empty session token")
	}
	claims := sessionClaims{}
	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(trimmed, &claims); err != nil {
		return data.Session{}, fmt.Errorf("malformed session token: %w", err)
	}
	if claims.Username == "" {
		return data.Session{}, fmt.Errorf("session token missing identity claims")
	}
	session := data.Session{
		Id:             claims.Id,
		Username:       claims.Username,
		FullName:       claims.FullName,
		SelectedAvatar: claims.SelectedAvatar,
		Notifications:  claims.Notifications,
	}
	if claims.ExpiresAt != nil {
		session.ExpiresAt = claims.ExpiresAt.Time
	}
	if claims.Date != "" {
		if created, err := time.Parse(time.RFC3339, claims.Date); err == nil {
			session.CreateTime = created
		}
	}
	return session, nil
}

// Sign builds a token the way the API does. Only test doubles use it; the
// client itself never mints credentials.
func Sign(session data.Session, secret []byte) (string, error) {
	payload := map[string]any{
		"_id":            session.Id,
		"username":       session.Username,
		"fullName":       session.FullName,
		"selectedAvatar": session.SelectedAvatar,
		"notifications":  session.Notifications,
		"iat":            time.Now().Unix(),
	}
	if !session.ExpiresAt.IsZero() {
		payload["exp"] = session.ExpiresAt.Unix()
	}
	if !session.CreateTime.IsZero() {
		payload["date"] = session.CreateTime.Format(time.RFC3339)
	}
	claims := jwt.MapClaims{}
	serialized, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}
	if err := json.Unmarshal(serialized, &claims); err != nil {
		return "", err
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

package exceptions

import (
	"fmt"
	"sort"
	"strings"
)

// ClientError is the common surface for everything a store can hand back
// to a view: a field-keyed message map for inline display, plus whether
// the failure happened before any network call was attempted.
type ClientError interface {
	Error() string
	Fields() map[string]string
	PreNetwork() bool
}

type ValidationError struct {
	Field   string
	Message string
}

func (ve *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

func (ve *ValidationError) Fields() map[string]string {
	return map[string]string{ve.Field: ve.Message}
}

func (ve *ValidationError) PreNetwork() bool {
	return true
}

func Invalid(field string, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

type ProfanityError struct {
	Field string
}

func (pe *ProfanityError) Error() string {
	return fmt.Sprintf("%s: inappropriate content", pe.Field)
}

func (pe *ProfanityError) Fields() map[string]string {
	return map[string]string{pe.Field: "Inappropriate " + pe.Field}
}

func (pe *ProfanityError) PreNetwork() bool {
	return true
}

func Profane(field string) *ProfanityError {
	return &ProfanityError{
		Field: field,
	}
}

type ConflictError struct {
	Field   string
	Message string
}

func (ce *ConflictError) Error() string {
	return fmt.Sprintf("%s: %s", ce.Field, ce.Message)
}

func (ce *ConflictError) Fields() map[string]string {
	return map[string]string{ce.Field: ce.Message}
}

func (ce *ConflictError) PreNetwork() bool {
	return false
}

func Conflict(field string, message string) *ConflictError {
	return &ConflictError{
		Field:   field,
		Message: message,
	}
}

type AuthError struct {
	FieldMessages map[string]string
	// Local is set when the call was refused before dialing, e.g. an
	// authenticated endpoint invoked with no session token on hand.
	Local bool
}

func (ae *AuthError) Error() string {
	return _joinFields(ae.FieldMessages)
}

func (ae *AuthError) Fields() map[string]string {
	return ae.FieldMessages
}

func (ae *AuthError) PreNetwork() bool {
	return ae.Local
}

func Unauthenticated() *AuthError {
	return &AuthError{
		Local: true,
		FieldMessages: map[string]string{
			"token": "You must be logged in",
		},
	}
}

func AuthFailed(fields map[string]string) *AuthError {
	return &AuthError{
		FieldMessages: fields,
	}
}

// CaptchaRequired marks a login/register attempt whose anti-automation
// challenge token was missing or rejected by the API.
func CaptchaRequired() *AuthError {
	return &AuthError{
		FieldMessages: map[string]string{
			"captcha": "Captcha verification failed",
		},
	}
}

// NoAccountError signals that an OAuth identity has no local account yet;
// the caller should collect a username and password and register instead.
type NoAccountError struct {
	Provider string
}

func (na *NoAccountError) Error() string {
	return fmt.Sprintf("no account registered for this %s identity", na.Provider)
}

func (na *NoAccountError) Fields() map[string]string {
	return map[string]string{"account": na.Error()}
}

func (na *NoAccountError) PreNetwork() bool {
	return false
}

func NewAccountRequired(provider string) *NoAccountError {
	return &NoAccountError{
		Provider: provider,
	}
}

type HttpError struct {
	StatusCode    int
	FieldMessages map[string]string
}

func (he *HttpError) Error() string {
	return fmt.Sprintf("request failed with status %d: %s", he.StatusCode, _joinFields(he.FieldMessages))
}

func (he *HttpError) Fields() map[string]string {
	return he.FieldMessages
}

func (he *HttpError) PreNetwork() bool {
	return false
}

func Http(statusCode int, fields map[string]string) *HttpError {
	if len(fields) == 0 {
		fields = map[string]string{"message": "Something went wrong"}
	}
	return &HttpError{
		StatusCode:    statusCode,
		FieldMessages: fields,
	}
}

// FromResponse classifies a non-2xx API payload into the client taxonomy.
// The server reports failures as a flat field-to-message object; the field
// names themselves carry the kind (emailExists, profaneUsername, emailAuth).
func FromResponse(statusCode int, fields map[string]string) ClientError {
	for field := range fields {
		switch {
		case strings.HasSuffix(field, "Exists"):
			return Conflict(field, fields[field])
		case strings.HasPrefix(field, "profane"):
			return Profane(strings.ToLower(strings.TrimPrefix(field, "profane")))
		case field == "captcha":
			return CaptchaRequired()
		}
	}
	if statusCode == 401 || statusCode == 403 || _hasAuthField(fields) {
		return AuthFailed(fields)
	}
	return Http(statusCode, fields)
}

func FieldErrors(err error) map[string]string {
	if ce, ok := err.(ClientError); ok {
		return ce.Fields()
	}
	return map[string]string{"message": err.Error()}
}

func IsValidation(err error) bool {
	if ce, ok := err.(ClientError); ok {
		return ce.PreNetwork()
	}
	return false
}

func IsAuthError(err error) bool {
	_, ok := err.(*AuthError)
	return ok
}

func _hasAuthField(fields map[string]string) bool {
	for field := range fields {
		if strings.HasSuffix(field, "Auth") {
			return true
		}
	}
	return false
}

func _joinFields(fields map[string]string) string {
	if len(fields) == 0 {
		return "unknown error"
	}
	keys := make([]string, 0, len(fields))
	for key := range fields {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", key, fields[key]))
	}
	return strings.Join(parts, "; ")
}

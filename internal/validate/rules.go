package validate

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	goaway "github.com/TwiN/go-away"
	"github.com/gertd/go-pluralize"
	"github.com/go-playground/validator/v10"
	"github.com/jml312/recreate-client/internal/data"
	"github.com/jml312/recreate-client/internal/exceptions"
)

const (
	TitleMinLength      = 4
	TitleMaxLength      = 16
	IngredientMinLength = 3
	IngredientMaxLength = 15
	MinIngredients      = 3
	MaxIngredients      = 8
	UsernameMinLength   = 5
	UsernameMaxLength   = 8
)

var titlePattern = regexp.MustCompile(`^([a-zA-Z]+\s)*[a-zA-Z]+$`)

// Validator holds every rule that must pass before a draft or account
// change reaches the network. Failures never leave the client.
type Validator struct {
	validate  *validator.Validate
	profanity *goaway.ProfanityDetector
	plural    *pluralize.Client
}

func NewValidator() *Validator {
	return &Validator{
		validate:  validator.New(),
		profanity: goaway.NewProfanityDetector(),
		plural:    pluralize.NewClient(),
	}
}

// NormalizeTitle capitalizes each word the way the server stores titles,
// so a created recipe round-trips byte-identical.
func (v *Validator) NormalizeTitle(title string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(title)))
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}

// ParseQuantity splits an optional leading count off a raw ingredient
// entry ("2 egg" yields "egg", 2; "1 egg" yields "egg", 1). Entries
// without a positive leading count keep the whole string and quantity one.
func (v *Validator) ParseQuantity(raw string) (string, int) {
	trimmed := strings.TrimSpace(raw)
	fields := strings.Fields(trimmed)
	if len(fields) < 2 {
		return trimmed, 1
	}
	quantity, err := strconv.Atoi(fields[0])
	if err != nil || quantity < 1 {
		return trimmed, 1
	}
	return strings.Join(fields[1:], " "), quantity
}

// NormalizeIngredient folds case and applies count-aware pluralization:
// quantity one keeps the singular, anything above pluralizes with the
// count folded in ("2 eggs").
func (v *Validator) NormalizeIngredient(name string, quantity int) string {
	folded := strings.ToLower(strings.TrimSpace(name))
	if quantity <= 1 {
		return folded
	}
	return strings.ToLower(v.plural.Pluralize(folded, quantity, true))
}

func (v *Validator) ValidateTitle(title string) error {
	if err := v.validate.Var(title, fmt.Sprintf("required,min=%d,max=%d", TitleMinLength, TitleMaxLength)); err != nil {
		return exceptions.Invalid("title", fmt.Sprintf("Title should be %d-%d characters", TitleMinLength, TitleMaxLength))
	}
	if !titlePattern.MatchString(title) {
		return exceptions.Invalid("title", "Title should only contain letters")
	}
	if v.profanity.IsProfane(title) {
		return exceptions.Profane("title")
	}
	return nil
}

func (v *Validator) ValidateIngredient(ingredient string) error {
	length := len([]rune(ingredient))
	if length < IngredientMinLength {
		return exceptions.Invalid("ingredients", fmt.Sprintf("Ingredients should be %d characters or more", IngredientMinLength))
	}
	if length > IngredientMaxLength {
		return exceptions.Invalid("ingredients", fmt.Sprintf("Ingredients should be %d characters or less", IngredientMaxLength))
	}
	if v.profanity.IsProfane(ingredient) {
		return exceptions.Profane("ingredients")
	}
	return nil
}

func (v *Validator) ValidateDraft(draft data.RecipeDraft) error {
	if err := v.ValidateTitle(draft.Title); err != nil {
		return err
	}
	if !draft.Cuisine.Valid() {
		return exceptions.Invalid("cuisine", fmt.Sprintf("Unknown cuisine: %s", draft.Cuisine))
	}
	if len(draft.Ingredients) < MinIngredients {
		return exceptions.Invalid("ingredients", fmt.Sprintf("List at least %d ingredients", MinIngredients))
	}
	if len(draft.Ingredients) > MaxIngredients {
		return exceptions.Invalid("ingredients", fmt.Sprintf("%d ingredients max", MaxIngredients))
	}
	seen := make(map[string]struct{}, len(draft.Ingredients))
	for _, ingredient := range draft.Ingredients {
		if err := v.ValidateIngredient(ingredient); err != nil {
			return err
		}
		folded := strings.ToLower(ingredient)
		if _, ok := seen[folded]; ok {
			return exceptions.Invalid("ingredients", fmt.Sprintf("%s has already been added", folded))
		}
		seen[folded] = struct{}{}
	}
	return nil
}

func (v *Validator) ValidateUsername(username string) error {
	if len(username) < UsernameMinLength {
		return exceptions.Invalid("username", fmt.Sprintf("Username should be at least %d characters", UsernameMinLength))
	}
	if len(username) > UsernameMaxLength {
		return exceptions.Invalid("username", fmt.Sprintf("Username should be less than %d characters", UsernameMaxLength+1))
	}
	if v.profanity.IsProfane(username) {
		return exceptions.Profane("username")
	}
	return nil
}

func (v *Validator) ValidateRegistration(registration data.Registration) error {
	if v.profanity.IsProfane(registration.FirstName) {
		return exceptions.Profane("firstName")
	}
	if v.profanity.IsProfane(registration.LastName) {
		return exceptions.Profane("lastName")
	}
	if err := v.ValidateUsername(registration.Username); err != nil {
		return err
	}
	if err := v.validate.Var(registration.Email, "required,email"); err != nil {
		return exceptions.Invalid("email", "A valid email is required")
	}
	if err := v.validate.Var(registration.Password, "required,min=8"); err != nil {
		return exceptions.Invalid("password", "Password should be at least 8 characters")
	}
	return nil
}

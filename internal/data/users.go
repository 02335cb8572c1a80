package data

import "time"

type NotificationKind string

const (
	NotificationLike   NotificationKind = "Like"
	NotificationFollow NotificationKind = "Follow"
)

type Notification struct {
	Kind        NotificationKind `json:"notificationType"`
	Username    string           `json:"username"`
	RecipeTitle string           `json:"recipeTitle,omitempty"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Session is the authenticated identity decoded from the bearer token.
// Identity fields are a bootstrap convenience only; the API stays
// authoritative and profiles are refetched when freshness matters.
type Session struct {
	Id             string
	Username       string
	FullName       string
	SelectedAvatar string
	CreateTime     time.Time
	Notifications  []Notification
	ExpiresAt      time.Time
}

func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && s.ExpiresAt.Before(now)
}

type FollowSummary struct {
	Username       string `json:"username"`
	SelectedAvatar string `json:"selectedAvatar"`
}

type Profile struct {
	Id             string          `json:"_id"`
	Username       string          `json:"username"`
	FullName       string          `json:"fullName"`
	SelectedAvatar string          `json:"selectedAvatar"`
	CreateTime     time.Time       `json:"date"`
	Followers      []FollowSummary `json:"followers"`
	Following      []FollowSummary `json:"following"`
	Recipes        []Recipe        `json:"recipes"`
	Likes          []Recipe        `json:"likes"`
}

func (p Profile) FollowedBy(username string) bool {
	for _, follower := range p.Followers {
		if follower.Username == username {
			return true
		}
	}
	return false
}

type Credentials struct {
	Email        string `json:"email"`
	Password     string `json:"password"`
	CaptchaToken string `json:"token"`
}

type Registration struct {
	FirstName      string `json:"firstName"`
	LastName       string `json:"lastName"`
	FullName       string `json:"fullName"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	SelectedAvatar string `json:"selectedAvatar"`
	CaptchaToken   string `json:"token"`
}

type AccountUpdate struct {
	Username       string `json:"username"`
	SelectedAvatar string `json:"selectedAvatar"`
}

var Avatars = []string{
	"Gordon Ramsay",
	"Julia Child",
	"Anthony Bourdain",
	"Ina Garten",
	"Emeril Lagasse",
	"Nigella Lawson",
}

const DefaultAvatar = "Gordon Ramsay"

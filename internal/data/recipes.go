package data

import (
	"time"

	"golang.org/x/exp/slices"
)

type Cuisine string

const (
	CuisineMexican    Cuisine = "Mexican"
	CuisineItalian    Cuisine = "Italian"
	CuisineAmerican   Cuisine = "American"
	CuisineIndian     Cuisine = "Indian"
	CuisineGreek      Cuisine = "Greek"
	CuisineFrench     Cuisine = "French"
	CuisineSpanish    Cuisine = "Spanish"
	CuisineThai       Cuisine = "Thai"
	CuisineVietnamese Cuisine = "Vietnamese"
	CuisineJapanese   Cuisine = "Japanese"
	CuisineKorean     Cuisine = "Korean"
	CuisineChinese    Cuisine = "Chinese"
	CuisineRussian    Cuisine = "Russian"
)

func Cuisines() []Cuisine {
	return []Cuisine{
		CuisineMexican,
		CuisineItalian,
		CuisineAmerican,
		CuisineIndian,
		CuisineGreek,
		CuisineFrench,
		CuisineSpanish,
		CuisineThai,
		CuisineVietnamese,
		CuisineJapanese,
		CuisineKorean,
		CuisineChinese,
		CuisineRussian,
	}
}

func (c Cuisine) Valid() bool {
	return slices.Contains(Cuisines(), c)
}

type Recipe struct {
	Id          string    `json:"_id"`
	Title       string    `json:"title"`
	Cuisine     Cuisine   `json:"cuisine"`
	Ingredients []string  `json:"ingredients"`
	Username    string    `json:"username"`
	Likers      []string  `json:"likers"`
	LikeCount   int       `json:"likeCount"`
	IsLiked     bool      `json:"isLiked"`
	CreatedAt   time.Time `json:"createdAt"`
}

// LikedBy reports liker-set membership without touching the cached
// IsLiked projection, which is only meaningful for the session user.
func (r Recipe) LikedBy(username string) bool {
	return slices.Contains(r.Likers, username)
}

type RecipeDraft struct {
	Title       string   `json:"title"`
	Cuisine     Cuisine  `json:"cuisine"`
	Ingredients []string `json:"ingredients"`
}

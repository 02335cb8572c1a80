package propagate

import (
	"github.com/jml312/recreate-client/internal/data"
	"golang.org/x/exp/slices"
)

// Every cached view keeps its own denormalized copy of a recipe, so each
// successful mutation is rewritten into every list that could hold the id.
// Apply is pure: inputs are never mutated, all four lists come back as
// fresh slices, and running it twice with the same mutation is a no-op
// the second time.

type Kind int

const (
	Created Kind = iota
	Updated
	Deleted
	Liked
)

type Mutation struct {
	Kind   Kind
	Recipe data.Recipe
}

// Lists mirrors the four recipe views a client renders from.
type Lists struct {
	Feed      []data.Recipe
	TopRanked []data.Recipe
	Authored  []data.Recipe
	Liked     []data.Recipe
}

func Apply(lists Lists, m Mutation) Lists {
	switch m.Kind {
	case Created:
		return Lists{
			Feed:      _append(lists.Feed, m.Recipe),
			TopRanked: slices.Clone(lists.TopRanked),
			Authored:  _append(lists.Authored, m.Recipe),
			Liked:     slices.Clone(lists.Liked),
		}
	case Updated:
		return Lists{
			Feed:      _replace(lists.Feed, m.Recipe),
			TopRanked: _replace(lists.TopRanked, m.Recipe),
			Authored:  _replace(lists.Authored, m.Recipe),
			Liked:     _replace(lists.Liked, m.Recipe),
		}
	case Deleted:
		return Lists{
			Feed:      _remove(lists.Feed, m.Recipe.Id),
			TopRanked: _remove(lists.TopRanked, m.Recipe.Id),
			Authored:  _remove(lists.Authored, m.Recipe.Id),
			Liked:     _remove(lists.Liked, m.Recipe.Id),
		}
	case Liked:
		liked := _replace(lists.Liked, m.Recipe)
		if m.Recipe.IsLiked {
			if _indexOf(liked, m.Recipe.Id) < 0 {
				liked = append(liked, m.Recipe)
			}
		} else {
			liked = _remove(liked, m.Recipe.Id)
		}
		return Lists{
			Feed:      _replace(lists.Feed, m.Recipe),
			TopRanked: _replace(lists.TopRanked, m.Recipe),
			Authored:  _replace(lists.Authored, m.Recipe),
			Liked:     liked,
		}
	}
	return lists
}

// ApplyProfile patches the nested recipe sublists of the profile being
// viewed, so a mutation issued from a profile page stays visible there.
func ApplyProfile(profile data.Profile, m Mutation) data.Profile {
	patched := profile
	switch m.Kind {
	case Deleted:
		patched.Recipes = _remove(profile.Recipes, m.Recipe.Id)
		patched.Likes = _remove(profile.Likes, m.Recipe.Id)
	case Updated, Liked:
		patched.Recipes = _replace(profile.Recipes, m.Recipe)
		patched.Likes = _replace(profile.Likes, m.Recipe)
	case Created:
		if m.Recipe.Username == profile.Username {
			patched.Recipes = _append(profile.Recipes, m.Recipe)
		}
	}
	return patched
}

// Find returns the first cached copy of id across the four lists.
func Find(lists Lists, id string) (data.Recipe, bool) {
	for _, list := range [][]data.Recipe{lists.Feed, lists.TopRanked, lists.Authored, lists.Liked} {
		if i := _indexOf(list, id); i >= 0 {
			return list[i], true
		}
	}
	return data.Recipe{}, false
}

func _indexOf(list []data.Recipe, id string) int {
	return slices.IndexFunc(list, func(r data.Recipe) bool {
		return r.Id == id
	})
}

func _append(list []data.Recipe, recipe data.Recipe) []data.Recipe {
	if i := _indexOf(list, recipe.Id); i >= 0 {
		return _replace(list, recipe)
	}
	return append(slices.Clone(list), recipe)
}

func _replace(list []data.Recipe, recipe data.Recipe) []data.Recipe {
	patched := slices.Clone(list)
	if i := _indexOf(patched, recipe.Id); i >= 0 {
		patched[i] = recipe
	}
	return patched
}

func _remove(list []data.Recipe, id string) []data.Recipe {
	patched := slices.Clone(list)
	if i := _indexOf(patched, id); i >= 0 {
		patched = append(patched[:i], patched[i+1:]...)
	}
	return patched
}

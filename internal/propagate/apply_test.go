package propagate

import (
	"testing"

	"github.com/jml312/recreate-client/internal/data"
)

func _seedLists() Lists {
	pancakes := data.Recipe{Id: "r1", Title: "Pancakes", Username: "philip"}
	tacos := data.Recipe{Id: "r2", Title: "Tacos", Username: "philip"}
	ramen := data.Recipe{Id: "r3", Title: "Ramen", Username: "sawyer"}
	return Lists{
		Feed:      []data.Recipe{pancakes, tacos, ramen},
		TopRanked: []data.Recipe{ramen, pancakes},
		Authored:  []data.Recipe{pancakes, tacos},
		Liked:     []data.Recipe{ramen},
	}
}

func TestApplyCreatedAppendsToFeedAndAuthored(t *testing.T) {
	before := _seedLists()
	created := data.Recipe{Id: "r4", Title: "Gumbo", Username: "philip"}
	after := Apply(before, Mutation{Kind: Created, Recipe: created})
	if len(after.Feed) != 4 || after.Feed[3].Id != "r4" {
		t.Fatalf("Expected new recipe at the end of the feed, found %v", after.Feed)
	}
	if len(after.Authored) != 3 || after.Authored[2].Id != "r4" {
		t.Fatalf("Expected new recipe in authored list, found %v", after.Authored)
	}
	if len(after.TopRanked) != 2 || len(after.Liked) != 1 {
		t.Fatalf("Expected ranked and liked lists untouched, found %v and %v", after.TopRanked, after.Liked)
	}
	if len(before.Feed) != 3 {
		t.Fatalf("Expected the input lists unchanged, feed is now %v", before.Feed)
	}
}

func TestApplyUpdatedReplacesEveryOccurrence(t *testing.T) {
	before := _seedLists()
	updated := data.Recipe{Id: "r1", Title: "Buttermilk Pancakes", Username: "philip"}
	after := Apply(before, Mutation{Kind: Updated, Recipe: updated})
	for name, list := range map[string][]data.Recipe{
		"feed":     after.Feed,
		"ranked":   after.TopRanked,
		"authored": after.Authored,
	} {
		found := false
		for _, recipe := range list {
			if recipe.Id == "r1" {
				found = true
				if recipe.Title != "Buttermilk Pancakes" {
					t.Fatalf("Expected updated title in %s list, found %s", name, recipe.Title)
				}
			}
		}
		if !found {
			t.Fatalf("Expected r1 to remain in %s list", name)
		}
	}
	if len(after.Liked) != 1 || after.Liked[0].Id != "r3" {
		t.Fatalf("Expected liked list membership unchanged, found %v", after.Liked)
	}
}

func TestApplyUpdatedIsNoOpForUnknownId(t *testing.T) {
	before := _seedLists()
	after := Apply(before, Mutation{Kind: Updated, Recipe: data.Recipe{Id: "missing"}})
	if len(after.Feed) != 3 || len(after.TopRanked) != 2 || len(after.Authored) != 2 || len(after.Liked) != 1 {
		t.Fatalf("Expected identical list sizes, found %v", after)
	}
}

func TestApplyDeletedRemovesFromEveryList(t *testing.T) {
	before := _seedLists()
	after := Apply(before, Mutation{Kind: Deleted, Recipe: data.Recipe{Id: "r1"}})
	for name, list := range map[string][]data.Recipe{
		"feed":     after.Feed,
		"ranked":   after.TopRanked,
		"authored": after.Authored,
	} {
		if _, found := Find(Lists{Feed: list}, "r1"); found {
			t.Fatalf("Expected r1 removed from %s list, found %v", name, list)
		}
	}
	if len(after.Feed) != 2 || len(after.TopRanked) != 1 || len(after.Authored) != 1 {
		t.Fatalf("Unexpected list sizes after delete: %v", after)
	}
}

func TestApplyLikedManagesLikedListMembership(t *testing.T) {
	before := _seedLists()
	liked := before.Feed[0]
	liked.IsLiked = true
	liked.LikeCount = 1
	liked.Likers = []string{"sawyer"}

	after := Apply(before, Mutation{Kind: Liked, Recipe: liked})
	if len(after.Liked) != 2 {
		t.Fatalf("Expected liked recipe appended to liked list, found %v", after.Liked)
	}
	if after.Feed[0].LikeCount != 1 || !after.Feed[0].IsLiked {
		t.Fatalf("Expected feed copy refreshed, found %v", after.Feed[0])
	}

	unliked := liked
	unliked.IsLiked = false
	unliked.LikeCount = 0
	unliked.Likers = nil
	again := Apply(after, Mutation{Kind: Liked, Recipe: unliked})
	if len(again.Liked) != 1 || again.Liked[0].Id != "r3" {
		t.Fatalf("Expected unliked recipe dropped from liked list, found %v", again.Liked)
	}
}

func TestApplyIsIdempotentForSameMutation(t *testing.T) {
	before := _seedLists()
	m := Mutation{Kind: Updated, Recipe: data.Recipe{Id: "r2", Title: "Street Tacos", Username: "philip"}}
	once := Apply(before, m)
	twice := Apply(once, m)
	if len(once.Feed) != len(twice.Feed) || len(once.Authored) != len(twice.Authored) {
		t.Fatalf("Expected reapplying the same mutation to change nothing, %v vs %v", once, twice)
	}
	if twice.Feed[1].Title != "Street Tacos" {
		t.Fatalf("Expected the replacement to stick, found %s", twice.Feed[1].Title)
	}
}

func TestApplyProfilePatchesViewedLists(t *testing.T) {
	profile := data.Profile{
		Username: "philip",
		Recipes:  []data.Recipe{{Id: "r1", Title: "Pancakes"}},
		Likes:    []data.Recipe{{Id: "r3", Title: "Ramen"}},
	}
	patched := ApplyProfile(profile, Mutation{Kind: Deleted, Recipe: data.Recipe{Id: "r1"}})
	if len(patched.Recipes) != 0 {
		t.Fatalf("Expected deleted recipe dropped from profile, found %v", patched.Recipes)
	}
	if len(profile.Recipes) != 1 {
		t.Fatalf("Expected the input profile unchanged, found %v", profile.Recipes)
	}
}

func TestFindSearchesEverySlot(t *testing.T) {
	lists := _seedLists()
	if _, found := Find(lists, "r3"); !found {
		t.Fatalf("Expected to find r3")
	}
	if _, found := Find(lists, "missing"); found {
		t.Fatalf("Did not expect to find a missing id")
	}
}

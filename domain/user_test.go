package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func ids(stories []Story) []string {
	out := make([]string, 0, len(stories))
	for _, s := range stories {
		out = append(out, s.ID)
	}
	return out
}

func TestUserReplaceStory(t *testing.T) {
	u := User{
		Favorites:  []Story{{ID: "b", Title: "B"}},
		OwnStories: []Story{{ID: "a", Title: "X"}},
	}
	u.ReplaceStory(Story{ID: "a", Title: "Y"})

	if diff := cmp.Diff([]Story{{ID: "a", Title: "Y"}}, u.OwnStories); diff != "" {
		t.Fatalf("own stories mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]Story{{ID: "b", Title: "B"}}, u.Favorites); diff != "" {
		t.Fatalf("favorites must be untouched (-want +got):\n%s", diff)
	}
}

func TestUserRemoveStory_AllMembershipStates(t *testing.T) {
	tests := []struct {
		name string
		user User
	}{
		{name: "absent", user: User{Favorites: []Story{{ID: "x"}}, OwnStories: []Story{{ID: "y"}}}},
		{name: "favorites only", user: User{Favorites: []Story{{ID: "a"}, {ID: "x"}}}},
		{name: "own only", user: User{OwnStories: []Story{{ID: "a"}}}},
		{name: "both", user: User{Favorites: []Story{{ID: "a"}}, OwnStories: []Story{{ID: "y"}, {ID: "a"}}}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u := tc.user
			u.RemoveStory("a")
			if u.IsFavorite("a") {
				t.Fatalf("story still favorite: %v", ids(u.Favorites))
			}
			if _, ok := u.OwnStory("a"); ok {
				t.Fatalf("story still owned: %v", ids(u.OwnStories))
			}
		})
	}
}

func TestUserAddOwnStory_NoDuplicates(t *testing.T) {
	var u User
	u.AddOwnStory(Story{ID: "a", Title: "1"})
	u.AddOwnStory(Story{ID: "b"})
	u.AddOwnStory(Story{ID: "a", Title: "2"})

	if diff := cmp.Diff([]string{"a", "b"}, ids(u.OwnStories)); diff != "" {
		t.Fatalf("own story ids mismatch (-want +got):\n%s", diff)
	}
	if s, _ := u.OwnStory("a"); s.Title != "2" {
		t.Fatalf("expected duplicate add to replace in place, got %#v", s)
	}
}

func TestUserSetFavorites_DropsDuplicateIDs(t *testing.T) {
	var u User
	u.SetFavorites([]Story{{ID: "a"}, {ID: "b"}, {ID: "a"}})
	if diff := cmp.Diff([]string{"a", "b"}, ids(u.Favorites)); diff != "" {
		t.Fatalf("favorites mismatch (-want +got):\n%s", diff)
	}
}

func TestUserClone_IsDeep(t *testing.T) {
	u := User{Username: "u", Favorites: []Story{{ID: "a"}}, OwnStories: []Story{{ID: "b"}}}
	c := u.Clone()
	c.Favorites[0].Title = "changed"
	c.OwnStories = append(c.OwnStories, Story{ID: "c"})
	if u.Favorites[0].Title != "" || len(u.OwnStories) != 1 {
		t.Fatalf("clone shares state with original: %#v", u)
	}
}

func TestCredentialsEmpty(t *testing.T) {
	if !(Credentials{}).Empty() || !(Credentials{Token: "t"}).Empty() || !(Credentials{Username: "u"}).Empty() {
		t.Fatalf("partial credentials must be empty")
	}
	if (Credentials{Token: "t", Username: "u"}).Empty() {
		t.Fatalf("full credentials must not be empty")
	}
}

func TestStoryListPrependAndIndex(t *testing.T) {
	l := StoryList{Stories: []Story{{ID: "b"}}}
	l.Prepend(Story{ID: "a"})
	if l.Len() != 2 || l.Index("a") != 0 || l.Index("b") != 1 || l.Index("z") != -1 {
		t.Fatalf("unexpected list: %v", ids(l.Stories))
	}
	c := l.Clone()
	c.Stories[0].ID = "changed"
	if l.Stories[0].ID != "a" {
		t.Fatalf("clone shares backing array")
	}
}

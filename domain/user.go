package domain

import (
	"strings"
	"time"
)

// Credentials identify an authenticated user to the API. They are also the
// only state persisted between runs.
type Credentials struct {
	Token    string `json:"token"`
	Username string `json:"username"`
}

// Empty reports whether either the token or the username is missing.
func (c Credentials) Empty() bool {
	return strings.TrimSpace(c.Token) == "" || strings.TrimSpace(c.Username) == ""
}

// User is the logged-in account together with its favorites and its own
// stories. Neither collection holds duplicate story ids.
type User struct {
	Username   string
	Name       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
	LoginToken string
	Favorites  []Story
	OwnStories []Story
}

// Credentials returns the token/username pair of u.
func (u User) Credentials() Credentials {
	return Credentials{Token: u.LoginToken, Username: u.Username}
}

// IsFavorite reports whether the story with the given id is a favorite.
func (u User) IsFavorite(id string) bool {
	return indexOf(u.Favorites, id) != -1
}

// OwnStory returns the story with the given id from the user's own stories.
func (u User) OwnStory(id string) (Story, bool) {
	if i := indexOf(u.OwnStories, id); i != -1 {
		return u.OwnStories[i], true
	}
	return Story{}, false
}

// AddOwnStory appends s to the user's own stories. A story already present
// is replaced in place instead.
func (u *User) AddOwnStory(s Story) {
	if i := indexOf(u.OwnStories, s.ID); i != -1 {
		u.OwnStories[i] = s
		return
	}
	u.OwnStories = append(u.OwnStories, s)
}

// ReplaceStory swaps the first entry matching s.ID in both favorites and own
// stories for s. Collections that do not hold the story are left alone.
func (u *User) ReplaceStory(s Story) {
	if i := indexOf(u.Favorites, s.ID); i != -1 {
		u.Favorites[i] = s
	}
	if i := indexOf(u.OwnStories, s.ID); i != -1 {
		u.OwnStories[i] = s
	}
}

// RemoveStory drops every entry with the given id from favorites and own stories.
func (u *User) RemoveStory(id string) {
	u.Favorites = without(u.Favorites, id)
	u.OwnStories = without(u.OwnStories, id)
}

// SetFavorites overwrites the favorites with the given list, keeping the first
// occurrence of each id.
func (u *User) SetFavorites(stories []Story) {
	u.Favorites = dedupe(stories)
}

// Clone returns a deep copy of u.
func (u User) Clone() User {
	c := u
	c.Favorites = cloneStories(u.Favorites)
	c.OwnStories = cloneStories(u.OwnStories)
	return c
}

func without(stories []Story, id string) []Story {
	out := make([]Story, 0, len(stories))
	for _, s := range stories {
		if s.ID != id {
			out = append(out, s)
		}
	}
	return out
}

func dedupe(stories []Story) []Story {
	out := make([]Story, 0, len(stories))
	seen := make(map[string]struct{}, len(stories))
	for _, s := range stories {
		if _, ok := seen[s.ID]; ok {
			continue
		}
		seen[s.ID] = struct{}{}
		out = append(out, s)
	}
	return out
}

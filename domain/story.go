package domain

import (
	"strings"
	"time"
)

// Story is a single link submitted to the news feed. IDs are assigned by the
// server and never chosen by the client.
type Story struct {
	ID        string
	Title     string
	Author    string
	URL       string
	Username  string // Poster of the story
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Same reports whether s and other denote the same logical story.
func (s Story) Same(other Story) bool {
	return s.ID == other.ID
}

// HostName returns the host part of the story URL without a leading "www.".
// The host ends at the first "/", "?" or "#", so a query or fragment right
// after the host is never shown as part of it.
func (s Story) HostName() string {
	u := strings.TrimSpace(s.URL)
	var host string
	if idx := strings.Index(u, "://"); idx > -1 {
		host = u[idx+3:]
	} else {
		host = u
	}
	if idx := strings.IndexAny(host, "/?#"); idx > -1 {
		host = host[:idx]
	}
	return strings.TrimPrefix(host, "www.")
}

// StoryDraft carries the user-editable fields of a story, used both for
// new submissions and for patches of an existing story.
type StoryDraft struct {
	Title  string `yaml:"title"`
	Author string `yaml:"author"`
	URL    string `yaml:"url"`
}

// DraftOf returns the editable fields of s.
func DraftOf(s Story) StoryDraft {
	return StoryDraft{Title: s.Title, Author: s.Author, URL: s.URL}
}

// Trimmed returns a copy of d with surrounding whitespace removed.
func (d StoryDraft) Trimmed() StoryDraft {
	return StoryDraft{
		Title:  strings.TrimSpace(d.Title),
		Author: strings.TrimSpace(d.Author),
		URL:    strings.TrimSpace(d.URL),
	}
}

// Validate returns ErrIncompleteDraft when any field is blank.
func (d StoryDraft) Validate() error {
	t := d.Trimmed()
	if t.Title == "" || t.Author == "" || t.URL == "" {
		return ErrIncompleteDraft
	}
	return nil
}

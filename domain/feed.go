package domain

// StoryList is the global story feed as served at the last fetch, newest
// first. It is replaced wholesale on every fetch.
type StoryList struct {
	Stories []Story
}

// Len returns the number of stories in the list.
func (l StoryList) Len() int {
	return len(l.Stories)
}

// Index returns the position of the story with the given id, or -1.
func (l StoryList) Index(id string) int {
	return indexOf(l.Stories, id)
}

// Prepend puts s at the head of the list.
func (l *StoryList) Prepend(s Story) {
	l.Stories = append([]Story{s}, l.Stories...)
}

// Clone returns a copy that shares no backing array with l.
func (l StoryList) Clone() StoryList {
	return StoryList{Stories: cloneStories(l.Stories)}
}

func indexOf(stories []Story, id string) int {
	target := Story{ID: id}
	for i, s := range stories {
		if s.Same(target) {
			return i
		}
	}
	return -1
}

func cloneStories(in []Story) []Story {
	if in == nil {
		return nil
	}
	out := make([]Story, len(in))
	copy(out, in)
	return out
}

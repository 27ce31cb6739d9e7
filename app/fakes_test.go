package app

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/CrestNiraj12/hacksnooze/domain"
)

type fakeStories struct {
	fetch  func() ([]domain.Story, error)
	create func(domain.Credentials, domain.StoryDraft) (domain.Story, error)
	update func(domain.Credentials, string, domain.StoryDraft) (domain.Story, error)
	delete func(domain.Credentials, string) error

	fetchCalls  atomic.Int32
	createCalls atomic.Int32
	deleteCalls atomic.Int32
}

func (f *fakeStories) FetchFeed(context.Context) ([]domain.Story, error) {
	f.fetchCalls.Add(1)
	if f.fetch == nil {
		return []domain.Story{{ID: "s1", Title: "first"}, {ID: "s2", Title: "second"}}, nil
	}
	return f.fetch()
}

func (f *fakeStories) Create(_ context.Context, c domain.Credentials, d domain.StoryDraft) (domain.Story, error) {
	f.createCalls.Add(1)
	return f.create(c, d)
}

func (f *fakeStories) Update(_ context.Context, c domain.Credentials, id string, d domain.StoryDraft) (domain.Story, error) {
	return f.update(c, id, d)
}

func (f *fakeStories) Delete(_ context.Context, c domain.Credentials, id string) error {
	f.deleteCalls.Add(1)
	if f.delete == nil {
		return nil
	}
	return f.delete(c, id)
}

type fakeUsers struct {
	signup         func(username, password, name string) (domain.User, error)
	login          func(username, password string) (domain.User, error)
	restore        func(domain.Credentials) (domain.User, bool, error)
	addFavorite    func(domain.Credentials, string) ([]domain.Story, error)
	removeFavorite func(domain.Credentials, string) ([]domain.Story, error)

	addCalls    atomic.Int32
	removeCalls atomic.Int32
}

func (f *fakeUsers) Signup(_ context.Context, username, password, name string) (domain.User, error) {
	return f.signup(username, password, name)
}

func (f *fakeUsers) Login(_ context.Context, username, password string) (domain.User, error) {
	return f.login(username, password)
}

func (f *fakeUsers) Restore(_ context.Context, c domain.Credentials) (domain.User, bool, error) {
	if f.restore == nil {
		return domain.User{}, false, nil
	}
	return f.restore(c)
}

func (f *fakeUsers) AddFavorite(_ context.Context, c domain.Credentials, id string) ([]domain.Story, error) {
	f.addCalls.Add(1)
	return f.addFavorite(c, id)
}

func (f *fakeUsers) RemoveFavorite(_ context.Context, c domain.Credentials, id string) ([]domain.Story, error) {
	f.removeCalls.Add(1)
	return f.removeFavorite(c, id)
}

type memStore struct {
	creds   domain.Credentials
	saves   int
	clears  int
	saveErr error
}

func (m *memStore) Load() (domain.Credentials, error) { return m.creds, nil }

func (m *memStore) Save(c domain.Credentials) error {
	m.saves++
	if m.saveErr != nil {
		return m.saveErr
	}
	m.creds = c
	return nil
}

func (m *memStore) Clear() error {
	m.clears++
	m.creds = domain.Credentials{}
	return nil
}

func discardLogger() *logrus.Entry {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return logrus.NewEntry(l)
}

func storyIDs(stories []domain.Story) []string {
	out := make([]string, 0, len(stories))
	for _, s := range stories {
		out = append(out, s.ID)
	}
	return out
}

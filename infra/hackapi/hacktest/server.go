// Package hacktest provides an in-memory Hack or Snooze API for tests.
//
// It speaks the same JSON wire format as the public API: bcrypt-hashed
// passwords, HS256 login tokens, server-assigned story ids, and
// {"error":{...}} bodies on failure. Every route counts its requests and can
// be told to fail its next call.
package hacktest

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Route keys accepted by Calls and FailNext.
const (
	RouteListStories     = "GET /stories"
	RouteCreateStory     = "POST /stories"
	RouteUpdateStory     = "PATCH /stories/{storyId}"
	RouteDeleteStory     = "DELETE /stories/{storyId}"
	RouteSignup          = "POST /signup"
	RouteLogin           = "POST /login"
	RouteGetUser         = "GET /users/{username}"
	RouteAddFavorite     = "POST /users/{username}/favorites/{storyId}"
	RouteRemoveFavorite  = "DELETE /users/{username}/favorites/{storyId}"
	timestampLayout      = "2006-01-02T15:04:05.000Z"
	defaultSigningSecret = "hacktest-secret"
)

type account struct {
	username  string
	name      string
	hash      []byte
	createdAt time.Time
	updatedAt time.Time
	favorites []string
}

type story struct {
	id        string
	title     string
	author    string
	url       string
	username  string
	createdAt time.Time
	updatedAt time.Time
}

type failure struct {
	status  int
	message string
}

// Server is an http.Handler that emulates the API.
type Server struct {
	router chi.Router
	secret []byte
	now    func() time.Time

	mu       sync.Mutex
	accounts map[string]*account
	stories  []*story // newest first
	calls    map[string]int
	failures map[string]failure
}

// New returns an empty server.
func New() *Server {
	s := &Server{
		secret:   []byte(defaultSigningSecret),
		now:      time.Now,
		accounts: make(map[string]*account),
		calls:    make(map[string]int),
		failures: make(map[string]failure),
	}

	r := chi.NewRouter()
	s.handle(r, RouteListStories, s.listStories)
	s.handle(r, RouteCreateStory, s.createStory)
	s.handle(r, RouteUpdateStory, s.updateStory)
	s.handle(r, RouteDeleteStory, s.deleteStory)
	s.handle(r, RouteSignup, s.signup)
	s.handle(r, RouteLogin, s.login)
	s.handle(r, RouteGetUser, s.getUser)
	s.handle(r, RouteAddFavorite, s.addFavorite)
	s.handle(r, RouteRemoveFavorite, s.removeFavorite)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, "Not Found", "no such route")
	})
	s.router = r
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Calls reports how many requests reached the route.
func (s *Server) Calls(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[route]
}

// FailNext makes the next request to route answer with status and message
// without touching any state.
func (s *Server) FailNext(route string, status int, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = failure{status: status, message: message}
}

// SeedStory stores a story posted by username and returns its id. The user
// does not need to exist.
func (s *Server) SeedStory(username, title, author, url string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.insertStory(username, title, author, url).id
}

// TokenFor mints a valid login token for username.
func (s *Server) TokenFor(username string) string {
	tok, err := s.sign(username)
	if err != nil {
		panic(err)
	}
	return tok
}

func (s *Server) handle(r chi.Router, route string, h http.HandlerFunc) {
	method, pattern, _ := strings.Cut(route, " ")
	r.Method(method, pattern, http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
		s.mu.Lock()
		s.calls[route]++
		f, fail := s.failures[route]
		delete(s.failures, route)
		s.mu.Unlock()

		if fail {
			writeError(w, f.status, http.StatusText(f.status), f.message)
			return
		}
		h(w, req)
	}))
}

// Stories.

func (s *Server) listStories(w http.ResponseWriter, _ *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]storyJSON, 0, len(s.stories))
	for _, st := range s.stories {
		out = append(out, st.json())
	}
	writeJSON(w, http.StatusOK, map[string]any{"stories": out})
}

func (s *Server) createStory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string     `json:"token"`
		Story *storyBody `json:"story"`
	}
	if !decode(w, r, &req) {
		return
	}
	username, ok := s.authorize(w, req.Token)
	if !ok {
		return
	}
	if req.Story == nil || req.Story.Title == "" || req.Story.Author == "" || req.Story.URL == "" {
		writeError(w, http.StatusBadRequest, "Bad Request", "story requires title, author and url")
		return
	}

	s.mu.Lock()
	st := s.insertStory(username, req.Story.Title, req.Story.Author, req.Story.URL)
	out := st.json()
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, map[string]any{"story": out})
}

func (s *Server) updateStory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string     `json:"token"`
		Story *storyBody `json:"story"`
	}
	if !decode(w, r, &req) {
		return
	}
	username, ok := s.authorize(w, req.Token)
	if !ok {
		return
	}
	if req.Story == nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "story is required")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.findStory(chi.URLParam(r, "storyId"))
	if st == nil {
		writeError(w, http.StatusNotFound, "Not Found", "no such story")
		return
	}
	if st.username != username {
		writeError(w, http.StatusForbidden, "Forbidden", "you can only edit your own stories")
		return
	}
	if req.Story.Title != "" {
		st.title = req.Story.Title
	}
	if req.Story.Author != "" {
		st.author = req.Story.Author
	}
	if req.Story.URL != "" {
		st.url = req.Story.URL
	}
	st.updatedAt = s.now().UTC()
	writeJSON(w, http.StatusOK, map[string]any{"story": st.json()})
}

func (s *Server) deleteStory(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if !decode(w, r, &req) {
		return
	}
	username, ok := s.authorize(w, req.Token)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "storyId")
	st := s.findStory(id)
	if st == nil {
		writeError(w, http.StatusNotFound, "Not Found", "no such story")
		return
	}
	if st.username != username {
		writeError(w, http.StatusForbidden, "Forbidden", "you can only delete your own stories")
		return
	}
	kept := s.stories[:0]
	for _, other := range s.stories {
		if other.id != id {
			kept = append(kept, other)
		}
	}
	s.stories = kept
	for _, acc := range s.accounts {
		acc.favorites = removeID(acc.favorites, id)
	}
	writeJSON(w, http.StatusOK, map[string]any{"message": "deleted", "story": st.json()})
}

// Accounts.

func (s *Server) signup(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User *struct {
			Username string `json:"username"`
			Password string `json:"password"`
			Name     string `json:"name"`
		} `json:"user"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.User == nil || req.User.Username == "" || req.User.Password == "" || req.User.Name == "" {
		writeError(w, http.StatusBadRequest, "Bad Request", "user requires username, password and name")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.User.Password), bcrypt.MinCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "hashing password")
		return
	}
	token, err := s.sign(req.User.Username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "signing token")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, taken := s.accounts[req.User.Username]; taken {
		writeError(w, http.StatusConflict, "Conflict", fmt.Sprintf("There is already a user with username '%s'.", req.User.Username))
		return
	}
	now := s.now().UTC()
	acc := &account{
		username:  req.User.Username,
		name:      req.User.Name,
		hash:      hash,
		createdAt: now,
		updatedAt: now,
	}
	s.accounts[acc.username] = acc
	writeJSON(w, http.StatusCreated, map[string]any{"token": token, "user": s.userJSON(acc)})
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		User *struct {
			Username string `json:"username"`
			Password string `json:"password"`
		} `json:"user"`
	}
	if !decode(w, r, &req) {
		return
	}
	if req.User == nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "user is required")
		return
	}

	s.mu.Lock()
	acc := s.accounts[req.User.Username]
	s.mu.Unlock()
	if acc == nil {
		writeError(w, http.StatusNotFound, "Not Found", "no such user")
		return
	}
	if err := bcrypt.CompareHashAndPassword(acc.hash, []byte(req.User.Password)); err != nil {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "invalid password")
		return
	}
	token, err := s.sign(acc.username)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Internal Server Error", "signing token")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"token": token, "user": s.userJSON(acc)})
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	acc, ok := s.authorizeUser(w, r, r.URL.Query().Get("token"))
	if !ok {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{"user": s.userJSON(acc)})
}

func (s *Server) addFavorite(w http.ResponseWriter, r *http.Request) {
	s.changeFavorite(w, r, func(acc *account, id string) {
		for _, fav := range acc.favorites {
			if fav == id {
				return
			}
		}
		acc.favorites = append(acc.favorites, id)
	})
}

func (s *Server) removeFavorite(w http.ResponseWriter, r *http.Request) {
	s.changeFavorite(w, r, func(acc *account, id string) {
		acc.favorites = removeID(acc.favorites, id)
	})
}

func (s *Server) changeFavorite(w http.ResponseWriter, r *http.Request, apply func(*account, string)) {
	var req struct {
		Token string `json:"token"`
	}
	if !decode(w, r, &req) {
		return
	}
	acc, ok := s.authorizeUser(w, r, req.Token)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	id := chi.URLParam(r, "storyId")
	if s.findStory(id) == nil {
		writeError(w, http.StatusNotFound, "Not Found", "no such story")
		return
	}
	apply(acc, id)
	acc.updatedAt = s.now().UTC()
	writeJSON(w, http.StatusOK, map[string]any{"message": "ok", "user": s.userJSON(acc)})
}

// Auth.

func (s *Server) sign(username string) (string, error) {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": username,
		"iat":      s.now().Unix(),
	})
	return tok.SignedString(s.secret)
}

func (s *Server) authorize(w http.ResponseWriter, token string) (string, bool) {
	if token == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "Only that user or admin can edit a user.")
		return "", false
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
		return "", false
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
		return "", false
	}
	username, _ := claims["username"].(string)
	if username == "" {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "invalid token")
		return "", false
	}
	return username, true
}

func (s *Server) authorizeUser(w http.ResponseWriter, r *http.Request, token string) (*account, bool) {
	username, ok := s.authorize(w, token)
	if !ok {
		return nil, false
	}
	if username != chi.URLParam(r, "username") {
		writeError(w, http.StatusUnauthorized, "Unauthorized", "token does not belong to this user")
		return nil, false
	}
	s.mu.Lock()
	acc := s.accounts[username]
	s.mu.Unlock()
	if acc == nil {
		writeError(w, http.StatusNotFound, "Not Found", "no such user")
		return nil, false
	}
	return acc, true
}

// State helpers; callers hold s.mu.

func (s *Server) insertStory(username, title, author, url string) *story {
	now := s.now().UTC()
	st := &story{
		id:        uuid.NewString(),
		title:     title,
		author:    author,
		url:       url,
		username:  username,
		createdAt: now,
		updatedAt: now,
	}
	s.stories = append([]*story{st}, s.stories...)
	return st
}

func (s *Server) findStory(id string) *story {
	for _, st := range s.stories {
		if st.id == id {
			return st
		}
	}
	return nil
}

func (s *Server) userJSON(acc *account) userJSON {
	out := userJSON{
		Username:  acc.username,
		Name:      acc.name,
		CreatedAt: acc.createdAt.Format(timestampLayout),
		UpdatedAt: acc.updatedAt.Format(timestampLayout),
		Favorites: []storyJSON{},
		Stories:   []storyJSON{},
	}
	for _, id := range acc.favorites {
		if st := s.findStory(id); st != nil {
			out.Favorites = append(out.Favorites, st.json())
		}
	}
	for _, st := range s.stories {
		if st.username == acc.username {
			out.Stories = append(out.Stories, st.json())
		}
	}
	return out
}

func removeID(ids []string, id string) []string {
	out := ids[:0]
	for _, other := range ids {
		if other != id {
			out = append(out, other)
		}
	}
	return out
}

// Wire shapes.

type storyBody struct {
	Title  string `json:"title"`
	Author string `json:"author"`
	URL    string `json:"url"`
}

type storyJSON struct {
	StoryID   string `json:"storyId"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	URL       string `json:"url"`
	Username  string `json:"username"`
	CreatedAt string `json:"createdAt"`
	UpdatedAt string `json:"updatedAt"`
}

type userJSON struct {
	Username  string      `json:"username"`
	Name      string      `json:"name"`
	CreatedAt string      `json:"createdAt"`
	UpdatedAt string      `json:"updatedAt"`
	Favorites []storyJSON `json:"favorites"`
	Stories   []storyJSON `json:"stories"`
}

func (st *story) json() storyJSON {
	return storyJSON{
		StoryID:   st.id,
		Title:     st.title,
		Author:    st.author,
		URL:       st.url,
		Username:  st.username,
		CreatedAt: st.createdAt.Format(timestampLayout),
		UpdatedAt: st.updatedAt.Format(timestampLayout),
	}
}

func decode(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "Bad Request", "invalid JSON body")
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, title, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"status":  status,
			"title":   title,
			"message": message,
		},
	})
}

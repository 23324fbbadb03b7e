// Package apitest provides an in-memory implementation of the remote task
// API for tests: real HTTP, real bearer tokens, per-user task lists. It is
// a fixture, not a production server.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/asalgado/tasq/internal/api"
)

type account struct {
	user         api.User
	passwordHash string
}

// Server is an in-memory task API listening on a local port.
type Server struct {
	mu       sync.Mutex
	accounts map[string]*account // by email
	tasks    map[string]api.Task // by id
	secret   []byte

	failStatus int // one-shot forced failure
	failBody   string

	httpServer *httptest.Server
}

// New starts the fixture server. Callers must Close it.
func New() *Server {
	s := &Server{
		accounts: make(map[string]*account),
		tasks:    make(map[string]api.Task),
		secret:   []byte(uuid.NewString()),
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.forcedFailure)

	r.Post("/auth/register", s.handleRegister)
	r.Post("/auth/login", s.handleLogin)

	r.Group(func(r chi.Router) {
		r.Use(s.requireAuth)
		r.Get("/auth/profile", s.handleProfile)
		r.Get("/tasks", s.handleListTasks)
		r.Post("/tasks", s.handleCreateTask)
		r.Get("/tasks/{id}", s.handleGetTask)
		r.Patch("/tasks/{id}", s.handleUpdateTask)
		r.Delete("/tasks/{id}", s.handleDeleteTask)
	})

	s.httpServer = httptest.NewServer(r)
	return s
}

// URL returns the server's base URL.
func (s *Server) URL() string { return s.httpServer.URL }

// Close shuts the fixture down.
func (s *Server) Close() { s.httpServer.Close() }

// FailNext forces the next request to fail with the given status and raw
// JSON body, regardless of route. One-shot.
func (s *Server) FailNext(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failStatus = status
	s.failBody = body
}

// TaskCount reports how many tasks the server currently holds.
func (s *Server) TaskCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.tasks)
}

func (s *Server) forcedFailure(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		status, body := s.failStatus, s.failBody
		s.failStatus, s.failBody = 0, ""
		s.mu.Unlock()

		if status != 0 {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(status)
			if body == "" {
				body = `{"message":"forced failure"}`
			}
			w.Write([]byte(body))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
		if raw == "" || raw == r.Header.Get("Authorization") {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		token, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrTokenUnverifiable
			}
			return s.secret, nil
		})
		if err != nil || !token.Valid {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		claims, _ := token.Claims.(jwt.MapClaims)
		sub, _ := claims["sub"].(string)
		if sub == "" {
			writeError(w, http.StatusUnauthorized, "Unauthorized")
			return
		}
		r.Header.Set("X-User-Id", sub)
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req api.RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	fieldErrs := map[string][]string{}
	if strings.TrimSpace(req.Name) == "" {
		fieldErrs["name"] = []string{"Name is required"}
	}
	if strings.TrimSpace(req.Email) == "" {
		fieldErrs["email"] = []string{"Email is required"}
	}
	if len(req.Password) < 6 {
		fieldErrs["password"] = []string{"Password must be at least 6 characters"}
	}
	if len(fieldErrs) > 0 {
		writeValidationErrors(w, fieldErrs)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.accounts[req.Email]; exists {
		writeValidationErrors(w, map[string][]string{"email": {"Email is already registered"}})
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "hash failure")
		return
	}
	now := time.Now().UTC()
	acct := &account{
		user: api.User{
			ID:        uuid.NewString(),
			Email:     req.Email,
			Name:      req.Name,
			CreatedAt: now,
			UpdatedAt: now,
		},
		passwordHash: string(hash),
	}
	s.accounts[req.Email] = acct
	s.writeAuthResponse(w, acct.user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req api.LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	acct, ok := s.accounts[req.Email]
	if !ok || bcrypt.CompareHashAndPassword([]byte(acct.passwordHash), []byte(req.Password)) != nil {
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}
	s.writeAuthResponse(w, acct.user)
}

func (s *Server) writeAuthResponse(w http.ResponseWriter, user api.User) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": user.ID,
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	})
	signed, err := token.SignedString(s.secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "sign failure")
		return
	}
	writeJSON(w, http.StatusCreated, api.AuthResponse{User: user, AccessToken: signed})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, acct := range s.accounts {
		if acct.user.ID == r.Header.Get("X-User-Id") {
			writeJSON(w, http.StatusOK, acct.user)
			return
		}
	}
	writeError(w, http.StatusNotFound, "User not found")
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	userID := r.Header.Get("X-User-Id")
	s.mu.Lock()
	defer s.mu.Unlock()
	list := make([]api.Task, 0)
	for _, t := range s.tasks {
		if t.UserID == userID {
			list = append(list, t)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].CreatedAt.Before(list[j].CreatedAt) })
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleCreateTask(w http.ResponseWriter, r *http.Request) {
	var req api.CreateTaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}
	if strings.TrimSpace(req.Title) == "" {
		writeValidationErrors(w, map[string][]string{"title": {"Title is required"}})
		return
	}
	now := time.Now().UTC()
	t := api.Task{
		ID:          uuid.NewString(),
		Title:       req.Title,
		Description: req.Description,
		Done:        false,
		UserID:      r.Header.Get("X-User-Id"),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.mu.Lock()
	s.tasks[t.ID] = t
	s.mu.Unlock()
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.ownedTask(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTask(w http.ResponseWriter, r *http.Request) {
	var patch api.TaskPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		writeError(w, http.StatusBadRequest, "invalid body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.ownedTask(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			writeValidationErrors(w, map[string][]string{"title": {"Title is required"}})
			return
		}
		t.Title = *patch.Title
	}
	if patch.Description != nil {
		t.Description = *patch.Description
	}
	if patch.Done != nil {
		t.Done = *patch.Done
	}
	t.UpdatedAt = time.Now().UTC()
	s.tasks[t.ID] = t
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTask(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.ownedTask(r)
	if !ok {
		writeError(w, http.StatusNotFound, "Task not found")
		return
	}
	delete(s.tasks, t.ID)
	w.WriteHeader(http.StatusNoContent)
}

// ownedTask resolves {id} to a task owned by the requester. Callers hold the lock.
func (s *Server) ownedTask(r *http.Request) (api.Task, bool) {
	t, ok := s.tasks[chi.URLParam(r, "id")]
	if !ok || t.UserID != r.Header.Get("X-User-Id") {
		return api.Task{}, false
	}
	return t, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeValidationErrors(w http.ResponseWriter, fields map[string][]string) {
	writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
		"message": "Validation error",
		"errors":  fields,
	})
}

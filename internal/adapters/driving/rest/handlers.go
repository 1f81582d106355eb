package rest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/aviary-labs/aviary/internal/core/domain"
)

// handleIngest runs one search-and-store pass and reports how many new
// tweets were persisted.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var query domain.SearchQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		s.writeError(w, fmt.Errorf("decoding query: %s: %w", err, domain.ErrInvalidInput))
		return
	}

	count, err := s.ingestor.Ingest(r.Context(), query)
	if err != nil {
		s.writeError(w, err)
		return
	}

	// Stored pages change every read endpoint's answer.
	s.cache.Purge()

	s.writeJSON(w, map[string]string{fmt.Sprintf("%d tweet", count): "OK"})
}

// handleRecord returns one tweet with its hashtags and URLs.
func (s *Server) handleRecord(w http.ResponseWriter, r *http.Request) {
	detail, err := s.tweets.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, detail)
}

// handlePage returns one page of stored tweets in insertion order.
func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	start, err := queryInt(r, "start")
	if err != nil {
		s.writeError(w, err)
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		s.writeError(w, err)
		return
	}

	page, err := s.tweets.Page(r.Context(), start, limit)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, page)
}

// handleTag returns every tweet carrying the hashtag, matched exactly.
func (s *Server) handleTag(w http.ResponseWriter, r *http.Request) {
	items, err := s.tweets.ByTag(r.Context(), r.PathValue("text"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, items)
}

// handlePopularity returns all stored tweets, most favorited first.
func (s *Server) handlePopularity(w http.ResponseWriter, r *http.Request) {
	items, err := s.tweets.ByPopularity(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, items)
}

// queryInt parses a required integer query parameter.
func queryInt(r *http.Request, name string) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return 0, fmt.Errorf("missing query parameter %q: %w", name, domain.ErrInvalidRange)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("query parameter %q is not an integer: %w", name, domain.ErrInvalidRange)
	}
	return n, nil
}

type credentialsRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Token    string `json:"token"`
}

type loginResponse struct {
	Account *domain.Account `json:"account"`
	Token   string          `json:"token"`
}

// handleAccountCreate registers a new account.
func (s *Server) handleAccountCreate(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("decoding account: %s: %w", err, domain.ErrInvalidInput))
		return
	}

	account, err := s.accounts.Create(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, account)
}

// handleLogin exchanges credentials, or a still-valid token, for a
// bearer token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("decoding credentials: %s: %w", err, domain.ErrInvalidInput))
		return
	}

	if req.Token != "" {
		account, err := s.accounts.Authenticate(r.Context(), req.Token)
		if err != nil {
			s.writeError(w, err)
			return
		}
		s.writeJSON(w, loginResponse{Account: account, Token: req.Token})
		return
	}

	token, account, err := s.accounts.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, loginResponse{Account: account, Token: token})
}

// handleAccountGet returns one account by id.
func (s *Server) handleAccountGet(w http.ResponseWriter, r *http.Request) {
	account, err := s.accounts.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, account)
}

// handleAccountUpdate changes an account's username or email.
func (s *Server) handleAccountUpdate(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("decoding account: %s: %w", err, domain.ErrInvalidInput))
		return
	}

	account, err := s.accounts.Update(r.Context(), r.PathValue("id"), req.Username, req.Email)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, account)
}

// handleAccountDelete removes an account.
func (s *Server) handleAccountDelete(w http.ResponseWriter, r *http.Request) {
	if err := s.accounts.Delete(r.Context(), r.PathValue("id")); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]string{"status": "deleted"})
}

type passwordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// handlePasswordChange rotates an account's password after verifying
// the current one.
func (s *Server) handlePasswordChange(w http.ResponseWriter, r *http.Request) {
	var req passwordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, fmt.Errorf("decoding password change: %s: %w", err, domain.ErrInvalidInput))
		return
	}

	if err := s.accounts.ChangePassword(r.Context(), r.PathValue("id"), req.OldPassword, req.NewPassword); err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, map[string]string{"status": "changed"})
}

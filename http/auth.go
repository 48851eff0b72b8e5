package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"wtfCatalog/auth"
	"wtfCatalog/domain"
	"wtfCatalog/errs"
)

// registerAuthRoutes is a helper for registering all auth routes.
func (s *Server) registerAuthRoutes(r *mux.Router) {
	r.HandleFunc("/register", s.handleRegister).Methods("POST")
	r.HandleFunc("/login", s.handleLogin).Methods("POST")
	r.HandleFunc("/profile", s.requireAuth(s.handleProfile)).Methods("GET")
}

type registerRequest struct {
	Email    string `json:"email"`
	Nickname string `json:"nickname"`
	Password string `json:"password"`
}

// handleRegister handles the route "POST /register".
// It creates a new user account and immediately issues an access token for it.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := domain.User{
		Email:    req.Email,
		Nickname: req.Nickname,
		Password: req.Password,
	}
	if err := s.us.CreateUser(r.Context(), &user); err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	token, err := auth.NewToken(s.jwtSecret, s.jwtTTL, &user)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(&loginResponse{AccessToken: token, User: &user}); err != nil {
		errs.LogError(r, err)
		return
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string       `json:"access_token"`
	User        *domain.User `json:"user"`
}

// handleLogin handles the route "POST /login".
// It verifies the submitted credentials and issues an access token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}
	if req.Email == "" || req.Password == "" {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Email and password are required."))
		return
	}

	user, err := s.us.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	token, err := auth.NewToken(s.jwtSecret, s.jwtTTL, user)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(&loginResponse{AccessToken: token, User: user}); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleProfile handles the route "GET /profile".
// It returns the authed user along with their reviews and likes.
func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())

	profile, err := s.us.FindUserByID(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(profile); err != nil {
		errs.LogError(r, err)
		return
	}
}

// The authUser middleware looks for a bearer token on the request and, if it
// verifies, loads the user it belongs to into the request context. Requests
// without a usable token just continue unauthenticated.
func (s *Server) authUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := auth.ParseToken(s.jwtSecret, token)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		user, err := s.us.FindUserByID(r.Context(), claims.UserID)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		r = r.WithContext(auth.SetUser(r.Context(), user))
		next.ServeHTTP(w, r)
	})
}

// requireAuth rejects requests that did not authenticate.
// It assumes that the authUser middleware has already run.
func (s *Server) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.getUserFromContext(r.Context()) == nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EUNAUTHORIZED, "You must be logged in."))
			return
		}
		next.ServeHTTP(w, r)
	}
}

func (s *Server) getUserFromContext(ctx context.Context) *domain.User {
	return auth.GetUser(ctx)
}

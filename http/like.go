package http

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"wtfCatalog/errs"
)

// registerLikeRoutes is a helper for registering all Like routes.
func (s *Server) registerLikeRoutes(r *mux.Router) {
	// Toggle the authed user's like on a product.
	r.HandleFunc("/likes/products/{productId}", s.requireAuth(s.handleToggleLike)).Methods("POST")

	// List the authed user's likes.
	r.HandleFunc("/likes/users/me", s.requireAuth(s.handleMyLikes)).Methods("GET")

	// List a product's likes.
	r.HandleFunc("/likes/products/{productId}", s.handleProductLikes).Methods("GET")

	// Check whether the authed user likes a product.
	r.HandleFunc("/likes/products/{productId}/check", s.requireAuth(s.handleCheckLiked)).Methods("GET")
}

type likedResponse struct {
	Liked bool `json:"liked"`
}

// handleToggleLike handles the route "POST /likes/products/:productId".
// It flips the liked state of the (authed user, product) pair and returns
// the state the pair ended up in.
func (s *Server) handleToggleLike(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())

	liked, err := s.ls.ToggleLike(r.Context(), user.ID, mux.Vars(r)["productId"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(&likedResponse{Liked: liked}); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleMyLikes handles the route "GET /likes/users/me".
// It returns all likes of the authed user with the liked products attached.
func (s *Server) handleMyLikes(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())

	likes, err := s.ls.FindLikesByUserID(r.Context(), user.ID)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(likes); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleProductLikes handles the route "GET /likes/products/:productId".
// It returns all likes of a product with the liking users attached.
func (s *Server) handleProductLikes(w http.ResponseWriter, r *http.Request) {
	likes, err := s.ls.FindLikesByProductID(r.Context(), mux.Vars(r)["productId"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(likes); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleCheckLiked handles the route "GET /likes/products/:productId/check".
func (s *Server) handleCheckLiked(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())

	liked, err := s.ls.UserLiked(r.Context(), user.ID, mux.Vars(r)["productId"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(&likedResponse{Liked: liked}); err != nil {
		errs.LogError(r, err)
		return
	}
}

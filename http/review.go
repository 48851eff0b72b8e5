package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wtfCatalog/domain"
	"wtfCatalog/errs"
)

// registerReviewRoutes is a helper for registering all Review routes.
// Reading reviews is public, mutating them requires auth.
func (s *Server) registerReviewRoutes(r *mux.Router) {
	r.HandleFunc("/reviews", s.requireAuth(s.handleCreateReview)).Methods("POST")
	r.HandleFunc("/reviews", s.handleListReviews).Methods("GET")
	r.HandleFunc("/reviews/{id}", s.handleGetReview).Methods("GET")
	r.HandleFunc("/reviews/{id}", s.requireAuth(s.handleUpdateReview)).Methods("PATCH")
	r.HandleFunc("/reviews/{id}", s.requireAuth(s.handleDeleteReview)).Methods("DELETE")
}

type createReviewRequest struct {
	Content   string `json:"content"`
	Rating    int    `json:"rating"`
	ProductID string `json:"product_id"`
}

// handleCreateReview handles the route "POST /reviews".
// It stores a new review authored by the authed user.
func (s *Server) handleCreateReview(w http.ResponseWriter, r *http.Request) {
	var req createReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	review := domain.Review{
		Content:   req.Content,
		Rating:    req.Rating,
		ProductID: req.ProductID,
		UserID:    user.ID,
	}

	created, err := s.rs.CreateReview(r.Context(), &review)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusCreated)
	if err := json.NewEncoder(w).Encode(created); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleListReviews handles the route "GET /reviews".
// It supports filtering by product, user and rating, plus pagination.
func (s *Server) handleListReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := domain.ReviewFilter{
		ProductID: q.Get("productId"),
		UserID:    q.Get("userId"),
	}

	if v := q.Get("rating"); v != "" {
		rating, err := strconv.Atoi(v)
		if err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid rating format."))
			return
		}
		filter.Rating = rating
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid page format."))
			return
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid limit format."))
			return
		}
		filter.Limit = limit
	}

	page, err := s.rs.FindReviews(r.Context(), filter)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(page); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleGetReview handles the route "GET /reviews/:id".
func (s *Server) handleGetReview(w http.ResponseWriter, r *http.Request) {
	review, err := s.rs.FindReviewByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(review); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleUpdateReview handles the route "PATCH /reviews/:id".
// Only the review's author may update it.
func (s *Server) handleUpdateReview(w http.ResponseWriter, r *http.Request) {
	var upd domain.ReviewUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	review, err := s.rs.UpdateReview(r.Context(), mux.Vars(r)["id"], user.ID, upd)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(review); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleDeleteReview handles the route "DELETE /reviews/:id".
// Only the review's author may delete it.
func (s *Server) handleDeleteReview(w http.ResponseWriter, r *http.Request) {
	user := s.getUserFromContext(r.Context())

	if err := s.rs.DeleteReview(r.Context(), mux.Vars(r)["id"], user.ID); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

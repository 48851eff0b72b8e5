package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"wtfCatalog/domain"
	"wtfCatalog/errs"
)

// registerProductRoutes is a helper for registering all Product routes.
// Listing and fetching products is public, mutating them requires auth.
func (s *Server) registerProductRoutes(r *mux.Router) {
	r.HandleFunc("/products", s.requireAuth(s.handleCreateProduct)).Methods("POST")
	r.HandleFunc("/products", s.handleListProducts).Methods("GET")
	r.HandleFunc("/products/{id}", s.handleGetProduct).Methods("GET")
	r.HandleFunc("/products/{id}", s.requireAuth(s.handleUpdateProduct)).Methods("PATCH")
	r.HandleFunc("/products/{id}", s.requireAuth(s.handleDeleteProduct)).Methods("DELETE")
}

type createProductRequest struct {
	Name        string                      `json:"name"`
	Description string                      `json:"description"`
	Brand       string                      `json:"brand"`
	Price       float64                     `json:"price"`
	Options     []domain.ProductOptionInput `json:"options"`
}

// handleCreateProduct handles the route "POST /products".
// It stores a new product together with its option set, owned by the authed user.
func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var req createProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	user := s.getUserFromContext(r.Context())
	product := domain.Product{
		Name:        req.Name,
		Description: req.Description,
		Brand:       req.Brand,
		Price:       req.Price,
		UserID:      user.ID,
	}

	created, err := s.ps.CreateProduct(r.Context(), &product, req.Options)
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

// handleListProducts handles the route "GET /products".
// It parses the filter, sort and pagination query parameters and returns one
// page of matching products.
func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	filter, err := parseProductFilter(r)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	page, err := s.ps.FindProducts(r.Context(), *filter)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(page); err != nil {
		errs.LogError(r, err)
		return
	}
}

// parseProductFilter reads a domain.ProductFilter off the request's query string.
func parseProductFilter(r *http.Request) (*domain.ProductFilter, error) {
	q := r.URL.Query()
	filter := domain.ProductFilter{
		Search: q.Get("search"),
		Brand:  q.Get("brand"),
		Size:   q.Get("size"),
		Color:  q.Get("color"),
		Sort:   q.Get("sort"),
	}

	if v := q.Get("minPrice"); v != "" {
		min, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errs.Errorf(errs.EINVALID, "Invalid minPrice format.")
		}
		filter.MinPrice = &min
	}
	if v := q.Get("maxPrice"); v != "" {
		max, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, errs.Errorf(errs.EINVALID, "Invalid maxPrice format.")
		}
		filter.MaxPrice = &max
	}
	if v := q.Get("page"); v != "" {
		page, err := strconv.Atoi(v)
		if err != nil {
			return nil, errs.Errorf(errs.EINVALID, "Invalid page format.")
		}
		filter.Page = page
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			return nil, errs.Errorf(errs.EINVALID, "Invalid limit format.")
		}
		filter.Limit = limit
	}
	return &filter, nil
}

// handleGetProduct handles the route "GET /products/:id".
// It returns the product with its options, reviews and likes attached.
func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	product, err := s.ps.FindProductByID(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(product); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleUpdateProduct handles the route "PATCH /products/:id".
// Set attribute fields get merged into the product; a submitted option set
// replaces the existing options wholesale.
func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	var upd domain.ProductUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		errs.ReturnError(w, r, errs.Errorf(errs.EINVALID, "Invalid json body."))
		return
	}

	product, err := s.ps.UpdateProduct(r.Context(), mux.Vars(r)["id"], upd)
	if err != nil {
		errs.ReturnError(w, r, err)
		return
	}

	if err := json.NewEncoder(w).Encode(product); err != nil {
		errs.LogError(r, err)
		return
	}
}

// handleDeleteProduct handles the route "DELETE /products/:id".
func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := s.ps.DeleteProduct(r.Context(), mux.Vars(r)["id"]); err != nil {
		errs.ReturnError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

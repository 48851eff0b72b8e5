package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"wtfCatalog/crud"
	"wtfCatalog/domain"
)

// Server provides most of the http functionality of this app, namely routing,
// request handling, and middleware. It also performs authentication and
// authorization before handing things over to one of the crud services.
type Server struct {
	router *mux.Router
	logger *zap.Logger

	jwtSecret string
	jwtTTL    time.Duration

	us domain.UserService
	ps domain.ProductService
	rs domain.ReviewService
	ls domain.LikeService
}

// NewServer returns a new instance of the server, registers all necessary
// routes and gives their handlers access to the app services passed in.
func NewServer(logger *zap.Logger, jwtSecret string, jwtTTL time.Duration, services *crud.Services) *Server {
	s := &Server{
		router:    mux.NewRouter(),
		logger:    logger,
		jwtSecret: jwtSecret,
		jwtTTL:    jwtTTL,
		us:        services.User,
		ps:        services.Product,
		rs:        services.Review,
		ls:        services.Like,
	}

	// Register routes of the auth system.
	s.registerAuthRoutes(s.router)

	// Register routes of the crud system.
	s.registerProductRoutes(s.router)
	s.registerReviewRoutes(s.router)
	s.registerLikeRoutes(s.router)

	// Set up middleware that needs to run on every request.
	s.router.Use(setContentTypeJSON, s.authUser)
	return s
}

// The setContentTypeJSON middleware sets the content type to "application/json".
func setContentTypeJSON(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}

// Handler exposes the configured router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts to listen and serve on the specified port.
func (s *Server) Run(port int) error {
	return http.ListenAndServe(":"+strconv.Itoa(port), s.router)
}

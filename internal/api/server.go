// Package api provides the HTTP API server implementation.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/brachiGH/firedns-dashboard/internal/analytics"
	"github.com/brachiGH/firedns-dashboard/internal/identity"
	"github.com/brachiGH/firedns-dashboard/internal/logging"
	"github.com/brachiGH/firedns-dashboard/internal/models"
	"github.com/brachiGH/firedns-dashboard/internal/policy"
	"github.com/brachiGH/firedns-dashboard/internal/storage"
	"github.com/brachiGH/firedns-dashboard/internal/types"
)

// Service interfaces for dependency injection and testing

// SettingsStoreInterface defines the persistence operations for the three
// settings groups.
type SettingsStoreInterface interface {
	LoadGeneral(ctx context.Context, userID string) (*models.GeneralSettings, error)
	SaveGeneral(ctx context.Context, s *models.GeneralSettings) error
	LoadPrivacy(ctx context.Context, userID string) (*models.PrivacySettings, error)
	SavePrivacy(ctx context.Context, s *models.PrivacySettings) error
	LoadParental(ctx context.Context, userID string) (*models.ParentalSettings, error)
	SaveParental(ctx context.Context, s *models.ParentalSettings) error
}

// DomainListStoreInterface defines the persistence operations for the allow
// and deny lists.
type DomainListStoreInterface interface {
	List(ctx context.Context, userID string, kind types.ListKind) ([]string, error)
	Add(ctx context.Context, userID string, kind types.ListKind, domain string) error
	Remove(ctx context.Context, userID string, kind types.ListKind, domain string) error
}

// IdentityServiceInterface defines the identity binding operations.
type IdentityServiceInterface interface {
	LinkAddress(ctx context.Context, userID, address, observed string) (*models.LinkedIP, error)
	LinkStatus(ctx context.Context, userID, observed string) (*identity.Status, error)
	UserForAddress(ctx context.Context, ip string) (string, error)
}

// AnalyticsServiceInterface defines the traffic summary operations.
type AnalyticsServiceInterface interface {
	Summary(ctx context.Context, userID string, now time.Time) (*analytics.Summary, error)
	RecentLogs(ctx context.Context, userID string, now time.Time, limit int) ([]models.QueryLogEntry, error)
}

// UserStoreInterface defines the account operations the API needs.
type UserStoreInterface interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	Exists(ctx context.Context, id string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// QueryLogStoreInterface accepts log batches from the resolver side.
type QueryLogStoreInterface interface {
	InsertBatch(ctx context.Context, userID string, entries []models.QueryLogEntry) error
}

// Server represents the HTTP API server.
type Server struct {
	router     *mux.Router
	httpServer *http.Server
	config     *ServerConfig

	settings    SettingsStoreInterface
	domainLists DomainListStoreInterface
	identity    IdentityServiceInterface
	analytics   AnalyticsServiceInterface
	users       UserStoreInterface
	queryLogs   QueryLogStoreInterface
	resolver    *policy.Resolver
	catalog     *policy.Catalog
	cache       *storage.CacheService
	logger      *logging.Logger
}

// ServerConfig holds server configuration.
type ServerConfig struct {
	Host              string
	Port              string
	ReadTimeout       time.Duration
	WriteTimeout      time.Duration
	IdleTimeout       time.Duration
	ShutdownTimeout   time.Duration
	RequestsPerSecond int
	Burst             int
}

// ServerDeps bundles the collaborators the server needs.
type ServerDeps struct {
	Settings    SettingsStoreInterface
	DomainLists DomainListStoreInterface
	Identity    IdentityServiceInterface
	Analytics   AnalyticsServiceInterface
	Users       UserStoreInterface
	QueryLogs   QueryLogStoreInterface
	Resolver    *policy.Resolver
	Catalog     *policy.Catalog
	Cache       *storage.CacheService // optional, nil disables caching
	Logger      *logging.Logger
}

// NewServer creates a new API server instance.
func NewServer(config *ServerConfig, deps ServerDeps) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = logging.GetGlobalLogger()
	}

	s := &Server{
		router:      mux.NewRouter(),
		config:      config,
		settings:    deps.Settings,
		domainLists: deps.DomainLists,
		identity:    deps.Identity,
		analytics:   deps.Analytics,
		users:       deps.Users,
		queryLogs:   deps.QueryLogs,
		resolver:    deps.Resolver,
		catalog:     deps.Catalog,
		cache:       deps.Cache,
		logger:      logger,
	}

	s.setupRouter()

	return s
}

// setupRouter configures the router with middleware and routes
func (s *Server) setupRouter() {
	rateLimiter := NewRateLimiter(s.config.RequestsPerSecond, s.config.Burst)

	// Middleware order matters.
	s.router.Use(LoggingMiddleware(s.logger))
	s.router.Use(RecoveryMiddleware(s.logger))
	s.router.Use(CORSMiddleware)
	s.router.Use(RateLimitMiddleware(rateLimiter))

	s.setupRoutes()

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%s", s.config.Host, s.config.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  s.config.IdleTimeout,
	}
}

// setupRoutes configures all API routes.
func (s *Server) setupRoutes() {
	s.router.HandleFunc("/health", s.handleHealth).Methods("GET")

	// Settings groups
	s.router.HandleFunc("/settings/general/{userId}", s.handleGetGeneralSettings).Methods("GET")
	s.router.HandleFunc("/settings/general/{userId}", s.handleUpdateGeneralSettings).Methods("PATCH")
	s.router.HandleFunc("/settings/privacy/{userId}", s.handleGetPrivacySettings).Methods("GET")
	s.router.HandleFunc("/settings/privacy/{userId}", s.handleUpdatePrivacySettings).Methods("PATCH")
	s.router.HandleFunc("/settings/parental/{userId}", s.handleGetParentalSettings).Methods("GET")
	s.router.HandleFunc("/settings/parental/{userId}", s.handleUpdateParentalSettings).Methods("PATCH")

	// Allow and deny lists
	s.router.HandleFunc("/settings/allowlist/{userId}", s.handleGetAllowList).Methods("GET")
	s.router.HandleFunc("/settings/allowlist/{userId}", s.handleAddAllowListDomain).Methods("POST")
	s.router.HandleFunc("/settings/allowlist/{userId}", s.handleRemoveAllowListDomain).Methods("DELETE")
	s.router.HandleFunc("/settings/denylist/{userId}", s.handleGetDenyList).Methods("GET")
	s.router.HandleFunc("/settings/denylist/{userId}", s.handleAddDenyListDomain).Methods("POST")
	s.router.HandleFunc("/settings/denylist/{userId}", s.handleRemoveDenyListDomain).Methods("DELETE")

	// Identity binding
	s.router.HandleFunc("/identity/link/{userId}", s.handleLinkAddress).Methods("POST")
	s.router.HandleFunc("/identity/status/{userId}", s.handleLinkStatus).Methods("GET")
	s.router.HandleFunc("/identity/resolve", s.handleResolveAddress).Methods("GET")

	// Analytics and logs
	s.router.HandleFunc("/analytics/{userId}", s.handleGetAnalytics).Methods("GET")
	s.router.HandleFunc("/logs/{userId}", s.handleGetLogs).Methods("GET")
	s.router.HandleFunc("/logs/{userId}", s.handleIngestLogs).Methods("POST")

	// Policy evaluation
	s.router.HandleFunc("/policy/decide/{userId}", s.handleDecide).Methods("GET")
	s.router.HandleFunc("/policy/apps", s.handleListApps).Methods("GET")

	// Accounts
	s.router.HandleFunc("/users", s.handleCreateUser).Methods("POST")
	s.router.HandleFunc("/users/{id}", s.handleGetUser).Methods("GET")
}

// handleHealth handles health check requests.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "firedns-dashboard",
	})
}

// Router exposes the configured handler, used by tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.WithField("addr", s.httpServer.Addr).Info("Starting API server")
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down API server")
	return s.httpServer.Shutdown(ctx)
}

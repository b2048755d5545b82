package http

import (
	"net/http"
	"strings"

	"medtour-backend/internal/delivery/http/handler"
	"medtour-backend/internal/delivery/http/middleware"

	"github.com/gorilla/mux"
)

type Router struct {
	router            *mux.Router
	authHandler       *handler.AuthHandler
	ownerHandler      *handler.OwnerHandler
	imageHandler      *handler.ImageHandler
	faqHandler        *handler.FAQHandler
	auditLogHandler   *handler.AuditLogHandler
	authMiddleware    *middleware.AuthMiddleware
	corsMiddleware    *middleware.CORSMiddleware
	observeMiddleware *middleware.ObserveMiddleware
	metricsHandler    http.Handler
	mediaPrefix       string
	mediaHandler      http.Handler
}

// RouterOption adds optional endpoints to the router.
type RouterOption func(*Router)

// WithMetrics serves h on /metrics.
func WithMetrics(h http.Handler) RouterOption {
	return func(r *Router) { r.metricsHandler = h }
}

// WithMedia serves locally stored files under prefix.
func WithMedia(prefix string, h http.Handler) RouterOption {
	return func(r *Router) {
		r.mediaPrefix = "/" + strings.Trim(prefix, "/") + "/"
		r.mediaHandler = h
	}
}

func NewRouter(
	authHandler *handler.AuthHandler,
	ownerHandler *handler.OwnerHandler,
	imageHandler *handler.ImageHandler,
	faqHandler *handler.FAQHandler,
	auditLogHandler *handler.AuditLogHandler,
	authMiddleware *middleware.AuthMiddleware,
	corsMiddleware *middleware.CORSMiddleware,
	observeMiddleware *middleware.ObserveMiddleware,
	opts ...RouterOption,
) *Router {
	r := &Router{
		router:            mux.NewRouter(),
		authHandler:       authHandler,
		ownerHandler:      ownerHandler,
		imageHandler:      imageHandler,
		faqHandler:        faqHandler,
		auditLogHandler:   auditLogHandler,
		authMiddleware:    authMiddleware,
		corsMiddleware:    corsMiddleware,
		observeMiddleware: observeMiddleware,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Setup registers every route. CORS wraps the whole router so preflight
// requests are answered even where no OPTIONS route exists.
func (r *Router) Setup() http.Handler {
	if r.metricsHandler != nil {
		r.router.Handle("/metrics", r.metricsHandler).Methods(http.MethodGet)
	}
	if r.mediaHandler != nil {
		r.router.PathPrefix(r.mediaPrefix).Handler(http.StripPrefix(strings.TrimSuffix(r.mediaPrefix, "/"), r.mediaHandler)).Methods(http.MethodGet, http.MethodHead)
	}

	// API versioning
	api := r.router.PathPrefix("/api/v1").Subrouter()

	// Health check
	api.HandleFunc("/health", r.healthCheck).Methods(http.MethodGet)

	// Public catalog
	api.HandleFunc("/owners/{owner_type}", r.ownerHandler.ListOwners).Methods(http.MethodGet)
	api.HandleFunc("/owners/{owner_type}/{owner_id:[0-9]+}", r.ownerHandler.GetOwner).Methods(http.MethodGet)
	api.HandleFunc("/owners/{owner_type}/{owner_id:[0-9]+}/images", r.imageHandler.ListImages).Methods(http.MethodGet)
	api.HandleFunc("/owners/{owner_type}/{owner_id:[0-9]+}/faqs", r.faqHandler.ListActiveFAQs).Methods(http.MethodGet)

	// Auth routes (public)
	auth := api.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.authHandler.Login).Methods(http.MethodPost)
	auth.HandleFunc("/refresh-token", r.authHandler.RefreshToken).Methods(http.MethodPost)

	// Auth routes (protected)
	authProtected := api.PathPrefix("/auth").Subrouter()
	authProtected.Use(r.authMiddleware.Authenticate)
	authProtected.HandleFunc("/logout", r.authHandler.Logout).Methods(http.MethodPost)
	authProtected.HandleFunc("/me", r.authHandler.GetCurrentUser).Methods(http.MethodGet)

	// Back office (admin or editor)
	admin := api.PathPrefix("/admin").Subrouter()
	admin.Use(r.authMiddleware.Authenticate)
	admin.Use(middleware.RequireContentEditor)

	admin.HandleFunc("/owners/{owner_type}", r.ownerHandler.ListAllOwners).Methods(http.MethodGet)
	admin.HandleFunc("/owners/{owner_type}", r.ownerHandler.CreateOwner).Methods(http.MethodPost)
	admin.HandleFunc("/owners/{owner_type}/{owner_id:[0-9]+}", r.ownerHandler.GetOwnerAdmin).Methods(http.MethodGet)
	admin.HandleFunc("/owners/{owner_type}/{owner_id:[0-9]+}", r.ownerHandler.UpdateOwner).Methods(http.MethodPut)
	admin.HandleFunc("/owners/{owner_type}/{owner_id:[0-9]+}", r.ownerHandler.DeleteOwner).Methods(http.MethodDelete)

	images := admin.PathPrefix("/owners/{owner_type}/{owner_id:[0-9]+}/images").Subrouter()
	images.HandleFunc("", r.imageHandler.UploadImages).Methods(http.MethodPost)
	images.HandleFunc("/order", r.imageHandler.ReorderImages).Methods(http.MethodPut)
	images.HandleFunc("/presign", r.imageHandler.PresignImage).Methods(http.MethodPost)
	images.HandleFunc("/confirm", r.imageHandler.ConfirmImage).Methods(http.MethodPost)
	images.HandleFunc("/{image_id:[0-9]+}", r.imageHandler.DeleteImage).Methods(http.MethodDelete)
	images.HandleFunc("/{image_id:[0-9]+}/primary", r.imageHandler.SetPrimary).Methods(http.MethodPut)

	admin.HandleFunc("/owners/{owner_type}/{owner_id:[0-9]+}/faqs", r.faqHandler.ListAllFAQs).Methods(http.MethodGet)
	admin.HandleFunc("/owners/{owner_type}/{owner_id:[0-9]+}/faqs", r.faqHandler.CreateFAQ).Methods(http.MethodPost)
	admin.HandleFunc("/faqs/{faq_id:[0-9]+}", r.faqHandler.UpdateFAQ).Methods(http.MethodPut)
	admin.HandleFunc("/faqs/{faq_id:[0-9]+}", r.faqHandler.DeleteFAQ).Methods(http.MethodDelete)

	// Audit trail (admin only)
	audit := api.PathPrefix("/admin/audit-logs").Subrouter()
	audit.Use(r.authMiddleware.Authenticate)
	audit.Use(middleware.RequireAdmin)
	audit.HandleFunc("", r.auditLogHandler.GetAllAuditLogs).Methods(http.MethodGet)
	audit.HandleFunc("/{id:[0-9]+}", r.auditLogHandler.GetAuditLog).Methods(http.MethodGet)

	if r.observeMiddleware != nil {
		r.router.Use(r.observeMiddleware.Handle)
	}

	return r.corsMiddleware.Handle(r.router)
}

func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status": "ok"}`))
}

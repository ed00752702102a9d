package storefront

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"example.com/storefront/internal/catalog"
	"example.com/storefront/internal/checkout"
	"example.com/storefront/internal/landing"
	"example.com/storefront/internal/orders"
)

// mountLoadTimeout bounds how long mounting waits for checkout products
// before answering with a not-yet-loaded view.
const mountLoadTimeout = 3 * time.Second

// placementTimeout bounds an order placement once it has started.
const placementTimeout = 30 * time.Second

// placementContext detaches an order placement from its request: a client
// that disconnects mid-flight does not cancel it.
func placementContext(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(r.Context()), placementTimeout)
}

// OrderLookup reads placed orders back by id.
type OrderLookup interface {
	GetOrder(ctx context.Context, id string) (orders.Order, error)
}

// Options are the collaborators of the HTTP server.
type Options struct {
	Catalog catalog.Source
	Images  landing.ImageResolver
	// Placer places orders submitted from checkout sections.
	Placer checkout.Placer
	// Function serves /functions/place-order; nil leaves the route out.
	Function checkout.Placer
	// Orders serves /api/orders/{orderID}; nil leaves the route out.
	Orders   OrderLookup
	Sessions *Registry
	// BaseContext is the parent scope of mounted sessions.
	BaseContext context.Context
	Now         func() time.Time
	// Tick overrides section timer intervals, for tests.
	Tick   time.Duration
	Logger *slog.Logger
}

// Server is the storefront API: stateless page renders, page sessions
// with live section state, and the order-placement function.
type Server struct {
	catalog  catalog.Source
	images   landing.ImageResolver
	placer   checkout.Placer
	function checkout.Placer
	orders   OrderLookup
	sessions *Registry
	baseCtx  context.Context
	now      func() time.Time
	tick     time.Duration
	logger   *slog.Logger
}

func NewServer(opts Options) *Server {
	if opts.BaseContext == nil {
		opts.BaseContext = context.Background()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Server{
		catalog:  opts.Catalog,
		images:   opts.Images,
		placer:   opts.Placer,
		function: opts.Function,
		orders:   opts.Orders,
		sessions: opts.Sessions,
		baseCtx:  opts.BaseContext,
		now:      opts.Now,
		tick:     opts.Tick,
		logger:   opts.Logger,
	}
}

// Router configures all storefront routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(instrument)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true, "sessions": s.sessions.Len()})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/pages/{slug}", s.handleRenderPage)
		r.Post("/pages/{slug}/sessions", s.handleMountPage)
		r.Get("/products/{slug}/landing", s.handleRenderProduct)
		r.Post("/products/{slug}/sessions", s.handleMountProduct)
		r.Get("/home", s.handleRenderHome)
		r.Post("/home/sessions", s.handleMountHome)
		if s.orders != nil {
			r.Get("/orders/{orderID}", s.handleGetOrder)
		}

		r.Route("/sessions/{sessionID}", func(r chi.Router) {
			r.Get("/", s.handleRenderSession)
			r.Delete("/", s.handleDeleteSession)
			r.Put("/viewport", s.handleViewport)

			r.Route("/sections/{sectionID}", func(r chi.Router) {
				r.Post("/carousel", s.handleCarousel)
				r.Post("/faq", s.handleFAQ)
				r.Get("/countdown/stream", s.handleCountdownStream)

				// Checkout interactions; every one answers with the fresh
				// checkout view so clients re-render from a single payload.
				r.Post("/color", s.handleSelectColor)
				r.Post("/size", s.handleSelectSize)
				r.Post("/quantity", s.handleQuantity)
				r.Post("/cart", s.handleAddToCart)
				r.Patch("/cart/{lineID}", s.handleAdjustLine)
				r.Delete("/cart/{lineID}", s.handleRemoveLine)
				r.Put("/form", s.handleUpdateForm)
				r.Post("/submit", s.handleSubmit)
			})
		})
	})

	if s.function != nil {
		r.Post(orders.FunctionPath, s.handlePlaceOrder)
	}
	return r
}

func (s *Server) renderContext(slug string, width int) landing.RenderContext {
	return landing.RenderContext{
		Images: s.images,
		Now:    s.now,
		Slug:   slug,
		Width:  width,
		Logger: s.logger,
	}
}

func (s *Server) mountOptions(width int) landing.MountOptions {
	return landing.MountOptions{
		Products: s.catalog,
		Images:   s.images,
		Logger:   s.logger,
		Now:      s.now,
		Width:    width,
		Tick:     s.tick,
	}
}

func (s *Server) loadPage(w http.ResponseWriter, r *http.Request) (*landing.Page, bool) {
	slug := chi.URLParam(r, "slug")
	page, err := s.catalog.GetPageBySlug(r.Context(), slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "landing page %q not found", slug)
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "load landing page: %v", err)
		return nil, false
	}
	return landing.NewPage(page), true
}

func (s *Server) loadProduct(w http.ResponseWriter, r *http.Request) (*landing.ProductPage, bool) {
	slug := chi.URLParam(r, "slug")
	page, err := landing.LoadProductPage(r.Context(), s.catalog, slug)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "%s", landing.ProductNotFoundMessage)
			return nil, false
		}
		writeError(w, http.StatusInternalServerError, "load product page: %v", err)
		return nil, false
	}
	return page, true
}

func (s *Server) loadHome(w http.ResponseWriter, r *http.Request) (*landing.HomePage, bool) {
	home, err := landing.LoadHomePage(r.Context(), s.catalog)
	if err != nil {
		s.logger.Error("load home page failed", "error", err)
		writeError(w, http.StatusInternalServerError, "load home page: %v", err)
		return nil, false
	}
	return home, true
}

func (s *Server) handleRenderHome(w http.ResponseWriter, r *http.Request) {
	home, ok := s.loadHome(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, home.Render(s.renderContext(landing.HomeSlug, 0)))
}

func (s *Server) handleMountHome(w http.ResponseWriter, r *http.Request) {
	home, ok := s.loadHome(w, r)
	if !ok {
		return
	}
	width := parseIntDefault(r.URL.Query().Get("width"), 0)
	s.respondMounted(w, r, landing.MountHome(s.baseCtx, home, s.mountOptions(width)))
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "orderID")
	order, err := s.orders.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, catalog.ErrNotFound) {
			writeError(w, http.StatusNotFound, "order %q not found", id)
			return
		}
		writeError(w, http.StatusInternalServerError, "load order: %v", err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (s *Server) handleRenderPage(w http.ResponseWriter, r *http.Request) {
	page, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	width := parseIntDefault(r.URL.Query().Get("width"), 0)
	writeJSON(w, http.StatusOK, landing.RenderPage(page, s.renderContext(page.Slug, width)))
}

func (s *Server) handleRenderProduct(w http.ResponseWriter, r *http.Request) {
	page, ok := s.loadProduct(w, r)
	if !ok {
		return
	}
	width := parseIntDefault(r.URL.Query().Get("width"), 0)
	writeJSON(w, http.StatusOK, page.Render(s.renderContext(page.Slug, width)))
}

func (s *Server) handleMountPage(w http.ResponseWriter, r *http.Request) {
	page, ok := s.loadPage(w, r)
	if !ok {
		return
	}
	width := parseIntDefault(r.URL.Query().Get("width"), 0)
	s.respondMounted(w, r, landing.Mount(s.baseCtx, page, s.mountOptions(width)))
}

func (s *Server) handleMountProduct(w http.ResponseWriter, r *http.Request) {
	page, ok := s.loadProduct(w, r)
	if !ok {
		return
	}
	width := parseIntDefault(r.URL.Query().Get("width"), 0)
	s.respondMounted(w, r, landing.MountProduct(s.baseCtx, page, s.mountOptions(width)))
}

func (s *Server) respondMounted(w http.ResponseWriter, r *http.Request, inst *landing.Instance) {
	ctx, cancel := context.WithTimeout(r.Context(), mountLoadTimeout)
	defer cancel()
	if err := inst.WaitLoaded(ctx); err != nil {
		s.logger.Warn("mount answered before products loaded", "slug", inst.Slug(), "error", err)
	}
	session := s.sessions.Add(inst)
	writeJSON(w, http.StatusCreated, map[string]any{
		"session_id": session.ID,
		"view":       inst.Render(),
	})
}

func (s *Server) handlePlaceOrder(w http.ResponseWriter, r *http.Request) {
	var req checkout.OrderRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: %v", err)
		return
	}
	ctx, cancel := placementContext(r)
	defer cancel()
	result, err := s.function.PlaceOrder(ctx, req)
	if err != nil {
		if errors.Is(err, orders.ErrInvalidOrder) {
			writeError(w, http.StatusBadRequest, "%v", err)
			return
		}
		s.logger.Error("order function failed", "error", err)
		writeError(w, http.StatusInternalServerError, "place order: %v", err)
		return
	}
	if result.Error != "" {
		writeJSON(w, http.StatusOK, result)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func parseIntDefault(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(payload)
}

func writeError(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]any{
		"error": map[string]any{
			"message": strings.TrimSpace(fmt.Sprintf(format, args...)),
			"status":  status,
		},
	})
}

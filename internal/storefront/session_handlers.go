package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"example.com/storefront/internal/checkout"
	"example.com/storefront/internal/landing"
)

func (s *Server) session(w http.ResponseWriter, r *http.Request) (*Session, bool) {
	session, ok := s.sessions.Get(chi.URLParam(r, "sessionID"))
	if !ok {
		writeError(w, http.StatusNotFound, "session not found")
		return nil, false
	}
	return session, true
}

func (s *Server) engine(w http.ResponseWriter, r *http.Request) (*checkout.Engine, bool) {
	session, ok := s.session(w, r)
	if !ok {
		return nil, false
	}
	engine := session.Instance.Checkout(chi.URLParam(r, "sectionID"))
	if engine == nil {
		writeError(w, http.StatusNotFound, "checkout section not found")
		return nil, false
	}
	return engine, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid json: %v", err)
		return false
	}
	return true
}

func (s *Server) handleRenderSession(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, session.Instance.Render())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if !s.sessions.Delete(chi.URLParam(r, "sessionID")) {
		writeError(w, http.StatusNotFound, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	var payload struct {
		Width int `json:"width"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	if payload.Width <= 0 {
		writeError(w, http.StatusBadRequest, "width must be positive")
		return
	}
	visible := session.Instance.SetViewport(payload.Width)
	writeJSON(w, http.StatusOK, map[string]any{"width": payload.Width, "visible": visible})
}

func (s *Server) handleCarousel(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	carousel := session.Instance.Carousel(chi.URLParam(r, "sectionID"))
	if carousel == nil {
		writeError(w, http.StatusNotFound, "carousel section not found")
		return
	}
	var payload struct {
		Action string `json:"action"`
		Index  int    `json:"index"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	var state landing.CarouselState
	switch payload.Action {
	case "next":
		state = carousel.Next()
	case "prev":
		state = carousel.Prev()
	case "goto":
		state = carousel.Goto(payload.Index)
	default:
		writeError(w, http.StatusBadRequest, "action must be next, prev or goto")
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (s *Server) handleFAQ(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	accordion := session.Instance.Accordion(chi.URLParam(r, "sectionID"))
	if accordion == nil {
		writeError(w, http.StatusNotFound, "faq section not found")
		return
	}
	var payload struct {
		Index int `json:"index"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"open": accordion.Toggle(payload.Index)})
}

// handleCountdownStream sends the remaining time as server-sent events,
// once on connect and then once per change, until the client leaves, the
// session is unmounted or the countdown reaches zero.
func (s *Server) handleCountdownStream(w http.ResponseWriter, r *http.Request) {
	session, ok := s.session(w, r)
	if !ok {
		return
	}
	countdown := session.Instance.Countdown(chi.URLParam(r, "sectionID"))
	if countdown == nil {
		writeError(w, http.StatusNotFound, "countdown section not found")
		return
	}
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	updates, unsubscribe := countdown.Subscribe()
	defer unsubscribe()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)

	send := func(rem landing.Remaining) bool {
		data, err := json.Marshal(map[string]any{"remaining": rem, "display": rem.String()})
		if err != nil {
			return false
		}
		if _, err := fmt.Fprintf(w, "event: tick\ndata: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return !rem.Zero()
	}

	if !send(countdown.Current()) {
		return
	}
	scope := session.Instance.Context()
	for {
		select {
		case <-r.Context().Done():
			return
		case <-scope.Done():
			return
		case rem := <-updates:
			if !send(rem) {
				return
			}
		}
	}
}

func (s *Server) respondCheckout(w http.ResponseWriter, status int, engine *checkout.Engine) {
	writeJSON(w, status, engine.View())
}

func (s *Server) handleSelectColor(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	var payload struct {
		Index int `json:"index"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	if err := engine.SelectColor(payload.Index); err != nil {
		s.writeCheckoutError(w, err)
		return
	}
	s.respondCheckout(w, http.StatusOK, engine)
}

func (s *Server) handleSelectSize(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	var payload struct {
		VariationID string `json:"variationId"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	if err := engine.SelectSize(payload.VariationID); err != nil {
		s.writeCheckoutError(w, err)
		return
	}
	s.respondCheckout(w, http.StatusOK, engine)
}

func (s *Server) handleQuantity(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	var payload struct {
		Delta int `json:"delta"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	engine.ChangeQuantity(payload.Delta)
	s.respondCheckout(w, http.StatusOK, engine)
}

func (s *Server) handleAddToCart(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	var payload struct {
		ProductID string `json:"productId"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	line, err := engine.AddToCart(payload.ProductID)
	if err != nil {
		s.writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"line": line, "checkout": engine.View()})
}

func (s *Server) handleAdjustLine(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	var payload struct {
		Delta int `json:"delta"`
	}
	if !decodeBody(w, r, &payload) {
		return
	}
	if err := engine.AdjustQuantity(chi.URLParam(r, "lineID"), payload.Delta); err != nil {
		s.writeCheckoutError(w, err)
		return
	}
	s.respondCheckout(w, http.StatusOK, engine)
}

func (s *Server) handleRemoveLine(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	if err := engine.RemoveLine(chi.URLParam(r, "lineID")); err != nil {
		s.writeCheckoutError(w, err)
		return
	}
	s.respondCheckout(w, http.StatusOK, engine)
}

func (s *Server) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	var update checkout.FormUpdate
	if !decodeBody(w, r, &update) {
		return
	}
	if err := engine.UpdateForm(update); err != nil {
		s.writeCheckoutError(w, err)
		return
	}
	s.respondCheckout(w, http.StatusOK, engine)
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	engine, ok := s.engine(w, r)
	if !ok {
		return
	}
	if s.placer == nil {
		writeError(w, http.StatusServiceUnavailable, "%s", checkout.MsgOrderFailed)
		return
	}
	ctx, cancel := placementContext(r)
	defer cancel()
	conf, err := engine.Submit(ctx, s.placer)
	if err != nil {
		s.writeCheckoutError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, conf)
}

// writeCheckoutError maps checkout errors onto statuses. Messages in the
// body are the customer-facing toasts.
func (s *Server) writeCheckoutError(w http.ResponseWriter, err error) {
	var validation *checkout.ValidationError
	var order *checkout.OrderError
	switch {
	case errors.Is(err, checkout.ErrSubmitting):
		writeError(w, http.StatusConflict, "%s", checkout.Message(err))
	case errors.As(err, &validation):
		writeError(w, http.StatusUnprocessableEntity, "%s", checkout.Message(err))
	case errors.Is(err, checkout.ErrLineNotFound):
		writeError(w, http.StatusNotFound, "cart line not found")
	case errors.Is(err, checkout.ErrUnknownZone):
		writeError(w, http.StatusUnprocessableEntity, "unknown shipping zone")
	case errors.As(err, &order):
		if order.Code != "" {
			writeError(w, http.StatusUnprocessableEntity, "%s", order.Message)
			return
		}
		writeError(w, http.StatusBadGateway, "%s", order.Message)
	default:
		s.logger.Error("checkout request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "%s", checkout.MsgOrderFailed)
	}
}

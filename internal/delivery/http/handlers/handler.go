package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/LavaJover/shvark-commission-service/internal/delivery/http/dto/response"
	"github.com/LavaJover/shvark-commission-service/internal/domain"
	"github.com/LavaJover/shvark-commission-service/internal/usecase"
	"github.com/LavaJover/shvark-commission-service/internal/usecase/settlement"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	agents     usecase.AgentUsecase
	orders     usecase.OrderUsecase
	settlement settlement.SettlementUsecase
	currency   string
	validate   *validator.Validate
	logger     *zap.Logger
}

func NewHandler(
	agents usecase.AgentUsecase,
	orders usecase.OrderUsecase,
	settlementUC settlement.SettlementUsecase,
	settlementCurrency string,
	logger *zap.Logger) *Handler {

	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		agents:     agents,
		orders:     orders,
		settlement: settlementUC,
		currency:   settlementCurrency,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
		logger:     logger,
	}
}

func NewRouter(h *Handler, gatherer prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Post("/commission/compute", h.computeCommission)

	r.Route("/agents", func(r chi.Router) {
		r.Post("/primary", h.registerPrimary)
		r.Post("/secondary", h.registerSecondary)
		r.Get("/{code}", h.getAgent)
		r.Get("/{code}/settlement", h.getSettlement)
		r.Patch("/{code}/rate", h.updateRate)
		r.Put("/{code}/parent", h.linkParent)
		r.Delete("/{code}", h.removeAgent)
	})

	r.Route("/orders", func(r chi.Router) {
		r.Post("/", h.createOrder)
		r.Get("/{id}", h.getOrder)
		r.Post("/{id}/{action}", h.orderAction)
	})
	return r
}

func (h *Handler) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		started := time.Now()
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", ww.Status()),
			zap.Duration("duration", time.Since(started)),
			zap.String("request_id", middleware.GetReqID(r.Context())),
		)
	})
}

// decode reads a JSON body into dst and validates it. An empty body is
// accepted when allowEmpty is set.
func (h *Handler) decode(r *http.Request, dst any, allowEmpty bool) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if !(allowEmpty && errors.Is(err, io.EOF)) {
			return fmt.Errorf("invalid request body: %w", err)
		}
	}
	if err := h.validate.Struct(dst); err != nil {
		return err
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]response.ErrorResponse{
		"error": {Code: code, Message: message},
	})
}

func (h *Handler) badRequest(w http.ResponseWriter, err error) {
	writeError(w, http.StatusBadRequest, "bad_request", err.Error())
}

// fail maps domain errors onto HTTP status codes.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, code := http.StatusInternalServerError, "internal"
	switch {
	case errors.Is(err, domain.ErrAgentNotFound), errors.Is(err, domain.ErrOrderNotFound):
		status, code = http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrInvalidRate), errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidDuration), errors.Is(err, domain.ErrInvalidWindow),
		errors.Is(err, domain.ErrUnknownOrderStatus):
		status, code = http.StatusUnprocessableEntity, "invalid_input"
	case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, domain.ErrAgentRemoved),
		errors.Is(err, domain.ErrDanglingParentReference):
		status, code = http.StatusConflict, "conflict"
	case errors.Is(err, domain.ErrUpstreamFetchFailure):
		status, code = http.StatusBadGateway, "upstream_failure"
	}

	message := err.Error()
	if status == http.StatusInternalServerError {
		h.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("request_id", middleware.GetReqID(r.Context())),
			zap.Error(err),
		)
		message = "internal error"
	}
	writeError(w, status, code, message)
}

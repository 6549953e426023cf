// Package handler exposes the payments HTTP API.
package handler

import (
	"encoding/json"
	"net/http"

	"staybook/internal/payments/service"
	apperrors "staybook/pkg/errors"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/middleware"
	"staybook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type PaymentHandler struct {
	service *service.PaymentService
	log     *logger.Logger
}

func NewPaymentHandler(service *service.PaymentService, log *logger.Logger) *PaymentHandler {
	return &PaymentHandler{
		service: service,
		log:     log,
	}
}

func (h *PaymentHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req model.PaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	payment, err := h.service.CreatePayment(r.Context(), userID, &req)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteCreated(w, payment)
}

func (h *PaymentHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	payments, total, err := h.service.ListByUser(r.Context(), userID, limit, offset)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WritePaginated(w, payments, total, limit, offset)
}

func (h *PaymentHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/payments", h.Create)
	router.GET("/api/v1/payments", h.List)
}

// CallbackHandler serves the provider redirect endpoints. These arrive from
// the user's browser after Stripe checkout and carry no identity header, so
// they register on the public router.
type CallbackHandler struct {
	service *service.PaymentService
	log     *logger.Logger
}

func NewCallbackHandler(service *service.PaymentService, log *logger.Logger) *CallbackHandler {
	return &CallbackHandler{
		service: service,
		log:     log,
	}
}

// Success is the redirect target Stripe calls after a completed checkout.
func (h *CallbackHandler) Success(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Missing session_id parameter"))
		return
	}

	payment, err := h.service.Success(r.Context(), sessionID)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, payment)
}

// Cancel is the redirect target for abandoned checkouts.
func (h *CallbackHandler) Cancel(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Missing session_id parameter"))
		return
	}

	payment, err := h.service.Cancel(r.Context(), sessionID)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, payment)
}

func (h *CallbackHandler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/api/v1/payments/success", h.Success)
	router.GET("/api/v1/payments/cancel", h.Cancel)
}

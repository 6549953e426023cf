// Package handler exposes the bookings HTTP API.
package handler

import (
	"encoding/json"
	"net/http"

	"staybook/internal/bookings/service"
	apperrors "staybook/pkg/errors"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/middleware"
	"staybook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type BookingHandler struct {
	service *service.BookingService
	log     *logger.Logger
}

func NewBookingHandler(service *service.BookingService, log *logger.Logger) *BookingHandler {
	return &BookingHandler{
		service: service,
		log:     log,
	}
}

func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var booking model.Booking
	if err := json.NewDecoder(r.Body).Decode(&booking); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	created, err := h.service.Create(r.Context(), userID, &booking)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteCreated(w, created)
}

func (h *BookingHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())
	booking, err := h.service.GetByID(r.Context(), userID, ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	status := r.URL.Query().Get("status")

	bookings, total, err := h.service.ListForUser(r.Context(), userID, status, limit, offset)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WritePaginated(w, bookings, total, limit, offset)
}

func (h *BookingHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.BookingUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	userID := middleware.UserIDFromContext(r.Context())
	booking, err := h.service.Update(r.Context(), userID, ps.ByName("id"), &update)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, booking)
}

func (h *BookingHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	userID := middleware.UserIDFromContext(r.Context())
	if err := h.service.Delete(r.Context(), userID, ps.ByName("id")); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *BookingHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/bookings", h.Create)
	router.GET("/api/v1/bookings", h.List)
	router.GET("/api/v1/bookings/:id", h.GetByID)
	router.PATCH("/api/v1/bookings/:id", h.Update)
	router.DELETE("/api/v1/bookings/:id", h.Delete)
}

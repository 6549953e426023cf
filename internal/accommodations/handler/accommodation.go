// Package handler exposes the accommodations HTTP API.
package handler

import (
	"encoding/json"
	"net/http"

	"staybook/internal/accommodations/service"
	apperrors "staybook/pkg/errors"
	httputil "staybook/pkg/http"
	"staybook/pkg/logger"
	"staybook/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AccommodationHandler struct {
	service *service.AccommodationService
	log     *logger.Logger
}

func NewAccommodationHandler(service *service.AccommodationService, log *logger.Logger) *AccommodationHandler {
	return &AccommodationHandler{
		service: service,
		log:     log,
	}
}

func (h *AccommodationHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var accommodation model.Accommodation
	if err := json.NewDecoder(r.Body).Decode(&accommodation); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	created, err := h.service.Create(r.Context(), &accommodation)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteCreated(w, created)
}

func (h *AccommodationHandler) GetByID(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	accommodation, err := h.service.GetByID(r.Context(), ps.ByName("id"))
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, accommodation)
}

func (h *AccommodationHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}

	accommodations, total, err := h.service.List(r.Context(), r.URL.Query().Get("type"), limit, offset)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WritePaginated(w, accommodations, total, limit, offset)
}

func (h *AccommodationHandler) Update(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	var update model.AccommodationUpdate
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		_ = httputil.WriteError(w, apperrors.InvalidInput("Invalid request body"))
		return
	}

	accommodation, err := h.service.Update(r.Context(), ps.ByName("id"), &update)
	if err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	_ = httputil.WriteSuccess(w, accommodation)
}

func (h *AccommodationHandler) Delete(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	if err := h.service.Delete(r.Context(), ps.ByName("id")); err != nil {
		_ = httputil.WriteError(w, err)
		return
	}
	httputil.WriteNoContent(w)
}

func (h *AccommodationHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/accommodations", h.Create)
	router.GET("/api/v1/accommodations", h.List)
	router.GET("/api/v1/accommodations/:id", h.GetByID)
	router.PATCH("/api/v1/accommodations/:id", h.Update)
	router.DELETE("/api/v1/accommodations/:id", h.Delete)
}

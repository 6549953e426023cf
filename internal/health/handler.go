package health

import (
	"context"
	"net/http"
	"time"

	httputil "staybook/pkg/http"
	"staybook/pkg/logger"

	"github.com/julienschmidt/httprouter"
	"go.mongodb.org/mongo-driver/mongo"
)

type Handler struct {
	mongo *mongo.Client
	log   *logger.Logger
}

func NewHandler(mongoClient *mongo.Client, log *logger.Logger) *Handler {
	return &Handler{
		mongo: mongoClient,
		log:   log,
	}
}

// Live reports process liveness only.
func (h *Handler) Live(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	_ = httputil.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Ready reports readiness, including store connectivity.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	if err := h.mongo.Ping(ctx, nil); err != nil {
		h.log.Error("Readiness check failed", "error", err)
		_ = httputil.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "unavailable",
			"mongo":  "down",
		})
		return
	}

	_ = httputil.WriteJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"mongo":  "up",
	})
}

func (h *Handler) RegisterRoutes(router *httprouter.Router) {
	router.GET("/health", h.Live)
	router.GET("/ready", h.Ready)
}

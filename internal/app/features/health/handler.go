package health

import (
	"context"
	"net/http"

	"github.com/sprinthub/sprinthub/internal/app/features/shared/api"
	"github.com/sprinthub/sprinthub/internal/app/store/kv"
	"github.com/sprinthub/sprinthub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// Handler holds dependencies needed for health checks.
type Handler struct {
	Client *mongo.Client
	KV     kv.Store
	Log    *zap.Logger
}

// NewHandler constructs a health Handler. Client is nil when the KV
// store runs on the in-memory backend.
func NewHandler(client *mongo.Client, store kv.Store, logger *zap.Logger) *Handler {
	return &Handler{Client: client, KV: store, Log: logger}
}

type healthResponse struct {
	Status  string `json:"status"`
	Store   string `json:"store"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Serve handles GET /health. It pings the Mongo deployment when one is
// configured; the in-memory backend is probed with a point read.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Ping())
	defer cancel()

	if err := h.probe(ctx); err != nil {
		h.Log.Error("health check failed", zap.Error(err))
		api.Respond(w, http.StatusServiceUnavailable, healthResponse{
			Status:  "error",
			Store:   "unavailable",
			Message: "store unavailable",
			Error:   err.Error(),
		})
		return
	}
	api.Respond(w, http.StatusOK, healthResponse{Status: "ok", Store: "connected"})
}

func (h *Handler) probe(ctx context.Context) error {
	if h.Client != nil {
		return h.Client.Ping(ctx, readpref.Primary())
	}
	_, _, err := h.KV.Get(ctx, kv.Key{"health", "probe"})
	return err
}

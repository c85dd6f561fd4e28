package api

import (
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/olgasafonova/bears-api/internal/bears"
	"github.com/olgasafonova/bears-api/metrics"
)

// ErrorPrefix starts every 500 body returned by the bears endpoint
const ErrorPrefix = "Error fetching bear data: "

// BearHandler serves the bear listing
type BearHandler struct {
	lister BearLister
	logger *slog.Logger
}

// NewBearHandler creates a handler backed by lister
func NewBearHandler(lister BearLister, logger *slog.Logger) *BearHandler {
	return &BearHandler{lister: lister, logger: logger}
}

// ListBears handles GET /api/bears. The body is a JSON array, empty when
// nothing could be extracted. Any failure, including a panic below this
// handler, becomes a 500 with a plain-text message.
func (h *BearHandler) ListBears(w http.ResponseWriter, r *http.Request) {
	defer func() {
		if rec := recover(); rec != nil {
			if rec == http.ErrAbortHandler {
				panic(rec)
			}
			metrics.PanicsRecovered.WithLabelValues("api.list_bears").Inc()
			h.logger.Error("Panic recovered",
				"handler", "api.list_bears",
				"panic", rec,
				"stack", string(debug.Stack()))
			respondWithText(w, http.StatusInternalServerError, ErrorPrefix+panicMessage(rec))
		}
	}()

	list, err := h.lister.ListBears(r.Context())
	if err != nil {
		h.logger.Error("Failed to list bears", "error", err)
		respondWithText(w, http.StatusInternalServerError, ErrorPrefix+err.Error())
		return
	}
	if list == nil {
		list = []bears.Bear{}
	}

	respondWithJSON(w, http.StatusOK, list, h.logger)
}

func panicMessage(rec any) string {
	switch v := rec.(type) {
	case error:
		return v.Error()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

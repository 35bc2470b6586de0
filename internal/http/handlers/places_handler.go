// README: Place suggestion handler for the Location panel.
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nomad/internal/modules/places"
)

type PlacesHandler struct {
	places *places.Service
	log    *zap.Logger
}

func NewPlacesHandler(svc *places.Service, log *zap.Logger) *PlacesHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &PlacesHandler{places: svc, log: log}
}

// Suggest handles GET /ui/places?input=. A failing places API yields an empty list.
func (h *PlacesHandler) Suggest(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	suggestions, err := h.places.Suggest(ctx, c.Query("input"))
	if err != nil {
		h.log.Warn("places: suggest failed", zap.Error(err))
	}
	if suggestions == nil {
		suggestions = []places.Suggestion{}
	}
	writeJSON(c, http.StatusOK, gin.H{"suggestions": suggestions, "enabled": h.places.Enabled()})
}

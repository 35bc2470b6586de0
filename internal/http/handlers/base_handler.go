// README: Base handler utilities (JSON helpers, error mapping, form-or-JSON replies).
package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"nomad/internal/http/middleware"
	"nomad/internal/modules/panel"
	"nomad/internal/modules/selection"
	"nomad/internal/modules/workspace"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(c *gin.Context, status int, v any) {
	c.JSON(status, v)
}

func writeError(c *gin.Context, status int, msg string) {
	writeJSON(c, status, errorResponse{Error: msg})
}

func writeSelectionError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, selection.ErrUnknownActivity),
		errors.Is(err, selection.ErrUnknownField),
		errors.Is(err, selection.ErrInvalidDateRange),
		errors.Is(err, panel.ErrUnknownCategory):
		writeError(c, http.StatusBadRequest, err.Error())
	default:
		writeError(c, http.StatusInternalServerError, "internal error")
	}
}

// wantsJSON is true for fetch callers; plain form posts get a redirect back to the planner.
func wantsJSON(c *gin.Context) bool {
	return strings.Contains(c.GetHeader("Accept"), "application/json")
}

// respond finishes a UI action with the workspace state or a 303 to the planner page.
func respond(c *gin.Context, ws *workspace.Workspace, status int) {
	if wantsJSON(c) {
		writeJSON(c, status, ws.View())
		return
	}
	c.Redirect(http.StatusSeeOther, "/plan")
}

// mustWorkspace fetches the bound workspace or answers 500 when the middleware is missing.
func mustWorkspace(c *gin.Context) (*workspace.Workspace, bool) {
	ws := middleware.WorkspaceFrom(c)
	if ws == nil {
		writeError(c, http.StatusInternalServerError, "workspace not bound")
		return nil, false
	}
	return ws, true
}

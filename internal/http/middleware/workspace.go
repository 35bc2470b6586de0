// README: Binds each request to the visitor's workspace via a cookie.
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nomad/internal/modules/workspace"
	"nomad/internal/types"
)

const (
	WorkspaceCookie = "nomad_ws"
	workspaceKey    = "nomad.workspace"
)

// Workspace resolves the cookie to a workspace. A missing or malformed cookie gets a fresh id;
// an unknown well-formed id is rebuilt in place so its stored token is reloaded.
func Workspace(reg *workspace.Registry, maxAge int, secure bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, _ := c.Cookie(WorkspaceCookie)
		ws, created := reg.Acquire(c.Request.Context(), types.ID(id))
		if created || id != ws.ID.String() {
			c.SetSameSite(http.SameSiteLaxMode)
			c.SetCookie(WorkspaceCookie, ws.ID.String(), maxAge, "/", "", secure, true)
		}
		c.Set(workspaceKey, ws)
		c.Next()
	}
}

// WorkspaceFrom returns the workspace bound by Workspace, or nil outside of it.
func WorkspaceFrom(c *gin.Context) *workspace.Workspace {
	v, ok := c.Get(workspaceKey)
	if !ok {
		return nil
	}
	ws, _ := v.(*workspace.Workspace)
	return ws
}

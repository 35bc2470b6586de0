// README: Tests for the workspace cookie binding and the recovery middleware.
package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"nomad/internal/http/middleware"
	"nomad/internal/modules/session"
	"nomad/internal/modules/workspace"
	"nomad/internal/types"
)

func newTestRouter(reg *workspace.Registry) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.Recovery(zap.NewNop()), middleware.Workspace(reg, 3600, false))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.WorkspaceFrom(c).ID.String())
	})
	r.GET("/panic", func(c *gin.Context) {
		panic("boom")
	})
	return r
}

func workspaceCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, ck := range w.Result().Cookies() {
		if ck.Name == middleware.WorkspaceCookie {
			return ck
		}
	}
	return nil
}

// TestWorkspace_MintsCookie verifies that a first visit creates a workspace and sets the cookie.
func TestWorkspace_MintsCookie(t *testing.T) {
	reg := workspace.NewRegistry(workspace.RegistryConfig{TTL: time.Hour})
	r := newTestRouter(reg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	ck := workspaceCookie(w)
	if ck == nil {
		t.Fatal("expected workspace cookie")
	}
	if ck.Value != w.Body.String() {
		t.Errorf("cookie %q does not match workspace %q", ck.Value, w.Body.String())
	}
	if !ck.HttpOnly {
		t.Error("expected HttpOnly cookie")
	}
	if reg.Count() != 1 {
		t.Errorf("expected 1 workspace, got %d", reg.Count())
	}
}

// TestWorkspace_ReusesCookie verifies that a known cookie maps back to the same workspace.
func TestWorkspace_ReusesCookie(t *testing.T) {
	reg := workspace.NewRegistry(workspace.RegistryConfig{TTL: time.Hour})
	r := newTestRouter(reg)

	first := httptest.NewRecorder()
	r.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/whoami", nil))
	ck := workspaceCookie(first)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(ck)
	second := httptest.NewRecorder()
	r.ServeHTTP(second, req)

	if second.Body.String() != first.Body.String() {
		t.Errorf("expected same workspace, got %q and %q", first.Body.String(), second.Body.String())
	}
	if workspaceCookie(second) != nil {
		t.Error("did not expect a new cookie for a known workspace")
	}
}

// TestWorkspace_MalformedCookie verifies that a cookie that is not a workspace id is replaced.
func TestWorkspace_MalformedCookie(t *testing.T) {
	reg := workspace.NewRegistry(workspace.RegistryConfig{TTL: time.Hour})
	r := newTestRouter(reg)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: middleware.WorkspaceCookie, Value: "expired"})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	ck := workspaceCookie(w)
	if ck == nil || ck.Value == "expired" {
		t.Fatalf("expected a fresh cookie, got %+v", ck)
	}
}

// TestWorkspace_UnknownCookieKeepsID verifies that a workspace dropped from memory comes back
// under the same id with its stored token.
func TestWorkspace_UnknownCookieKeepsID(t *testing.T) {
	store := session.NewMemoryStore()
	id := uuid.NewString()
	if err := store.Save(context.Background(), types.ID(id), "t1"); err != nil {
		t.Fatalf("seed token: %v", err)
	}
	reg := workspace.NewRegistry(workspace.RegistryConfig{TTL: time.Hour, Store: store})
	r := newTestRouter(reg)

	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: middleware.WorkspaceCookie, Value: id})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Body.String() != id {
		t.Fatalf("expected workspace %q, got %q", id, w.Body.String())
	}
	ws, ok := reg.Get(types.ID(id))
	if !ok {
		t.Fatal("expected workspace to be registered")
	}
	if tok := ws.Session.Token(); tok == nil || *tok != "t1" {
		t.Errorf("expected stored token t1, got %v", tok)
	}
}

// TestWorkspace_SecureCookie verifies that the Secure flag follows the configuration.
func TestWorkspace_SecureCookie(t *testing.T) {
	gin.SetMode(gin.TestMode)
	reg := workspace.NewRegistry(workspace.RegistryConfig{TTL: time.Hour})
	r := gin.New()
	r.Use(middleware.Workspace(reg, 3600, true))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, middleware.WorkspaceFrom(c).ID.String())
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	ck := workspaceCookie(w)
	if ck == nil {
		t.Fatal("expected workspace cookie")
	}
	if !ck.Secure {
		t.Error("expected Secure cookie")
	}
}

// TestRecovery verifies that a panicking handler answers 500 JSON.
func TestRecovery(t *testing.T) {
	reg := workspace.NewRegistry(workspace.RegistryConfig{TTL: time.Hour})
	r := newTestRouter(reg)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/panic", nil))
	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", w.Code)
	}
}

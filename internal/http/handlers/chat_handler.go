// README: Chat handlers: submit the selection for planning and export the itinerary PDF.
package handlers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"nomad/internal/modules/planner"
	"nomad/internal/modules/workspace"
)

type ChatHandler struct {
	planner *planner.Service
	log     *zap.Logger
}

func NewChatHandler(svc *planner.Service, log *zap.Logger) *ChatHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ChatHandler{planner: svc, log: log}
}

// Submit handles POST /ui/submit. An optional raw field replaces the selection first; the
// backend call then runs in the background and the feed reports its progress.
func (h *ChatHandler) Submit(c *gin.Context) {
	ws, ok := mustWorkspace(c)
	if !ok {
		return
	}
	raw, hasRaw := c.GetPostForm("raw")
	if hasRaw {
		_ = ws.Do(func(ws *workspace.Workspace) error {
			ws.Selection.ApplyRawText(raw)
			return nil
		})
	}
	in := planner.SubmitInput{Query: ws.Query(), Feed: ws.Feed, Session: ws.Session}
	ctx := context.WithoutCancel(c.Request.Context())
	go h.planner.Submit(ctx, in)

	h.log.Debug("chat: submission started", zap.String("workspace_id", ws.ID.String()), zap.Int("fields", in.Query.Len()))
	respond(c, ws, http.StatusAccepted)
}

// Download handles POST /ui/download and streams the PDF back as an attachment.
func (h *ChatHandler) Download(c *gin.Context) {
	ws, ok := mustWorkspace(c)
	if !ok {
		return
	}
	doc, err := h.planner.Download(c.Request.Context(), planner.DownloadInput{Query: ws.Query(), Busy: ws})
	if err != nil {
		writeError(c, http.StatusBadGateway, err.Error())
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	c.Data(http.StatusOK, doc.ContentType, doc.Data)
}

// README: Selection and panel handlers: every control on the planner page posts here.
package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"nomad/internal/modules/panel"
	"nomad/internal/modules/workspace"
)

var errBadDate = errors.New("dates must be YYYY-MM-DD")

type SelectionHandler struct{}

func NewSelectionHandler() *SelectionHandler {
	return &SelectionHandler{}
}

// mutate runs fn under the workspace lock and answers with the new state.
func (h *SelectionHandler) mutate(c *gin.Context, fn func(ws *workspace.Workspace) error) {
	ws, ok := mustWorkspace(c)
	if !ok {
		return
	}
	if err := ws.Do(fn); err != nil {
		if errors.Is(err, errBadDate) {
			writeError(c, http.StatusBadRequest, err.Error())
			return
		}
		writeSelectionError(c, err)
		return
	}
	respond(c, ws, http.StatusOK)
}

// TogglePanel handles POST /ui/panels/toggle.
func (h *SelectionHandler) TogglePanel(c *gin.Context) {
	cat := panel.Category(c.PostForm("category"))
	h.mutate(c, func(ws *workspace.Workspace) error {
		return ws.Panel.Toggle(cat)
	})
}

// Dates handles POST /ui/selection/dates. Either end may be blank while the range is being picked.
func (h *SelectionHandler) Dates(c *gin.Context) {
	start, err := parseDate(c.PostForm("start"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	end, err := parseDate(c.PostForm("end"))
	if err != nil {
		writeError(c, http.StatusBadRequest, err.Error())
		return
	}
	h.mutate(c, func(ws *workspace.Workspace) error {
		return ws.Selection.SetDates(start, end)
	})
}

func parseDate(v string) (*time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	t, err := time.Parse(inputDateLayout, v)
	if err != nil {
		return nil, errBadDate
	}
	return &t, nil
}

// ToggleActivity handles POST /ui/selection/activities/toggle.
func (h *SelectionHandler) ToggleActivity(c *gin.Context) {
	activity := c.PostForm("activity")
	h.mutate(c, func(ws *workspace.Workspace) error {
		return ws.Selection.ToggleActivity(activity)
	})
}

// Travelers handles POST /ui/selection/travelers with delta 1 or -1.
func (h *SelectionHandler) Travelers(c *gin.Context) {
	delta := c.PostForm("delta")
	if delta != "1" && delta != "-1" && delta != "+1" {
		writeError(c, http.StatusBadRequest, "delta must be 1 or -1")
		return
	}
	h.mutate(c, func(ws *workspace.Workspace) error {
		if delta == "-1" {
			ws.Selection.DecrementTravelers()
		} else {
			ws.Selection.IncrementTravelers()
		}
		return nil
	})
}

// Text handles POST /ui/selection/text for Location, Budget and Meal Preferences.
func (h *SelectionHandler) Text(c *gin.Context) {
	field, value := c.PostForm("field"), c.PostForm("value")
	h.mutate(c, func(ws *workspace.Workspace) error {
		return ws.Selection.SetText(field, value)
	})
}

// Remove handles POST /ui/selection/remove.
func (h *SelectionHandler) Remove(c *gin.Context) {
	field := c.PostForm("field")
	if field == "" {
		writeError(c, http.StatusBadRequest, "missing field")
		return
	}
	h.mutate(c, func(ws *workspace.Workspace) error {
		ws.Selection.Remove(field)
		return nil
	})
}

// Raw handles POST /ui/selection/raw with the edited summary text.
func (h *SelectionHandler) Raw(c *gin.Context) {
	raw := c.PostForm("raw")
	h.mutate(c, func(ws *workspace.Workspace) error {
		ws.Selection.ApplyRawText(raw)
		return nil
	})
}

// README: Page handlers: welcome page, planner page, feed fragment and JSON state.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"nomad/internal/modules/feed"
	"nomad/internal/modules/panel"
	"nomad/internal/modules/selection"
	"nomad/internal/modules/workspace"
	"nomad/internal/web"
)

const inputDateLayout = "2006-01-02"

type PageHandler struct{}

func NewPageHandler() *PageHandler {
	return &PageHandler{}
}

type feedView struct {
	Messages    []feed.Message
	Loading     bool
	Downloading bool
	Thinking    string
}

type planPage struct {
	TravelOptions   []string
	Categories      []panel.Category
	OpenPanel       panel.Category
	Activities      []string
	Selected        []string
	Travelers       int
	StartDate       string
	EndDate         string
	Location        string
	Budget          string
	MealPreferences string
	Selections      []selection.Entry
	RawText         string
	RawRows         int
	Feed            feedView
}

func newFeedView(v workspace.View) feedView {
	return feedView{
		Messages:    v.Messages,
		Loading:     v.Loading,
		Downloading: v.Downloading,
		Thinking:    feed.ThinkingText,
	}
}

func newPlanPage(v workspace.View) planPage {
	p := planPage{
		TravelOptions:   web.TravelOptions,
		Categories:      panel.Categories,
		OpenPanel:       v.OpenPanel,
		Activities:      selection.ActivityCatalog,
		Selected:        v.Activities,
		Travelers:       v.Transient.Travelers,
		Location:        v.Transient.Location,
		Budget:          v.Transient.Budget,
		MealPreferences: v.Transient.MealPreferences,
		Selections:      v.Selections,
		RawText:         v.RawText,
		RawRows:         len(v.Selections) + 1,
		Feed:            newFeedView(v),
	}
	if d := v.Transient.Dates; d.Start != nil {
		p.StartDate = d.Start.Format(inputDateLayout)
	}
	if d := v.Transient.Dates; d.End != nil {
		p.EndDate = d.End.Format(inputDateLayout)
	}
	return p
}

// Welcome handles GET /.
func (h *PageHandler) Welcome(c *gin.Context) {
	c.HTML(http.StatusOK, "welcome.html", gin.H{"TravelOptions": web.TravelOptions})
}

// Plan handles GET /plan.
func (h *PageHandler) Plan(c *gin.Context) {
	ws, ok := mustWorkspace(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "plan.html", newPlanPage(ws.View()))
}

// Feed handles GET /ui/feed.
func (h *PageHandler) Feed(c *gin.Context) {
	ws, ok := mustWorkspace(c)
	if !ok {
		return
	}
	c.HTML(http.StatusOK, "feed", newFeedView(ws.View()))
}

// State handles GET /ui/state.
func (h *PageHandler) State(c *gin.Context) {
	ws, ok := mustWorkspace(c)
	if !ok {
		return
	}
	writeJSON(c, http.StatusOK, ws.View())
}

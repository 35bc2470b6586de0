// README: Per-visitor workspace: the state one browser session plans a trip with.
package workspace

import (
	"sync"
	"sync/atomic"

	"nomad/internal/modules/feed"
	"nomad/internal/modules/panel"
	"nomad/internal/modules/selection"
	"nomad/internal/modules/session"
	"nomad/internal/types"
)

type Workspace struct {
	ID types.ID

	mu        sync.Mutex
	Selection *selection.Store
	Panel     *panel.Controller
	Feed      *feed.Feed
	Session   *session.Session

	downloading atomic.Bool
}

// View is a consistent snapshot of a workspace for rendering.
type View struct {
	ID          types.ID            `json:"id"`
	OpenPanel   panel.Category      `json:"open_panel"`
	Selections  []selection.Entry   `json:"selections"`
	RawText     string              `json:"raw_text"`
	Transient   selection.Transient `json:"-"`
	Activities  []string            `json:"activities"`
	Messages    []feed.Message      `json:"messages"`
	Loading     bool                `json:"loading"`
	Downloading bool                `json:"downloading"`
}

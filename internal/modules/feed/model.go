// README: Message feed model: chat entries and the fixed assistant phrases.
package feed

import "strings"

type Role string

const (
	RoleUser   Role = "user"
	RoleBot    Role = "bot"
	RoleSystem Role = "system"
)

const (
	WelcomeText  = "Welcome to Nomad Travel Assistant! I'm your AI travel advisor, here to help you plan your perfect trip. Whether you need destination ideas, itinerary planning, or travel tips, I'm here to assist. How can I help you today?"
	ThinkingText = "Planning your perfect trip..."
)

type Image struct {
	URL         string `json:"url"`
	Attribution string `json:"attribution"`
}

// Message is immutable once appended.
type Message struct {
	ID      int64   `json:"id"`
	Role    Role    `json:"role"`
	Content string  `json:"content"`
	Images  []Image `json:"images,omitempty"`
}

// IsTripSummary reports whether the message is a bot itinerary report that can be exported.
func (m Message) IsTripSummary() bool {
	if m.Role != RoleBot {
		return false
	}
	return strings.Contains(m.Content, "Trip Summary:") || strings.Contains(m.Content, "Daily Itinerary:")
}

// Event is published whenever the feed length or the loading flag changes.
type Event struct {
	Length  int  `json:"length"`
	Loading bool `json:"loading"`
}

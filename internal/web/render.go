// README: Turns chat message text into styled, escaped HTML lines.
package web

import (
	"html/template"
	"regexp"
	"strings"
)

const (
	LineDay      = "line-day"
	LineActivity = "line-activities"
	LineDetail   = "line-detail"
	LinePlain    = "line"
)

var boldPattern = regexp.MustCompile(`\*\*([^*]+)\*\*`)

type Line struct {
	Class string
	HTML  template.HTML
}

// RenderLines escapes each line before turning **x** into <strong>x</strong>, so message text
// can never inject markup.
func RenderLines(content string) []Line {
	raw := strings.Split(content, "\n")
	out := make([]Line, 0, len(raw))
	for _, l := range raw {
		escaped := template.HTMLEscapeString(l)
		out = append(out, Line{
			Class: lineClass(l),
			HTML:  template.HTML(boldPattern.ReplaceAllString(escaped, "<strong>$1</strong>")),
		})
	}
	return out
}

func lineClass(l string) string {
	switch {
	case strings.Contains(l, "Day"):
		return LineDay
	case strings.Contains(l, "Activities:"):
		return LineActivity
	case strings.Contains(l, "Meals:"), strings.Contains(l, "Transportation:"):
		return LineDetail
	default:
		return LinePlain
	}
}

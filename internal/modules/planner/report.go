// README: Renders a decoded itinerary into the bot message text shown in the feed.
package planner

import (
	"strconv"
	"strings"

	"nomad/internal/modules/itinerary"
)

const (
	noSummary        = "No summary available."
	noDays           = "No daily itinerary available."
	noActivities     = "No activities specified"
	noMeals          = "No meals specified"
	noTransportation = "No transportation specified"
	noAccommodations = "No accommodation recommendations available."
	noTips           = "No practical tips available."
)

// FormatReport produces the report text. The leading newline is part of the format.
func FormatReport(it itinerary.Itinerary) string {
	var b strings.Builder
	b.WriteString("\nHere's your personalized travel itinerary:\n\n")
	b.WriteString("**Trip Summary:**\n")
	b.WriteString(orDefault(string(it.Summary), noSummary))
	b.WriteString("\n\n**Daily Itinerary:**\n")
	b.WriteString(formatDays(it.DailyItinerary))
	b.WriteString("\n\n**Accommodation Recommendations:**\n")
	b.WriteString(joinOr(it.Accommodations, "\n", noAccommodations))
	b.WriteString("\n\n**Practical Tips:**\n")
	b.WriteString(joinOr(it.Tips, "\n", noTips))
	return b.String()
}

func formatDays(days itinerary.DayList) string {
	if len(days) == 0 {
		return noDays
	}
	out := make([]string, 0, len(days))
	for i, d := range days {
		out = append(out, "\nDay "+strconv.Itoa(i+1)+":\n"+
			"Activities: "+joinOr(d.Activities, ", ", noActivities)+"\n"+
			"Meals: "+joinOr(d.Meals, ", ", noMeals)+"\n"+
			"Transportation: "+joinOr(d.Transportation, ", ", noTransportation)+"\n")
	}
	return strings.Join(out, "\n")
}

func joinOr(l itinerary.List, sep, placeholder string) string {
	if !l.Present || len(l.Items) == 0 {
		return placeholder
	}
	return strings.Join(l.Items, sep)
}

func orDefault(s, placeholder string) string {
	if s == "" {
		return placeholder
	}
	return s
}

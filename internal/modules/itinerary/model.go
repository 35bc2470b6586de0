// README: Itinerary backend wire model and the typed result decoded at the client boundary.
package itinerary

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"nomad/internal/modules/feed"
	"nomad/internal/modules/selection"
)

const (
	TripDetailsPath  = "/api/trip-details"
	DownloadPath     = "/api/trip-details/download"
	DownloadFilename = "trip_itinerary.pdf"
)

type tripDetailsRequest struct {
	Query *selection.Set `json:"query"`
	Token *string        `json:"token"`
}

type downloadRequest struct {
	Query *selection.Set `json:"query"`
}

type tripDetailsResponse struct {
	Token     *string         `json:"token"`
	Itinerary json.RawMessage `json:"itinerary"`
	Error     TruthyText      `json:"error"`
}

// Result is one of ItineraryResult, ErrorResult or EmptyResult.
type Result interface {
	result()
}

type ItineraryResult struct {
	Itinerary Itinerary
}

// ErrorResult carries a backend-reported failure meant to be shown verbatim.
type ErrorResult struct {
	Message string
}

type EmptyResult struct{}

func (ItineraryResult) result() {}
func (ErrorResult) result()     {}
func (EmptyResult) result()     {}

type Response struct {
	Token  *string
	Result Result
}

type Itinerary struct {
	Summary        TruthyText `json:"summary"`
	DailyItinerary DayList    `json:"daily_itinerary"`
	Accommodations List       `json:"accommodations"`
	Tips           List       `json:"tips"`
	Images         ImageList  `json:"images"`
}

type Day struct {
	Activities     List `json:"activities"`
	Meals          List `json:"meals"`
	Transportation List `json:"transportation"`
}

// Document is an exported itinerary ready to hand to the browser.
type Document struct {
	Data        []byte
	ContentType string
	Filename    string
}

// Text decodes any JSON value: strings as-is, null as empty, anything else as its JSON text.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*t = ""
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		*t = Text(data)
	}
	return nil
}

// TruthyText is Text that stays empty for the falsy JSON values false, 0 and null.
type TruthyText string

func (t *TruthyText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("false")) || isZeroNumber(data) {
		*t = ""
		return nil
	}
	var text Text
	if err := text.UnmarshalJSON(data); err != nil {
		return err
	}
	*t = TruthyText(text)
	return nil
}

func isZeroNumber(data []byte) bool {
	if len(data) == 0 || (data[0] != '-' && (data[0] < '0' || data[0] > '9')) {
		return false
	}
	f, err := strconv.ParseFloat(string(data), 64)
	return err == nil && f == 0
}

// List is a lenient string array. Present is false when the field was absent or not an array.
type List struct {
	Items   []string
	Present bool
}

func (l *List) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if !isArray(data) || json.Unmarshal(data, &raw) != nil {
		*l = List{}
		return nil
	}
	items := make([]string, 0, len(raw))
	for _, r := range raw {
		var t Text
		if err := t.UnmarshalJSON(r); err != nil {
			return err
		}
		items = append(items, string(t))
	}
	*l = List{Items: items, Present: true}
	return nil
}

// DayList ignores a non-array value; non-object elements decode as an empty Day.
type DayList []Day

func (d *DayList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if !isArray(data) || json.Unmarshal(data, &raw) != nil {
		*d = nil
		return nil
	}
	days := make(DayList, 0, len(raw))
	for _, r := range raw {
		var day Day
		if err := json.Unmarshal(r, &day); err != nil {
			day = Day{}
		}
		days = append(days, day)
	}
	*d = days
	return nil
}

// ImageList keeps well-formed {url, attribution} objects and drops the rest.
type ImageList []feed.Image

func (l *ImageList) UnmarshalJSON(data []byte) error {
	var raw []json.RawMessage
	if !isArray(data) || json.Unmarshal(data, &raw) != nil {
		*l = nil
		return nil
	}
	images := make(ImageList, 0, len(raw))
	for _, r := range raw {
		var img feed.Image
		if err := json.Unmarshal(r, &img); err != nil {
			continue
		}
		images = append(images, img)
	}
	*l = images
	return nil
}

func isArray(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '['
}

func isObject(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

// decodeResponse maps a trip-details payload onto the tagged Result. An error field wins over
// an itinerary; an itinerary must be a JSON object.
func decodeResponse(body []byte) (*Response, error) {
	var wire tripDetailsResponse
	if err := json.Unmarshal(body, &wire); err != nil {
		return nil, fmt.Errorf("itinerary: decode response: %w", err)
	}
	resp := &Response{Token: wire.Token}
	switch {
	case wire.Error != "":
		resp.Result = ErrorResult{Message: string(wire.Error)}
	case isObject(wire.Itinerary):
		var it Itinerary
		if err := json.Unmarshal(wire.Itinerary, &it); err != nil {
			return nil, fmt.Errorf("itinerary: decode itinerary: %w", err)
		}
		resp.Result = ItineraryResult{Itinerary: it}
	default:
		resp.Result = EmptyResult{}
	}
	return resp, nil
}

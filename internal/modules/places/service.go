// README: Destination suggestions for the Location panel, backed by Google Places Autocomplete.
package places

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"googlemaps.github.io/maps"
)

const (
	MaxSuggestions = 5
	minInputRunes  = 2
)

type Suggestion struct {
	Description string `json:"description"`
	PlaceID     string `json:"place_id"`
}

type autocompleter interface {
	PlaceAutocomplete(ctx context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error)
}

// Service is disabled, returning no suggestions, when built without an API key.
type Service struct {
	client   autocompleter
	language string
}

func NewService(apiKey, language string) (*Service, error) {
	if strings.TrimSpace(apiKey) == "" {
		return &Service{}, nil
	}
	client, err := maps.NewClient(maps.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create maps client: %w", err)
	}
	return &Service{client: client, language: language}, nil
}

func (s *Service) Enabled() bool {
	return s != nil && s.client != nil
}

// Suggest returns up to MaxSuggestions cities matching input, de-duplicated by place id.
func (s *Service) Suggest(ctx context.Context, input string) ([]Suggestion, error) {
	input = strings.TrimSpace(input)
	if !s.Enabled() || utf8.RuneCountInString(input) < minInputRunes {
		return nil, nil
	}
	resp, err := s.client.PlaceAutocomplete(ctx, &maps.PlaceAutocompleteRequest{
		Input:    input,
		Types:    maps.AutocompletePlaceTypeCities,
		Language: s.language,
	})
	if err != nil {
		return nil, fmt.Errorf("places api error: %w", err)
	}
	return collect(resp.Predictions), nil
}

func collect(predictions []maps.AutocompletePrediction) []Suggestion {
	seen := make(map[string]struct{}, len(predictions))
	var out []Suggestion
	for _, p := range predictions {
		if p.Description == "" {
			continue
		}
		if _, dup := seen[p.PlaceID]; dup {
			continue
		}
		seen[p.PlaceID] = struct{}{}
		out = append(out, Suggestion{Description: p.Description, PlaceID: p.PlaceID})
		if len(out) >= MaxSuggestions {
			break
		}
	}
	return out
}

package places

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"googlemaps.github.io/maps"
)

type stubAutocompleter struct {
	resp    maps.AutocompleteResponse
	err     error
	lastReq *maps.PlaceAutocompleteRequest
}

func (s *stubAutocompleter) PlaceAutocomplete(_ context.Context, r *maps.PlaceAutocompleteRequest) (maps.AutocompleteResponse, error) {
	s.lastReq = r
	return s.resp, s.err
}

func TestDisabledWithoutKey(t *testing.T) {
	svc, err := NewService("", "en")
	require.NoError(t, err)
	assert.False(t, svc.Enabled())

	got, err := svc.Suggest(context.Background(), "Paris")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSuggestShortInput(t *testing.T) {
	stub := &stubAutocompleter{}
	svc := &Service{client: stub}
	got, err := svc.Suggest(context.Background(), " P ")
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Nil(t, stub.lastReq)
}

func TestSuggestLimitsAndDeduplicates(t *testing.T) {
	var preds []maps.AutocompletePrediction
	preds = append(preds, maps.AutocompletePrediction{Description: "Paris, France", PlaceID: "p1"})
	preds = append(preds, maps.AutocompletePrediction{Description: "Paris, France", PlaceID: "p1"})
	preds = append(preds, maps.AutocompletePrediction{Description: "", PlaceID: "blank"})
	for i := 2; i < 9; i++ {
		preds = append(preds, maps.AutocompletePrediction{Description: fmt.Sprintf("Paris %d", i), PlaceID: fmt.Sprintf("p%d", i)})
	}
	stub := &stubAutocompleter{resp: maps.AutocompleteResponse{Predictions: preds}}
	svc := &Service{client: stub, language: "en"}

	got, err := svc.Suggest(context.Background(), "Par")
	require.NoError(t, err)
	require.Len(t, got, MaxSuggestions)
	assert.Equal(t, Suggestion{Description: "Paris, France", PlaceID: "p1"}, got[0])
	assert.Equal(t, "p5", got[4].PlaceID)
	assert.Equal(t, maps.AutocompletePlaceTypeCities, stub.lastReq.Types)
	assert.Equal(t, "en", stub.lastReq.Language)
}

func TestSuggestWrapsError(t *testing.T) {
	svc := &Service{client: &stubAutocompleter{err: errors.New("quota")}}
	_, err := svc.Suggest(context.Background(), "Lisbon")
	assert.ErrorContains(t, err, "places api error: quota")
}

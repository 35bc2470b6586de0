package selection

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayLinesFollowInsertionOrder(t *testing.T) {
	s := NewStore()
	s.Set("Location", "Paris")
	s.Set("Budget", "500")
	s.Set("Dates", "x")
	s.Unset("Budget")
	s.Set("Location", "Lyon")
	s.Set("Budget", "900")

	assert.Equal(t, []string{"Location: Lyon", "Dates: x", "Budget: 900"}, s.DisplayLines())
}

func TestSetKeepsEmptyValue(t *testing.T) {
	s := NewStore()
	s.SetLocation("Rome")
	s.SetLocation("")

	v, ok := s.Snapshot().Get(FieldLocation)
	require.True(t, ok)
	assert.Equal(t, "", v)
	assert.Equal(t, []string{"Location: "}, s.DisplayLines())
}

func TestActivityToggleRoundTrip(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.ToggleActivity("Hiking"))

	v, ok := s.Snapshot().Get(FieldActivities)
	require.True(t, ok)
	assert.Equal(t, "Hiking", v)

	require.NoError(t, s.ToggleActivity("Hiking"))
	_, ok = s.Snapshot().Get(FieldActivities)
	assert.False(t, ok)
}

func TestActivitiesJoinInCatalogOrder(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.ToggleActivity("Nightlife"))
	require.NoError(t, s.ToggleActivity("Sightseeing"))
	require.NoError(t, s.ToggleActivity("Beach"))

	v, _ := s.Snapshot().Get(FieldActivities)
	assert.Equal(t, "Sightseeing, Beach, Nightlife", v)
}

func TestToggleUnknownActivity(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.ToggleActivity("Skydiving"), ErrUnknownActivity)
	assert.Zero(t, s.Snapshot().Len())
}

func TestDeriveSelectionField(t *testing.T) {
	tr := NewTransient()
	assert.Equal(t, Patch{Field: FieldActivities, Remove: true}, DeriveSelectionField(tr))

	tr.Activities["Museums"] = struct{}{}
	tr.Activities["Hiking"] = struct{}{}
	assert.Equal(t, Patch{Field: FieldActivities, Value: "Museums, Hiking"}, DeriveSelectionField(tr))
}

func TestTravelersNeverBelowOne(t *testing.T) {
	s := NewStore()
	for i := 0; i < 3; i++ {
		s.DecrementTravelers()
	}
	assert.Equal(t, 1, s.Transient().Travelers)
	v, _ := s.Snapshot().Get(FieldTravelers)
	assert.Equal(t, "1", v)

	assert.Equal(t, 2, s.IncrementTravelers())
	assert.Equal(t, 3, s.IncrementTravelers())
	assert.Equal(t, 2, s.DecrementTravelers())
}

func TestSetDatesCommitsOnlyCompleteRange(t *testing.T) {
	s := NewStore()
	start := time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SetDates(&start, nil))
	_, ok := s.Snapshot().Get(FieldDates)
	assert.False(t, ok)

	require.NoError(t, s.SetDates(&start, &end))
	v, ok := s.Snapshot().Get(FieldDates)
	require.True(t, ok)
	assert.Equal(t, "3/4/2025 - 3/11/2025", v)

	assert.ErrorIs(t, s.SetDates(&end, &start), ErrInvalidDateRange)
}

func TestRemoveResetsTransientState(t *testing.T) {
	s := NewStore()
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 2)
	require.NoError(t, s.SetDates(&start, &end))
	require.NoError(t, s.ToggleActivity("Beach"))
	s.IncrementTravelers()
	s.SetLocation("Lisbon")
	s.SetBudget("1000")
	s.SetMealPreferences("vegan")

	for _, f := range []string{FieldDates, FieldActivities, FieldTravelers, FieldLocation, FieldBudget, FieldMealPreferences} {
		s.Remove(f)
	}

	tr := s.Transient()
	assert.Zero(t, s.Snapshot().Len())
	assert.False(t, tr.Dates.Complete())
	assert.Empty(t, tr.Activities)
	assert.Equal(t, 1, tr.Travelers)
	assert.Empty(t, tr.Location)
	assert.Empty(t, tr.Budget)
	assert.Empty(t, tr.MealPreferences)
}

func TestSetTextRejectsDerivedFields(t *testing.T) {
	s := NewStore()
	assert.ErrorIs(t, s.SetText(FieldActivities, "Beach"), ErrUnknownField)
	require.NoError(t, s.SetText(FieldMealPreferences, "halal"))
	assert.Equal(t, "halal", s.Transient().MealPreferences)
}

func TestApplyRawTextDropsMalformedLines(t *testing.T) {
	s := NewStore()
	s.SetBudget("100")
	s.ApplyRawText("Location: Paris\nBudget: 500\ngarbage")

	assert.Equal(t, []Entry{{"Location", "Paris"}, {"Budget", "500"}}, s.Entries())
}

func TestParseRawTextEdgeCases(t *testing.T) {
	set := ParseRawText("Notes: a: b\r\n: empty key\nEmpty value: \nNoSeparator\nVibe: chill")
	assert.Equal(t, []Entry{{"Notes", "a: b"}, {"Vibe", "chill"}}, set.Entries())
	assert.Zero(t, ParseRawText("").Len())
}

func TestApplyRawTextLeavesTransientState(t *testing.T) {
	s := NewStore()
	require.NoError(t, s.ToggleActivity("Museums"))
	s.SetLocation("Oslo")

	s.ApplyRawText("Budget: 10")

	tr := s.Transient()
	assert.Equal(t, []string{"Museums"}, tr.SelectedActivities())
	assert.Equal(t, "Oslo", tr.Location)
	assert.Equal(t, []string{"Budget: 10"}, s.DisplayLines())
}

func TestRawTextRoundTrip(t *testing.T) {
	s := NewStore()
	s.SetLocation("Kyoto")
	s.IncrementTravelers()
	assert.Equal(t, "Location: Kyoto\nTravelers: 2", s.RawText())
}

func TestSetMarshalKeepsOrder(t *testing.T) {
	set := NewSet(Entry{"Travelers", "2"}, Entry{"Budget", "€500"}, Entry{"Activities", "Beach"})

	b, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, `{"Travelers":"2","Budget":"€500","Activities":"Beach"}`, string(b))

	empty, err := json.Marshal(&Set{})
	require.NoError(t, err)
	assert.Equal(t, `{}`, string(empty))
}

func TestSnapshotIsIndependent(t *testing.T) {
	s := NewStore()
	s.SetLocation("Bern")
	snap := s.Snapshot()
	s.SetLocation("Basel")
	s.Remove(FieldLocation)

	v, ok := snap.Get(FieldLocation)
	require.True(t, ok)
	assert.Equal(t, "Bern", v)
}

// README: Submission and download flow tests against a stub backend.
package planner

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nomad/internal/modules/feed"
	"nomad/internal/modules/itinerary"
	"nomad/internal/modules/selection"
	"nomad/internal/modules/session"
)

type stubBackend struct {
	resp      *itinerary.Response
	err       error
	doc       *itinerary.Document
	calls     int
	lastQuery *selection.Set
	lastToken *string
}

func (b *stubBackend) RequestItinerary(_ context.Context, q *selection.Set, token *string) (*itinerary.Response, error) {
	b.calls++
	b.lastQuery = q
	b.lastToken = token
	return b.resp, b.err
}

func (b *stubBackend) RequestDownload(_ context.Context, q *selection.Set) (*itinerary.Document, error) {
	b.calls++
	b.lastQuery = q
	return b.doc, b.err
}

func strPtr(s string) *string { return &s }

func list(items ...string) itinerary.List {
	return itinerary.List{Items: items, Present: true}
}

func newInput(t *testing.T, q *selection.Set) (SubmitInput, *session.MemoryStore) {
	t.Helper()
	store := session.NewMemoryStore()
	return SubmitInput{
		Query:   q,
		Feed:    feed.NewWithWelcome(),
		Session: session.Open(context.Background(), "ws-test", store, nil),
	}, store
}

func TestSubmitFormatsItinerary(t *testing.T) {
	backend := &stubBackend{resp: &itinerary.Response{
		Token: strPtr("t1"),
		Result: itinerary.ItineraryResult{Itinerary: itinerary.Itinerary{
			Summary: "S",
			DailyItinerary: itinerary.DayList{{
				Activities:     list("Museum"),
				Meals:          list(),
				Transportation: list("Walk"),
			}},
			Accommodations: list(),
			Tips:           list(),
			Images:         itinerary.ImageList{{URL: "https://img", Attribution: "by x"}},
		}},
	}}
	svc := NewService(backend, nil, nil)
	in, store := newInput(t, selection.NewSet(selection.Entry{Field: "Location", Value: "Paris"}))

	reply := svc.Submit(context.Background(), in)

	lines := strings.Split(reply.Content, "\n")
	assert.Contains(t, lines, "Day 1:")
	assert.Contains(t, lines, "Activities: Museum")
	assert.Contains(t, lines, "Meals: No meals specified")
	assert.Contains(t, lines, "Transportation: Walk")
	assert.Contains(t, lines, "S")
	assert.Contains(t, lines, "No accommodation recommendations available.")
	assert.Equal(t, []feed.Image{{URL: "https://img", Attribution: "by x"}}, reply.Images)
	assert.True(t, reply.IsTripSummary())

	msgs := in.Feed.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, feed.RoleUser, msgs[1].Role)
	assert.Equal(t, "Location: Paris", msgs[1].Content)
	assert.Equal(t, feed.RoleBot, msgs[2].Role)
	assert.False(t, in.Feed.IsLoading())

	tok, ok, _ := store.Load(context.Background(), "ws-test")
	assert.True(t, ok)
	assert.Equal(t, "t1", tok)
	assert.Equal(t, "t1", *in.Session.Token())
}

func TestSubmitTransportFailure(t *testing.T) {
	backend := &stubBackend{err: errors.New("connection refused")}
	svc := NewService(backend, nil, nil)
	in, _ := newInput(t, selection.NewSet(selection.Entry{Field: "Budget", Value: "500"}))

	svc.Submit(context.Background(), in)

	msgs := in.Feed.Messages()
	require.Len(t, msgs, 3)
	apologies := 0
	for _, m := range msgs {
		if m.Content == ApologyText {
			apologies++
		}
	}
	assert.Equal(t, 1, apologies)
	assert.Equal(t, feed.RoleBot, msgs[2].Role)
	assert.False(t, in.Feed.IsLoading())
	assert.Nil(t, in.Session.Token())
}

func TestSubmitEmptySelectionStillCallsBackend(t *testing.T) {
	backend := &stubBackend{resp: &itinerary.Response{Result: itinerary.EmptyResult{}}}
	svc := NewService(backend, nil, nil)
	in, _ := newInput(t, &selection.Set{})

	reply := svc.Submit(context.Background(), in)

	assert.Equal(t, 1, backend.calls)
	assert.Zero(t, backend.lastQuery.Len())
	msgs := in.Feed.Messages()
	require.Len(t, msgs, 3)
	assert.Equal(t, "", msgs[1].Content)
	assert.Equal(t, EmptyText, reply.Content)
}

func TestSubmitErrorResultShownVerbatim(t *testing.T) {
	backend := &stubBackend{resp: &itinerary.Response{
		Token:  strPtr("t2"),
		Result: itinerary.ErrorResult{Message: "Destination not supported"},
	}}
	svc := NewService(backend, nil, nil)
	in, _ := newInput(t, selection.NewSet())

	reply := svc.Submit(context.Background(), in)
	assert.Equal(t, "Destination not supported", reply.Content)
	assert.False(t, reply.IsTripSummary())
	assert.Equal(t, "t2", *in.Session.Token())
}

func TestSubmitSendsSessionToken(t *testing.T) {
	backend := &stubBackend{resp: &itinerary.Response{Token: strPtr("t2"), Result: itinerary.EmptyResult{}}}
	svc := NewService(backend, nil, nil)
	in, store := newInput(t, selection.NewSet())
	require.NoError(t, store.Save(context.Background(), "ws-test", "t1"))
	in.Session = session.Open(context.Background(), "ws-test", store, nil)

	svc.Submit(context.Background(), in)
	require.NotNil(t, backend.lastToken)
	assert.Equal(t, "t1", *backend.lastToken)

	svc.Submit(context.Background(), in)
	assert.Equal(t, "t2", *backend.lastToken)
}

func TestSubmitRecoversFromPanic(t *testing.T) {
	// A nil response with no error makes the result switch dereference nil.
	svc := NewService(&stubBackend{}, nil, nil)
	in, _ := newInput(t, selection.NewSet())

	reply := svc.Submit(context.Background(), in)
	assert.Equal(t, ApologyText, reply.Content)
	assert.False(t, in.Feed.IsLoading())
}

func TestSubmitPublishesLoadingAroundCall(t *testing.T) {
	backend := &stubBackend{resp: &itinerary.Response{Result: itinerary.EmptyResult{}}}
	svc := NewService(backend, nil, nil)
	in, _ := newInput(t, selection.NewSet())
	events, cancel := in.Feed.Subscribe()
	defer cancel()

	svc.Submit(context.Background(), in)

	var got []feed.Event
	for len(got) < 4 {
		got = append(got, <-events)
	}
	assert.Equal(t, []feed.Event{
		{Length: 2, Loading: false},
		{Length: 2, Loading: true},
		{Length: 3, Loading: true},
		{Length: 3, Loading: false},
	}, got)
}

type flag struct{ history []bool }

func (f *flag) SetDownloading(v bool) { f.history = append(f.history, v) }

func TestDownload(t *testing.T) {
	doc := &itinerary.Document{Data: []byte("%PDF"), ContentType: "application/pdf", Filename: itinerary.DownloadFilename}
	backend := &stubBackend{doc: doc}
	svc := NewService(backend, nil, nil)
	busy := &flag{}

	got, err := svc.Download(context.Background(), DownloadInput{Query: selection.NewSet(), Busy: busy})
	require.NoError(t, err)
	assert.Equal(t, doc, got)
	assert.Equal(t, []bool{true, false}, busy.history)
}

func TestDownloadFailureMessage(t *testing.T) {
	backend := &stubBackend{err: &itinerary.StatusError{Endpoint: itinerary.DownloadPath, StatusCode: 500, Body: "oops"}}
	svc := NewService(backend, nil, nil)
	busy := &flag{}

	_, err := svc.Download(context.Background(), DownloadInput{Query: selection.NewSet(), Busy: busy})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), DownloadErrorPrefix))
	var se *itinerary.StatusError
	assert.ErrorAs(t, err, &se)
	assert.Equal(t, []bool{true, false}, busy.history)
}

func TestFormatReportPlaceholders(t *testing.T) {
	got := FormatReport(itinerary.Itinerary{})
	want := "\nHere's your personalized travel itinerary:\n\n" +
		"**Trip Summary:**\nNo summary available.\n\n" +
		"**Daily Itinerary:**\nNo daily itinerary available.\n\n" +
		"**Accommodation Recommendations:**\nNo accommodation recommendations available.\n\n" +
		"**Practical Tips:**\nNo practical tips available."
	assert.Equal(t, want, got)
}

func TestFormatReportDays(t *testing.T) {
	got := FormatReport(itinerary.Itinerary{
		Summary: "Two days in Rome",
		DailyItinerary: itinerary.DayList{
			{Activities: list("Colosseum", "Forum"), Meals: list("Pizza"), Transportation: list("Metro")},
			{},
		},
		Accommodations: list("Hotel A", "Hotel B"),
		Tips:           list("Carry water"),
	})
	assert.Contains(t, got, "**Daily Itinerary:**\n\nDay 1:\nActivities: Colosseum, Forum\nMeals: Pizza\nTransportation: Metro\n\n\nDay 2:\n"+
		"Activities: No activities specified\nMeals: No meals specified\nTransportation: No transportation specified\n\n\n**Accommodation")
	assert.Contains(t, got, "**Accommodation Recommendations:**\nHotel A\nHotel B\n\n**Practical Tips:**\nCarry water")
}

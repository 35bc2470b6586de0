// README: Submission flow: turns the selection into a chat turn and the backend answer into a bot reply.
package planner

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"nomad/internal/modules/feed"
	"nomad/internal/modules/itinerary"
	"nomad/internal/modules/selection"
	"nomad/internal/modules/session"
)

const (
	EmptyText   = "I'm sorry, but I couldn't generate an itinerary with the provided information. Could you please provide more details about your trip?"
	ApologyText = "I apologize, but I encountered an error while processing your request. Could you please try again or rephrase your question?"

	// DownloadErrorPrefix is prepended to download failures shown to the user.
	DownloadErrorPrefix = "Failed to download trip details: "
)

const (
	OutcomeItinerary = "itinerary"
	OutcomeError     = "backend_error"
	OutcomeEmpty     = "empty"
	OutcomeFailure   = "failure"
)

type Backend interface {
	RequestItinerary(ctx context.Context, query *selection.Set, token *string) (*itinerary.Response, error)
	RequestDownload(ctx context.Context, query *selection.Set) (*itinerary.Document, error)
}

type Recorder interface {
	ObserveSubmission(outcome string, elapsed time.Duration)
	ObserveDownload(ok bool, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveSubmission(string, time.Duration) {}
func (noopRecorder) ObserveDownload(bool, time.Duration)     {}

type Service struct {
	backend  Backend
	log      *zap.Logger
	recorder Recorder
	seq      atomic.Uint64
}

func NewService(backend Backend, log *zap.Logger, recorder Recorder) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Service{backend: backend, log: log, recorder: recorder}
}

type SubmitInput struct {
	Query   *selection.Set
	Feed    *feed.Feed
	Session *session.Session
}

// Submit runs one chat turn to completion. The loading flag is cleared on every exit path,
// and the returned message is the bot reply that was appended.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (reply feed.Message) {
	seq := s.seq.Add(1)
	start := time.Now()
	log := s.log.With(zap.Uint64("seq", seq))

	in.Feed.Append(feed.Message{Role: feed.RoleUser, Content: strings.Join(in.Query.Lines(), "\n")})
	in.Feed.SetLoading(true)
	defer in.Feed.SetLoading(false)

	outcome := OutcomeFailure
	defer func() {
		if r := recover(); r != nil {
			log.Error("planner: submission panicked", zap.Any("panic", r))
			outcome = OutcomeFailure
			reply = in.Feed.Append(feed.Message{Role: feed.RoleBot, Content: ApologyText})
		}
		s.recorder.ObserveSubmission(outcome, time.Since(start))
	}()

	var token *string
	if in.Session != nil {
		token = in.Session.Token()
	}
	log.Info("planner: requesting itinerary", zap.Int("fields", in.Query.Len()), zap.Bool("has_token", token != nil))

	resp, err := s.backend.RequestItinerary(ctx, in.Query, token)
	if err != nil {
		log.Error("planner: itinerary request failed", zap.Error(err))
		return in.Feed.Append(feed.Message{Role: feed.RoleBot, Content: ApologyText})
	}

	if in.Session != nil {
		if err := in.Session.Save(ctx, resp.Token); err != nil {
			log.Warn("planner: token save failed", zap.Error(err))
		}
	}

	msg := feed.Message{Role: feed.RoleBot}
	switch r := resp.Result.(type) {
	case itinerary.ErrorResult:
		outcome = OutcomeError
		msg.Content = r.Message
	case itinerary.ItineraryResult:
		outcome = OutcomeItinerary
		msg.Content = FormatReport(r.Itinerary)
		msg.Images = r.Itinerary.Images
	default:
		outcome = OutcomeEmpty
		msg.Content = EmptyText
	}
	log.Info("planner: itinerary answered", zap.String("outcome", outcome), zap.Duration("elapsed", time.Since(start)))
	return in.Feed.Append(msg)
}

// Busy is the download-in-progress flag of one workspace.
type Busy interface {
	SetDownloading(bool)
}

type DownloadInput struct {
	Query *selection.Set
	Busy  Busy
}

// Download fetches the PDF export of the selection. Errors carry the user-facing prefix.
func (s *Service) Download(ctx context.Context, in DownloadInput) (*itinerary.Document, error) {
	if in.Busy != nil {
		in.Busy.SetDownloading(true)
		defer in.Busy.SetDownloading(false)
	}
	start := time.Now()
	doc, err := s.backend.RequestDownload(ctx, in.Query)
	s.recorder.ObserveDownload(err == nil, time.Since(start))
	if err != nil {
		s.log.Error("planner: download failed", zap.Error(err))
		return nil, fmt.Errorf("%s%w", DownloadErrorPrefix, err)
	}
	return doc, nil
}

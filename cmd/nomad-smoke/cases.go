// README: Smoke checks: stores, backend, every UI route and a short load run.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"nomad/internal/modules/feed"
	"nomad/internal/modules/itinerary"
	"nomad/internal/modules/selection"
	"nomad/internal/modules/workspace"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	jar   http.CookieJar
	db    *pgxpool.Pool
	redis *redis.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) (*Runner, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, err
	}
	return &Runner{
		cfg: cfg,
		jar: jar,
		httpc: &http.Client{
			Timeout: 10 * time.Second,
			Jar:     jar,
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}, nil
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	if r.cfg.DSN != "" {
		if db, err := pgxpool.New(ctx, r.cfg.DSN); err == nil {
			r.db = db
		}
	}
	if r.cfg.RedisAddr != "" {
		r.redis = redis.NewClient(&redis.Options{Addr: r.cfg.RedisAddr})
	}

	tests := r.cases()
	results := make([]Result, 0, len(tests))
	for _, tc := range tests {
		start := time.Now()
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		if res.Latency == 0 && res.Status != StatusSkip {
			res.Latency = time.Since(start).Round(time.Millisecond)
		}
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency)
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}

	if r.db != nil {
		r.db.Close()
	}
	if r.redis != nil {
		_ = r.redis.Close()
	}
	return results
}

func fail(format string, args ...any) Result {
	return Result{Status: StatusFail, Note: fmt.Sprintf(format, args...)}
}

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{
			Name: "Env: Postgres client_storage",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.db == nil {
					return Result{Status: StatusSkip, Note: "dsn not set"}
				}
				var exists bool
				err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name = 'client_storage')`).Scan(&exists)
				if err != nil {
					return fail("%v", err)
				}
				if !exists {
					return fail("client_storage missing; start nomad-web with NOMAD_TOKEN_STORE=postgres to migrate")
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Env: Redis connect",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.redis == nil {
					return Result{Status: StatusSkip, Note: "redis not set"}
				}
				ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
				defer cancel()
				if err := r.redis.Ping(ctx).Err(); err != nil {
					return fail("%v", err)
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "Backend: trip-details answers",
			Run: func(ctx context.Context, r *Runner) Result {
				if r.cfg.APIURL == "" {
					return Result{Status: StatusSkip, Note: "api-url not set"}
				}
				client, err := itinerary.NewClient(itinerary.ClientConfig{BaseURL: r.cfg.APIURL, Timeout: 90 * time.Second})
				if err != nil {
					return fail("%v", err)
				}
				query := selection.NewSet(
					selection.Entry{Field: selection.FieldLocation, Value: "Lisbon"},
					selection.Entry{Field: selection.FieldTravelers, Value: "2"},
				)
				resp, err := client.RequestItinerary(ctx, query, nil)
				if err != nil {
					return fail("%v", err)
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("result=%T token=%t", resp.Result, resp.Token != nil)}
			},
		},
		{
			Name: "UI: health",
			Run: func(ctx context.Context, r *Runner) Result {
				status, body, err := r.get(ctx, "/health", false)
				if err != nil {
					return fail("%v", err)
				}
				if status != http.StatusOK || strings.TrimSpace(body) != "OK" {
					return fail("status=%d body=%q", status, body)
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "UI: welcome page",
			Run: func(ctx context.Context, r *Runner) Result {
				status, body, err := r.get(ctx, "/", false)
				if err != nil {
					return fail("%v", err)
				}
				if status != http.StatusOK || !strings.Contains(body, "Start Planning") {
					return fail("status=%d", status)
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "UI: planner page issues workspace cookie",
			Run: func(ctx context.Context, r *Runner) Result {
				status, body, err := r.get(ctx, "/plan", false)
				if err != nil {
					return fail("%v", err)
				}
				if status != http.StatusOK || !strings.Contains(body, "Welcome to Nomad Travel Assistant!") {
					return fail("status=%d", status)
				}
				u, _ := url.Parse(r.cfg.BaseURL)
				if len(r.jar.Cookies(u)) == 0 {
					return fail("no cookie set")
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "UI: panel toggle is exclusive",
			Run: func(ctx context.Context, r *Runner) Result {
				v, err := r.post(ctx, "/ui/panels/toggle", url.Values{"category": {"Dates"}})
				if err != nil {
					return fail("%v", err)
				}
				v, err = r.post(ctx, "/ui/panels/toggle", url.Values{"category": {"Activities"}})
				if err != nil {
					return fail("%v", err)
				}
				if v.OpenPanel != "Activities" {
					return fail("open=%q", v.OpenPanel)
				}
				if v, err = r.post(ctx, "/ui/panels/toggle", url.Values{"category": {"Activities"}}); err != nil || v.OpenPanel != "" {
					return fail("close failed: %v open=%q", err, v.OpenPanel)
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "UI: selection controls",
			Run: func(ctx context.Context, r *Runner) Result {
				steps := []struct {
					path string
					form url.Values
				}{
					{"/ui/selection/raw", url.Values{"raw": {""}}},
					{"/ui/selection/text", url.Values{"field": {"Location"}, "value": {"Kyoto"}}},
					{"/ui/selection/activities/toggle", url.Values{"activity": {"Museums"}}},
					{"/ui/selection/activities/toggle", url.Values{"activity": {"Hiking"}}},
					{"/ui/selection/travelers", url.Values{"delta": {"1"}}},
				}
				var v workspace.View
				var err error
				for _, s := range steps {
					if v, err = r.post(ctx, s.path, s.form); err != nil {
						return fail("%s: %v", s.path, err)
					}
				}
				want := "Location: Kyoto\nActivities: Museums, Hiking\nTravelers: 2"
				if v.RawText != want {
					return fail("raw=%q", v.RawText)
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "UI: raw edit drops malformed lines",
			Run: func(ctx context.Context, r *Runner) Result {
				v, err := r.post(ctx, "/ui/selection/raw", url.Values{"raw": {"Location: Paris\nBudget: 500\ngarbage"}})
				if err != nil {
					return fail("%v", err)
				}
				if v.RawText != "Location: Paris\nBudget: 500" {
					return fail("raw=%q", v.RawText)
				}
				return Result{Status: StatusPass}
			},
		},
		{
			Name: "UI: feed websocket",
			Run: func(ctx context.Context, r *Runner) Result {
				wsURL := "ws" + strings.TrimPrefix(r.cfg.BaseURL, "http") + "/ui/feed/ws"
				dialer := websocket.Dialer{Jar: r.jar, HandshakeTimeout: 5 * time.Second}
				conn, _, err := dialer.DialContext(ctx, wsURL, nil)
				if err != nil {
					return fail("%v", err)
				}
				defer conn.Close()
				_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
				var ev feed.Event
				if err := conn.ReadJSON(&ev); err != nil {
					return fail("%v", err)
				}
				if ev.Length < 1 {
					return fail("length=%d", ev.Length)
				}
				return Result{Status: StatusPass, Note: fmt.Sprintf("length=%d loading=%t", ev.Length, ev.Loading)}
			},
		},
		{
			Name: "UI: submit produces a bot reply",
			Run: func(ctx context.Context, r *Runner) Result {
				if !r.cfg.Submit {
					return Result{Status: StatusSkip, Note: "submit=false"}
				}
				before, err := r.state(ctx)
				if err != nil {
					return fail("%v", err)
				}
				start := time.Now()
				if _, err := r.post(ctx, "/ui/submit", url.Values{}); err != nil {
					return fail("%v", err)
				}
				for {
					v, err := r.state(ctx)
					if err != nil {
						return fail("%v", err)
					}
					if !v.Loading && len(v.Messages) >= len(before.Messages)+2 {
						last := v.Messages[len(v.Messages)-1]
						return Result{Status: StatusPass, Latency: time.Since(start), Note: fmt.Sprintf("trip_summary=%t", last.IsTripSummary())}
					}
					select {
					case <-ctx.Done():
						return fail("timed out waiting for reply")
					case <-time.After(500 * time.Millisecond):
					}
				}
			},
		},
		{
			Name: "Perf: state reads",
			Run: func(ctx context.Context, r *Runner) Result {
				return perfLoad(ctx, r, r.cfg.BaseURL+"/ui/state")
			},
		},
	}
}

func (r *Runner) get(ctx context.Context, path string, asJSON bool) (int, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.cfg.BaseURL+path, nil)
	if err != nil {
		return 0, "", err
	}
	if asJSON {
		req.Header.Set("Accept", "application/json")
	}
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, "", err
	}
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	return resp.StatusCode, string(b), err
}

func (r *Runner) state(ctx context.Context) (workspace.View, error) {
	var v workspace.View
	status, body, err := r.get(ctx, "/ui/state", true)
	if err != nil {
		return v, err
	}
	if status != http.StatusOK {
		return v, fmt.Errorf("state: status %d", status)
	}
	return v, json.Unmarshal([]byte(body), &v)
}

// post submits a UI form as a fetch caller and decodes the returned workspace state.
func (r *Runner) post(ctx context.Context, path string, form url.Values) (workspace.View, error) {
	var v workspace.View
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.cfg.BaseURL+path, strings.NewReader(form.Encode()))
	if err != nil {
		return v, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")
	resp, err := r.httpc.Do(req)
	if err != nil {
		return v, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(resp.Body)
		return v, fmt.Errorf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(b)))
	}
	return v, json.NewDecoder(resp.Body).Decode(&v)
}

func perfLoad(ctx context.Context, r *Runner, target string) Result {
	end := time.Now().Add(r.cfg.Duration)
	var count, errCount int64
	var mu sync.Mutex
	wg := sync.WaitGroup{}

	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for time.Now().Before(end) && ctx.Err() == nil {
				req, _ := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
				req.Header.Set("Accept", "application/json")
				resp, err := r.httpc.Do(req)
				mu.Lock()
				if err != nil {
					errCount++
					mu.Unlock()
					continue
				}
				count++
				mu.Unlock()
				_, _ = io.Copy(io.Discard, resp.Body)
				resp.Body.Close()
			}
		}()
	}
	wg.Wait()

	if count == 0 {
		return fail("no requests completed")
	}
	rps := float64(count) / r.cfg.Duration.Seconds()
	return Result{Status: StatusPass, Note: fmt.Sprintf("rps=%.1f errors=%d", rps, errCount)}
}

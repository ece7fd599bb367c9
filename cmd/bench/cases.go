// README: Smoke cases for the itinera API plus a classify load test.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"itinera/internal/infra"
)

const (
	statusPass    = "PASS"
	statusFail    = "FAIL"
	statusPending = "PENDING"
	statusSkip    = "SKIP"
)

type Runner struct {
	cfg   Config
	httpc *http.Client
	db    *pgxpool.Pool
	redis *redis.Client

	// planID is filled by the plan creation case for later lookups.
	planID string
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

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 30 * time.Second},
	}
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
		res := tc.Run(ctx, r)
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-7s %s", res.Status, tc.Name)
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

func (r *Runner) cases() []TestCase {
	return []TestCase{
		{Name: "Env: Postgres connect", Run: func(ctx context.Context, r *Runner) Result {
			if r.db == nil {
				return Result{Status: statusFail, Note: "db not configured"}
			}
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := r.db.Ping(ctx); err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			return Result{Status: statusPass}
		}},
		{Name: "Env: Redis connect", Run: func(ctx context.Context, r *Runner) Result {
			if r.redis == nil {
				return Result{Status: statusFail, Note: "redis not configured"}
			}
			ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
			defer cancel()
			if err := r.redis.Ping(ctx).Err(); err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			return Result{Status: statusPass}
		}},
		{Name: "Migration: apply (optional)", Run: func(ctx context.Context, r *Runner) Result {
			if !r.cfg.ApplyMigration {
				return Result{Status: statusSkip, Note: "apply-migration=false"}
			}
			if r.db == nil {
				return Result{Status: statusFail, Note: "db not configured"}
			}
			if err := infra.ApplyMigrations(ctx, r.db, r.cfg.MigrationsDir); err != nil {
				return Result{Status: statusFail, Note: err.Error()}
			}
			return Result{Status: statusPass}
		}},
		{Name: "Migration: tables exist", Run: func(ctx context.Context, r *Runner) Result {
			if r.db == nil {
				return Result{Status: statusFail, Note: "db not configured"}
			}
			for _, t := range []string{"plans", "ai_usage"} {
				var exists bool
				err := r.db.QueryRow(ctx,
					"SELECT EXISTS (SELECT 1 FROM information_schema.tables WHERE table_name=$1)", t,
				).Scan(&exists)
				if err != nil {
					return Result{Status: statusFail, Note: err.Error()}
				}
				if !exists {
					return Result{Status: statusFail, Note: "missing table: " + t}
				}
			}
			return Result{Status: statusPass}
		}},

		httpCase("API: health", http.MethodGet, "/health", nil, []int{200}, nil),
		httpCase("Classify: fragment is type C", http.MethodPost, "/api/classify", map[string]any{"text": "午餐"}, []int{200}, []int{401}),
		httpCase("Classify: blank text -> 400", http.MethodPost, "/api/classify", map[string]any{"text": " "}, []int{400}, []int{401}),
		{Name: "Plans: create from complete request", Run: createPlan},
		{Name: "Plans: get created plan", Run: func(ctx context.Context, r *Runner) Result {
			if r.planID == "" {
				return Result{Status: statusPending, Note: "no plan created"}
			}
			return r.expect(ctx, http.MethodGet, "/api/plans/"+r.planID, nil, []int{200}, nil)
		}},
		{Name: "Plans: template summary", Run: func(ctx context.Context, r *Runner) Result {
			if r.planID == "" {
				return Result{Status: statusPending, Note: "no plan created"}
			}
			return r.expect(ctx, http.MethodGet, "/api/plans/"+r.planID+"/template", nil, []int{200}, nil)
		}},
		httpCase("Plans: bad id -> 400", http.MethodGet, "/api/plans/not-a-uuid", nil, []int{400}, []int{401}),
		httpCase("Plans: fragment opens followup", http.MethodPost, "/api/plans", map[string]any{"text": "午餐"}, []int{200}, []int{401}),
		httpCase("Followups: unknown session -> 404", http.MethodPost, "/api/followups/missing/answers", map[string]any{"answer": "京都"}, []int{404}, []int{401}),
		httpCase("Maps: attractions", http.MethodGet, "/api/attractions?destination=%E5%8F%B0%E5%8D%97", nil, []int{200}, []int{401, 503}),
		{Name: "Perf: classify load", Run: func(ctx context.Context, r *Runner) Result {
			return perfLoad(ctx, r, "/api/classify", map[string]any{"text": "下個月去東京玩五天，想放鬆"})
		}},
	}
}

func (r *Runner) do(ctx context.Context, method, path string, body any) (*http.Response, []byte, time.Duration, error) {
	var reader io.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.cfg.BaseURL+path, reader)
	if err != nil {
		return nil, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	if r.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+r.cfg.Token)
	}
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return nil, nil, 0, err
	}
	defer resp.Body.Close()
	raw, _ := io.ReadAll(resp.Body)
	return resp, raw, time.Since(start), nil
}

func (r *Runner) expect(ctx context.Context, method, path string, body any, okStatuses, pendingStatuses []int) Result {
	resp, _, latency, err := r.do(ctx, method, path, body)
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	note := fmt.Sprintf("status=%d", resp.StatusCode)
	switch {
	case contains(okStatuses, resp.StatusCode):
		return Result{Status: statusPass, Latency: latency, Note: note}
	case contains(pendingStatuses, resp.StatusCode):
		return Result{Status: statusPending, Latency: latency, Note: note}
	default:
		return Result{Status: statusFail, Latency: latency, Note: note}
	}
}

func httpCase(name, method, path string, body any, okStatuses, pendingStatuses []int) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			return r.expect(ctx, method, path, body, okStatuses, pendingStatuses)
		},
	}
}

func createPlan(ctx context.Context, r *Runner) Result {
	resp, raw, latency, err := r.do(ctx, http.MethodPost, "/api/plans", map[string]any{"text": "下個月去東京玩五天，想放鬆"})
	if err != nil {
		return Result{Status: statusFail, Note: err.Error()}
	}
	if resp.StatusCode == http.StatusUnauthorized {
		return Result{Status: statusPending, Latency: latency, Note: "auth required; pass -token"}
	}
	if resp.StatusCode != http.StatusCreated {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%d", resp.StatusCode)}
	}
	var out struct {
		Status string `json:"status"`
		Plan   struct {
			ID   string            `json:"id"`
			Days []json.RawMessage `json:"days"`
		} `json:"plan"`
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return Result{Status: statusFail, Latency: latency, Note: err.Error()}
	}
	if out.Status != "planned" || len(out.Plan.Days) != 5 {
		return Result{Status: statusFail, Latency: latency, Note: fmt.Sprintf("status=%s days=%d", out.Status, len(out.Plan.Days))}
	}
	r.planID = out.Plan.ID
	return Result{Status: statusPass, Latency: latency, Note: "plan=" + out.Plan.ID}
}

func perfLoad(ctx context.Context, r *Runner, path string, payload any) Result {
	ctx, cancel := context.WithTimeout(ctx, r.cfg.Duration)
	defer cancel()

	var total, failed atomic.Int64
	var wg sync.WaitGroup
	start := time.Now()
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ctx.Err() == nil {
				resp, _, _, err := r.do(ctx, http.MethodPost, path, payload)
				if ctx.Err() != nil {
					return
				}
				total.Add(1)
				if err != nil || resp.StatusCode >= 500 {
					failed.Add(1)
				}
			}
		}()
	}
	wg.Wait()
	elapsed := time.Since(start)

	n := total.Load()
	if n == 0 {
		return Result{Status: statusFail, Note: "no requests completed"}
	}
	note := fmt.Sprintf("requests=%d failed=%d rps=%.1f", n, failed.Load(), float64(n)/elapsed.Seconds())
	if failed.Load() > 0 {
		return Result{Status: statusFail, Latency: elapsed, Note: note}
	}
	return Result{Status: statusPass, Latency: elapsed, Note: note}
}

func contains(list []int, v int) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}

package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"memescout/internal/discovery"
	"memescout/internal/domain"
	"memescout/internal/scoring"
	"memescout/internal/storage/memory"
)

type testEnv struct {
	tokens    *memory.TokenStore
	snapshots *memory.SnapshotStore
	archive   *memory.ArchiveStore
	pools     *memory.LiquidityPoolStore
	risks     *memory.RiskStore
	syncJobs  *memory.SyncJobStore
	handler   http.Handler
}

func newTestEnv() *testEnv {
	env := &testEnv{
		tokens:    memory.NewTokenStore(),
		snapshots: memory.NewSnapshotStore(),
		archive:   memory.NewArchiveStore(),
		pools:     memory.NewLiquidityPoolStore(),
		risks:     memory.NewRiskStore(),
		syncJobs:  memory.NewSyncJobStore(),
	}
	log := zerolog.Nop()
	scoringSvc := scoring.NewService(env.tokens, env.snapshots, env.pools, env.risks,
		scoring.NewEngine(scoring.DefaultWeights()), log)
	discoveryEng := discovery.NewEngine(env.tokens, env.snapshots, env.pools, env.risks, log)
	srv := NewServer(env.tokens, env.snapshots, env.archive, env.syncJobs, scoringSvc, discoveryEng, log)
	env.handler = srv.Handler()
	return env
}

func (env *testEnv) get(t *testing.T, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), into); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

func (env *testEnv) seedToken(t *testing.T, tok *domain.Token) {
	t.Helper()
	if err := env.tokens.Insert(context.Background(), tok); err != nil {
		t.Fatalf("seed token %s: %v", tok.ID, err)
	}
}

func TestListTokens(t *testing.T) {
	env := newTestEnv()
	env.seedToken(t, &domain.Token{ID: "a", Symbol: "AAA", Name: "Alpha", MemeScore: 90})
	env.seedToken(t, &domain.Token{ID: "b", Symbol: "BBB", Name: "Beta", MemeScore: 70})

	rec := env.get(t, "/api/v1/tokens")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Items []struct {
			ID        string  `json:"id"`
			Symbol    string  `json:"symbol"`
			MemeScore float64 `json:"memeScore"`
		} `json:"items"`
		Total  int `json:"total"`
		Limit  int `json:"limit"`
		Offset int `json:"offset"`
	}
	decode(t, rec, &body)

	if body.Total != 2 || len(body.Items) != 2 {
		t.Fatalf("unexpected envelope: %+v", body)
	}
	if body.Items[0].ID != "a" || body.Items[1].ID != "b" {
		t.Errorf("expected score-descending order, got %+v", body.Items)
	}
	if body.Limit != defaultListLimit {
		t.Errorf("expected default limit echoed, got %d", body.Limit)
	}
}

func TestListTokens_RejectsNonNumericParams(t *testing.T) {
	env := newTestEnv()

	for _, path := range []string{
		"/api/v1/tokens?limit=abc",
		"/api/v1/tokens?offset=1.5.2",
		"/api/v1/tokens/top?limit=xyz",
		"/api/v1/tokens/new-launches?minVolume=lots",
	} {
		rec := env.get(t, path)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", path, rec.Code)
		}
		var body struct {
			Error string `json:"error"`
		}
		decode(t, rec, &body)
		if body.Error == "" {
			t.Errorf("%s: expected an error message", path)
		}
	}
}

func TestGetToken_NotFound(t *testing.T) {
	env := newTestEnv()
	rec := env.get(t, "/api/v1/tokens/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestGetToken_TagsNeverNull(t *testing.T) {
	env := newTestEnv()
	env.seedToken(t, &domain.Token{ID: "a", Symbol: "AAA", Name: "Alpha"})

	rec := env.get(t, "/api/v1/tokens/a")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var body map[string]json.RawMessage
	decode(t, rec, &body)
	if string(body["tags"]) != "[]" {
		t.Errorf("expected tags to serialize as [], got %s", body["tags"])
	}
}

func TestPriceHistory(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedToken(t, &domain.Token{ID: "a", Symbol: "AAA", Name: "Alpha"})

	now := time.Now().UnixMilli()
	for i := 0; i < 3; i++ {
		err := env.snapshots.Insert(ctx, &domain.Snapshot{
			TokenID:     "a",
			PriceUsd:    float64(i + 1),
			TimestampMs: now - int64(i)*time.Hour.Milliseconds(),
		})
		if err != nil {
			t.Fatalf("insert snapshot: %v", err)
		}
	}
	// Outside the requested 7-day window.
	env.snapshots.Insert(ctx, &domain.Snapshot{
		TokenID:     "a",
		PriceUsd:    0.5,
		TimestampMs: now - 10*24*time.Hour.Milliseconds(),
	})

	rec := env.get(t, "/api/v1/tokens/a/price-history?days=7")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		TokenID string `json:"tokenId"`
		Days    int    `json:"days"`
		Total   int    `json:"total"`
		Items   []struct {
			PriceUsd    float64 `json:"priceUsd"`
			TimestampMs int64   `json:"timestampMs"`
		} `json:"items"`
	}
	decode(t, rec, &body)
	if body.TokenID != "a" || body.Days != 7 || body.Total != 3 {
		t.Errorf("unexpected envelope: %+v", body)
	}
}

func TestPriceHistory_UnknownToken(t *testing.T) {
	env := newTestEnv()
	rec := env.get(t, "/api/v1/tokens/missing/price-history")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestPriceHistory_IncludesArchiveForLongWindows(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()
	env.seedToken(t, &domain.Token{ID: "a", Symbol: "AAA", Name: "Alpha"})

	now := time.Now().UnixMilli()
	archivedTs := now - 800*24*time.Hour.Milliseconds()
	_, err := env.archive.InsertBatch(ctx, []*domain.ArchivedSnapshot{
		{TokenID: "a", PriceUsd: 0.1, TimestampMs: archivedTs},
	})
	if err != nil {
		t.Fatalf("seed archive: %v", err)
	}
	env.snapshots.Insert(ctx, &domain.Snapshot{TokenID: "a", PriceUsd: 2.0, TimestampMs: now})

	var body struct {
		Total int `json:"total"`
		Items []struct {
			PriceUsd float64 `json:"priceUsd"`
		} `json:"items"`
	}

	rec := env.get(t, "/api/v1/tokens/a/price-history?days=900")
	decode(t, rec, &body)
	if body.Total != 2 {
		t.Fatalf("expected archived plus live point, got %+v", body)
	}
	if body.Items[0].PriceUsd != 0.1 {
		t.Error("archived points should come before live points")
	}

	// A short window never touches the cold tier.
	rec = env.get(t, "/api/v1/tokens/a/price-history?days=7")
	decode(t, rec, &body)
	if body.Total != 1 {
		t.Errorf("expected only the live point for a 7-day window, got %+v", body)
	}
}

func TestTrending_RejectsInvalidRiskLevel(t *testing.T) {
	env := newTestEnv()
	rec := env.get(t, "/api/v1/discovery/trending?maxRiskLevel=EXTREME")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTrending_RejectsInvalidSortKey(t *testing.T) {
	env := newTestEnv()
	rec := env.get(t, "/api/v1/discovery/trending?sortBy=alphabetical")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTrending_EchoesNormalizedFilters(t *testing.T) {
	env := newTestEnv()
	rec := env.get(t, "/api/v1/discovery/trending")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var f struct {
		MinScore     float64 `json:"minScore"`
		MaxDaysOld   int     `json:"maxDaysOld"`
		MinLiquidity float64 `json:"minLiquidity"`
		MinHolders   int     `json:"minHolders"`
		MaxRiskLevel string  `json:"maxRiskLevel"`
		SortBy       string  `json:"sortBy"`
		Limit        int     `json:"limit"`
	}
	decode(t, rec, &f)

	def := domain.DefaultDiscoveryFilters()
	if f.MinScore != def.MinScore || f.MaxDaysOld != def.MaxDaysOld ||
		f.MinLiquidity != def.MinLiquidity || f.MinHolders != def.MinHolders ||
		f.MaxRiskLevel != string(def.MaxRiskLevel) || f.Limit != def.Limit {
		t.Errorf("expected normalized defaults echoed, got %+v", f)
	}
}

func TestDiscoveryTags_RejectsEmpty(t *testing.T) {
	env := newTestEnv()
	rec := env.get(t, "/api/v1/discovery/tags/,,")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for empty tag list, got %d", rec.Code)
	}
}

func TestSearch(t *testing.T) {
	env := newTestEnv()
	env.seedToken(t, &domain.Token{ID: "a", Symbol: "DOGE", Name: "Dogecoin"})
	env.seedToken(t, &domain.Token{ID: "b", Symbol: "PEPE", Name: "Pepe"})

	rec := env.get(t, "/api/v1/discovery/search/doge")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Total int `json:"total"`
	}
	decode(t, rec, &body)
	if body.Total != 1 || body.Items[0].ID != "a" {
		t.Errorf("unexpected search result: %+v", body)
	}
}

func TestCalculateScore(t *testing.T) {
	env := newTestEnv()
	env.seedToken(t, &domain.Token{
		ID:              "a",
		Symbol:          "AAA",
		Name:            "Alpha",
		Volume24h:       2_000_000,
		Holders:         5000,
		LiquidityLocked: true,
		LaunchDate:      time.Now().Add(-48 * time.Hour).UnixMilli(),
	})

	rec := env.get(t, "/api/v1/scoring/calculate/a")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		TokenID string  `json:"tokenId"`
		Total   float64 `json:"total"`
	}
	decode(t, rec, &body)
	if body.TokenID != "a" || body.Total <= 0 || body.Total > 100 {
		t.Errorf("unexpected score payload: %+v", body)
	}
}

func TestCalculateScore_UnknownToken(t *testing.T) {
	env := newTestEnv()
	rec := env.get(t, "/api/v1/scoring/calculate/missing")
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", rec.Code)
	}
}

func TestCalculateAll(t *testing.T) {
	env := newTestEnv()
	env.seedToken(t, &domain.Token{ID: "a", Symbol: "AAA", Name: "Alpha", Volume24h: 500000})
	env.seedToken(t, &domain.Token{ID: "b", Symbol: "BBB", Name: "Beta", Volume24h: 300000})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/scoring/calculate-all", nil)
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Updated int `json:"updated"`
	}
	decode(t, rec, &body)
	if body.Updated != 2 {
		t.Errorf("expected 2 tokens rescored, got %d", body.Updated)
	}

	tok, err := env.tokens.GetByID(context.Background(), "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if tok.MemeScore <= 0 {
		t.Error("rescoring should persist a nonzero cached score")
	}
}

func TestRiskEndpoint_ComputesOnFirstRequest(t *testing.T) {
	env := newTestEnv()
	env.seedToken(t, &domain.Token{
		ID:                "a",
		Symbol:            "AAA",
		Name:              "Alpha",
		TopHoldersPercent: 60,
	})

	rec := env.get(t, "/api/v1/scoring/risk/a")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		TokenID   string   `json:"tokenId"`
		RiskLevel string   `json:"riskLevel"`
		RedFlags  []string `json:"redFlags"`
	}
	decode(t, rec, &body)
	if body.TokenID != "a" {
		t.Errorf("unexpected payload: %+v", body)
	}
	if _, ok := domain.ParseRiskLevel(body.RiskLevel); !ok {
		t.Errorf("invalid risk level %q", body.RiskLevel)
	}
	if body.RedFlags == nil {
		t.Error("redFlags must serialize as an array, not null")
	}

	// The computed analysis is persisted for subsequent reads.
	if _, err := env.risks.Get(context.Background(), "a"); err != nil {
		t.Errorf("expected stored risk analysis: %v", err)
	}
}

func TestHealth(t *testing.T) {
	env := newTestEnv()
	rec := env.get(t, "/health")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}

	var body struct {
		Status string `json:"status"`
		Uptime string `json:"uptime"`
	}
	decode(t, rec, &body)
	if body.Status != "ok" || body.Uptime == "" {
		t.Errorf("unexpected health payload: %+v", body)
	}
}

func TestHealthDB(t *testing.T) {
	env := newTestEnv()
	env.seedToken(t, &domain.Token{ID: "a", Symbol: "AAA", Name: "Alpha"})
	env.snapshots.Insert(context.Background(), &domain.Snapshot{TokenID: "a", TimestampMs: time.Now().UnixMilli()})

	rec := env.get(t, "/health/db")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Status           string `json:"status"`
		Tokens           int64  `json:"tokens"`
		Snapshots        int64  `json:"snapshots"`
		LatestSnapshotMs int64  `json:"latestSnapshotMs"`
	}
	decode(t, rec, &body)
	if body.Status != "ok" || body.Tokens != 1 || body.Snapshots != 1 || body.LatestSnapshotMs == 0 {
		t.Errorf("unexpected payload: %+v", body)
	}
}

func TestHealthSyncJobs(t *testing.T) {
	env := newTestEnv()
	ctx := context.Background()

	env.syncJobs.Insert(ctx, &domain.SyncJob{
		ID: "j1", JobType: domain.JobTokenSnapshot, Status: domain.JobInProgress,
		StartedAt: time.Now().UnixMilli(),
	})
	env.syncJobs.Complete(ctx, "j1", 5, 5, 100)
	env.syncJobs.Insert(ctx, &domain.SyncJob{
		ID: "j2", JobType: domain.JobTokenSnapshot, Status: domain.JobInProgress,
		StartedAt: time.Now().UnixMilli(),
	})
	env.syncJobs.Fail(ctx, "j2", "boom", 300)

	rec := env.get(t, "/health/sync-jobs")
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Total   int `json:"total"`
		Summary struct {
			Completed     int   `json:"completed"`
			Failed        int   `json:"failed"`
			InProgress    int   `json:"inProgress"`
			AvgDurationMs int64 `json:"avgDurationMs"`
		} `json:"summary"`
	}
	decode(t, rec, &body)
	if body.Total != 2 || body.Summary.Completed != 1 || body.Summary.Failed != 1 {
		t.Errorf("unexpected summary: %+v", body)
	}
	if body.Summary.AvgDurationMs != 200 {
		t.Errorf("expected average duration 200ms, got %d", body.Summary.AvgDurationMs)
	}
}

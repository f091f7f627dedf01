package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"memescout/internal/domain"
	"memescout/internal/storage"
)

func newTestToken(id string, score float64) *domain.Token {
	now := time.Now().UnixMilli()
	return &domain.Token{
		ID:        id,
		Symbol:    "TK" + id,
		Name:      "Token " + id,
		MemeScore: score,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestTokenStore_InsertAndGetByID(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	tok := newTestToken("a", 42)
	tok.Tags = []string{"dog"}

	if err := store.Insert(ctx, tok); err != nil {
		t.Fatalf("insert: %v", err)
	}

	got, err := store.GetByID(ctx, "a")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != "a" || got.MemeScore != 42 {
		t.Errorf("unexpected token: %+v", got)
	}

	// The stored copy must be isolated from caller mutation.
	tok.Tags[0] = "cat"
	got2, _ := store.GetByID(ctx, "a")
	if got2.Tags[0] != "dog" {
		t.Error("store must copy tags on insert")
	}
}

func TestTokenStore_InsertDuplicate(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	if err := store.Insert(ctx, newTestToken("a", 1)); err != nil {
		t.Fatalf("insert: %v", err)
	}
	err := store.Insert(ctx, newTestToken("a", 2))
	if !errors.Is(err, storage.ErrDuplicateKey) {
		t.Errorf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestTokenStore_GetByID_NotFound(t *testing.T) {
	store := NewTokenStore()
	_, err := store.GetByID(context.Background(), "missing")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTokenStore_ListOrdersByScore(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	store.Insert(ctx, newTestToken("low", 10))
	store.Insert(ctx, newTestToken("high", 90))
	store.Insert(ctx, newTestToken("mid", 50))

	tokens, err := store.List(ctx, 10, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
	if tokens[0].ID != "high" || tokens[1].ID != "mid" || tokens[2].ID != "low" {
		t.Errorf("wrong order: %s %s %s", tokens[0].ID, tokens[1].ID, tokens[2].ID)
	}
}

func TestTokenStore_UpdateMemeScore(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	store.Insert(ctx, newTestToken("a", 10))
	if err := store.UpdateMemeScore(ctx, "a", 77.5); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ := store.GetByID(ctx, "a")
	if got.MemeScore != 77.5 {
		t.Errorf("expected 77.5, got %v", got.MemeScore)
	}

	if err := store.UpdateMemeScore(ctx, "missing", 1); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestTokenStore_QueryPredicates(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()
	now := time.Now().UnixMilli()

	young := newTestToken("young", 80)
	young.Holders = 500
	young.LaunchDate = now - 24*time.Hour.Milliseconds()
	young.Tags = []string{"dog"}
	store.Insert(ctx, young)

	old := newTestToken("old", 90)
	old.Holders = 500
	old.LaunchDate = now - 90*24*time.Hour.Milliseconds()
	store.Insert(ctx, old)

	lowScore := newTestToken("lowscore", 20)
	lowScore.Holders = 500
	lowScore.LaunchDate = now - 24*time.Hour.Milliseconds()
	store.Insert(ctx, lowScore)

	got, err := store.Query(ctx, storage.TokenQuery{
		MinScore:      50,
		MinHolders:    100,
		LaunchedAfter: domain.AgeCutoffMs(now, 30),
		SortBy:        domain.SortScore,
	})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if len(got) != 1 || got[0].ID != "young" {
		t.Errorf("expected only young token, got %d results", len(got))
	}

	// Tags filter is case-insensitive intersection.
	got, _ = store.Query(ctx, storage.TokenQuery{Tags: []string{"DOG"}})
	if len(got) != 1 || got[0].ID != "young" {
		t.Errorf("tag query should match case-insensitively, got %d results", len(got))
	}
}

func TestTokenStore_QueryMomentumFallsBackToVolume(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	a := newTestToken("a", 10)
	a.Volume24h = 100
	store.Insert(ctx, a)

	b := newTestToken("b", 90)
	b.Volume24h = 500
	store.Insert(ctx, b)

	got, _ := store.Query(ctx, storage.TokenQuery{SortBy: domain.SortMomentum})
	if got[0].ID != "b" {
		t.Errorf("momentum sort should order by volume, got %s first", got[0].ID)
	}
}

func TestTokenStore_Search(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	doge := newTestToken("1", 50)
	doge.Symbol = "DOGE"
	doge.Name = "Dogecoin"
	store.Insert(ctx, doge)

	pepe := newTestToken("2", 60)
	pepe.Symbol = "PEPE"
	pepe.Name = "Pepe"
	store.Insert(ctx, pepe)

	got, err := store.Search(ctx, "dog", 10)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].Symbol != "DOGE" {
		t.Errorf("expected DOGE, got %d results", len(got))
	}
}

func TestTokenStore_NewLaunches(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()
	now := time.Now().UnixMilli()

	for _, tc := range []struct {
		id     string
		volume float64
		age    time.Duration
	}{
		{"big", 500_000, 24 * time.Hour},
		{"small", 1_000, 24 * time.Hour},
		{"ancient", 500_000, 90 * 24 * time.Hour},
	} {
		tok := newTestToken(tc.id, 50)
		tok.Volume24h = tc.volume
		tok.LaunchDate = now - tc.age.Milliseconds()
		store.Insert(ctx, tok)
	}

	got, total, err := store.NewLaunches(ctx, domain.AgeCutoffMs(now, 30), 100_000, 10)
	if err != nil {
		t.Fatalf("new launches: %v", err)
	}
	if total != 1 || len(got) != 1 || got[0].ID != "big" {
		t.Errorf("expected only the young high-volume token, got %d (total %d)", len(got), total)
	}
}

func TestTokenStore_ListMissingChain(t *testing.T) {
	store := NewTokenStore()
	ctx := context.Background()

	withChain := newTestToken("with", 50)
	chain := "ethereum"
	withChain.ChainID = &chain
	store.Insert(ctx, withChain)
	store.Insert(ctx, newTestToken("without", 50))

	// An empty-string chain reference counts as missing too.
	blankChain := newTestToken("blank", 50)
	blank := ""
	blankChain.ChainID = &blank
	store.Insert(ctx, blankChain)

	got, err := store.ListMissingChain(ctx)
	if err != nil {
		t.Fatalf("list missing chain: %v", err)
	}
	if len(got) != 2 || got[0].ID != "blank" || got[1].ID != "without" {
		t.Errorf("expected the nil and empty chain tokens, got %d results", len(got))
	}
}

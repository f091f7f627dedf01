package api

import (
	"net/http"
	"time"

	"memescout/internal/domain"
	"memescout/internal/scheduler"
)

const (
	defaultListLimit      = 50
	defaultTopLimit       = 20
	defaultLaunchMaxDays  = 30
	defaultLaunchVolume   = 100000
	defaultHistoryDays    = 30
	priceHistorySnapshots = 24
)

func (s *Server) handleListTokens(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	offset, err := intParam(r, "offset", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}
	if offset < 0 {
		offset = 0
	}

	tokens, err := s.tokens.List(r.Context(), limit, offset)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	total, err := s.tokens.Count(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":  toTokenViews(tokens),
		"total":  total,
		"limit":  limit,
		"offset": offset,
	})
}

func (s *Server) handleTopTokens(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", defaultTopLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if limit <= 0 || limit > 200 {
		limit = defaultTopLimit
	}

	tokens, err := s.tokens.List(r.Context(), limit, 0)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items": toTokenViews(tokens),
		"total": len(tokens),
		"limit": limit,
	})
}

// newLaunchView enriches a token with launch-window derived fields.
type newLaunchView struct {
	tokenView
	PriceChangePercent float64      `json:"priceChangePercent"`
	DaysSinceLaunch    float64      `json:"daysSinceLaunch"`
	PriceHistory       []pricePoint `json:"priceHistory"`
}

func (s *Server) handleNewLaunches(w http.ResponseWriter, r *http.Request) {
	maxDays, err := intParam(r, "maxDays", defaultLaunchMaxDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	minVolume, err := floatParam(r, "minVolume", defaultLaunchVolume)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	limit, err := intParam(r, "limit", defaultListLimit)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if maxDays <= 0 {
		maxDays = defaultLaunchMaxDays
	}
	if limit <= 0 || limit > 200 {
		limit = defaultListLimit
	}

	now := time.Now().UnixMilli()
	tokens, total, err := s.tokens.NewLaunches(r.Context(), domain.AgeCutoffMs(now, maxDays), minVolume, limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	items := make([]newLaunchView, 0, len(tokens))
	for _, t := range tokens {
		snaps, err := s.snapshots.ListRecent(r.Context(), t.ID, priceHistorySnapshots)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}

		var priceChange float64
		if t.InitialPrice > 0 {
			priceChange = (t.PriceUsd - t.InitialPrice) / t.InitialPrice * 100
		}
		items = append(items, newLaunchView{
			tokenView:          toTokenView(t),
			PriceChangePercent: priceChange,
			DaysSinceLaunch:    t.DaysSinceLaunch(now),
			PriceHistory:       snapshotPoints(snaps),
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"items":     items,
		"total":     total,
		"maxDays":   maxDays,
		"minVolume": minVolume,
		"limit":     limit,
	})
}

func (s *Server) handleGetToken(w http.ResponseWriter, r *http.Request) {
	t, err := s.tokens.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toTokenView(t))
}

func (s *Server) handlePriceHistory(w http.ResponseWriter, r *http.Request) {
	days, err := intParam(r, "days", defaultHistoryDays)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if days <= 0 {
		days = defaultHistoryDays
	}

	id := r.PathValue("id")
	if _, err := s.tokens.GetByID(r.Context(), id); err != nil {
		s.writeStoreError(w, err)
		return
	}

	now := time.Now().UnixMilli()
	since := domain.AgeCutoffMs(now, days)

	var points []pricePoint

	// Windows reaching past live retention also read the cold tier.
	if since < domain.AgeCutoffMs(now, scheduler.RetentionDays) {
		archived, err := s.archive.ListByToken(r.Context(), id)
		if err != nil {
			s.writeStoreError(w, err)
			return
		}
		for _, p := range archivedPoints(archived) {
			if p.TimestampMs >= since {
				points = append(points, p)
			}
		}
	}

	live, err := s.snapshots.ListByTokenSince(r.Context(), id, since)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	points = append(points, snapshotPoints(live)...)

	if points == nil {
		points = []pricePoint{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tokenId": id,
		"days":    days,
		"items":   points,
		"total":   len(points),
	})
}

package api

import (
	"net/http"
	"strings"

	"memescout/internal/domain"
)

func (s *Server) handleTrending(w http.ResponseWriter, r *http.Request) {
	var f domain.DiscoveryFilters
	var err error

	if f.MinScore, err = floatParam(r, "minScore", 0); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.MaxDaysOld, err = intParam(r, "maxDaysOld", 0); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.MinLiquidity, err = floatParam(r, "minLiquidity", 0); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.MinHolders, err = intParam(r, "minHolders", 0); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if f.Limit, err = intParam(r, "limit", 0); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if v := r.URL.Query().Get("maxRiskLevel"); v != "" {
		level, ok := domain.ParseRiskLevel(strings.ToUpper(v))
		if !ok {
			writeError(w, http.StatusBadRequest, "parameter \"maxRiskLevel\" must be one of LOW, MEDIUM, HIGH, CRITICAL")
			return
		}
		f.MaxRiskLevel = level
	}
	if v := r.URL.Query().Get("sortBy"); v != "" {
		key, ok := domain.ParseSortKey(v)
		if !ok {
			writeError(w, http.StatusBadRequest, "parameter \"sortBy\" must be one of score, volume, holders, momentum")
			return
		}
		f.SortBy = key
	}
	if v := r.URL.Query().Get("tags"); v != "" {
		f.Tags = splitTags(v)
	}

	tokens, err := s.discovery.Trending(r.Context(), f)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	norm := f.Normalize()
	writeJSON(w, http.StatusOK, map[string]any{
		"items":        toTokenViews(tokens),
		"total":        len(tokens),
		"minScore":     norm.MinScore,
		"maxDaysOld":   norm.MaxDaysOld,
		"minLiquidity": norm.MinLiquidity,
		"minHolders":   norm.MinHolders,
		"maxRiskLevel": string(norm.MaxRiskLevel),
		"sortBy":       string(norm.SortBy),
		"limit":        norm.Limit,
	})
}

func (s *Server) handleMoonshots(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := s.discovery.Moonshots(r.Context(), limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": toTokenViews(tokens),
		"total": len(tokens),
	})
}

func (s *Server) handleSafePicks(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tokens, err := s.discovery.SafePicks(r.Context(), limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": toTokenViews(tokens),
		"total": len(tokens),
	})
}

// growthView pairs a token with its holder growth rate.
type growthView struct {
	tokenView
	GrowthRate float64 `json:"growthRate"`
}

func (s *Server) handleFastestGrowing(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	entries, err := s.discovery.FastestGrowing(r.Context(), limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}

	items := make([]growthView, 0, len(entries))
	for _, e := range entries {
		items = append(items, growthView{
			tokenView:  toTokenView(e.Token),
			GrowthRate: e.GrowthRate,
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": items,
		"total": len(items),
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	query := r.PathValue("query")
	tokens, err := s.discovery.Search(r.Context(), query, limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": toTokenViews(tokens),
		"total": len(tokens),
		"query": query,
	})
}

func (s *Server) handleByTags(w http.ResponseWriter, r *http.Request) {
	limit, err := intParam(r, "limit", 0)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	tags := splitTags(r.PathValue("tags"))
	if len(tags) == 0 {
		writeError(w, http.StatusBadRequest, "at least one tag is required")
		return
	}

	tokens, err := s.discovery.ByTags(r.Context(), tags, limit)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": toTokenViews(tokens),
		"total": len(tokens),
		"tags":  tags,
	})
}

func splitTags(v string) []string {
	var tags []string
	for _, tag := range strings.Split(v, ",") {
		tag = strings.TrimSpace(tag)
		if tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}

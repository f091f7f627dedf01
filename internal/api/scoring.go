package api

import (
	"net/http"
)

func (s *Server) handleCalculateScore(w http.ResponseWriter, r *http.Request) {
	tokenID := r.PathValue("tokenId")
	breakdown, err := s.scoring.CalculateMemeScore(r.Context(), tokenID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"tokenId":   tokenID,
		"breakdown": breakdown,
		"total":     breakdown.Total,
	})
}

func (s *Server) handleCalculateAll(w http.ResponseWriter, r *http.Request) {
	updated, err := s.scoring.ScoreAllTokens(r.Context())
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"updated": updated,
	})
}

func (s *Server) handleRisk(w http.ResponseWriter, r *http.Request) {
	ra, err := s.scoring.GetRiskAnalysis(r.Context(), r.PathValue("tokenId"))
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRiskView(ra))
}

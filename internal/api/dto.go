package api

import (
	"memescout/internal/domain"
)

// tokenView is the wire shape of a token.
type tokenView struct {
	ID                string   `json:"id"`
	Symbol            string   `json:"symbol"`
	Name              string   `json:"name"`
	ChainID           *string  `json:"chainId"`
	Address           string   `json:"address"`
	PriceUsd          float64  `json:"priceUsd"`
	InitialPrice      float64  `json:"initialPrice"`
	Volume24h         float64  `json:"volume24h"`
	MarketCap         float64  `json:"marketCap"`
	Holders           int      `json:"holders"`
	TopHoldersPercent float64  `json:"topHoldersPercent"`
	ContractVerified  bool     `json:"contractVerified"`
	ContractRenounced bool     `json:"contractRenounced"`
	LiquidityLocked   bool     `json:"liquidityLocked"`
	BuyCount24h       int      `json:"buyCount24h"`
	SellCount24h      int      `json:"sellCount24h"`
	TwitterFollowers  int      `json:"twitterFollowers"`
	TelegramMembers   int      `json:"telegramMembers"`
	Tags              []string `json:"tags"`
	LaunchDate        int64    `json:"launchDate"`
	MemeScore         float64  `json:"memeScore"`
	CreatedAt         int64    `json:"createdAt"`
	UpdatedAt         int64    `json:"updatedAt"`
}

func toTokenView(t *domain.Token) tokenView {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return tokenView{
		ID:                t.ID,
		Symbol:            t.Symbol,
		Name:              t.Name,
		ChainID:           t.ChainID,
		Address:           t.Address,
		PriceUsd:          t.PriceUsd,
		InitialPrice:      t.InitialPrice,
		Volume24h:         t.Volume24h,
		MarketCap:         t.MarketCap,
		Holders:           t.Holders,
		TopHoldersPercent: t.TopHoldersPercent,
		ContractVerified:  t.ContractVerified,
		ContractRenounced: t.ContractRenounced,
		LiquidityLocked:   t.LiquidityLocked,
		BuyCount24h:       t.BuyCount24h,
		SellCount24h:      t.SellCount24h,
		TwitterFollowers:  t.TwitterFollowers,
		TelegramMembers:   t.TelegramMembers,
		Tags:              tags,
		LaunchDate:        t.LaunchDate,
		MemeScore:         t.MemeScore,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

func toTokenViews(tokens []*domain.Token) []tokenView {
	views := make([]tokenView, 0, len(tokens))
	for _, t := range tokens {
		views = append(views, toTokenView(t))
	}
	return views
}

// pricePoint is one entry of a price history series.
type pricePoint struct {
	PriceUsd    float64 `json:"priceUsd"`
	Volume24h   float64 `json:"volume24h"`
	MemeScore   float64 `json:"memeScore"`
	Holders     int     `json:"holders"`
	TimestampMs int64   `json:"timestampMs"`
}

func snapshotPoints(snaps []*domain.Snapshot) []pricePoint {
	points := make([]pricePoint, 0, len(snaps))
	for _, s := range snaps {
		points = append(points, pricePoint{
			PriceUsd:    s.PriceUsd,
			Volume24h:   s.Volume24h,
			MemeScore:   s.MemeScore,
			Holders:     s.Holders,
			TimestampMs: s.TimestampMs,
		})
	}
	return points
}

func archivedPoints(snaps []*domain.ArchivedSnapshot) []pricePoint {
	points := make([]pricePoint, 0, len(snaps))
	for _, s := range snaps {
		points = append(points, pricePoint{
			PriceUsd:    s.PriceUsd,
			Volume24h:   s.Volume24h,
			MemeScore:   s.MemeScore,
			Holders:     s.Holders,
			TimestampMs: s.TimestampMs,
		})
	}
	return points
}

// riskView is the wire shape of a risk analysis.
type riskView struct {
	TokenID             string   `json:"tokenId"`
	RugPullRisk         float64  `json:"rugPullRisk"`
	VolatilityRisk      float64  `json:"volatilityRisk"`
	LiquidityRisk       float64  `json:"liquidityRisk"`
	HolderConcentration float64  `json:"holderConcentration"`
	OverallRiskScore    float64  `json:"overallRiskScore"`
	RiskLevel           string   `json:"riskLevel"`
	RedFlags            []string `json:"redFlags"`
	GreenFlags          []string `json:"greenFlags"`
	CreatedAt           int64    `json:"createdAt"`
	UpdatedAt           int64    `json:"updatedAt"`
}

func toRiskView(ra *domain.RiskAnalysis) riskView {
	red, green := ra.RedFlags, ra.GreenFlags
	if red == nil {
		red = []string{}
	}
	if green == nil {
		green = []string{}
	}
	return riskView{
		TokenID:             ra.TokenID,
		RugPullRisk:         ra.RugPullRisk,
		VolatilityRisk:      ra.VolatilityRisk,
		LiquidityRisk:       ra.LiquidityRisk,
		HolderConcentration: ra.HolderConcentration,
		OverallRiskScore:    ra.OverallRiskScore,
		RiskLevel:           string(ra.RiskLevel),
		RedFlags:            red,
		GreenFlags:          green,
		CreatedAt:           ra.CreatedAt,
		UpdatedAt:           ra.UpdatedAt,
	}
}

// syncJobView is the wire shape of a job run record.
type syncJobView struct {
	ID             string `json:"id"`
	JobType        string `json:"jobType"`
	Status         string `json:"status"`
	TokensCount    int    `json:"tokensCount"`
	SnapshotsAdded int    `json:"snapshotsAdded"`
	Errors         string `json:"errors,omitempty"`
	StartedAt      int64  `json:"startedAt"`
	CompletedAt    *int64 `json:"completedAt"`
	DurationMs     *int64 `json:"durationMs"`
}

func toSyncJobView(j *domain.SyncJob) syncJobView {
	return syncJobView{
		ID:             j.ID,
		JobType:        string(j.JobType),
		Status:         string(j.Status),
		TokensCount:    j.TokensCount,
		SnapshotsAdded: j.SnapshotsAdded,
		Errors:         j.Errors,
		StartedAt:      j.StartedAt,
		CompletedAt:    j.CompletedAt,
		DurationMs:     j.DurationMs,
	}
}

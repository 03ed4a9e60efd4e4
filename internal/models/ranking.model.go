package models

// TeamRanking is one team's entry in a ranking snapshot for a post scope
// (a single slug, or site-wide when the scope slug is empty).
//
// Ranking is recent reads per active member rounded to 4 decimals; Percent is
// the min-max normalization of Ranking across the snapshot rounded to 2
// decimals. Snapshots always hold one entry per known team.
type TeamRanking struct {
	Team       Team    `json:"team"`
	TotalReads int64   `json:"totalReads"`
	Ranking    float64 `json:"ranking"`
	Percent    float64 `json:"percent"`
}

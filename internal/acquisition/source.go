package acquisition

import (
	"sort"
	"time"
)

// Priority weights for source ranking.
const (
	weightAccuracy     = 0.4
	weightCompleteness = 0.3
	weightTimeliness   = 0.2
	weightSuccessRate  = 0.1

	// untestedSuccessRate is used for sources with no recorded attempts.
	untestedSuccessRate = 0.5
)

// Reliability holds the quality metrics of a source, each conventionally
// in [0,1].
type Reliability struct {
	Accuracy     float64 `json:"accuracy"`
	Completeness float64 `json:"completeness"`
	Timeliness   float64 `json:"timeliness"`
}

// SuccessHistory accumulates scrape attempt outcomes. It is never reset.
type SuccessHistory struct {
	SuccessCount int        `json:"success_count"`
	FailureCount int        `json:"failure_count"`
	LastSuccess  *time.Time `json:"last_success"`
	LastFailure  *time.Time `json:"last_failure"`
}

// Record adds one attempt outcome observed at the given time.
func (h *SuccessHistory) Record(success bool, at time.Time) {
	at = at.UTC()
	if success {
		h.SuccessCount++
		h.LastSuccess = &at
	} else {
		h.FailureCount++
		h.LastFailure = &at
	}
}

// ScrapingConfig controls how a source is fetched.
type ScrapingConfig struct {
	Selectors       map[string]string `json:"selectors"`
	Throttling      int               `json:"throttling"`       // max requests per minute, 0 = unlimited
	PolitenessDelay int               `json:"politeness_delay"` // milliseconds between requests
}

// DataSource is one external scraping target.
type DataSource struct {
	ID             string            `json:"id"`
	Name           string            `json:"name"`
	URL            string            `json:"url"`
	Reliability    Reliability       `json:"reliability_metrics"`
	ScrapingConfig ScrapingConfig    `json:"scraping_config"`
	DataMapping    map[string]string `json:"data_mapping"`
	SuccessHistory SuccessHistory    `json:"success_history"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Ranked is a DataSource annotated with its computed priority score.
type Ranked struct {
	DataSource
	PriorityScore float64 `json:"priority_score"`
}

// SuccessRate returns successes over attempts, or 0.5 for an untested source.
func SuccessRate(h SuccessHistory) float64 {
	total := h.SuccessCount + h.FailureCount
	if total <= 0 {
		return untestedSuccessRate
	}
	return float64(h.SuccessCount) / float64(total)
}

// PriorityScore is the weighted sum of reliability metrics and success rate.
func PriorityScore(src DataSource) float64 {
	r := src.Reliability
	return weightAccuracy*r.Accuracy +
		weightCompleteness*r.Completeness +
		weightTimeliness*r.Timeliness +
		weightSuccessRate*SuccessRate(src.SuccessHistory)
}

// PrioritizeSources scores every source and returns them ordered by
// descending score. Ties keep their input order. The input is not modified.
func PrioritizeSources(sources []DataSource) []Ranked {
	ranked := make([]Ranked, len(sources))
	for i, src := range sources {
		ranked[i] = Ranked{DataSource: src, PriorityScore: PriorityScore(src)}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].PriorityScore > ranked[j].PriorityScore
	})
	return ranked
}

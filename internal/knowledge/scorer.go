package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgallion1/docmap/internal/document"
	"github.com/dgallion1/docmap/internal/llm"
)

// DefaultThreshold is the minimum score for a section to be retrieved.
const DefaultThreshold = 3

const (
	minScore = 1
	maxScore = 5
)

// Scorer rates knowledge map sections against a question with a single
// batched model call.
type Scorer struct {
	model llm.Completer
	log   *slog.Logger
}

func NewScorer(model llm.Completer, log *slog.Logger) *Scorer {
	return &Scorer{model: model, log: log}
}

// Score returns sections ranked by relevance. A reply that does not decode to
// exactly one number per section degrades to a score of 1 for every section;
// only a failed model call is an error.
func (s *Scorer) Score(ctx context.Context, query string, kmap []document.KnowledgeMapEntry) ([]document.ScoredSection, error) {
	summaries := make([]string, len(kmap))
	for i, e := range kmap {
		summaries[i] = e.Summary
	}

	reply, err := s.model.Complete(ctx, []llm.Message{llm.User(ScorePrompt(query, summaries))})
	if err != nil {
		return nil, fmt.Errorf("score sections: %w", err)
	}

	scores, ok := ParseScores(reply, len(kmap))
	if !ok {
		s.log.Warn("unusable relevance scores, treating all sections as low relevance",
			"sections", len(kmap), "reply", truncate(reply, 200))
	}
	return Rank(scores), nil
}

// ParseScores decodes a JSON array of exactly n numbers, clamped to [1,5].
// On any mismatch it returns n scores of 1 and false.
func ParseScores(reply string, n int) ([]float64, bool) {
	scores, err := llm.ParseJSON[[]float64](reply)
	if err != nil || len(scores) != n {
		fallback := make([]float64, n)
		for i := range fallback {
			fallback[i] = minScore
		}
		return fallback, false
	}
	for i, v := range scores {
		scores[i] = min(max(v, minScore), maxScore)
	}
	return scores, true
}

// Rank orders scores descending. Equal scores put the higher section index
// first.
func Rank(scores []float64) []document.ScoredSection {
	ranked := make([]document.ScoredSection, len(scores))
	for i, v := range scores {
		ranked[i] = document.ScoredSection{Score: v, Index: i}
	}
	slices.SortFunc(ranked, func(a, b document.ScoredSection) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return b.Index - a.Index
	})
	return ranked
}

// Select returns the indices of ranked sections scoring at least threshold,
// in rank order.
func Select(ranked []document.ScoredSection, threshold float64) []int {
	var out []int
	for _, r := range ranked {
		if r.Score >= threshold {
			out = append(out, r.Index)
		}
	}
	return out
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

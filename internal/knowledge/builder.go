// Package knowledge builds per-section summaries of a document and ranks
// those sections against a question.
package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/dgallion1/docmap/internal/document"
	"github.com/dgallion1/docmap/internal/llm"
)

// DefaultSampleSize is the number of pages summarized per section.
const DefaultSampleSize = 3

// Builder produces a knowledge map: one model summary per section, built from
// a random sample of the section's pages.
type Builder struct {
	model      llm.Completer
	rng        *rand.Rand
	sampleSize int
	log        *slog.Logger
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithRand fixes the random source used to sample pages.
func WithRand(rng *rand.Rand) BuilderOption {
	return func(b *Builder) {
		b.rng = rng
	}
}

// WithSampleSize sets how many pages are sampled per section.
func WithSampleSize(n int) BuilderOption {
	return func(b *Builder) {
		if n > 0 {
			b.sampleSize = n
		}
	}
}

func NewBuilder(model llm.Completer, log *slog.Logger, opts ...BuilderOption) *Builder {
	b := &Builder{
		model:      model,
		sampleSize: DefaultSampleSize,
		log:        log,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build summarizes every section in order. Any model failure aborts the
// build; no partial map is returned.
func (b *Builder) Build(ctx context.Context, sections []document.Section, pages []string) ([]document.KnowledgeMapEntry, error) {
	entries := make([]document.KnowledgeMapEntry, 0, len(sections))
	for i, sec := range sections {
		sample, err := b.samplePages(sec, len(pages))
		if err != nil {
			return nil, fmt.Errorf("section %d %q: %w", i, sec.Title, err)
		}

		texts := make([]string, len(sample))
		for j, p := range sample {
			texts[j] = pages[p]
		}

		summary, err := b.model.Complete(ctx, []llm.Message{
			llm.System(SummarizerIdentity),
			llm.User(SummarizePrompt(strings.Join(texts, "\n"))),
		})
		if err != nil {
			return nil, fmt.Errorf("summarize section %d %q: %w", i, sec.Title, err)
		}

		b.log.Debug("section summarized", "section", sec.Title, "start_page", sec.StartPage, "end_page", sec.EndPage, "sampled", sample)
		entries = append(entries, document.KnowledgeMapEntry{
			ChapterName: sec.Title,
			StartPage:   sec.StartPage,
			EndPage:     sec.EndPage,
			Summary:     summary,
		})
	}
	return entries, nil
}

// samplePages draws min(sampleSize, pages in section) distinct page indices
// without replacement. The result is in draw order, not page order.
func (b *Builder) samplePages(sec document.Section, totalPages int) ([]int, error) {
	n := sec.Pages()
	if n < 0 {
		return nil, fmt.Errorf("inverted page range [%d,%d)", sec.StartPage, sec.EndPage)
	}
	k := min(b.sampleSize, n)

	var perm []int
	if b.rng != nil {
		perm = b.rng.Perm(n)
	} else {
		perm = rand.Perm(n)
	}

	sample := make([]int, k)
	for i := range k {
		p := sec.StartPage + perm[i]
		if p < 0 || p >= totalPages {
			return nil, fmt.Errorf("page %d outside document of %d pages", p, totalPages)
		}
		sample[i] = p
	}
	return sample, nil
}

package jobs

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"ai-assistant-be/internal/pkg/logger"

	"golang.org/x/sync/errgroup"
)

const (
	// MaxJobsToScore caps model calls per pipeline run.
	MaxJobsToScore   = 20
	scoreConcurrency = 4
)

// Matcher is the job-matching capability consumed by the dispatcher and the
// jobs endpoint.
type Matcher interface {
	Match(ctx context.Context, resumeText string, topN int, sourceID string) ([]MatchResult, int, error)
}

// Pipeline fetches postings, scores each against the resume and keeps the best.
type Pipeline struct {
	registry *Registry
	scorer   Scorer
	logger   logger.ILogger
}

func NewPipeline(registry *Registry, scorer Scorer, log logger.ILogger) *Pipeline {
	return &Pipeline{registry: registry, scorer: scorer, logger: log}
}

// Match returns up to topN results ordered by overall score and the number of
// jobs that were scored. An empty resume yields no results and no error.
func (p *Pipeline) Match(ctx context.Context, resumeText string, topN int, sourceID string) ([]MatchResult, int, error) {
	resumeText = strings.TrimSpace(resumeText)
	if resumeText == "" {
		return []MatchResult{}, 0, nil
	}

	source := p.registry.Get(sourceID)
	postings, err := source.FetchJobs(ctx, MaxJobsToScore)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch jobs from %s: %w", source.ID(), err)
	}
	if len(postings) == 0 {
		return []MatchResult{}, 0, nil
	}
	if len(postings) > MaxJobsToScore {
		postings = postings[:MaxJobsToScore]
	}

	results := make([]MatchResult, len(postings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(scoreConcurrency)
	for i, job := range postings {
		i, job := i, job
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			description := strings.TrimSpace(job.Description)
			if description == "" {
				description = fmt.Sprintf("%s @ %s", job.Title, job.Company)
			}
			results[i] = MatchResult{Job: job, Score: p.scorer.Score(gctx, resumeText, description)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}

	sort.SliceStable(results, func(a, b int) bool {
		return results[a].Score.Overall > results[b].Score.Overall
	})

	p.logger.Info("JOBS", "Job match pipeline completed", map[string]interface{}{
		"source":    source.ID(),
		"evaluated": len(results),
		"top_n":     topN,
	})

	if topN < 0 {
		topN = 0
	}
	if topN < len(results) {
		return results[:topN], len(postings), nil
	}
	return results, len(postings), nil
}

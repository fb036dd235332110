// Package tasks holds the periodically scheduled background jobs.
package tasks

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/codequest-dev/challenges-api/internal/observability"
	"github.com/codequest-dev/challenges-api/internal/repository"
)

// RankingsRecalculatedSubject is the broker subject a completed pass is
// announced on when a NATS connection is configured.
const RankingsRecalculatedSubject = "challenges.rankings.recalculated"

// RankingRecalculator reconciles season standings from submission history on
// a fixed cadence. Each correct submission is folded exactly once: the ranked
// marker flip and the point upsert commit together, so the pass is idempotent
// and safe to run concurrently with live submission traffic or with another
// instance of itself.
type RankingRecalculator struct {
	submissions repository.SubmissionRepository
	rankings    repository.RankingRepository
	cache       *redis.Client
	events      *nats.Conn
	interval    time.Duration
	batchSize   int
	logger      zerolog.Logger
}

// NewRankingRecalculator constructs the recalculation task. Cache and events
// are optional.
func NewRankingRecalculator(submissionRepo repository.SubmissionRepository, rankingRepo repository.RankingRepository, cache *redis.Client, events *nats.Conn, interval time.Duration, batchSize int, logger zerolog.Logger) *RankingRecalculator {
	if interval <= 0 {
		interval = 15 * time.Second
	}
	if batchSize <= 0 {
		batchSize = 500
	}

	return &RankingRecalculator{
		submissions: submissionRepo,
		rankings:    rankingRepo,
		cache:       cache,
		events:      events,
		interval:    interval,
		batchSize:   batchSize,
		logger:      logger.With().Str("component", "ranking_recalculator").Logger(),
	}
}

// Start runs the recalculation loop until the context is cancelled.
func (r *RankingRecalculator) Start(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.logger.Info().Dur("interval", r.interval).Msg("ranking recalculation started")

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("ranking recalculation stopped")
			return
		case <-ticker.C:
			if _, err := r.RunOnce(ctx); err != nil {
				r.logger.Error().Err(err).Msg("ranking recalculation pass failed")
			}
		}
	}
}

// RunOnce performs a single reconciliation pass and returns the number of
// submissions folded into standings. Rerunning over an unchanged submission
// set folds nothing.
func (r *RankingRecalculator) RunOnce(ctx context.Context) (int, error) {
	start := time.Now()

	pending, err := r.submissions.ListUnranked(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	folded := 0
	touched := make(map[string]struct{})
	for _, submission := range pending {
		applied, err := r.rankings.FoldSubmission(ctx, submission)
		if err != nil {
			return folded, err
		}
		if applied {
			folded++
			touched[submission.SeasonID] = struct{}{}
			observability.RankingsFolded().Inc()
		}
	}

	for seasonID := range touched {
		r.invalidateStandings(ctx, seasonID)
	}

	observability.RankingPassDuration().Observe(time.Since(start).Seconds())

	if folded > 0 {
		r.logger.Info().Int("folded", folded).Int("pending", len(pending)).Msg("ranking recalculation pass complete")
		r.publishRecalculated(folded)
	}

	return folded, nil
}

func (r *RankingRecalculator) invalidateStandings(ctx context.Context, seasonID string) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Del(ctx, "standings:"+seasonID).Err(); err != nil {
		r.logger.Warn().Err(err).Str("season_id", seasonID).Msg("failed to invalidate standings cache")
	}
}

func (r *RankingRecalculator) publishRecalculated(folded int) {
	if r.events == nil {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"folded":          folded,
		"recalculated_at": time.Now().UTC(),
	})
	if err != nil {
		return
	}

	if err := r.events.Publish(RankingsRecalculatedSubject, payload); err != nil {
		r.logger.Warn().Err(err).Msg("failed to publish recalculation event")
	}
}

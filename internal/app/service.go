// Package service collects skills results from RobotEvents, publishes them,
// and keeps the served leaderboard up to date.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/okian/skillboard/internal/adapters/repository"
	"github.com/okian/skillboard/internal/adapters/robotevents"
	"github.com/okian/skillboard/internal/adapters/sink"
	"github.com/okian/skillboard/internal/domain/dedupe"
	"github.com/okian/skillboard/internal/domain/model"
	"github.com/okian/skillboard/internal/domain/ranking"
	"github.com/okian/skillboard/internal/domain/scoring"
	"github.com/okian/skillboard/internal/domain/types"
	"github.com/okian/skillboard/pkg/logger"
	"github.com/okian/skillboard/pkg/metrics"
)

// Report summarizes one collection pass.
type Report struct {
	RunID      string
	StartedAt  time.Time
	Duration   time.Duration
	Records    []model.Record
	Fetched    int
	Skipped    int
	Failed     int
	Duplicates int
}

// Service drives collection runs.
type Service struct {
	mu sync.RWMutex

	// Collaborators
	fetcher SkillsFetcher
	sink    sink.ResultSink
	board   repository.Store
	logger  logger.Logger

	// Configuration
	season           int
	program          int
	teamIDs          []int
	includeGlobalMax bool
	skillsName       string
	teamsName        string
	rankOpts         []ranking.Option
	refreshInterval  time.Duration
	newRunID         func() string

	// State
	running   atomic.Bool
	directory ranking.Directory
	last      Report
	lastErr   error
	started   bool
	cancel    context.CancelFunc
	baseCtx   context.Context
	wg        sync.WaitGroup
}

// New constructs a Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		season:           190,
		program:          1,
		includeGlobalMax: true,
		skillsName:       "skills_list.json",
		teamsName:        "team_list.json",
		refreshInterval:  15 * time.Minute,
		newRunID:         uuid.NewString,
		baseCtx:          context.Background(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("collector")
	}
	return s
}

// Collect fetches every configured team and selects its best event.
// Teams without data, duplicates, and failed fetches are skipped; only
// cancellation of ctx aborts the pass.
func (s *Service) Collect(ctx context.Context) (Report, error) {
	if s.fetcher == nil {
		return Report{}, ErrNoFetcher
	}

	rep := Report{
		RunID:     s.newRunID(),
		StartedAt: time.Now(),
		Records:   make([]model.Record, 0, len(s.teamIDs)),
	}
	seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(len(s.teamIDs)))
	log := s.logger

	log.Info(ctx, "collection started",
		logger.String("run_id", rep.RunID),
		logger.Int("teams", len(s.teamIDs)),
		logger.Int("season", s.season))

	for _, teamID := range s.teamIDs {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		key := strconv.Itoa(teamID)
		if seen.SeenAndRecord(ctx, key) {
			rep.Duplicates++
			metrics.RecordTeamSkipped(metrics.SkipDuplicate)
			log.Debug(ctx, "duplicate team id skipped", logger.Int("team_id", teamID))
			continue
		}

		start := time.Now()
		runs, err := s.fetcher.TeamSkills(ctx, teamID, s.season, s.program)
		latency := float64(time.Since(start).Milliseconds())
		switch {
		case errors.Is(err, robotevents.ErrNotFound):
			rep.Skipped++
			metrics.RecordTeamSkipped(metrics.SkipNoData)
			log.Info(ctx, "no skills data",
				logger.Int("team_id", teamID),
				logger.Int("season", s.season))
			continue
		case err != nil:
			if ctx.Err() != nil {
				return rep, ctx.Err()
			}
			rep.Failed++
			// a later duplicate of this id may try again
			seen.Unrecord(ctx, key)
			metrics.RecordFetchError(latency)
			metrics.RecordTeamSkipped(metrics.SkipError)
			log.Error(ctx, "fetch team skills failed",
				logger.Int("team_id", teamID),
				logger.Error(err))
			continue
		}
		rep.Fetched++
		metrics.RecordTeamFetched(latency)
		metrics.RecordRunsFolded(len(runs))

		res, ok := scoring.BestEvent(teamID, runs)
		if !ok {
			rep.Skipped++
			metrics.RecordTeamSkipped(metrics.SkipEmpty)
			log.Info(ctx, "no skills runs", logger.Int("team_id", teamID))
			continue
		}
		rep.Records = append(rep.Records, res.Record(s.includeGlobalMax))
		log.Debug(ctx, "best event selected",
			logger.Int("team_id", teamID),
			logger.String("event", res.Best.EventName),
			logger.Int("total", res.Best.TotalScore))
	}

	rep.Duration = time.Since(rep.StartedAt)
	log.Info(ctx, "collection finished",
		logger.String("run_id", rep.RunID),
		logger.Int("records", len(rep.Records)),
		logger.Int("skipped", rep.Skipped),
		logger.Int("failed", rep.Failed),
		logger.Duration("duration", rep.Duration))
	return rep, nil
}

// CollectTeams fetches the team directory for every configured team.
// Unknown teams are skipped and failures are logged.
func (s *Service) CollectTeams(ctx context.Context) ([]model.TeamInfo, error) {
	if s.fetcher == nil {
		return nil, ErrNoFetcher
	}

	seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(len(s.teamIDs)))
	teams := make([]model.TeamInfo, 0, len(s.teamIDs))
	for _, teamID := range s.teamIDs {
		if err := ctx.Err(); err != nil {
			return teams, err
		}
		if seen.SeenAndRecord(ctx, strconv.Itoa(teamID)) {
			continue
		}
		info, err := s.fetcher.Team(ctx, teamID)
		switch {
		case errors.Is(err, robotevents.ErrNotFound):
			s.logger.Info(ctx, "no team data", logger.Int("team_id", teamID))
			continue
		case err != nil:
			if ctx.Err() != nil {
				return teams, ctx.Err()
			}
			s.logger.Error(ctx, "fetch team failed", logger.Int("team_id", teamID), logger.Error(err))
			continue
		}
		teams = append(teams, info)
	}
	return teams, nil
}

// PublishTeams collects the team directory, keeps it for ranking, and
// writes it to the sink.
func (s *Service) PublishTeams(ctx context.Context) ([]model.TeamInfo, error) {
	teams, err := s.CollectTeams(ctx)
	if err != nil {
		return nil, err
	}
	s.SetDirectory(teams)
	if err := s.publish(sink.WithRunID(ctx, s.newRunID()), s.teamsName, teams); err != nil {
		return teams, err
	}
	return teams, nil
}

// SetDirectory replaces the team directory used for display numbers.
func (s *Service) SetDirectory(teams []model.TeamInfo) {
	dir := ranking.NewDirectory(teams)
	s.mu.Lock()
	s.directory = dir
	s.mu.Unlock()
}

// Run performs one collection, publishes the skills document, and replaces
// the leaderboard. It returns ErrBusy if another run is in progress.
func (s *Service) Run(ctx context.Context) (Report, error) {
	if !s.running.CompareAndSwap(false, true) {
		return Report{}, ErrBusy
	}
	defer s.running.Store(false)
	return s.run(ctx)
}

// Refresh starts a run in the background. It returns ErrBusy without
// starting anything if a run is in progress.
func (s *Service) Refresh() error {
	if !s.running.CompareAndSwap(false, true) {
		return ErrBusy
	}

	s.mu.RLock()
	ctx := s.baseCtx
	s.mu.RUnlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.running.Store(false)
		_, _ = s.run(ctx)
	}()
	return nil
}

func (s *Service) run(ctx context.Context) (Report, error) {
	rep, err := s.Collect(ctx)
	if err != nil {
		metrics.RecordCollection(metrics.StatusFailed, float64(rep.Duration.Milliseconds()))
		s.remember(rep, err)
		return rep, err
	}

	ctx = sink.WithRunID(ctx, rep.RunID)
	perr := s.publish(ctx, s.skillsName, rep.Records)
	s.Warm(ctx, rep.Records)

	status := metrics.StatusOK
	if perr != nil {
		status = metrics.StatusFailed
	} else {
		metrics.SetLastSuccess(time.Now().Unix())
	}
	metrics.RecordCollection(status, float64(rep.Duration.Milliseconds()))
	s.remember(rep, perr)
	return rep, perr
}

func (s *Service) publish(ctx context.Context, name string, v any) error {
	if s.sink == nil {
		return nil
	}
	if err := s.sink.Write(ctx, name, v); err != nil {
		s.logger.Error(ctx, "publish failed",
			logger.String("document", name),
			logger.String("run_id", sink.RunID(ctx)),
			logger.Error(err))
		return fmt.Errorf("%w: %s: %w", ErrPublish, name, err)
	}
	s.logger.Info(ctx, "document published",
		logger.String("document", name),
		logger.String("sink", s.sink.Name()))
	return nil
}

func (s *Service) remember(rep Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = rep
	s.lastErr = err
}

// Warm ranks records and replaces the leaderboard without fetching.
func (s *Service) Warm(ctx context.Context, records []model.Record) {
	if s.board == nil {
		return
	}
	s.mu.RLock()
	dir := s.directory
	s.mu.RUnlock()

	entries := ranking.Rank(records, dir, s.rankOpts...)
	if err := s.board.Replace(ctx, entries); err != nil {
		s.logger.Error(ctx, "replace leaderboard failed", logger.Error(err))
	}
}

// Start launches the refresh loop. The first run starts immediately.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.fetcher == nil {
		return ErrNoFetcher
	}

	loopCtx, cancel := context.WithCancel(ctx)
	s.baseCtx = loopCtx
	s.cancel = cancel
	s.started = true

	s.wg.Add(1)
	go s.loop(loopCtx)

	s.logger.Info(ctx, "collector started",
		logger.Int("teams", len(s.teamIDs)),
		logger.Duration("interval", s.refreshInterval))
	return nil
}

func (s *Service) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		if _, err := s.Run(ctx); err != nil && !errors.Is(err, ErrBusy) && ctx.Err() == nil {
			s.logger.Warn(ctx, "scheduled run failed", logger.Error(err))
		}
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

// Stop cancels the refresh loop and waits for in-flight runs.
func (s *Service) Stop() {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return
	}
	s.cancel()
	s.started = false
	s.mu.Unlock()

	s.wg.Wait()
	s.logger.Info(context.Background(), "collector stopped")
}

// Running reports whether a collection is in progress.
func (s *Service) Running() bool { return s.running.Load() }

// TopN returns the first n leaderboard entries.
func (s *Service) TopN(ctx context.Context, n int) ([]types.Entry, error) {
	if s.board == nil {
		return nil, repository.ErrNotFound
	}
	return s.board.TopN(ctx, n)
}

// Rank returns the leaderboard entry of a team.
func (s *Service) Rank(ctx context.Context, teamID int) (types.Entry, error) {
	if s.board == nil {
		return types.Entry{}, repository.ErrNotFound
	}
	return s.board.Rank(ctx, teamID)
}

// Count returns the number of teams on the leaderboard.
func (s *Service) Count(ctx context.Context) int {
	if s.board == nil {
		return 0
	}
	return s.board.Count(ctx)
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"running":     s.running.Load(),
		"season":      s.season,
		"program":     s.program,
		"teams":       len(s.teamIDs),
		"directory":   len(s.directory),
		"intervalSec": int(s.refreshInterval.Seconds()),
	}
	if s.board != nil {
		stats["leaderboardSize"] = s.board.Count(context.Background())
		if at := s.board.UpdatedAt(); !at.IsZero() {
			stats["updatedAt"] = at.UTC().Format(time.RFC3339)
		}
	}
	if s.last.RunID != "" {
		stats["lastRun"] = map[string]interface{}{
			"runId":      s.last.RunID,
			"startedAt":  s.last.StartedAt.UTC().Format(time.RFC3339),
			"durationMs": s.last.Duration.Milliseconds(),
			"records":    len(s.last.Records),
			"fetched":    s.last.Fetched,
			"skipped":    s.last.Skipped,
			"failed":     s.last.Failed,
			"duplicates": s.last.Duplicates,
		}
		if s.lastErr != nil {
			stats["lastError"] = s.lastErr.Error()
		}
	}
	return stats
}

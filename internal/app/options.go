package service

import (
	"time"

	"github.com/okian/skillboard/internal/adapters/repository"
	"github.com/okian/skillboard/internal/adapters/sink"
	"github.com/okian/skillboard/internal/domain/ranking"
	"github.com/okian/skillboard/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithFetcher sets the RobotEvents client.
func WithFetcher(f SkillsFetcher) Option {
	return func(s *Service) { s.fetcher = f }
}

// WithSink sets where documents are published.
func WithSink(rs sink.ResultSink) Option {
	return func(s *Service) { s.sink = rs }
}

// WithBoard sets the leaderboard updated after every run.
func WithBoard(b repository.Store) Option {
	return func(s *Service) { s.board = b }
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithSeason sets the season and program filters.
func WithSeason(season, program int) Option {
	return func(s *Service) {
		if season > 0 {
			s.season = season
		}
		if program > 0 {
			s.program = program
		}
	}
}

// WithTeamIDs sets the teams to poll, in output order.
func WithTeamIDs(ids []int) Option {
	return func(s *Service) {
		s.teamIDs = append([]int(nil), ids...)
	}
}

// WithGlobalMax controls whether records carry highest_auto/highest_driver.
func WithGlobalMax(on bool) Option {
	return func(s *Service) { s.includeGlobalMax = on }
}

// WithDocumentNames sets the skills and team directory document names.
func WithDocumentNames(skills, teams string) Option {
	return func(s *Service) {
		if skills != "" {
			s.skillsName = skills
		}
		if teams != "" {
			s.teamsName = teams
		}
	}
}

// WithRankingOptions passes options to ranking.Rank.
func WithRankingOptions(opts ...ranking.Option) Option {
	return func(s *Service) {
		s.rankOpts = append(s.rankOpts, opts...)
	}
}

// WithRefreshInterval sets the period of the loop started by Start.
func WithRefreshInterval(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.refreshInterval = d
		}
	}
}

// WithRunIDFunc replaces the run id generator.
func WithRunIDFunc(fn func() string) Option {
	return func(s *Service) {
		if fn != nil {
			s.newRunID = fn
		}
	}
}

package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/okian/skillboard/internal/adapters/robotevents"
	"github.com/okian/skillboard/internal/adapters/sink"
	"github.com/okian/skillboard/internal/adapters/snapshot"
	app "github.com/okian/skillboard/internal/app"
	"github.com/okian/skillboard/internal/config"
	"github.com/okian/skillboard/internal/domain/ranking"
	"github.com/okian/skillboard/pkg/logger"
)

// sinks holds the configured publishers and what must be closed on exit.
type sinks struct {
	publisher sink.ResultSink
	archive   *snapshot.Store
	closers   []func() error
}

func (s *sinks) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}

// buildSinks opens every sink named in cfg.Sinks, in order.
func buildSinks(ctx context.Context, cfg *config.Config) (*sinks, error) {
	out := &sinks{}
	var list []sink.ResultSink

	for _, name := range cfg.Sinks {
		switch name {
		case config.SinkFile:
			fs, err := sink.NewFileSink(cfg.OutputDir)
			if err != nil {
				_ = out.Close()
				return nil, err
			}
			list = append(list, fs)
		case config.SinkS3:
			client, err := sink.NewS3Client(ctx, cfg.S3Region, cfg.S3Endpoint)
			if err != nil {
				_ = out.Close()
				return nil, err
			}
			list = append(list, sink.NewObjectStorageSink(client, cfg.S3Bucket, cfg.S3Prefix))
		case config.SinkRedis:
			client := redis.NewClient(&redis.Options{
				Addr:     cfg.RedisAddr,
				Password: cfg.RedisPassword,
				DB:       cfg.RedisDB,
			})
			out.closers = append(out.closers, client.Close)
			list = append(list, sink.NewRedisSink(client, cfg.RedisPrefix))
		case config.SinkSQL:
			store, err := snapshot.Open(ctx, cfg.SQLDriver, cfg.SQLDSN)
			if err != nil {
				_ = out.Close()
				return nil, fmt.Errorf("opening snapshot archive: %w", err)
			}
			out.closers = append(out.closers, store.Close)
			out.archive = store
			list = append(list, store)
		default:
			_ = out.Close()
			return nil, fmt.Errorf("%w: unknown sink %q", config.ErrInvalidConfig, name)
		}
	}

	multi, err := sink.NewMulti(list...)
	if err != nil {
		_ = out.Close()
		return nil, err
	}
	out.publisher = multi
	return out, nil
}

// newFetcher builds the RobotEvents client from cfg.
func newFetcher(cfg *config.Config) *robotevents.Client {
	return robotevents.New(
		robotevents.WithBaseURL(cfg.APIBaseURL),
		robotevents.WithToken(cfg.APIToken),
		robotevents.WithPageSize(cfg.PageSize),
		robotevents.WithTimeout(time.Duration(cfg.RequestTimeoutMS)*time.Millisecond),
	)
}

// newService wires the collector from cfg and its collaborators.
func newService(cfg *config.Config, log logger.Logger, fetcher app.SkillsFetcher, publisher sink.ResultSink, opts ...app.Option) *app.Service {
	base := []app.Option{
		app.WithLogger(log.Named("collector")),
		app.WithFetcher(fetcher),
		app.WithSink(publisher),
		app.WithSeason(cfg.SeasonID, cfg.ProgramID),
		app.WithTeamIDs(cfg.TeamIDs),
		app.WithGlobalMax(cfg.IncludeGlobalMax),
		app.WithDocumentNames(cfg.SkillsName, cfg.TeamsName),
		app.WithRefreshInterval(time.Duration(cfg.RefreshIntervalSec) * time.Second),
		app.WithRankingOptions(
			ranking.WithQualifiedTeams(cfg.QualifiedTeams),
			ranking.WithQualifiedSlots(cfg.QualifiedSlots),
		),
	}
	return app.New(append(base, opts...)...)
}

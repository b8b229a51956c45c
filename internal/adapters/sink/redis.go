package sink

import (
	"context"
	"fmt"
	"strconv"

	"github.com/okian/skillboard/internal/domain/model"
	"github.com/redis/go-redis/v9"
)

// BoardSuffix names the sorted set kept next to a record list document.
const BoardSuffix = ":board"

// RedisSink stores documents as string keys. Record lists also get a sorted
// set of team number by total score for cheap rank queries.
type RedisSink struct {
	client redis.Cmdable
	prefix string
}

// NewRedisSink writes keys under prefix.
func NewRedisSink(client redis.Cmdable, prefix string) *RedisSink {
	return &RedisSink{client: client, prefix: prefix}
}

// Name implements ResultSink.
func (s *RedisSink) Name() string { return "redis" }

// Write implements ResultSink. All commands go in one MULTI/EXEC.
func (s *RedisSink) Write(ctx context.Context, name string, v any) error {
	body, err := Encode(v)
	if err != nil {
		return err
	}

	key := s.prefix + name
	records, isBoard := v.([]model.Record)

	_, err = s.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, key, body, 0)
		if !isBoard {
			return nil
		}
		p.Del(ctx, key+BoardSuffix)
		if len(records) == 0 {
			return nil
		}
		members := make([]redis.Z, 0, len(records))
		for _, r := range records {
			members = append(members, redis.Z{
				Score:  float64(r.TotalScore),
				Member: strconv.Itoa(r.TeamNumber),
			})
		}
		p.ZAdd(ctx, key+BoardSuffix, members...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("%w: redis %s: %w", ErrWrite, key, err)
	}
	return nil
}

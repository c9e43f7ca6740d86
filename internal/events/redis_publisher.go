package events

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/sekolahku/presensi-backend/internal/config"
	"github.com/sekolahku/presensi-backend/internal/model"
)

// RedisPublisher fans attendance mutations out over Redis pub/sub, one
// channel per class. WebSocket subscribers pick the events up from
// there. Publishing is best-effort: a failure is logged, never surfaced
// to the caller, since the database write already succeeded.
type RedisPublisher struct {
	rdb *redis.Client
	log zerolog.Logger
}

// NewRedisPublisher creates a new RedisPublisher.
func NewRedisPublisher(rdb *redis.Client, log zerolog.Logger) *RedisPublisher {
	return &RedisPublisher{
		rdb: rdb,
		log: log.With().Str("component", "events").Logger(),
	}
}

// PublishAttendance publishes an event to the class's live channel.
func (p *RedisPublisher) PublishAttendance(ctx context.Context, event model.AttendanceEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		p.log.Error().Err(err).Msg("marshal attendance event")
		return
	}

	channel := config.CacheKey.ClassLiveChannel(event.ClassID)
	if err := p.rdb.Publish(ctx, channel, payload).Err(); err != nil {
		p.log.Warn().Err(err).Str("channel", channel).Msg("publish attendance event")
	}
}

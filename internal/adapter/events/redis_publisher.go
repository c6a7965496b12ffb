package events

import (
	"context"
	"encoding/json"
	"time"

	"procurement-approval/internal/domain/requisition"

	"github.com/redis/go-redis/v9"
)

const StreamReadyForQuotation = "procurement:requisitions:ready_for_quotation"

// RedisPublisher appends handoff events to a Redis stream. Each entry keeps
// the JSON body in a single "data" field next to a few routing fields.
type RedisPublisher struct {
	rdb     *redis.Client
	stream  string
	maxLen  int64
	timeout time.Duration
}

var _ requisition.Publisher = (*RedisPublisher)(nil)

func NewRedisPublisher(rdb *redis.Client, maxLen int64) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, stream: StreamReadyForQuotation, maxLen: maxLen, timeout: 2 * time.Second}
}

func (p *RedisPublisher) PublishReadyForQuotation(ctx context.Context, ev requisition.ReadyForQuotation) error {
	b, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]any{
			"event_id":       ev.EventID,
			"requisition_id": ev.RequisitionID,
			"data":           string(b),
		},
	}
	if p.maxLen > 0 {
		args.MaxLen = p.maxLen
		args.Approx = true
	}

	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	return p.rdb.XAdd(ctx, args).Err()
}

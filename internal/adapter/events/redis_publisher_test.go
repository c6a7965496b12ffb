package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"procurement-approval/internal/domain/requisition"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newPublisher(t *testing.T) (*RedisPublisher, *redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewRedisPublisher(rdb, 100), rdb, mr
}

func TestPublishReadyForQuotation(t *testing.T) {
	p, rdb, _ := newPublisher(t)
	ctx := context.Background()
	ev := requisition.ReadyForQuotation{
		EventID:           "e-1",
		RequisitionID:     "0123456789abcdef0123456789abcdef",
		RequisitionNumber: "REQ-000001",
		CreatorID:         "U1",
		ApprovedBy:        "G1",
		Priority:          requisition.PriorityAlta,
		Items:             3,
		ApprovedAt:        time.Date(2025, 9, 3, 10, 0, 0, 0, time.UTC),
	}

	if err := p.PublishReadyForQuotation(ctx, ev); err != nil {
		t.Fatalf("publish: %v", err)
	}

	msgs, err := rdb.XRange(ctx, StreamReadyForQuotation, "-", "+").Result()
	if err != nil {
		t.Fatalf("xrange: %v", err)
	}
	if len(msgs) != 1 {
		t.Fatalf("want 1 entry, got %d", len(msgs))
	}
	v := msgs[0].Values
	if v["event_id"] != "e-1" || v["requisition_id"] != ev.RequisitionID {
		t.Fatalf("routing fields: %+v", v)
	}
	var got requisition.ReadyForQuotation
	if err := json.Unmarshal([]byte(v["data"].(string)), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.RequisitionNumber != ev.RequisitionNumber || got.Items != 3 || got.Priority != ev.Priority || !got.ApprovedAt.Equal(ev.ApprovedAt) {
		t.Fatalf("got %+v, want %+v", got, ev)
	}
}

func TestPublishReadyForQuotation_RedisDown(t *testing.T) {
	p, _, mr := newPublisher(t)
	mr.Close()

	if err := p.PublishReadyForQuotation(context.Background(), requisition.ReadyForQuotation{EventID: "e-2"}); err == nil {
		t.Fatal("expected error when redis is unreachable")
	}
}

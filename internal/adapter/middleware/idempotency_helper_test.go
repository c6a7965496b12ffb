package middleware

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func TestBodyHash_StableAndDistinct(t *testing.T) {
	a := bodyHash([]byte(`{"decisions":[]}`))
	if len(a) != 64 {
		t.Fatalf("want 64 hex chars, got %d", len(a))
	}
	if a != bodyHash([]byte(`{"decisions":[]}`)) {
		t.Fatal("hash not stable")
	}
	if a == bodyHash([]byte(`{"decisions":[{}]}`)) {
		t.Fatal("different bodies hash equal")
	}
}

func TestBuildKey_ScopesByActorAndRoute(t *testing.T) {
	rid := strings.Repeat("a", 32)
	k := buildKey("POST", "/requisitions/:requisition_id/gates/:gate", "U1", rid)
	if k != "idemp:procurement:post:/requisitions/:requisition_id/gates/:gate:U1:"+rid {
		t.Fatalf("unexpected key %q", k)
	}
	if k == buildKey("POST", "/requisitions/:requisition_id/gates/:gate", "U2", rid) {
		t.Fatal("keys for different actors collide")
	}
	if k == buildKey("PUT", "/requisitions/:requisition_id", "U1", rid) {
		t.Fatal("keys for different routes collide")
	}
}

func TestValidReqID(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"3f9a6a1b-3d54-4fbe-8b3a-6b3e8d6b2c88", true},
		{"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88", true},
		{" " + strings.Repeat("0", 32) + " ", true},
		{"", false},
		{strings.Repeat("A", 32), false},
		{strings.Repeat("a", 31), false},
		{strings.Repeat("a", 33), false},
		{strings.Repeat("g", 32), false},
		{"3F9A6A1B-3D54-4FBE-8B3A-6B3E8D6B2C88", false},
		{"3f9a6a1b-3d54-9fbe-8b3a-6b3e8d6b2c88", false},
	}
	for _, tt := range tests {
		if got := validReqID(tt.id); got != tt.want {
			t.Errorf("validReqID(%q) = %v, want %v", tt.id, got, tt.want)
		}
	}
}

func TestParseRequestAt(t *testing.T) {
	sec := time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC).Unix()
	ms := time.Date(2025, 9, 1, 9, 0, 0, 250e6, time.UTC).UnixMilli()

	tests := []struct {
		name    string
		raw     string
		want    time.Time
		wantErr bool
	}{
		{"epoch seconds", strconv.FormatInt(sec, 10), time.Unix(sec, 0).UTC(), false},
		{"epoch millis", strconv.FormatInt(ms, 10), time.UnixMilli(ms).UTC(), false},
		{"rfc3339 offset", "2025-09-01T04:00:00-05:00", time.Date(2025, 9, 1, 9, 0, 0, 0, time.UTC), false},
		{"rfc3339 nano", "2025-09-01T09:00:00.5Z", time.Date(2025, 9, 1, 9, 0, 0, 5e8, time.UTC), false},
		{"missing", "  ", time.Time{}, true},
		{"no zone", "2025-09-01T09:00:00", time.Time{}, true},
		{"garbage", "1756717200x", time.Time{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseRequestAt(tt.raw)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !got.Equal(tt.want) || got.Location() != time.UTC {
				t.Fatalf("got %v, want %v UTC", got, tt.want)
			}
		})
	}
}

func TestProvisionalLock_ExpiresAndBlocksSecondWriter(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()
	key := buildKey("POST", "/requisitions", "U1", strings.Repeat("b", 32))
	entry := idempEntry{InProgress: true, BodySHA256: bodyHash([]byte(`{}`)), RequestID: strings.Repeat("b", 32), CreatedAt: nowUTC()}

	ok, err := provisionalSet(ctx, rdb, key, entry)
	if err != nil || !ok {
		t.Fatalf("first lock: ok=%v err=%v", ok, err)
	}
	if ok, _ := provisionalSet(ctx, rdb, key, entry); ok {
		t.Fatal("second lock must not be granted")
	}
	got, err := loadEntry(ctx, rdb, key)
	if err != nil || !got.InProgress || got.RequestID != entry.RequestID {
		t.Fatalf("loadEntry = %+v, %v", got, err)
	}

	mr.FastForward(provisionalLockTTL + time.Second)
	if _, err := loadEntry(ctx, rdb, key); !errors.Is(err, redis.Nil) {
		t.Fatalf("lock should have expired, got %v", err)
	}
	if ok, _ := provisionalSet(ctx, rdb, key, entry); !ok {
		t.Fatal("lock should be available after expiry")
	}
}

func TestSaveFinal_ReplacesLockWithResponse(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()
	key := buildKey("POST", "/requisitions", "U1", strings.Repeat("c", 32))

	if _, err := provisionalSet(ctx, rdb, key, idempEntry{InProgress: true}); err != nil {
		t.Fatal(err)
	}
	final := idempEntry{Code: 201, Body: []byte(`{"status":"pendiente"}`), RequestID: strings.Repeat("c", 32), CreatedAt: nowUTC()}
	if err := saveFinal(ctx, rdb, key, final, time.Hour); err != nil {
		t.Fatalf("saveFinal: %v", err)
	}
	if ttl := mr.TTL(key); ttl != time.Hour {
		t.Fatalf("ttl = %v, want 1h", ttl)
	}
	got, err := loadEntry(ctx, rdb, key)
	if err != nil {
		t.Fatal(err)
	}
	if got.InProgress || got.Code != 201 || string(got.Body) != `{"status":"pendiente"}` {
		t.Fatalf("stored entry = %+v", got)
	}
}

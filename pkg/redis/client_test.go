package redis

import (
	"context"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type stubCmdable struct {
	keys map[string]bool
}

func newStubCmdable() *stubCmdable {
	return &stubCmdable{keys: map[string]bool{}}
}

func (s *stubCmdable) Ping(ctx context.Context) *goredis.StatusCmd {
	cmd := goredis.NewStatusCmd(ctx)
	cmd.SetVal("PONG")
	return cmd
}

func (s *stubCmdable) SetNX(ctx context.Context, key string, value any, ttl time.Duration) *goredis.BoolCmd {
	cmd := goredis.NewBoolCmd(ctx)
	if s.keys[key] {
		cmd.SetVal(false)
		return cmd
	}
	s.keys[key] = true
	cmd.SetVal(true)
	return cmd
}

func (s *stubCmdable) Del(ctx context.Context, keys ...string) *goredis.IntCmd {
	cmd := goredis.NewIntCmd(ctx)
	var removed int64
	for _, key := range keys {
		if s.keys[key] {
			delete(s.keys, key)
			removed++
		}
	}
	cmd.SetVal(removed)
	return cmd
}

func TestDeliveryKeyNamespacing(t *testing.T) {
	c := FromCmdable(newStubCmdable())
	key := c.DeliveryKey("inventory.reserve", 2, 42)
	if key != "inv:delivery:inventory.reserve:2:42" {
		t.Fatalf("unexpected key %q", key)
	}
}

func TestMarkDeliveryDetectsDuplicates(t *testing.T) {
	c := FromCmdable(newStubCmdable())
	ctx := context.Background()
	key := c.DeliveryKey("inventory.reserve", 0, 7)

	first, err := c.MarkDelivery(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("mark delivery: %v", err)
	}
	if !first {
		t.Fatal("first delivery should be marked as new")
	}

	second, err := c.MarkDelivery(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("mark delivery: %v", err)
	}
	if second {
		t.Fatal("second delivery should be reported as duplicate")
	}
}

func TestClearDeliveryAllowsRetry(t *testing.T) {
	c := FromCmdable(newStubCmdable())
	ctx := context.Background()
	key := c.DeliveryKey("inventory.release", 1, 3)

	if _, err := c.MarkDelivery(ctx, key, time.Minute); err != nil {
		t.Fatalf("mark delivery: %v", err)
	}
	if err := c.ClearDelivery(ctx, key); err != nil {
		t.Fatalf("clear delivery: %v", err)
	}
	again, err := c.MarkDelivery(ctx, key, time.Minute)
	if err != nil {
		t.Fatalf("mark delivery: %v", err)
	}
	if !again {
		t.Fatal("cleared delivery should be markable again")
	}
}

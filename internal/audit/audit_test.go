package audit

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestStreamRecorder_Record(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	rec := NewStreamRecorder(client, "remediation:audit", 100)
	rec.now = func() time.Time { return time.Date(2026, 10, 18, 12, 0, 0, 0, time.UTC) }

	err := rec.Record(ctx, Event{
		RequestID:  "req-1",
		Action:     "scale",
		Namespace:  "default",
		Deployment: "frontend",
		Status:     "success",
		Code:       200,
		Message:    "Horizontal scaling applied: 'frontend' set to 4 replicas.",
	})
	require.NoError(t, err)

	entries, err := client.XRange(ctx, "remediation:audit", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 1)

	values := entries[0].Values
	assert.NotEmpty(t, values["id"])
	assert.Equal(t, "2026-10-18T12:00:00Z", values["time"])
	assert.Equal(t, "req-1", values["request_id"])
	assert.Equal(t, "scale", values["action"])
	assert.Equal(t, "default", values["namespace"])
	assert.Equal(t, "frontend", values["deployment"])
	assert.Equal(t, "success", values["status"])
	assert.Equal(t, "200", values["code"])
	assert.Equal(t, "Horizontal scaling applied: 'frontend' set to 4 replicas.", values["message"])
}

func TestStreamRecorder_KeepsGivenID(t *testing.T) {
	ctx := context.Background()
	client := newTestRedis(t)
	rec := NewStreamRecorder(client, "audit", 0)

	require.NoError(t, rec.Record(ctx, Event{ID: "fixed-id", Action: "status", Status: "failure", Code: 500}))
	require.NoError(t, rec.Record(ctx, Event{Action: "restart", Status: "success", Code: 200}))

	entries, err := client.XRange(ctx, "audit", "-", "+").Result()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "fixed-id", entries[0].Values["id"])
	assert.NotEqual(t, "fixed-id", entries[1].Values["id"])
}

func TestStreamRecorder_RedisDown(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	mr.Close()

	err := NewStreamRecorder(client, "remediation:audit", 10).Record(context.Background(), Event{Action: "scale"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "remediation:audit")
}

func TestNop(t *testing.T) {
	assert.NoError(t, Nop{}.Record(context.Background(), Event{}))
}

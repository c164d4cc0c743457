package scheduler

import (
	"context"
	"testing"
	"time"

	"dualshot/config"
	"dualshot/pkg/websocket"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticPrompt string

func (p staticPrompt) Get(context.Context) (string, error) { return string(p), nil }

type broadcast struct {
	eventType string
	data      interface{}
}

type chanBroadcaster chan broadcast

func (c chanBroadcaster) Broadcast(eventType string, data interface{}) int {
	c <- broadcast{eventType: eventType, data: data}
	return 1
}

func newTestScheduler(hub Broadcaster) *PromptScheduler {
	return NewPromptScheduler(config.PromptConfig{
		Schedule:    "0 9 * * *",
		WindowStart: 9,
		WindowEnd:   21,
	}, staticPrompt("Time to post"), hub)
}

func at(hour, minute int) time.Time {
	return time.Date(2024, 5, 1, hour, minute, 0, 0, time.Local)
}

func TestNextMomentWindow(t *testing.T) {
	s := newTestScheduler(nil)

	s.randN = func(int64) int64 { return 0 }
	m, ok := s.NextMoment(at(7, 0))
	require.True(t, ok)
	assert.Equal(t, at(9, 0), m)

	var span int64
	s.randN = func(n int64) int64 { span = n; return n - 1 }
	m, ok = s.NextMoment(at(7, 0))
	require.True(t, ok)
	assert.Equal(t, int64(12*3600), span)
	assert.Equal(t, at(20, 59).Add(59*time.Second), m)

	// 窗口已开始时从当前时刻起算
	s.randN = func(int64) int64 { return 0 }
	m, ok = s.NextMoment(at(15, 30))
	require.True(t, ok)
	assert.Equal(t, at(15, 30), m)

	_, ok = s.NextMoment(at(21, 0))
	assert.False(t, ok)
}

func TestPlanTodayOnlyOnce(t *testing.T) {
	s := newTestScheduler(chanBroadcaster(make(chan broadcast, 1)))
	s.now = func() time.Time { return at(7, 0) }
	s.randN = func(int64) int64 { return 3600 }
	defer s.Stop()

	s.PlanToday()
	assert.Equal(t, at(10, 0), s.Moment())

	s.randN = func(int64) int64 { return 7200 }
	s.PlanToday()
	assert.Equal(t, at(10, 0), s.Moment(), "同一天不应重新安排")
}

func TestPlanTodaySkipsAfterWindow(t *testing.T) {
	s := newTestScheduler(nil)
	s.now = func() time.Time { return at(22, 0) }
	s.PlanToday()
	assert.True(t, s.Moment().IsZero())
}

func TestFireBroadcastsPrompt(t *testing.T) {
	hub := chanBroadcaster(make(chan broadcast, 1))
	s := newTestScheduler(hub)
	s.now = func() time.Time { return at(20, 0) }
	s.randN = func(int64) int64 { return 0 }
	defer s.Stop()

	s.PlanToday()

	select {
	case b := <-hub:
		assert.Equal(t, websocket.EventDailyPrompt, b.eventType)
		assert.Equal(t, map[string]interface{}{"prompt": "Time to post", "date": "2024-05-01"}, b.data)
	case <-time.After(2 * time.Second):
		t.Fatal("等待推送超时")
	}
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewPromptScheduler(config.PromptConfig{Schedule: "not a cron", WindowStart: 9, WindowEnd: 21}, staticPrompt("x"), nil)
	assert.Error(t, s.Start())
}

package scheduler

import (
	"context"
	"math/rand/v2"
	"sync"
	"time"

	"dualshot/config"
	"dualshot/pkg/logger"
	"dualshot/pkg/websocket"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Broadcaster 向所有在线连接推送
type Broadcaster interface {
	Broadcast(eventType string, data interface{}) int
}

// PromptSource 读取当前的每日提示
type PromptSource interface {
	Get(ctx context.Context) (string, error)
}

// PromptScheduler 每天在推送窗口内随机挑一个时刻广播每日提示
type PromptScheduler struct {
	cfg     config.PromptConfig
	prompts PromptSource
	hub     Broadcaster
	cron    *cron.Cron

	now   func() time.Time
	randN func(n int64) int64

	mu     sync.Mutex
	timer  *time.Timer
	moment time.Time
}

// NewPromptScheduler 创建调度器
func NewPromptScheduler(cfg config.PromptConfig, prompts PromptSource, hub Broadcaster) *PromptScheduler {
	return &PromptScheduler{
		cfg:     cfg,
		prompts: prompts,
		hub:     hub,
		cron:    cron.New(cron.WithLocation(time.Local)),
		now:     time.Now,
		randN:   rand.Int64N,
	}
}

// Start 注册每日任务；如果启动时今天的窗口还没结束，也为今天安排一次
func (s *PromptScheduler) Start() error {
	if _, err := s.cron.AddFunc(s.cfg.Schedule, s.PlanToday); err != nil {
		return err
	}
	s.cron.Start()
	s.PlanToday()
	return nil
}

// Stop 停止调度并取消尚未触发的推送
func (s *PromptScheduler) Stop() {
	<-s.cron.Stop().Done()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

// NextMoment 在 [max(now, 窗口开始), 窗口结束) 内随机取一个时刻
// 今天的窗口已结束时返回 false
func (s *PromptScheduler) NextMoment(now time.Time) (time.Time, bool) {
	now = now.In(time.Local)
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.Local)
	start := day.Add(time.Duration(s.cfg.WindowStart) * time.Hour)
	end := day.Add(time.Duration(s.cfg.WindowEnd) * time.Hour)
	if !now.Before(end) {
		return time.Time{}, false
	}
	if now.After(start) {
		start = now
	}
	span := int64(end.Sub(start) / time.Second)
	if span <= 0 {
		return start, true
	}
	return start.Add(time.Duration(s.randN(span)) * time.Second), true
}

// PlanToday 为今天安排一次推送，已安排过的不重复安排
func (s *PromptScheduler) PlanToday() {
	now := s.now()
	moment, ok := s.NextMoment(now)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sameDay(s.moment, moment) {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.moment = moment
	s.timer = time.AfterFunc(moment.Sub(now), s.Fire)
	logger.Info("每日提示推送时间已确定", zap.Time("moment", moment))
}

// Moment 今天已安排的推送时刻
func (s *PromptScheduler) Moment() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.moment
}

// Fire 立即广播当前的每日提示
func (s *PromptScheduler) Fire() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	prompt, err := s.prompts.Get(ctx)
	if err != nil {
		logger.Error("读取每日提示失败", zap.Error(err))
		return
	}
	sent := s.hub.Broadcast(websocket.EventDailyPrompt, map[string]interface{}{
		"prompt": prompt,
		"date":   s.now().Format("2006-01-02"),
	})
	logger.Info("每日提示已推送", zap.String("prompt", prompt), zap.Int("clients", sent))
}

func sameDay(a, b time.Time) bool {
	if a.IsZero() || b.IsZero() {
		return false
	}
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

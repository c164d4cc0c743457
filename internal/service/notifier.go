package service

import "context"

// Notifier 向在线账号推送事件，未配置时为 nil
type Notifier interface {
	Notify(userID uint, eventType string, data interface{})
}

// PromptCache 每日提示的读穿缓存，未启用Redis时为 nil
type PromptCache interface {
	GetPrompt(ctx context.Context) (string, bool, error)
	SetPrompt(ctx context.Context, prompt string) error
	InvalidatePrompt(ctx context.Context) error
}

// Observer 业务指标，可为 nil
type Observer interface {
	ObserveNotification(eventType string)
}

func notify(n Notifier, o Observer, userID uint, eventType string, data interface{}) {
	if n == nil {
		return
	}
	n.Notify(userID, eventType, data)
	if o != nil {
		o.ObserveNotification(eventType)
	}
}

package redis

import (
	"context"
	"fmt"
	"time"
)

// 离线通知相关常量
const (
	OfflineEventsKeyPrefix = "dualshot:offline:" // 离线通知key前缀
	OfflineEventsTTL       = 7 * 24 * time.Hour  // 7天过期
	OfflineEventsMax       = 100                 // 每个账号最多保存条数
)

func offlineKey(userID uint) string {
	return fmt.Sprintf("%s%d", OfflineEventsKeyPrefix, userID)
}

// PushOffline 保存一条离线通知（最新的在列表头部）
func (c *Client) PushOffline(ctx context.Context, userID uint, payload []byte) error {
	if c == nil || c.rdb == nil {
		return ErrNotInitialized
	}
	key := offlineKey(userID)

	pipe := c.rdb.Pipeline()
	pipe.LPush(ctx, key, payload)
	pipe.Expire(ctx, key, OfflineEventsTTL)
	pipe.LTrim(ctx, key, 0, OfflineEventsMax-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("添加离线通知失败: %w", err)
	}
	return nil
}

// PopOffline 取出并清空离线通知，按产生顺序返回
func (c *Client) PopOffline(ctx context.Context, userID uint) ([][]byte, error) {
	if c == nil || c.rdb == nil {
		return nil, ErrNotInitialized
	}
	key := offlineKey(userID)

	pipe := c.rdb.TxPipeline()
	rangeCmd := pipe.LRange(ctx, key, 0, -1)
	pipe.Del(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("获取离线通知失败: %w", err)
	}

	items := rangeCmd.Val()
	out := make([][]byte, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, []byte(items[i]))
	}
	return out, nil
}

// OfflineCount 离线通知数量
func (c *Client) OfflineCount(ctx context.Context, userID uint) (int64, error) {
	if c == nil || c.rdb == nil {
		return 0, ErrNotInitialized
	}
	n, err := c.rdb.LLen(ctx, offlineKey(userID)).Result()
	if err != nil {
		return 0, fmt.Errorf("获取离线通知数量失败: %w", err)
	}
	return n, nil
}

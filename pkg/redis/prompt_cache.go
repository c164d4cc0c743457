package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// PromptKey 每日提示缓存key
const PromptKey = "dualshot:meta:daily_prompt"

// GetPrompt 读取缓存的每日提示，未命中时第二个返回值为 false
func (c *Client) GetPrompt(ctx context.Context) (string, bool, error) {
	if c == nil || c.rdb == nil {
		return "", false, ErrNotInitialized
	}
	v, err := c.rdb.Get(ctx, PromptKey).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("读取每日提示缓存失败: %w", err)
	}
	return v, true, nil
}

// SetPrompt 写入每日提示缓存
func (c *Client) SetPrompt(ctx context.Context, prompt string) error {
	if c == nil || c.rdb == nil {
		return ErrNotInitialized
	}
	if err := c.rdb.Set(ctx, PromptKey, prompt, c.promptTTL).Err(); err != nil {
		return fmt.Errorf("写入每日提示缓存失败: %w", err)
	}
	return nil
}

// InvalidatePrompt 删除每日提示缓存
func (c *Client) InvalidatePrompt(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return ErrNotInitialized
	}
	if err := c.rdb.Del(ctx, PromptKey).Err(); err != nil {
		return fmt.Errorf("删除每日提示缓存失败: %w", err)
	}
	return nil
}

package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"dualshot/config"

	"github.com/redis/go-redis/v9"
)

// ErrNotInitialized 客户端未初始化
var ErrNotInitialized = errors.New("redis客户端未初始化")

// Client 封装 go-redis 客户端
type Client struct {
	rdb       *redis.Client
	promptTTL time.Duration
}

// New 按配置连接Redis并测试连通性
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		// 连接池配置
		PoolSize:     10,              // 连接池大小
		MinIdleConns: 5,               // 最小空闲连接
		MaxRetries:   3,               // 最大重试次数
		DialTimeout:  5 * time.Second, // 连接超时
		ReadTimeout:  3 * time.Second, // 读超时
		WriteTimeout: 3 * time.Second, // 写超时
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis连接失败: %w", err)
	}

	return NewFromClient(rdb, cfg.PromptTTL), nil
}

// NewFromClient 使用已有的 go-redis 客户端
func NewFromClient(rdb *redis.Client, promptTTL time.Duration) *Client {
	if promptTTL <= 0 {
		promptTTL = 10 * time.Minute
	}
	return &Client{rdb: rdb, promptTTL: promptTTL}
}

// Close 关闭Redis连接
func (c *Client) Close() error {
	if c == nil || c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

// HealthCheck 检查Redis健康状态
func (c *Client) HealthCheck(ctx context.Context) error {
	if c == nil || c.rdb == nil {
		return ErrNotInitialized
	}
	if err := c.rdb.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis连接异常: %w", err)
	}
	return nil
}

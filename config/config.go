package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigPath 默认配置文件路径
const DefaultConfigPath = "config/config.yaml"

// Config 应用配置结构体
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	JWT        JWTConfig        `yaml:"jwt"`
	Log        LogConfig        `yaml:"log"`
	Redis      RedisConfig      `yaml:"redis"`
	WebSocket  WebSocketConfig  `yaml:"websocket"`
	Upload     UploadConfig     `yaml:"upload"`
	Compositor CompositorConfig `yaml:"compositor"`
	Prompt     PromptConfig     `yaml:"prompt"`
	RateLimit  RateLimitConfig  `yaml:"rateLimit"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port         string        `yaml:"port"`         // 服务器监听端口
	Mode         string        `yaml:"mode"`         // gin 运行模式 debug/release/test
	ReadTimeout  time.Duration `yaml:"readTimeout"`  // 读取超时时间
	WriteTimeout time.Duration `yaml:"writeTimeout"` // 写入超时时间
	IdleTimeout  time.Duration `yaml:"idleTimeout"`  // 空闲超时时间
}

// DatabaseConfig 数据库配置
// Driver 支持 sqlite / mysql / postgres；DSN 非空时直接使用
type DatabaseConfig struct {
	Driver   string `yaml:"driver"`   // 数据库驱动类型
	DSN      string `yaml:"dsn"`      // 完整连接串（优先）
	Path     string `yaml:"path"`     // sqlite 数据文件路径
	Host     string `yaml:"host"`     // 数据库主机地址
	Port     int    `yaml:"port"`     // 数据库端口
	Username string `yaml:"username"` // 数据库用户名
	Password string `yaml:"password"` // 数据库密码
	Database string `yaml:"database"` // 数据库名称
	Charset  string `yaml:"charset"`  // 字符集
	MaxIdle  int    `yaml:"maxIdle"`  // 最大空闲连接数
	MaxOpen  int    `yaml:"maxOpen"`  // 最大打开连接数
	LogSQL   bool   `yaml:"logSQL"`   // 是否打印SQL
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret     string        `yaml:"secret"`     // JWT密钥
	ExpireTime time.Duration `yaml:"expireTime"` // JWT过期时间
	Issuer     string        `yaml:"issuer"`     // JWT签发者
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `yaml:"level"`      // 日志级别
	Filename   string `yaml:"filename"`   // 日志文件名
	MaxSize    int    `yaml:"maxSize"`    // 单个日志文件最大大小(MB)
	MaxBackups int    `yaml:"maxBackups"` // 最大备份文件数
	MaxAge     int    `yaml:"maxAge"`     // 最大保存天数
	Compress   bool   `yaml:"compress"`   // 是否压缩
	Console    bool   `yaml:"console"`    // 同时输出到标准输出
}

// RedisConfig Redis配置
type RedisConfig struct {
	Enabled   bool          `yaml:"enabled"`   // 是否启用（未启用时直接读库，不保存离线通知）
	Host      string        `yaml:"host"`      // Redis主机地址
	Port      int           `yaml:"port"`      // Redis端口
	Password  string        `yaml:"password"`  // Redis密码
	DB        int           `yaml:"db"`        // Redis数据库编号
	PromptTTL time.Duration `yaml:"promptTTL"` // 每日提示缓存时间
}

// WebSocketConfig WebSocket 心跳配置
type WebSocketConfig struct {
	PingInterval time.Duration `yaml:"pingInterval"` // 发送ping的间隔
	ReadTimeout  time.Duration `yaml:"readTimeout"`  // 读超时时间（未收到任何数据则断开）
}

// UploadConfig 上传文件配置
type UploadConfig struct {
	Root        string `yaml:"root"`        // 上传文件根目录
	URLPrefix   string `yaml:"urlPrefix"`   // 对外访问前缀
	MaxFileSize int64  `yaml:"maxFileSize"` // 单个文件大小上限(字节)
}

// CompositorConfig 拼图配置
type CompositorConfig struct {
	Workers int `yaml:"workers"` // 同时进行的拼图任务数
}

// PromptConfig 每日提示配置
type PromptConfig struct {
	Default     string `yaml:"default"`     // 没有记录时的默认提示
	Schedule    string `yaml:"schedule"`    // 每天挑选推送时刻的 cron 表达式
	WindowStart int    `yaml:"windowStart"` // 推送窗口开始（小时）
	WindowEnd   int    `yaml:"windowEnd"`   // 推送窗口结束（小时）
	Enabled     bool   `yaml:"enabled"`     // 是否启用定时推送
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerSecond int  `yaml:"requestsPerSecond"`
	Burst             int  `yaml:"burst"`
}

// LoadConfig 加载配置（混合方式：YAML文件 + .env + 环境变量）
func LoadConfig() *Config {
	return LoadConfigFrom(getEnv("CONFIG_FILE", DefaultConfigPath))
}

// LoadConfigFrom 从指定路径加载配置
func LoadConfigFrom(filePath string) *Config {
	// 1. 默认配置之上叠加YAML文件
	config := loadFromYAML(filePath)

	// 2. .env 文件中的变量写入进程环境（已存在的环境变量不会被覆盖）
	_ = godotenv.Load()

	// 3. 用环境变量覆盖配置（环境变量优先级更高）
	overrideWithEnvVars(config)

	return config
}

// loadFromYAML 从YAML文件加载配置
func loadFromYAML(filePath string) *Config {
	config := getDefaultConfig()

	data, err := os.ReadFile(filePath)
	if err != nil {
		// 如果文件不存在，返回默认配置
		return config
	}

	// 解析到默认配置上，文件里没写的字段保留默认值
	if err := yaml.Unmarshal(data, config); err != nil {
		return getDefaultConfig()
	}

	return config
}

// Validate 校验配置
func (c *Config) Validate() error {
	var errs []error
	switch c.Database.Driver {
	case "sqlite", "mysql", "postgres":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}
	if c.JWT.Secret == "" {
		errs = append(errs, errors.New("jwt secret is required"))
	}
	if c.JWT.ExpireTime <= 0 {
		errs = append(errs, errors.New("jwt expire time must be positive"))
	}
	if c.Upload.Root == "" {
		errs = append(errs, errors.New("upload root is required"))
	}
	if c.Upload.MaxFileSize <= 0 {
		errs = append(errs, errors.New("upload max file size must be positive"))
	}
	if c.Compositor.Workers <= 0 {
		errs = append(errs, errors.New("compositor workers must be positive"))
	}
	if c.Prompt.WindowStart < 0 || c.Prompt.WindowEnd > 24 || c.Prompt.WindowStart >= c.Prompt.WindowEnd {
		errs = append(errs, fmt.Errorf("invalid prompt window %d-%d", c.Prompt.WindowStart, c.Prompt.WindowEnd))
	}
	return errors.Join(errs...)
}

// overrideWithEnvVars 用环境变量覆盖配置
func overrideWithEnvVars(config *Config) {
	// 服务器配置
	if port := getEnv("SERVER_PORT", ""); port != "" {
		config.Server.Port = port
	}
	if mode := getEnv("GIN_MODE", ""); mode != "" {
		config.Server.Mode = mode
	}
	if timeout := getEnvDuration("SERVER_READ_TIMEOUT", 0); timeout > 0 {
		config.Server.ReadTimeout = timeout
	}
	if timeout := getEnvDuration("SERVER_WRITE_TIMEOUT", 0); timeout > 0 {
		config.Server.WriteTimeout = timeout
	}
	if timeout := getEnvDuration("SERVER_IDLE_TIMEOUT", 0); timeout > 0 {
		config.Server.IdleTimeout = timeout
	}

	// 数据库配置
	if driver := getEnv("DB_DRIVER", ""); driver != "" {
		config.Database.Driver = driver
	}
	if dsn := getEnv("DB_DSN", ""); dsn != "" {
		config.Database.DSN = dsn
	}
	if path := getEnv("DB_PATH", ""); path != "" {
		config.Database.Path = path
	}
	if host := getEnv("DB_HOST", ""); host != "" {
		config.Database.Host = host
	}
	if port := getEnvInt("DB_PORT", 0); port > 0 {
		config.Database.Port = port
	}
	if username := getEnv("DB_USERNAME", ""); username != "" {
		config.Database.Username = username
	}
	if password := getEnv("DB_PASSWORD", ""); password != "" {
		config.Database.Password = password
	}
	if database := getEnv("DB_DATABASE", ""); database != "" {
		config.Database.Database = database
	}
	if maxIdle := getEnvInt("DB_MAX_IDLE", 0); maxIdle > 0 {
		config.Database.MaxIdle = maxIdle
	}
	if maxOpen := getEnvInt("DB_MAX_OPEN", 0); maxOpen > 0 {
		config.Database.MaxOpen = maxOpen
	}
	config.Database.LogSQL = getEnvBool("DB_LOG_SQL", config.Database.LogSQL)

	// JWT配置
	if secret := getEnv("JWT_SECRET", ""); secret != "" {
		config.JWT.Secret = secret
	}
	if expireTime := getEnvDuration("JWT_EXPIRE_TIME", 0); expireTime > 0 {
		config.JWT.ExpireTime = expireTime
	}
	if issuer := getEnv("JWT_ISSUER", ""); issuer != "" {
		config.JWT.Issuer = issuer
	}

	// 日志配置
	if level := getEnv("LOG_LEVEL", ""); level != "" {
		config.Log.Level = level
	}
	if filename := getEnv("LOG_FILENAME", ""); filename != "" {
		config.Log.Filename = filename
	}
	config.Log.Console = getEnvBool("LOG_CONSOLE", config.Log.Console)

	// Redis配置
	config.Redis.Enabled = getEnvBool("REDIS_ENABLED", config.Redis.Enabled)
	if host := getEnv("REDIS_HOST", ""); host != "" {
		config.Redis.Host = host
	}
	if port := getEnvInt("REDIS_PORT", 0); port > 0 {
		config.Redis.Port = port
	}
	if password := getEnv("REDIS_PASSWORD", ""); password != "" {
		config.Redis.Password = password
	}
	if db := getEnvInt("REDIS_DB", -1); db >= 0 {
		config.Redis.DB = db
	}

	// WebSocket配置
	if d := getEnvDuration("WS_PING_INTERVAL", 0); d > 0 {
		config.WebSocket.PingInterval = d
	}
	if d := getEnvDuration("WS_READ_TIMEOUT", 0); d > 0 {
		config.WebSocket.ReadTimeout = d
	}

	// 上传与拼图
	if root := getEnv("UPLOAD_ROOT", ""); root != "" {
		config.Upload.Root = root
	}
	if size := getEnvInt("UPLOAD_MAX_FILE_SIZE", 0); size > 0 {
		config.Upload.MaxFileSize = int64(size)
	}
	if workers := getEnvInt("COMPOSITOR_WORKERS", 0); workers > 0 {
		config.Compositor.Workers = workers
	}

	// 每日提示
	config.Prompt.Enabled = getEnvBool("PROMPT_SCHEDULE_ENABLED", config.Prompt.Enabled)
	if schedule := getEnv("PROMPT_SCHEDULE", ""); schedule != "" {
		config.Prompt.Schedule = schedule
	}

	// 限流
	config.RateLimit.Enabled = getEnvBool("RATE_LIMIT_ENABLED", config.RateLimit.Enabled)
	if rps := getEnvInt("RATE_LIMIT_RPS", 0); rps > 0 {
		config.RateLimit.RequestsPerSecond = rps
	}
}

// getDefaultConfig 获取默认配置
func getDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "3000",
			Mode:         "release",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		Database: DatabaseConfig{
			Driver:   "sqlite",
			Path:     "data/dualshot.db",
			Host:     "localhost",
			Port:     3306,
			Username: "dualshot",
			Database: "dualshot",
			Charset:  "utf8mb4",
			MaxIdle:  10,
			MaxOpen:  100,
		},
		JWT: JWTConfig{
			Secret:     "change-me-in-production",
			ExpireTime: 7 * 24 * time.Hour,
			Issuer:     "dualshot",
		},
		Log: LogConfig{
			Level:      "info",
			Filename:   "logs/app.log",
			MaxSize:    100,
			MaxBackups: 3,
			MaxAge:     7,
			Compress:   true,
		},
		Redis: RedisConfig{
			Host:      "localhost",
			Port:      6379,
			DB:        0,
			PromptTTL: 10 * time.Minute,
		},
		WebSocket: WebSocketConfig{
			PingInterval: 30 * time.Second,
			ReadTimeout:  90 * time.Second,
		},
		Upload: UploadConfig{
			Root:        "uploads",
			URLPrefix:   "/uploads",
			MaxFileSize: 10 << 20,
		},
		Compositor: CompositorConfig{
			Workers: 4,
		},
		Prompt: PromptConfig{
			Default:     "Time to BeReal! Capture your moment.",
			Schedule:    "0 9 * * *",
			WindowStart: 9,
			WindowEnd:   21,
			Enabled:     true,
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 20,
			Burst:             40,
		},
	}
}

// 辅助函数：获取环境变量，如果不存在则返回默认值
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// 辅助函数：获取整数环境变量
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// 辅助函数：获取布尔环境变量
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

// 辅助函数：获取时间环境变量
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Default 返回默认配置的副本，供测试和命令行工具使用
func Default() *Config {
	return getDefaultConfig()
}

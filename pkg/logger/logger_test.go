package logger

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"dualshot/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func observe(t *testing.T, level zapcore.Level) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(level)
	SetLogger(zap.New(core))
	t.Cleanup(func() { SetLogger(nil) })
	return logs
}

func TestGetLogLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, getLogLevel("debug"))
	assert.Equal(t, zapcore.WarnLevel, getLogLevel("warn"))
	assert.Equal(t, zapcore.InfoLevel, getLogLevel("verbose"))
	assert.Equal(t, zapcore.InfoLevel, getLogLevel(""))
}

func TestPackageFunctionsRespectLevel(t *testing.T) {
	logs := observe(t, zapcore.InfoLevel)

	Debug("hidden")
	Info("shown", zap.Int("n", 1))
	Warn("careful")
	Error("broken")

	require.Equal(t, 3, logs.Len())
	assert.Equal(t, "shown", logs.All()[0].Message)
	assert.Equal(t, int64(1), logs.All()[0].ContextMap()["n"])
}

func TestInitLoggerWritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "app.log")
	InitLogger(config.LogConfig{Level: "info", Filename: path, MaxSize: 1})
	t.Cleanup(func() { SetLogger(nil) })

	Info("hello file")
	_ = log.Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello file"`)
}

func TestLoggerMiddlewareLevels(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observe(t, zapcore.DebugLevel)

	r := gin.New()
	r.Use(ErrorLoggerMiddleware(), LoggerMiddleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/bad", func(c *gin.Context) { c.Status(http.StatusBadRequest) })
	r.GET("/panic", func(c *gin.Context) { panic("boom") })

	for _, path := range []string{"/ok", "/bad", "/panic"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	levels := map[string]zapcore.Level{}
	for _, e := range logs.FilterMessageSnippet("HTTP请求").All() {
		if e.Message == "HTTP请求发生panic" {
			continue
		}
		levels[e.ContextMap()["path"].(string)] = e.Level
	}
	assert.Equal(t, map[string]zapcore.Level{
		"/ok":  zapcore.InfoLevel,
		"/bad": zapcore.WarnLevel,
	}, levels)

	panics := logs.FilterMessage("HTTP请求发生panic").All()
	require.Len(t, panics, 1)
	assert.Equal(t, "/panic", panics[0].ContextMap()["path"])
	assert.Equal(t, "boom", panics[0].ContextMap()["error"])
}

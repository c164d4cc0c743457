// Package testutil 测试用的数据库与图片工具
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"dualshot/config"
	"dualshot/internal/model"
	dbPkg "dualshot/pkg/db"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB 在临时目录中创建已迁移的 sqlite 数据库
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	db, err := dbPkg.InitDB(config.DatabaseConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	require.NoError(t, dbPkg.AutoMigrate(db, model.All()...))
	t.Cleanup(func() { _ = dbPkg.Close(db) })
	return db
}

// PNG 生成 w*h 的纯色PNG
func PNG(t testing.TB, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// WritePNG 把PNG写入 path
func WritePNG(t testing.TB, path string, w, h int, c color.Color) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, PNG(t, w, h, c), 0644))
}

// DecodeSize 读取图片尺寸
func DecodeSize(t testing.TB, path string) image.Point {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return image.Pt(cfg.Width, cfg.Height)
}

// CreateUser 直接写入一个账号
func CreateUser(t testing.TB, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		Email:        username + "@example.com",
		Username:     username,
		DisplayName:  username,
		PasswordHash: "x",
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

// Befriend 写入 a<->b 的双向 accepted 关系
func Befriend(t testing.TB, db *gorm.DB, a, b uint) {
	t.Helper()
	require.NoError(t, db.Create(&model.Friendship{UserID: a, FriendID: b, Status: model.FriendshipAccepted}).Error)
	require.NoError(t, db.Create(&model.Friendship{UserID: b, FriendID: a, Status: model.FriendshipAccepted}).Error)
}

package storage

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalStore 把上传文件保存在本地目录，通过 URLPrefix 对外提供
type LocalStore struct {
	root      string
	urlPrefix string
}

// NewLocalStore 创建本地存储，目录不存在时自动创建
func NewLocalStore(root, urlPrefix string) (*LocalStore, error) {
	if root == "" {
		return nil, errors.New("upload root is required")
	}
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, fmt.Errorf("创建上传目录失败: %w", err)
	}
	return &LocalStore{root: root, urlPrefix: "/" + strings.Trim(urlPrefix, "/")}, nil
}

// Root 上传根目录
func (s *LocalStore) Root() string {
	return s.root
}

// URLPrefix 对外访问前缀
func (s *LocalStore) URLPrefix() string {
	return s.urlPrefix
}

// NewName 生成不会冲突的文件名，保留扩展名
func (s *LocalStore) NewName(prefix, ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return prefix + "-" + uuid.NewString() + ext
}

// Path 文件名对应的本地路径
func (s *LocalStore) Path(name string) string {
	return filepath.Join(s.root, filepath.Base(name))
}

// URL 文件名对应的访问路径
func (s *LocalStore) URL(name string) string {
	return path.Join(s.urlPrefix, filepath.Base(name))
}

// Save 写入文件，失败时删除残留
func (s *LocalStore) Save(name string, r io.Reader) error {
	dst := s.Path(name)
	f, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		return fmt.Errorf("创建文件失败: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(dst)
		return fmt.Errorf("写入文件失败: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(dst)
		return fmt.Errorf("关闭文件失败: %w", err)
	}
	return nil
}

// Remove 尽力删除文件，返回遇到的错误
func (s *LocalStore) Remove(names ...string) error {
	var errs []error
	for _, name := range names {
		if name == "" {
			continue
		}
		if err := os.Remove(s.Path(name)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

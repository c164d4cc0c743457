package sanitize

import (
	"html"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// Text 去掉HTML标签和空字节，截断到 maxRunes 个字符，结果按纯文本存储
func Text(input string, maxRunes int) string {
	input = strings.ReplaceAll(input, "\x00", "")
	input = html.UnescapeString(strictPolicy.Sanitize(input))
	input = strings.TrimSpace(input)
	if maxRunes > 0 && utf8.RuneCountInString(input) > maxRunes {
		input = strings.TrimSpace(string([]rune(input)[:maxRunes]))
	}
	return input
}

// ImageExt 返回文件名中允许的图片扩展名，其他情况返回空串
func ImageExt(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".jpg", ".jpeg", ".png", ".gif", ".bmp", ".tif", ".tiff", ".webp", ".heic":
		return ext
	}
	return ""
}

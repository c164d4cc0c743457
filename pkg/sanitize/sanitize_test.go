package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestText(t *testing.T) {
	tests := []struct {
		name  string
		input string
		max   int
		want  string
	}{
		{"plain", "hi", 10, "hi"},
		{"trim", "  hi  ", 10, "hi"},
		{"strip tags", "<b>hello</b><script>alert(1)</script>", 50, "hello"},
		{"keep ampersand", "fish & chips", 50, "fish & chips"},
		{"null bytes", "a\x00b", 10, "ab"},
		{"truncate runes", "你好世界", 2, "你好"},
		{"no limit", "abcdef", 0, "abcdef"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Text(tt.input, tt.max))
		})
	}
}

func TestImageExt(t *testing.T) {
	assert.Equal(t, ".jpg", ImageExt("IMG_0001.JPG"))
	assert.Equal(t, ".png", ImageExt("front.png"))
	assert.Equal(t, "", ImageExt("blob"))
	assert.Equal(t, "", ImageExt("evil.exe"))
}

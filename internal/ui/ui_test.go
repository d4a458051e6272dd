package ui

import (
	"bytes"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// capture 把输出和输入切换到内存缓冲区
func capture(t *testing.T, input string) *bytes.Buffer {
	t.Helper()
	buf := &bytes.Buffer{}
	prevOut := out
	SetNoColor(true)
	SetOutput(buf)
	SetInput(strings.NewReader(input))
	t.Cleanup(func() { SetOutput(prevOut) })
	return buf
}

func TestConfirm(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		defaultYes bool
		want       bool
	}{
		{"yes", "y\n", false, true},
		{"full yes", "YES\n", false, true},
		{"empty defaults to no", "\n", false, false},
		{"empty defaults to yes", "\n", true, true},
		{"explicit no", "n\n", true, false},
		{"eof declines", "", true, false},
		{"last line without newline", "y", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			capture(t, tt.input)
			assert.Equal(t, tt.want, Confirm("继续?", tt.defaultYes))
		})
	}
}

func TestSelect(t *testing.T) {
	choices := []string{"在原地平铺", "退出"}

	t.Run("by number", func(t *testing.T) {
		capture(t, "2\n")
		idx, err := Select("怎么办?", choices)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
	})

	t.Run("by text", func(t *testing.T) {
		capture(t, "退出\n")
		idx, err := Select("怎么办?", choices)
		require.NoError(t, err)
		assert.Equal(t, 1, idx)
	})

	t.Run("retries invalid input", func(t *testing.T) {
		buf := capture(t, "9\nabc\n1\n")
		idx, err := Select("怎么办?", choices)
		require.NoError(t, err)
		assert.Equal(t, 0, idx)
		assert.Contains(t, buf.String(), "无效的选择")
	})

	t.Run("gives up after three attempts", func(t *testing.T) {
		capture(t, "x\ny\nz\n1\n")
		_, err := Select("怎么办?", choices)
		assert.Error(t, err)
	})

	t.Run("eof", func(t *testing.T) {
		capture(t, "")
		_, err := Select("怎么办?", choices)
		assert.ErrorIs(t, err, ErrNoInput)
	})
}

func TestPromptsShareInput(t *testing.T) {
	capture(t, "1\ny\n")
	idx, err := Select("怎么办?", []string{"a", "b"})
	require.NoError(t, err)
	assert.Equal(t, 0, idx)
	assert.True(t, Confirm("继续?", false))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "2.0 MB", FormatSize(2*1024*1024))
	assert.Equal(t, "1.0 GB", FormatSize(1024*1024*1024))
}

func TestDisplayWidth(t *testing.T) {
	assert.Equal(t, 3, displayWidth("abc"))
	assert.Equal(t, 4, displayWidth("目录"))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcdefg...", Truncate("abcdefghijklmnop", 10))

	// 按字符截断，不拆分多字节字符
	path := "/home/用户/照片/二零二四年/旅行/海边"
	got := Truncate(path, 12)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "/home/用户/...", got)
	assert.Equal(t, "照片", Truncate("照片", 2))
	assert.Equal(t, "照片", Truncate("照片目录", 2))
}

func TestSetVerbose(t *testing.T) {
	defer SetVerbose(false)
	SetVerbose(true)
	assert.True(t, Verbose())
	SetVerbose(false)
	assert.False(t, Verbose())
}

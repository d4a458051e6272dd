package flattener

import (
	"bytes"
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dumptodir/internal/ui"
)

// crossDeviceFs 模拟跨设备移动，并且不支持修改时间
type crossDeviceFs struct {
	afero.Fs
}

func (crossDeviceFs) Rename(oldname, newname string) error {
	return &os.LinkError{Op: "rename", Old: oldname, New: newname, Err: syscall.EXDEV}
}

func (crossDeviceFs) Chtimes(name string, atime, mtime time.Time) error {
	return &os.PathError{Op: "chtimes", Path: name, Err: errors.New("operation not supported")}
}

func TestMoveFileCrossDeviceLogsChtimesFailure(t *testing.T) {
	logs := &bytes.Buffer{}
	ui.SetLogOutput(logs)
	t.Cleanup(func() { ui.SetLogOutput(os.Stderr) })

	mem := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(mem, "/src/a/x.txt", []byte("a"), 0644))
	require.NoError(t, mem.MkdirAll("/dst", 0755))
	fs := crossDeviceFs{mem}

	require.NoError(t, moveFile(fs, "/src/a/x.txt", "/dst/x.txt"))

	content, err := afero.ReadFile(mem, "/dst/x.txt")
	require.NoError(t, err)
	assert.Equal(t, "a", string(content))
	exists, _ := afero.Exists(mem, "/src/a/x.txt")
	assert.False(t, exists)

	assert.Contains(t, logs.String(), "保留修改时间失败")
	assert.Contains(t, logs.String(), "/dst/x.txt")
}

func TestPathExistsWithoutLstat(t *testing.T) {
	fs := crossDeviceFs{afero.NewMemMapFs()}
	require.NoError(t, afero.WriteFile(fs, "/x.txt", []byte("x"), 0644))

	assert.True(t, pathExists(fs, "/x.txt"))
	assert.False(t, pathExists(fs, "/y.txt"))
}

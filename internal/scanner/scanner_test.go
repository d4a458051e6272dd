package scanner_test

import (
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dumptodir/internal/scanner"
)

func writeFiles(t *testing.T, fs afero.Fs, files map[string]string) {
	t.Helper()
	for path, content := range files {
		require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0644))
	}
}

func TestScanSubdirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/root.txt":          "stays",
		"/src/b/two.txt":         "22",
		"/src/a/one.txt":         "1",
		"/src/a/Zed.PDF":         "zzz",
		"/src/a/deep/nested.txt": "ignored",
	})
	require.NoError(t, fs.MkdirAll("/src/empty", 0755))

	subdirs, err := scanner.ScanSubdirs(fs, "/src", scanner.Options{})
	require.NoError(t, err)
	require.Len(t, subdirs, 3)

	assert.Equal(t, "a", subdirs[0].Name)
	assert.Equal(t, "b", subdirs[1].Name)
	assert.Equal(t, "empty", subdirs[2].Name)

	a := subdirs[0]
	require.Len(t, a.Candidates, 2)
	assert.Equal(t, "Zed.PDF", a.Candidates[0].Name)
	assert.Equal(t, ".pdf", a.Candidates[0].Extension)
	assert.Equal(t, "one.txt", a.Candidates[1].Name)
	assert.Equal(t, filepath.Join("/src", "a", "one.txt"), a.Candidates[1].Path)
	assert.Equal(t, 1, a.Nested)

	assert.Empty(t, subdirs[2].Candidates)

	all := scanner.Flatten(subdirs)
	assert.Len(t, all, 3)
}

func TestScanSubdirsSkipsDirs(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/out/already.txt": "x",
		"/src/in/file.txt":     "y",
	})

	subdirs, err := scanner.ScanSubdirs(fs, "/src", scanner.Options{SkipDirs: []string{"/src/out/"}})
	require.NoError(t, err)
	require.Len(t, subdirs, 1)
	assert.Equal(t, "in", subdirs[0].Name)
}

func TestScanSubdirsExcludes(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/a/keep.txt":  "k",
		"/src/a/drop.tmp":  "d",
		"/src/a/.DS_Store": "x",
	})

	subdirs, err := scanner.ScanSubdirs(fs, "/src", scanner.Options{Excludes: []string{"*.tmp", ".DS_Store"}})
	require.NoError(t, err)
	require.Len(t, subdirs, 1)
	require.Len(t, subdirs[0].Candidates, 1)
	assert.Equal(t, "keep.txt", subdirs[0].Candidates[0].Name)
	assert.Equal(t, 2, subdirs[0].Excluded)
}

func TestScanSubdirsInvalidPattern(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/src", 0755))

	_, err := scanner.ScanSubdirs(fs, "/src", scanner.Options{Excludes: []string{"[abc"}})
	assert.Error(t, err)
}

func TestScanSubdirsMissingSource(t *testing.T) {
	_, err := scanner.ScanSubdirs(afero.NewMemMapFs(), "/nope", scanner.Options{})
	assert.Error(t, err)
}

func TestGetStatistics(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFiles(t, fs, map[string]string{
		"/src/a/one.txt":  "1",
		"/src/a/two.txt":  "22",
		"/src/b/README":   "333",
		"/src/b/x/y.txt":  "",
		"/src/b/skip.tmp": "",
	})

	subdirs, err := scanner.ScanSubdirs(fs, "/src", scanner.Options{Excludes: []string{"*.tmp"}})
	require.NoError(t, err)

	stats := scanner.GetStatistics(subdirs)
	assert.Equal(t, 3, stats.TotalFiles)
	assert.Equal(t, 2, stats.TotalSubdirs)
	assert.Equal(t, 1, stats.NestedDirs)
	assert.Equal(t, 1, stats.Excluded)
	assert.Equal(t, int64(6), stats.TotalSize)
	assert.Equal(t, 2, stats.ExtStats[".txt"].Count)
	assert.Equal(t, 1, stats.ExtStats["(无扩展名)"].Count)
}

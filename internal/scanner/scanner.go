// Package scanner 文件扫描模块
// 枚举源目录下第一层子目录中的文件，并提供统计功能
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package scanner

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/spf13/afero"

	"dumptodir/internal/ui"
)

// ==================== 类型定义 ====================

// Candidate 待平铺的文件
// 位于源目录某个直接子目录中的非目录条目
type Candidate struct {
	Path         string    // 文件完整路径
	Name         string    // 文件名
	Subdir       string    // 所在子目录的完整路径
	Extension    string    // 扩展名（小写，带点号）
	Size         int64     // 文件大小（字节）
	ModifiedTime time.Time // 最后修改时间
}

// Subdir 源目录的一个直接子目录及其中的候选文件
type Subdir struct {
	Path       string      // 子目录完整路径
	Name       string      // 子目录名
	Candidates []Candidate // 子目录中直接包含的文件（按名称排序）
	Nested     int         // 更深一层的目录数量，这些目录不会被处理
	Excluded   int         // 被排除模式过滤掉的文件数
}

// Options 扫描选项
type Options struct {
	Excludes []string // 文件名排除模式（doublestar glob）
	SkipDirs []string // 需要跳过的子目录完整路径（例如目标目录本身）
}

// ==================== 核心扫描函数 ====================

// ScanSubdirs 扫描源目录的直接子目录
// 只处理一层：子目录内部的子目录不会被展开
// 子目录和文件都按名称排序，保证结果可复现
func ScanSubdirs(fs afero.Fs, source string, opts Options) ([]Subdir, error) {
	for _, p := range opts.Excludes {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("无效的排除模式 %q", p)
		}
	}

	entries, err := afero.ReadDir(fs, source)
	if err != nil {
		return nil, fmt.Errorf("读取目录 %s: %w", source, err)
	}

	skip := make(map[string]bool, len(opts.SkipDirs))
	for _, d := range opts.SkipDirs {
		skip[filepath.Clean(d)] = true
	}

	var subdirs []Subdir
	for _, entry := range entries {
		if !entry.IsDir() {
			continue // 源目录根部的文件保持不动
		}

		dirPath := filepath.Join(source, entry.Name())
		if skip[filepath.Clean(dirPath)] {
			continue
		}

		sub, err := scanSubdir(fs, dirPath, opts.Excludes)
		if err != nil {
			return nil, err
		}
		subdirs = append(subdirs, sub)
	}

	sort.Slice(subdirs, func(i, j int) bool {
		return subdirs[i].Name < subdirs[j].Name
	})
	return subdirs, nil
}

// scanSubdir 收集单个子目录中的文件
func scanSubdir(fs afero.Fs, dir string, excludes []string) (Subdir, error) {
	sub := Subdir{Path: dir, Name: filepath.Base(dir)}

	entries, err := afero.ReadDir(fs, dir)
	if err != nil {
		return sub, fmt.Errorf("读取子目录 %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() {
			sub.Nested++
			continue
		}
		if isExcluded(entry.Name(), excludes) {
			sub.Excluded++
			continue
		}
		sub.Candidates = append(sub.Candidates, Candidate{
			Path:         filepath.Join(dir, entry.Name()),
			Name:         entry.Name(),
			Subdir:       dir,
			Extension:    strings.ToLower(filepath.Ext(entry.Name())),
			Size:         entry.Size(),
			ModifiedTime: entry.ModTime(),
		})
	}

	sort.Slice(sub.Candidates, func(i, j int) bool {
		return sub.Candidates[i].Name < sub.Candidates[j].Name
	})
	return sub, nil
}

// isExcluded 文件名是否匹配任一排除模式
// 模式已经过校验，匹配错误不会出现
func isExcluded(name string, patterns []string) bool {
	for _, p := range patterns {
		if ok, _ := doublestar.Match(p, name); ok {
			return true
		}
	}
	return false
}

// Flatten 按子目录顺序展开所有候选文件
func Flatten(subdirs []Subdir) []Candidate {
	var all []Candidate
	for _, s := range subdirs {
		all = append(all, s.Candidates...)
	}
	return all
}

// ==================== 统计相关类型 ====================

// Statistics 候选文件统计信息
type Statistics struct {
	TotalFiles   int                // 文件总数
	TotalSubdirs int                // 子目录总数
	NestedDirs   int                // 不会被处理的深层目录数
	Excluded     int                // 被排除的文件数
	TotalSize    int64              // 总大小（字节）
	ExtStats     map[string]ExtStat // 按扩展名统计
}

// ExtStat 单个扩展名的统计
type ExtStat struct {
	Count int   // 文件数量
	Size  int64 // 总大小
}

// ==================== 统计函数 ====================

// GetStatistics 统计扫描结果
func GetStatistics(subdirs []Subdir) Statistics {
	stats := Statistics{
		TotalSubdirs: len(subdirs),
		ExtStats:     make(map[string]ExtStat),
	}

	for _, s := range subdirs {
		stats.NestedDirs += s.Nested
		stats.Excluded += s.Excluded

		for _, c := range s.Candidates {
			stats.TotalFiles++
			stats.TotalSize += c.Size

			ext := c.Extension
			if ext == "" {
				ext = "(无扩展名)"
			}
			es := stats.ExtStats[ext]
			es.Count++
			es.Size += c.Size
			stats.ExtStats[ext] = es
		}
	}

	return stats
}

// PrintStatistics 打印统计信息
func PrintStatistics(subdirs []Subdir) {
	stats := GetStatistics(subdirs)

	ui.Title("📊", "文件统计")
	ui.Divider()

	ui.Info("📁 子目录: %d 个", stats.TotalSubdirs)
	ui.Info("📄 文件:   %d 个", stats.TotalFiles)
	ui.Info("💾 总大小: %s", ui.FormatSize(stats.TotalSize))
	if stats.Excluded > 0 {
		ui.Info("🚫 已排除: %d 个", stats.Excluded)
	}
	if stats.NestedDirs > 0 {
		ui.Dim("更深层的 %d 个目录不会被展开", stats.NestedDirs)
	}

	if len(stats.ExtStats) == 0 {
		return
	}

	ui.Info("")
	ui.Info("按类型统计:")

	type kv struct {
		Ext  string
		Stat ExtStat
	}
	var sorted []kv
	for k, v := range stats.ExtStats {
		sorted = append(sorted, kv{k, v})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].Stat.Count != sorted[j].Stat.Count {
			return sorted[i].Stat.Count > sorted[j].Stat.Count // 按数量降序
		}
		return sorted[i].Ext < sorted[j].Ext
	})

	for i, kv := range sorted {
		if i >= 12 {
			ui.Dim("  ... 还有 %d 种类型", len(sorted)-12)
			break
		}
		ui.Info("  %-12s %4d 个  %10s", kv.Ext, kv.Stat.Count, ui.FormatSize(kv.Stat.Size))
	}
}

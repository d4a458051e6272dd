// Package flattener 目录平铺模块
// execute.go - 执行移动计划，记录结果，清理空目录
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package flattener

import (
	"errors"
	"fmt"
	"io"
	"os"
	"syscall"

	"github.com/schollz/progressbar/v3"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"

	"dumptodir/internal/storage"
	"dumptodir/internal/ui"
)

// Recorder 记录每次移动的结果
type Recorder interface {
	AddMove(batchID, sourcePath, destPath, filename, status string) error
}

// ExecuteOptions 执行选项
type ExecuteOptions struct {
	BatchID  string    // 批次 ID，用于历史记录
	Recorder Recorder  // 可为 nil
	Prune    bool      // 删除变空的子目录
	Progress io.Writer // 进度条输出目标，nil 时不显示进度条
}

// Result 执行结果统计
type Result struct {
	Moved   int      // 成功移动的文件数
	Skipped int      // 按策略跳过的文件数
	Failed  int      // 移动失败的文件数
	Pruned  []string // 已删除的空子目录
	Errors  []error  // 每个失败的原因
}

// Execute 按计划顺序移动文件
// 单个文件失败不会中断其余移动，也不会回滚已完成的移动
func Execute(fs afero.Fs, plan *Plan, opts ExecuteOptions) Result {
	result := Result{}

	var bar *progressbar.ProgressBar
	if opts.Progress != nil && !ui.Verbose() && plan.Pending() > 0 {
		bar = progressbar.NewOptions(plan.Pending(),
			progressbar.OptionSetWriter(opts.Progress),
			progressbar.OptionSetDescription("  移动中"),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "█",
				SaucerPadding: "░",
				BarStart:      "|",
				BarEnd:        "|",
			}),
			progressbar.OptionShowCount(),
			progressbar.OptionSetWidth(30),
			progressbar.OptionClearOnFinish(),
		)
	}

	record := func(m Move, status string) {
		if opts.Recorder == nil {
			return
		}
		if err := opts.Recorder.AddMove(opts.BatchID, m.Source, m.Dest, m.Name, status); err != nil {
			ui.Log.WithError(err).Warn("记录移动历史失败")
		}
	}

	for _, m := range plan.Moves {
		entry := ui.Log.WithFields(logrus.Fields{"from": m.Source, "to": m.Dest})

		if m.Action == ActionSkip {
			result.Skipped++
			entry.Debug("跳过同名文件")
			record(m, storage.StatusSkipped)
			continue
		}

		if err := moveFile(fs, m.Source, m.Dest); err != nil {
			result.Failed++
			result.Errors = append(result.Errors, fmt.Errorf("%s: %w", m.Source, err))
			entry.WithError(err).Warn("移动失败")
			record(m, storage.StatusFailed)
		} else {
			result.Moved++
			entry.Debug("已移动")
			record(m, storage.StatusSuccess)
		}

		if bar != nil {
			bar.Add(1)
		}
	}

	if bar != nil {
		bar.Finish()
	}

	if opts.Prune {
		result.Pruned = pruneEmpty(fs, plan)
	}
	return result
}

// moveFile 移动单个文件
// 目标已存在时拒绝覆盖；跨设备时退化为复制后删除
func moveFile(fs afero.Fs, src, dst string) error {
	if pathExists(fs, dst) {
		return fmt.Errorf("%w: %s", ErrConflict, dst)
	}

	err := fs.Rename(src, dst)
	if err == nil {
		return nil
	}
	if !errors.Is(err, syscall.EXDEV) {
		return err
	}
	return copyAndRemove(fs, src, dst)
}

// copyAndRemove 复制文件内容、权限和修改时间，然后删除原文件
func copyAndRemove(fs afero.Fs, src, dst string) error {
	info, err := fs.Stat(src)
	if err != nil {
		return err
	}

	in, err := fs.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := fs.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, info.Mode().Perm())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		fs.Remove(dst)
		return err
	}
	if err := out.Close(); err != nil {
		fs.Remove(dst)
		return err
	}

	if err := fs.Chtimes(dst, info.ModTime(), info.ModTime()); err != nil {
		ui.Log.WithError(err).WithField("file", dst).Warn("保留修改时间失败")
	}
	return fs.Remove(src)
}

// pruneEmpty 删除本次移动后变空的子目录
// 运行前就没有候选文件的子目录保持不动
func pruneEmpty(fs afero.Fs, plan *Plan) []string {
	var pruned []string
	for _, s := range plan.Subdirs {
		if len(s.Candidates) == 0 {
			continue
		}
		empty, err := afero.IsEmpty(fs, s.Path)
		if err != nil || !empty {
			continue
		}
		if err := fs.Remove(s.Path); err != nil {
			ui.Log.WithError(err).WithField("dir", s.Path).Warn("删除空目录失败")
			continue
		}
		ui.Log.WithField("dir", s.Path).Debug("已删除空目录")
		pruned = append(pruned, s.Path)
	}
	return pruned
}

// PrintResult 显示执行结果
func PrintResult(result Result, batchID string) {
	ui.Println()
	ui.Success("成功: %d 个文件", result.Moved)
	if result.Skipped > 0 {
		ui.Warning("跳过: %d 个文件（同名）", result.Skipped)
	}
	if len(result.Pruned) > 0 {
		ui.Info("清理: %d 个空目录", len(result.Pruned))
	}
	if result.Failed > 0 {
		ui.Error("失败: %d 个文件", result.Failed)
		for i, err := range result.Errors {
			if i >= 3 {
				ui.Dim("  ... 还有 %d 个错误", len(result.Errors)-3)
				break
			}
			ui.Dim("  - %v", err)
		}
	}
	if batchID != "" {
		ui.Dim("批次: %s (可用 'dumptodir history %s' 查看)", batchID, batchID)
	}
}

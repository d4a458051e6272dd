// Package cmd 命令行入口模块
// history.go - 历史命令：查看或清除平铺操作记录
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package cmd

import (
	"fmt"

	"github.com/MakeNowJust/heredoc/v2"
	"github.com/spf13/cobra"

	"dumptodir/internal/config"
	"dumptodir/internal/storage"
	"dumptodir/internal/ui"
)

// newHistoryCmd 历史命令定义
func newHistoryCmd() *cobra.Command {
	var (
		limit    int  // 列出的批次数量
		clearAll bool // 清除所有历史
	)

	historyCmd := &cobra.Command{
		Use:   "history [批次ID]",
		Short: "平铺历史",
		Long: heredoc.Doc(`
			查看之前的平铺操作。

			不指定批次ID时列出最近的操作；指定时显示该批次中每个文件的去向。

			示例:
			  dumptodir history                         # 最近的操作
			  dumptodir history 20260115_143022.120     # 查看指定批次
			  dumptodir history --clear                 # 清除历史
		`),
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.Banner()

			db, err := storage.Open(config.Get().DBPath)
			if err != nil {
				return fmt.Errorf("无法打开历史数据库: %w", err)
			}
			defer db.Close()

			switch {
			case clearAll:
				return clearHistory(db)
			case len(args) == 1:
				return showRun(db, args[0])
			default:
				return listRuns(db, limit)
			}
		},
	}

	historyCmd.Flags().IntVarP(&limit, "limit", "l", 10, "列出的操作数量")
	historyCmd.Flags().BoolVar(&clearAll, "clear", false, "清除所有历史记录")
	return historyCmd
}

// listRuns 列出最近的平铺操作
func listRuns(db *storage.Database, limit int) error {
	ui.Title("📋", "最近的平铺操作")

	runs, err := db.GetRecentRuns(limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		ui.Warning("没有历史记录")
		return nil
	}

	ui.Println()
	for i, r := range runs {
		ui.Printf("  %s %s\n", ui.Green(fmt.Sprintf("[%d]", i+1)), ui.Bold(r.BatchID))
		ui.Printf("      📄 移动 %d  跳过 %d  失败 %d  📅 %s\n", r.Moved, r.Skipped, r.Failed, r.CreatedAt.Format("2006-01-02 15:04:05"))
		ui.Printf("      %s\n", ui.Gray(ui.Truncate(r.SourceDir, 50)+" → "+ui.Truncate(r.TargetDir, 50)))
		ui.Println()
	}

	ui.Dim("使用 'dumptodir history <批次ID>' 查看详情")
	return nil
}

// showRun 显示指定批次中的每个文件
func showRun(db *storage.Database, batchID string) error {
	ui.Title("🔍", fmt.Sprintf("批次: %s", batchID))

	moves, err := db.GetRunMoves(batchID)
	if err != nil {
		return err
	}
	if len(moves) == 0 {
		return fmt.Errorf("找不到批次 %s 的记录", batchID)
	}

	ui.Println()
	for _, m := range moves {
		switch m.Status {
		case storage.StatusSuccess:
			ui.Printf("  %s %s\n", ui.Green("✓"), m.Filename)
			ui.Dim("    从: %s", m.SourcePath)
			ui.Dim("    到: %s", m.DestPath)
		case storage.StatusSkipped:
			ui.Printf("  %s %s %s\n", ui.Gray("·"), m.Filename, ui.Gray("(同名，跳过)"))
			ui.Dim("    位于: %s", m.SourcePath)
		default:
			ui.Printf("  %s %s\n", ui.Red("✗"), m.Filename)
			ui.Dim("    从: %s", m.SourcePath)
		}
	}
	return nil
}

// clearHistory 确认后清除所有历史
func clearHistory(db *storage.Database) error {
	if !ui.ConfirmDanger("确认清除所有历史记录?") {
		ui.Warning("已取消")
		return nil
	}
	if err := db.ResetHistory(); err != nil {
		return fmt.Errorf("清除失败: %w", err)
	}
	ui.Success("已清除历史记录")
	return nil
}

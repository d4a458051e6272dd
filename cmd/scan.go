// Package cmd 命令行入口模块
// scan.go - 扫描命令，预览源目录中会被平铺的文件
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package cmd

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"dumptodir/internal/config"
	"dumptodir/internal/flattener"
	"dumptodir/internal/scanner"
	"dumptodir/internal/ui"
)

// newScanCmd 扫描命令定义
func newScanCmd() *cobra.Command {
	var excludes []string

	scanCmd := &cobra.Command{
		Use:   "scan [源目录]",
		Short: "扫描统计",
		Long:  "扫描源目录的直接子目录，显示会被平铺的文件统计，不移动任何文件",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args[0], excludes)
		},
	}
	scanCmd.Flags().StringArrayVarP(&excludes, "exclude", "e", nil, "排除匹配的文件名（可重复）")
	return scanCmd
}

// runScan 执行扫描命令
func runScan(dir string, excludes []string) error {
	ui.Banner()

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := flattener.Validate(osFs, &flattener.Config{
		TargetDir: abs,
		SourceDir: abs,
		Conflict:  config.ConflictRename,
	}); err != nil {
		return err
	}

	patterns := append([]string{}, config.Get().Excludes...)
	patterns = append(patterns, excludes...)

	subdirs, err := scanner.ScanSubdirs(osFs, abs, scanner.Options{Excludes: patterns})
	if err != nil {
		return err
	}

	scanner.PrintStatistics(subdirs)
	return nil
}

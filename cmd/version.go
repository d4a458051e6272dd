// Package cmd 命令行入口模块
// version.go - 版本命令，显示程序版本和作者信息
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package cmd

import (
	"github.com/spf13/cobra"

	"dumptodir/internal/config"
	"dumptodir/internal/ui"
)

// newVersionCmd 版本命令定义
func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "版本信息",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			ui.Banner()
			ui.Println()
			ui.Printf("  版本:   %s\n", config.Version)
			ui.Printf("  作者:   %s\n", config.Author)
			ui.Printf("  许可:   %s\n", config.License)
			ui.Printf("  构建:   %s\n", config.BuildDate)
			ui.Println()
		},
	}
}

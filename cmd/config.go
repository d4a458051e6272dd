// Package cmd 命令行入口模块
// config.go - 配置管理命令，用于查看和修改默认行为
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"dumptodir/internal/config"
	"dumptodir/internal/ui"
)

// newConfigCmd 配置管理命令定义
func newConfigCmd() *cobra.Command {
	var (
		conflict      string   // 默认冲突策略
		prune         bool     // 默认是否清理空目录
		history       bool     // 是否记录历史
		excludes      []string // 替换默认排除模式
		clearExcludes bool     // 清空默认排除模式
	)

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "配置管理",
		Long:  "查看或修改 dumptodir 的默认配置",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ui.Banner()
			cfg := config.Get()
			flags := cmd.Flags()
			hasChanges := false

			if flags.Changed("conflict") {
				if err := config.ValidateConflictPolicy(conflict); err != nil {
					return err
				}
				cfg.ConflictPolicy = conflict
				ui.Success("冲突策略已设置为: %s", conflict)
				hasChanges = true
			}

			if flags.Changed("prune") {
				cfg.PruneEmptyDirs = prune
				ui.Success("清理空目录已%s", onOff(prune))
				hasChanges = true
			}

			if flags.Changed("history") {
				cfg.RecordHistory = history
				ui.Success("历史记录已%s", onOff(history))
				hasChanges = true
			}

			if clearExcludes {
				cfg.Excludes = []string{}
				ui.Success("排除模式已清空")
				hasChanges = true
			}
			if flags.Changed("exclude") {
				cfg.Excludes = excludes
				ui.Success("排除模式已设置为: %s", strings.Join(excludes, ", "))
				hasChanges = true
			}

			if hasChanges {
				if err := cfg.Save(); err != nil {
					return err
				}
				ui.Success("配置已保存")
				return nil
			}

			showConfig(cfg)
			return nil
		},
	}

	configCmd.Flags().StringVar(&conflict, "conflict", "", "设置默认冲突策略: rename / skip / fail")
	configCmd.Flags().BoolVar(&prune, "prune", true, "移动后删除变空的子目录")
	configCmd.Flags().BoolVar(&history, "history", true, "记录平铺历史")
	configCmd.Flags().StringArrayVar(&excludes, "exclude", nil, "设置默认排除模式（可重复）")
	configCmd.Flags().BoolVar(&clearExcludes, "clear-excludes", false, "清空默认排除模式")
	return configCmd
}

// showConfig 显示当前配置
func showConfig(cfg *config.Config) {
	ui.Title("⚙️", "当前配置")
	ui.Divider()

	ui.Println()
	ui.Info("平铺配置:")
	ui.Info("  冲突策略:      %s", cfg.ConflictPolicy)
	ui.Info("  清理空目录:    %s", onOff(cfg.PruneEmptyDirs))
	excludes := "(无)"
	if len(cfg.Excludes) > 0 {
		excludes = strings.Join(cfg.Excludes, ", ")
	}
	ui.Info("  排除模式:      %s", excludes)

	ui.Println()
	ui.Info("历史配置:")
	ui.Info("  记录历史:      %s", onOff(cfg.RecordHistory))

	ui.Println()
	ui.Info("数据路径:")
	ui.Info("  数据目录:      %s", cfg.DataDir)
	ui.Info("  数据库文件:    %s", cfg.DBPath)

	ui.Println()
	ui.Dim("修改配置示例:")
	ui.Dim("  dumptodir config --conflict skip")
	ui.Dim("  dumptodir config --prune=false")
	ui.Dim("  dumptodir config --exclude '*.tmp' --exclude .DS_Store")
}

// onOff 布尔值的显示文字
func onOff(v bool) string {
	if v {
		return "开启"
	}
	return "关闭"
}

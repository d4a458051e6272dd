// Package flattener 目录平铺模块
// 负责解析目标/源目录、校验、生成移动计划并执行
// 把源目录下每个直接子目录中的文件移动到目标目录根部
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package flattener

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"dumptodir/internal/config"
)

// ==================== 错误定义 ====================

var (
	// ErrUsage 参数数量错误
	ErrUsage = errors.New("参数错误")
	// ErrNotADirectory 路径不存在或不是目录
	ErrNotADirectory = errors.New("不是目录")
	// ErrNotInteractive 需要交互输入但标准输入不是终端
	ErrNotInteractive = errors.New("标准输入不是终端")
	// ErrCancelled 用户取消操作（退出码 0）
	ErrCancelled = errors.New("已取消")
	// ErrConflict 目标目录中存在同名文件
	ErrConflict = errors.New("同名冲突")
)

// ==================== 类型定义 ====================

// Config 一次平铺操作的配置
// 启动时构建一次，执行后丢弃
type Config struct {
	TargetDir string   // 目标目录（文件最终存放位置）
	SourceDir string   // 源目录（处理其直接子目录）
	Force     bool     // 跳过环境检查
	Conflict  string   // 同名冲突策略
	Prune     bool     // 删除移动后变空的子目录
	DryRun    bool     // 只预览，不移动
	Excludes  []string // 文件名排除模式
}

// Choices 无参数启动时的可选动作
var Choices = []string{
	"使用程序所在目录（原地平铺）",
	"退出",
}

// ResolveOptions 路径解析所需的外部依赖
type ResolveOptions struct {
	// Choose 展示选项并返回所选下标
	Choose func(message string, choices []string) (int, error)
	// ScriptDir 返回程序所在目录
	ScriptDir func() (string, error)
}

// ==================== 路径解析 ====================

// ResolvePaths 根据命令行参数确定目标目录和源目录
//   - 无参数：交互选择，使用程序所在目录作为目标和源，或退出
//   - 两个参数：依次为目标目录、源目录
//   - 其他数量：返回 ErrUsage
func ResolvePaths(args []string, opts ResolveOptions) (*Config, error) {
	var target, source string

	switch len(args) {
	case 0:
		if opts.Choose == nil {
			return nil, ErrNotInteractive
		}
		idx, err := opts.Choose("未提供目录，接下来怎么做?", Choices)
		if err != nil {
			return nil, fmt.Errorf("读取选择: %w", err)
		}
		if idx != 0 {
			return nil, ErrCancelled
		}

		scriptDir := opts.ScriptDir
		if scriptDir == nil {
			scriptDir = ExecutableDir
		}
		dir, err := scriptDir()
		if err != nil {
			return nil, fmt.Errorf("获取程序所在目录: %w", err)
		}
		target, source = dir, dir
	case 2:
		target, source = args[0], args[1]
	default:
		return nil, fmt.Errorf("%w: 需要 0 个或 2 个参数，实际 %d 个", ErrUsage, len(args))
	}

	absTarget, err := filepath.Abs(target)
	if err != nil {
		return nil, err
	}
	absSource, err := filepath.Abs(source)
	if err != nil {
		return nil, err
	}

	return &Config{
		TargetDir: absTarget,
		SourceDir: absSource,
		Conflict:  config.ConflictRename,
		Prune:     true,
	}, nil
}

// ExecutableDir 返回当前可执行文件所在目录
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// ==================== 校验 ====================

// Validate 确认目标目录和源目录都存在且是目录
// 不会对文件系统做任何修改
func Validate(fs afero.Fs, cfg *Config) error {
	for _, dir := range []struct {
		role string
		path string
	}{
		{"目标目录", cfg.TargetDir},
		{"源目录", cfg.SourceDir},
	} {
		info, err := fs.Stat(dir.path)
		if err != nil {
			if os.IsNotExist(err) {
				return fmt.Errorf("%s %s 不存在: %w", dir.role, dir.path, ErrNotADirectory)
			}
			return fmt.Errorf("%s %s: %w", dir.role, dir.path, err)
		}
		if !info.IsDir() {
			return fmt.Errorf("%s %s: %w", dir.role, dir.path, ErrNotADirectory)
		}
	}
	return config.ValidateConflictPolicy(cfg.Conflict)
}

// CheckReadiness 检查运行环境是否支持交互提示
// force 为 true 时跳过检查
func CheckReadiness(force bool, isTerminal func() bool) error {
	if force {
		return nil
	}
	if isTerminal == nil || !isTerminal() {
		return ErrNotInteractive
	}
	return nil
}

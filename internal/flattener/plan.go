// Package flattener 目录平铺模块
// plan.go - 生成移动计划，处理同名冲突
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package flattener

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"dumptodir/internal/config"
	"dumptodir/internal/scanner"
	"dumptodir/internal/ui"
)

// MaxDisplayMoves 计划显示中每个子目录最多显示的文件数
const MaxDisplayMoves = 5

// Action 单个文件的处理方式
type Action string

const (
	ActionMove   Action = "move"   // 直接移动
	ActionRename Action = "rename" // 重名，添加后缀后移动
	ActionSkip   Action = "skip"   // 重名，保留在原处
)

// Move 计划中的一次移动
type Move struct {
	Source string // 原路径
	Dest   string // 目标路径（跳过时为空）
	Name   string // 原文件名
	Subdir string // 所在子目录名
	Action Action
}

// Plan 平铺计划
// 在任何文件被移动之前完整生成，保证冲突处理结果可复现
type Plan struct {
	TargetDir string
	SourceDir string
	Policy    string
	Moves     []Move
	Subdirs   []scanner.Subdir // 扫描到的子目录，执行后用于清理空目录
}

// Count 统计某种动作的数量
func (p *Plan) Count(a Action) int {
	n := 0
	for _, m := range p.Moves {
		if m.Action == a {
			n++
		}
	}
	return n
}

// Pending 需要实际移动的文件数
func (p *Plan) Pending() int {
	return p.Count(ActionMove) + p.Count(ActionRename)
}

// BuildPlan 扫描源目录并生成移动计划
// 子目录和文件按名称顺序处理；目标路径已存在或已被计划中更早的文件占用时视为冲突
// 冲突按策略处理：rename 添加数字后缀，skip 跳过，fail 返回 ErrConflict
func BuildPlan(fs afero.Fs, cfg *Config) (*Plan, error) {
	subdirs, err := scanner.ScanSubdirs(fs, cfg.SourceDir, scanner.Options{
		Excludes: cfg.Excludes,
		SkipDirs: []string{cfg.TargetDir}, // 目标目录本身是源的子目录时不处理
	})
	if err != nil {
		return nil, err
	}

	policy := cfg.Conflict
	if policy == "" {
		policy = config.ConflictRename
	}

	plan := &Plan{
		TargetDir: cfg.TargetDir,
		SourceDir: cfg.SourceDir,
		Policy:    policy,
		Subdirs:   subdirs,
	}

	claimed := make(map[string]bool)
	taken := func(path string) bool {
		return claimed[path] || pathExists(fs, path)
	}

	var conflicts []string
	for _, c := range scanner.Flatten(subdirs) {
		move := Move{
			Source: c.Path,
			Name:   c.Name,
			Subdir: filepath.Base(c.Subdir),
			Action: ActionMove,
		}

		dest := filepath.Join(cfg.TargetDir, c.Name)
		if taken(dest) {
			switch policy {
			case config.ConflictSkip:
				move.Action = ActionSkip
				dest = ""
			case config.ConflictFail:
				conflicts = append(conflicts, c.Path)
			default:
				move.Action = ActionRename
				dest = uniqueName(dest, taken)
			}
		}

		if dest != "" {
			claimed[dest] = true
		}
		move.Dest = dest
		plan.Moves = append(plan.Moves, move)
	}

	if len(conflicts) > 0 {
		return plan, fmt.Errorf("%w: %d 个文件在目标目录中已有同名文件（第一个: %s）", ErrConflict, len(conflicts), conflicts[0])
	}
	return plan, nil
}

// pathExists 路径上是否已有条目
// 不跟随符号链接，悬空链接也算已存在；除“不存在”以外的错误一律视为已存在
func pathExists(fs afero.Fs, path string) bool {
	var err error
	if l, ok := fs.(afero.Lstater); ok {
		_, _, err = l.LstatIfPossible(path)
	} else {
		_, err = fs.Stat(path)
	}
	return !os.IsNotExist(err)
}

// uniqueName 为重名文件生成新路径
// 例如: file.txt -> file_1.txt -> file_2.txt；.env -> .env_1
func uniqueName(path string, taken func(string) bool) string {
	dir := filepath.Dir(path)
	base := filepath.Base(path)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	if name == "" {
		// 以点开头且没有其他扩展名的文件，整个名字作为主体
		name, ext = base, ""
	}

	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_%d%s", name, i, ext))
		if !taken(candidate) {
			return candidate
		}
	}
}

// ==================== 计划显示函数 ====================

// PrintPlan 打印平铺计划
func PrintPlan(plan *Plan) {
	lines := []string{
		fmt.Sprintf("📂 目标: %s", ui.Truncate(plan.TargetDir, 40)),
		fmt.Sprintf("📥 来源: %s", ui.Truncate(plan.SourceDir, 40)),
		fmt.Sprintf("📁 子目录: %d 个", len(plan.Subdirs)),
		fmt.Sprintf("📄 移动: %d 个", plan.Pending()),
	}
	if n := plan.Count(ActionRename); n > 0 {
		lines = append(lines, fmt.Sprintf("↻ 重命名: %d 个", n))
	}
	if n := plan.Count(ActionSkip); n > 0 {
		lines = append(lines, fmt.Sprintf("· 跳过: %d 个", n))
	}
	ui.Box("📋 平铺计划", lines)

	// 按子目录分组显示，保持计划顺序
	var order []string
	groups := make(map[string][]Move)
	for _, m := range plan.Moves {
		if _, ok := groups[m.Subdir]; !ok {
			order = append(order, m.Subdir)
		}
		groups[m.Subdir] = append(groups[m.Subdir], m)
	}

	for _, subdir := range order {
		moves := groups[subdir]
		ui.Printf("\n  %s %s/ %s\n", ui.Green("📁"), ui.Bold(subdir), ui.Gray(fmt.Sprintf("(%d个)", len(moves))))

		for i, m := range moves {
			if i >= MaxDisplayMoves {
				ui.Dim("      ... 还有 %d 个文件", len(moves)-MaxDisplayMoves)
				break
			}
			switch m.Action {
			case ActionRename:
				ui.Printf("      %s %s %s\n", ui.ActionIcon(string(m.Action)), m.Name, ui.Gray("→ "+filepath.Base(m.Dest)))
			case ActionSkip:
				ui.Printf("      %s %s %s\n", ui.ActionIcon(string(m.Action)), m.Name, ui.Gray("(同名，跳过)"))
			default:
				ui.Printf("      %s %s\n", ui.ActionIcon(string(m.Action)), m.Name)
			}
		}
	}
	ui.Println()
}

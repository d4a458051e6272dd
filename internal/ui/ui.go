// Package ui 终端界面模块
// 提供终端输出美化功能，包括颜色、图标、格式化和交互提示
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// ==================== 颜色定义 ====================
// 使用 fatih/color 库定义各种颜色函数
var (
	Cyan     = color.New(color.FgCyan).SprintFunc()             // 青色
	Green    = color.New(color.FgGreen).SprintFunc()            // 绿色（成功）
	Yellow   = color.New(color.FgYellow).SprintFunc()           // 黄色（警告）
	Red      = color.New(color.FgRed).SprintFunc()              // 红色（错误）
	Purple   = color.New(color.FgMagenta).SprintFunc()          // 紫色
	Gray     = color.New(color.FgHiBlack).SprintFunc()          // 灰色（次要信息）
	Bold     = color.New(color.Bold).SprintFunc()               // 粗体
	BoldCyan = color.New(color.FgCyan, color.Bold).SprintFunc() // 青色粗体
)

// out 所有输出函数写入的目标，默认是支持 Windows 颜色的标准输出
var out io.Writer = color.Output

// SetOutput 替换输出目标
func SetOutput(w io.Writer) {
	out = w
}

// Output 返回当前输出目标
func Output() io.Writer {
	return out
}

// SetNoColor 关闭颜色输出（非终端或测试时使用）
func SetNoColor(disabled bool) {
	color.NoColor = disabled
}

// ==================== 输出函数 ====================

// Banner 打印启动横幅
func Banner() {
	banner := `
` + Cyan(`  ┌─┐ ┬ ┬ ┌┬┐ ┌─┐   ┌┬┐ ┌─┐   ┌┬┐ ┬ ┬─┐`) + `
` + Cyan(`  │ │ │ │ │││ ├─┘    │  │ │    │││ │ ├┬┘`) + `
` + Cyan(`  └─┘ └─┘ ┴ ┴ ┴      ┴  └─┘   ─┴┘ ┴ ┴└─`) + `
` + Gray(`  子目录文件一键平铺`) + ` ` + Gray(`v1.0`) + `
`
	fmt.Fprintln(out, banner)
}

// Println 打印一行原始文本
func Println(a ...interface{}) {
	fmt.Fprintln(out, a...)
}

// Printf 打印格式化的原始文本
func Printf(format string, args ...interface{}) {
	fmt.Fprintf(out, format, args...)
}

// Title 打印标题
// 格式: 图标 + 青色粗体文字
func Title(icon, text string) {
	fmt.Fprintf(out, "\n%s %s\n", icon, BoldCyan(text))
}

// Success 打印成功消息
func Success(format string, args ...interface{}) {
	fmt.Fprintf(out, "  %s %s\n", Green("✓"), fmt.Sprintf(format, args...))
}

// Error 打印错误消息
func Error(format string, args ...interface{}) {
	fmt.Fprintf(out, "  %s %s\n", Red("✗"), fmt.Sprintf(format, args...))
}

// Warning 打印警告消息
func Warning(format string, args ...interface{}) {
	fmt.Fprintf(out, "  %s %s\n", Yellow("⚠"), fmt.Sprintf(format, args...))
}

// Info 打印信息消息
func Info(format string, args ...interface{}) {
	fmt.Fprintf(out, "  %s\n", fmt.Sprintf(format, args...))
}

// Dim 打印暗色消息
// 用于显示次要信息（灰色文字）
func Dim(format string, args ...interface{}) {
	fmt.Fprintf(out, "  %s\n", Gray(fmt.Sprintf(format, args...)))
}

// Divider 打印分隔线
func Divider() {
	fmt.Fprintln(out, Gray(strings.Repeat("─", 55)))
}

// ==================== 方框绘制 ====================

// Box 绘制带标题的方框
// 用于显示整理计划等结构化信息
func Box(title string, lines []string) {
	width := 55

	fmt.Fprintln(out, Cyan("╭"+strings.Repeat("─", width-2)+"╮"))

	// 标题行居中
	titlePadding := (width - 4 - displayWidth(title)) / 2
	if titlePadding < 0 {
		titlePadding = 0
	}
	rest := width - 4 - titlePadding - displayWidth(title)
	if rest < 0 {
		rest = 0
	}
	fmt.Fprintf(out, "%s %s%s%s %s\n",
		Cyan("│"),
		strings.Repeat(" ", titlePadding),
		Bold(title),
		strings.Repeat(" ", rest),
		Cyan("│"))

	fmt.Fprintln(out, Cyan("├"+strings.Repeat("─", width-2)+"┤"))

	for _, line := range lines {
		padding := width - 4 - displayWidth(line)
		if padding < 0 {
			padding = 0
		}
		fmt.Fprintf(out, "%s %s%s %s\n", Cyan("│"), line, strings.Repeat(" ", padding), Cyan("│"))
	}

	fmt.Fprintln(out, Cyan("╰"+strings.Repeat("─", width-2)+"╯"))
}

// displayWidth 计算字符串的显示宽度
// 中文字符占2个宽度，ASCII字符占1个宽度
func displayWidth(s string) int {
	width := 0
	for _, r := range s {
		if r > 127 {
			width += 2
		} else {
			width++
		}
	}
	return width
}

// ==================== 图标函数 ====================

// ActionIcon 获取移动动作图标
func ActionIcon(action string) string {
	switch action {
	case "move":
		return Green("→")
	case "rename":
		return Yellow("↻")
	case "skip":
		return Gray("·")
	default:
		return "?"
	}
}

// ==================== 格式化函数 ====================

// FormatSize 格式化文件大小
// 将字节数转换为人类可读的格式（B/KB/MB/GB）
func FormatSize(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case size >= GB:
		return fmt.Sprintf("%.1f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.1f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.1f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d B", size)
	}
}

// Truncate 截断过长的字符串
func Truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// Package ui 终端界面模块
// prompt.go - 交互输入：确认提示与选项列表
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrNoInput 输入流已结束，无法读取回答
var ErrNoInput = errors.New("没有可读取的输入")

// in 所有提示共享的输入读取器
// 多次提示必须共用同一个缓冲区，否则管道输入会被第一次读取吞掉
var in = bufio.NewReader(os.Stdin)

// SetInput 替换输入来源
func SetInput(r io.Reader) {
	in = bufio.NewReader(r)
}

// readLine 读取一行输入并去掉首尾空白
// 最后一行没有换行符时仍然返回其内容
func readLine() (string, error) {
	line, err := in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", ErrNoInput
	}
	return strings.TrimSpace(line), nil
}

// ==================== 交互函数 ====================

// Confirm 显示确认提示并获取用户输入
// defaultYes=true: 默认确认（直接回车确认）[Y/n]
// defaultYes=false: 默认不确认（需要明确输入y）[y/N]
// 输入结束时视为拒绝
func Confirm(prompt string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprintf(out, "%s %s: ", prompt, hint)

	input, err := readLine()
	if err != nil {
		fmt.Fprintln(out)
		return false
	}
	input = strings.ToLower(input)

	if defaultYes {
		return input == "" || input == "y" || input == "yes"
	}
	return input == "y" || input == "yes"
}

// ConfirmDanger 显示危险操作确认提示
// 带警告图标，默认不确认
func ConfirmDanger(prompt string) bool {
	return Confirm(fmt.Sprintf("%s %s", Yellow("⚠"), prompt), false)
}

// Select 显示编号选项列表，返回所选项的下标
// 接受编号或完整的选项文字；无效输入会重新询问，最多三次
func Select(message string, choices []string) (int, error) {
	fmt.Fprintf(out, "%s %s\n", Purple("?"), Bold(message))
	for i, c := range choices {
		fmt.Fprintf(out, "  %s %s\n", Cyan(fmt.Sprintf("%d)", i+1)), c)
	}

	for attempt := 0; attempt < 3; attempt++ {
		fmt.Fprintf(out, "  选择 [1-%d]: ", len(choices))
		input, err := readLine()
		if err != nil {
			fmt.Fprintln(out)
			return -1, err
		}

		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(choices) {
			return n - 1, nil
		}
		for i, c := range choices {
			if strings.EqualFold(input, c) {
				return i, nil
			}
		}
		Warning("无效的选择: %q", input)
	}
	return -1, fmt.Errorf("连续三次无效输入")
}

// Package ui 终端界面模块
// log.go - 详细模式下的操作日志
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package ui

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Log 操作日志记录器
// 默认只输出警告及以上级别，详细模式下输出每一次移动
var Log = newLogger(os.Stderr)

func newLogger(w io.Writer) *logrus.Logger {
	l := logrus.New()
	l.SetOutput(w)
	l.SetLevel(logrus.WarnLevel)
	l.SetFormatter(&logrus.TextFormatter{
		DisableTimestamp: true,
		PadLevelText:     true,
	})
	return l
}

// SetVerbose 切换详细日志
func SetVerbose(verbose bool) {
	if verbose {
		Log.SetLevel(logrus.DebugLevel)
		return
	}
	Log.SetLevel(logrus.WarnLevel)
}

// Verbose 是否处于详细模式
func Verbose() bool {
	return Log.IsLevelEnabled(logrus.DebugLevel)
}

// SetLogOutput 替换日志输出目标
func SetLogOutput(w io.Writer) {
	Log.SetOutput(w)
}

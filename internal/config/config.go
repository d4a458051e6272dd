// Package config 配置管理模块
// 提供全局配置的加载、保存和管理功能
// 配置文件存储在 ~/.dumptodir/config.json
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// 版本和作者信息常量
const (
	Version   = "1.0.0"    // 程序版本号
	BuildDate = "2026"     // 构建日期
	Author    = "lynx-lee" // 作者
	License   = "MIT"      // 开源许可
)

// HomeEnv 用于覆盖数据目录的环境变量
const HomeEnv = "DUMPTODIR_HOME"

// 同名冲突策略
const (
	ConflictRename = "rename" // 添加数字后缀：a.txt -> a_1.txt
	ConflictSkip   = "skip"   // 保留在原子目录中，不移动
	ConflictFail   = "fail"   // 存在任何冲突时终止，不移动任何文件
)

// Config 全局配置结构体
type Config struct {
	// ==================== 整理配置 ====================
	ConflictPolicy string   `json:"conflict_policy"`  // 同名冲突策略：rename / skip / fail
	PruneEmptyDirs bool     `json:"prune_empty_dirs"` // 移动后删除变空的子目录
	Excludes       []string `json:"excludes"`         // 排除的文件名模式（glob）

	// ==================== 历史配置 ====================
	RecordHistory bool `json:"record_history"` // 是否记录整理历史

	// ==================== 内部路径（不序列化）====================
	DataDir string `json:"-"` // 数据目录路径 (~/.dumptodir)
	DBPath  string `json:"-"` // 数据库文件路径 (~/.dumptodir/history.db)
}

// 单例模式相关变量
var (
	instance *Config
	once     sync.Once
)

// Get 获取全局配置实例（单例模式）
// 首次调用时会初始化默认配置并尝试从文件加载
func Get() *Config {
	once.Do(func() {
		instance = New(defaultDataDir())
		instance.Load() // 文件不存在时使用默认配置
	})
	return instance
}

// New 创建使用指定数据目录的默认配置
// 数据目录会在需要时创建
func New(dataDir string) *Config {
	c := defaultConfig()
	c.DataDir = dataDir
	c.DBPath = filepath.Join(dataDir, "history.db")
	return c
}

// defaultConfig 创建默认配置
func defaultConfig() *Config {
	return &Config{
		ConflictPolicy: ConflictRename, // 默认重命名，绝不静默覆盖
		PruneEmptyDirs: true,
		Excludes:       []string{},
		RecordHistory:  true,
	}
}

// defaultDataDir 返回数据目录
// 优先使用 DUMPTODIR_HOME，否则为 ~/.dumptodir
func defaultDataDir() string {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir
	}
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".dumptodir")
}

// Path 返回配置文件路径
func (c *Config) Path() string {
	return filepath.Join(c.DataDir, "config.json")
}

// EnsureDataDir 创建数据目录（如果不存在）
func (c *Config) EnsureDataDir() error {
	return os.MkdirAll(c.DataDir, 0755)
}

// Load 从文件加载配置
// 文件不存在时返回错误，调用方可忽略并继续使用默认配置
func (c *Config) Load() error {
	data, err := os.ReadFile(c.Path())
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("解析配置文件 %s: %w", c.Path(), err)
	}
	return c.Validate()
}

// Save 保存配置到文件
// 以格式化的 JSON 格式保存
func (c *Config) Save() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if err := c.EnsureDataDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(c.Path(), data, 0644)
}

// Validate 检查配置值是否合法
func (c *Config) Validate() error {
	return ValidateConflictPolicy(c.ConflictPolicy)
}

// ValidateConflictPolicy 检查冲突策略名称
func ValidateConflictPolicy(policy string) error {
	switch policy {
	case ConflictRename, ConflictSkip, ConflictFail:
		return nil
	}
	return fmt.Errorf("未知的冲突策略 %q（可选: %s, %s, %s）", policy, ConflictRename, ConflictSkip, ConflictFail)
}

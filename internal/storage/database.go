// Package storage 数据存储模块
// 提供 SQLite 数据库的封装，记录每次平铺操作及其中每个文件的移动结果
//
// Copyright (c) 2024-2026 lynx-lee
// License: MIT
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	// 使用纯 Go 实现的 SQLite 驱动，无需 CGO
	_ "modernc.org/sqlite"
)

// 移动状态
const (
	StatusSuccess = "success" // 已移动
	StatusSkipped = "skipped" // 同名冲突，按策略跳过
	StatusFailed  = "failed"  // 移动失败
)

// Database 数据库管理器
// 封装 SQLite 数据库连接，采用 WAL 模式
type Database struct {
	db *sql.DB
}

// Run 一次平铺操作的汇总
type Run struct {
	BatchID   string    // 批次 ID（时间戳）
	TargetDir string    // 目标目录
	SourceDir string    // 源目录
	Moved     int       // 成功移动数
	Skipped   int       // 跳过数
	Failed    int       // 失败数
	CreatedAt time.Time // 执行时间
}

// Move 单个文件的移动记录
type Move struct {
	ID         int64
	BatchID    string
	SourcePath string // 原路径
	DestPath   string // 目标路径
	Filename   string // 文件名
	Status     string // success / skipped / failed
	CreatedAt  time.Time
}

// Open 打开并初始化数据库
// 会自动创建数据库所在目录
func Open(path string) (*Database, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// WAL 模式减少锁竞争，NORMAL 同步模式在性能和安全性之间取得平衡
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA synchronous=NORMAL")

	d := &Database{db: db}
	if err := d.init(); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// init 初始化数据库表结构和索引
func (d *Database) init() error {
	schemas := []string{
		// ========== 操作批次表 ==========
		`CREATE TABLE IF NOT EXISTS runs (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT NOT NULL UNIQUE,
			target_dir TEXT NOT NULL,
			source_dir TEXT NOT NULL,
			moved INTEGER DEFAULT 0,
			skipped INTEGER DEFAULT 0,
			failed INTEGER DEFAULT 0,
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		// ========== 移动记录表 ==========
		`CREATE TABLE IF NOT EXISTS moves (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			batch_id TEXT NOT NULL,
			source_path TEXT NOT NULL,
			dest_path TEXT DEFAULT '',
			filename TEXT NOT NULL,
			status TEXT DEFAULT 'success',
			created_at TEXT DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_moves_batch ON moves(batch_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_time ON runs(created_at)`,
	}

	for _, schema := range schemas {
		if _, err := d.db.Exec(schema); err != nil {
			return fmt.Errorf("初始化数据表: %w", err)
		}
	}
	return nil
}

// Close 关闭数据库连接
func (d *Database) Close() error {
	return d.db.Close()
}

// ==================== 写入 ====================

// AddRun 记录一次平铺操作的汇总
// 同一批次重复写入时更新计数
func (d *Database) AddRun(r Run) error {
	if r.CreatedAt.IsZero() {
		r.CreatedAt = time.Now()
	}
	_, err := d.db.Exec(`
		INSERT INTO runs (batch_id, target_dir, source_dir, moved, skipped, failed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(batch_id) DO UPDATE SET
			moved = excluded.moved,
			skipped = excluded.skipped,
			failed = excluded.failed`,
		r.BatchID, r.TargetDir, r.SourceDir, r.Moved, r.Skipped, r.Failed, r.CreatedAt.UTC().Format(time.RFC3339))
	return err
}

// AddMove 记录单个文件的移动结果
func (d *Database) AddMove(batchID, sourcePath, destPath, filename, status string) error {
	_, err := d.db.Exec(`
		INSERT INTO moves (batch_id, source_path, dest_path, filename, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		batchID, sourcePath, destPath, filename, status, time.Now().UTC().Format(time.RFC3339))
	return err
}

// ==================== 查询 ====================

// GetRecentRuns 获取最近的操作批次（新的在前）
func (d *Database) GetRecentRuns(limit int) ([]Run, error) {
	rows, err := d.db.Query(`
		SELECT batch_id, target_dir, source_dir, moved, skipped, failed, created_at
		FROM runs
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var createdAt string
		if err := rows.Scan(&r.BatchID, &r.TargetDir, &r.SourceDir, &r.Moved, &r.Skipped, &r.Failed, &createdAt); err != nil {
			return nil, err
		}
		r.CreatedAt = parseTime(createdAt)
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetLatestRun 获取最近一次操作的批次 ID
// 没有记录时返回空字符串
func (d *Database) GetLatestRun() string {
	var batchID string
	err := d.db.QueryRow(`SELECT batch_id FROM runs ORDER BY created_at DESC, id DESC LIMIT 1`).Scan(&batchID)
	if err != nil {
		return ""
	}
	return batchID
}

// GetRunMoves 获取指定批次的所有移动记录（按写入顺序）
func (d *Database) GetRunMoves(batchID string) ([]Move, error) {
	rows, err := d.db.Query(`
		SELECT id, batch_id, source_path, dest_path, filename, status, created_at
		FROM moves
		WHERE batch_id = ?
		ORDER BY id`, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moves []Move
	for rows.Next() {
		var m Move
		var createdAt string
		if err := rows.Scan(&m.ID, &m.BatchID, &m.SourcePath, &m.DestPath, &m.Filename, &m.Status, &createdAt); err != nil {
			return nil, err
		}
		m.CreatedAt = parseTime(createdAt)
		moves = append(moves, m)
	}
	return moves, rows.Err()
}

// ==================== 重置 ====================

// ResetHistory 清空所有历史记录
func (d *Database) ResetHistory() error {
	tx, err := d.db.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM moves`); err != nil {
		tx.Rollback()
		return err
	}
	if _, err := tx.Exec(`DELETE FROM runs`); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// parseTime 解析存储的时间，失败时返回零值
func parseTime(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Local()
		}
	}
	return time.Time{}
}

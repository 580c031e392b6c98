package repository

import (
	"database/sql"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/training-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
	_ "modernc.org/sqlite"
)

// 测试用的内存库表结构，字段和生产环境的表保持一致
const testSchema = `
CREATE TABLE users (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    username TEXT NOT NULL UNIQUE,
    password_hash TEXT NOT NULL,
    full_name TEXT NOT NULL,
    email TEXT NOT NULL UNIQUE,
    role TEXT NOT NULL DEFAULT '普通员工',
    grade TEXT NOT NULL DEFAULT '',
    level TEXT NOT NULL DEFAULT '',
    function TEXT NOT NULL DEFAULT '',
    position_id INTEGER,
    dmt_id INTEGER,
    is_active BOOLEAN NOT NULL DEFAULT TRUE,
    created_at DATETIME NOT NULL DEFAULT (datetime('now')),
    version INTEGER NOT NULL DEFAULT 1
);

CREATE TABLE trainers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL
);

CREATE TABLE venues (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL
);

CREATE TABLE trainings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    topic TEXT NOT NULL,
    start_at DATETIME,
    end_at DATETIME,
    trainer_id INTEGER REFERENCES trainers(id),
    venue_id INTEGER REFERENCES venues(id),
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE training_assignments (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    training_id INTEGER NOT NULL REFERENCES trainings(id),
    assignee_type TEXT NOT NULL,
    assignee_id TEXT NOT NULL,
    assigned_by INTEGER NOT NULL REFERENCES users(id),
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE training_assignment_recipients (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    assignment_id INTEGER NOT NULL REFERENCES training_assignments(id),
    user_id INTEGER NOT NULL REFERENCES users(id),
    status TEXT NOT NULL DEFAULT 'pending',
    notes TEXT,
    updated_at DATETIME NOT NULL DEFAULT (datetime('now'))
);
`

func newTestRepository(t *testing.T) *Repository {
	t.Helper()

	dbpool, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("无法创建内存数据库: %v", err)
	}
	t.Cleanup(func() { dbpool.Close() })

	// 内存库在多个连接下会各自看到不同的数据库，必须限制为单连接
	dbpool.SetMaxOpenConns(1)

	if _, err := dbpool.Exec(testSchema); err != nil {
		t.Fatalf("无法初始化表结构: %v", err)
	}

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 10

	return NewRepository(cfg, dbpool)
}

func createTestUser(t *testing.T, r *Repository, username string, mutate func(*domain.User)) *domain.User {
	t.Helper()

	user := &domain.User{
		Username:     username,
		PasswordHash: "test-hash",
		FullName:     "测试用户" + username,
		Email:        username + "@example.com",
		Role:         domain.RoleEmployee,
	}
	if mutate != nil {
		mutate(user)
	}

	if err := r.CreateUser(user); err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}

	return user
}

func deactivateTestUser(t *testing.T, r *Repository, userID int64) {
	t.Helper()

	if _, err := r.dbpool.Exec(`UPDATE users SET is_active = FALSE WHERE id = $1`, userID); err != nil {
		t.Fatalf("停用测试用户失败: %v", err)
	}
}

func createTestTraining(t *testing.T, r *Repository, topic string, startAt, endAt *time.Time) *domain.Training {
	t.Helper()

	training := &domain.Training{
		Topic:   topic,
		StartAt: startAt,
		EndAt:   endAt,
	}

	if err := r.CreateTraining(training); err != nil {
		t.Fatalf("创建测试培训失败: %v", err)
	}

	return training
}

func countRows(t *testing.T, r *Repository, query string, args ...any) int {
	t.Helper()

	var count int
	if err := r.dbpool.QueryRow(query, args...).Scan(&count); err != nil {
		t.Fatalf("统计行数失败: %v", err)
	}

	return count
}

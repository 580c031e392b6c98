package handler

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/config"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/notifier"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/repository"
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

// fakeChannel 记录所有发布尝试，并可以让指定序号的发布失败
type fakeChannel struct {
	calls  int
	failAt map[int]error
}

func (f *fakeChannel) PublishWithContext(_ context.Context, _, _ string, _, _ bool, _ amqp.Publishing) error {
	f.calls++
	if err, ok := f.failAt[f.calls]; ok {
		return err
	}
	return nil
}

type testEnv struct {
	handler *Handler
	repo    *repository.Repository
	db      *sql.DB
	channel *fakeChannel
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("无法创建内存数据库: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	// 内存库在多个连接下会各自看到不同的数据库，必须限制为单连接
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("无法初始化表结构: %v", err)
	}

	cfg := &config.Config{}
	cfg.Database.QueryTimeout = 5
	cfg.Database.TransactionTimeout = 10
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600
	cfg.RabbitMQ.PublishTimeout = 5

	repo := repository.NewRepository(cfg, db)
	channel := &fakeChannel{}
	noti := notifier.NewNotifier(cfg, channel)

	h, err := NewHandler(cfg, repo, noti)
	if err != nil {
		t.Fatalf("无法创建 handler: %v", err)
	}
	h.RegisterRoutes()

	return &testEnv{
		handler: h,
		repo:    repo,
		db:      db,
		channel: channel,
	}
}

func (env *testEnv) createUser(t *testing.T, username string, mutate func(*domain.User)) *domain.User {
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

	if err := env.repo.CreateUser(user); err != nil {
		t.Fatalf("创建测试用户失败: %v", err)
	}

	return user
}

func (env *testEnv) createTraining(t *testing.T, topic string, startAt, endAt *time.Time) *domain.Training {
	t.Helper()

	training := &domain.Training{
		Topic:   topic,
		StartAt: startAt,
		EndAt:   endAt,
	}

	if err := env.repo.CreateTraining(training); err != nil {
		t.Fatalf("创建测试培训失败: %v", err)
	}

	return training
}

// authCookie 直接签发登录 cookie，让用例不必绕道登录接口
func (env *testEnv) authCookie(t *testing.T, user *domain.User) *http.Cookie {
	t.Helper()

	expiration := time.Now().Add(time.Hour)
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AuthClaims{
		Role: string(user.Role),
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiration),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Subject:   strconv.FormatInt(user.ID, 10),
		},
	})
	ss, err := token.SignedString([]byte(env.handler.config.JWT.Secret))
	if err != nil {
		t.Fatalf("签发测试令牌失败: %v", err)
	}

	return &http.Cookie{
		Name:  "__training_manager_token",
		Value: ss,
	}
}

func (env *testEnv) doRequest(t *testing.T, method, target string, body any, cookie *http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("请求体序列化失败: %v", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if cookie != nil {
		req.AddCookie(cookie)
	}

	rec := httptest.NewRecorder()
	env.handler.Mux.ServeHTTP(rec, req)
	return rec
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()

	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("响应体应为合法 JSON: %v", err)
	}
	return resp
}

func (env *testEnv) countRows(t *testing.T, query string, args ...any) int {
	t.Helper()

	var count int
	if err := env.db.QueryRow(query, args...).Scan(&count); err != nil {
		t.Fatalf("统计行数失败: %v", err)
	}
	return count
}

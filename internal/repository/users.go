package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
)

func (r *Repository) GetUserByID(id int64) (*domain.User, error) {
	query := `
		SELECT username, password_hash, full_name, email, role, grade, level, function, position_id, dmt_id, is_active, created_at, version
		FROM users WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{
		ID: id,
	}

	dst := []any{&user.Username, &user.PasswordHash, &user.FullName, &user.Email, &user.Role, &user.Grade, &user.Level, &user.Function, &user.PositionID, &user.DMTID, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) GetUserByUsername(username string) (*domain.User, error) {
	query := `
		SELECT id, password_hash, full_name, email, role, grade, level, function, position_id, dmt_id, is_active, created_at, version
		FROM users WHERE username = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	user := &domain.User{
		Username: username,
	}

	dst := []any{&user.ID, &user.PasswordHash, &user.FullName, &user.Email, &user.Role, &user.Grade, &user.Level, &user.Function, &user.PositionID, &user.DMTID, &user.IsActive, &user.CreatedAt, &user.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, username).Scan(dst...); err != nil {
		return nil, err
	}

	return user, nil
}

func (r *Repository) CreateUser(user *domain.User) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO users (username, password_hash, full_name, email, role, grade, level, function, position_id, dmt_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, is_active, created_at, version
	`

	args := []any{user.Username, user.PasswordHash, user.FullName, user.Email, user.Role, user.Grade, user.Level, user.Function, user.PositionID, user.DMTID}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&user.ID, &user.IsActive, &user.CreatedAt, &user.Version); err != nil {
		return err
	}

	return nil
}

// resolveAssignees 把分配规则展开为具体的在职用户集合，在创建分配的事务内执行。
// 离职用户静默排除；解析结果为空集时返回 domain.ErrNoRecipients。
func (r *Repository) resolveAssignees(ctx context.Context, tx *sql.Tx, assigneeType domain.AssigneeType, selector string) ([]*domain.User, error) {
	selector = strings.TrimSpace(selector)
	if selector == "" {
		return nil, domain.NewValidationError("缺少分配对象")
	}

	var (
		condition string
		arg       any
	)

	// 分配对象类型是封闭集合，新增类型时必须补充对应分支
	switch assigneeType {
	case domain.AssigneeTypeIndividual:
		userID, err := strconv.ParseInt(selector, 10, 64)
		if err != nil {
			return nil, domain.NewValidationError("用户 ID 必须是数字")
		}
		condition, arg = "id = $1", userID
	case domain.AssigneeTypeGrade:
		condition, arg = "grade = $1", selector
	case domain.AssigneeTypeLevel:
		condition, arg = "level = $1", selector
	case domain.AssigneeTypePosition:
		positionID, err := strconv.ParseInt(selector, 10, 64)
		if err != nil {
			return nil, domain.NewValidationError("岗位 ID 必须是数字")
		}
		condition, arg = "position_id = $1", positionID
	case domain.AssigneeTypeDMT:
		dmtID, err := strconv.ParseInt(selector, 10, 64)
		if err != nil {
			return nil, domain.NewValidationError("部门 ID 必须是数字")
		}
		condition, arg = "dmt_id = $1", dmtID
	case domain.AssigneeTypeFunction:
		condition, arg = "function = $1", selector
	default:
		return nil, domain.NewValidationError("不支持的分配对象类型")
	}

	query := `
		SELECT id, full_name, email FROM users
		WHERE is_active = TRUE AND ` + condition + `
		ORDER BY id
	`

	rows, err := tx.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		user := &domain.User{}
		if err := rows.Scan(&user.ID, &user.FullName, &user.Email); err != nil {
			return nil, err
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(users) == 0 {
		return nil, domain.ErrNoRecipients
	}

	return users, nil
}

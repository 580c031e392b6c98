package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
)

// CreateAssignment 在一个事务内完成分配的创建：
// 读取培训快照 -> 插入分配记录 -> 解析接收人 -> 逐个插入接收记录 -> 提交。
// 任何一步失败整个事务回滚，不会留下半成品的分配。
// 只有提交成功才会返回 CommittedAssignment，后续的通知派发只接受这个类型。
func (r *Repository) CreateAssignment(trainingID int64, assigneeType domain.AssigneeType, selector string, assignerID int64, notes *string) (*domain.CommittedAssignment, error) {
	// 空白备注统一归一化为 NULL，避免存入空字符串
	if notes != nil && strings.TrimSpace(*notes) == "" {
		notes = nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	snapshot, err := r.getTrainingSnapshot(ctx, tx, trainingID)
	if err != nil {
		return nil, err
	}

	assignment := domain.Assignment{
		TrainingID:   trainingID,
		AssigneeType: assigneeType,
		AssigneeID:   selector,
		AssignedBy:   assignerID,
	}

	query := `
		INSERT INTO training_assignments (training_id, assignee_type, assignee_id, assigned_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	params := []any{trainingID, assigneeType, selector, assignerID}
	if err := tx.QueryRowContext(ctx, query, params...).Scan(&assignment.ID, &assignment.CreatedAt); err != nil {
		return nil, err
	}

	assignees, err := r.resolveAssignees(ctx, tx, assigneeType, selector)
	if err != nil {
		return nil, err
	}

	recipients := make([]domain.CommittedRecipient, 0, len(assignees))
	for _, assignee := range assignees {
		query = `
			INSERT INTO training_assignment_recipients (assignment_id, user_id, status, notes)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		params = []any{assignment.ID, assignee.ID, domain.RecipientStatusPending, notes}

		var recipientID int64
		if err := tx.QueryRowContext(ctx, query, params...).Scan(&recipientID); err != nil {
			return nil, err
		}

		recipients = append(recipients, domain.CommittedRecipient{
			RecipientID: recipientID,
			UserID:      assignee.ID,
			FullName:    assignee.FullName,
			Email:       assignee.Email,
		})
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return &domain.CommittedAssignment{
		Assignment: assignment,
		Training:   *snapshot,
		Recipients: recipients,
	}, nil
}

// AssignmentFilter 是分配列表查询的过滤条件
type AssignmentFilter struct {
	UserID     *int64
	TrainingID *int64
	Status     *domain.RecipientStatus
	Limit      int
	Offset     int
}

func (r *Repository) GetAssignments(filter AssignmentFilter) ([]*domain.AssignmentSummary, error) {
	conditions := []string{}
	args := []any{}

	if filter.UserID != nil {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM training_assignment_recipients ar WHERE ar.assignment_id = a.id AND ar.user_id = $%d)", len(args)+1))
		args = append(args, *filter.UserID)
	}
	if filter.TrainingID != nil {
		conditions = append(conditions, fmt.Sprintf("a.training_id = $%d", len(args)+1))
		args = append(args, *filter.TrainingID)
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("EXISTS (SELECT 1 FROM training_assignment_recipients ar WHERE ar.assignment_id = a.id AND ar.status = $%d)", len(args)+1))
		args = append(args, *filter.Status)
	}

	query := `
		SELECT
			a.id,
			a.training_id,
			t.topic,
			a.assignee_type,
			a.assignee_id,
			a.assigned_by,
			a.created_at,
			(SELECT COUNT(*) FROM training_assignment_recipients ar WHERE ar.assignment_id = a.id)
		FROM training_assignments a
		JOIN trainings t ON a.training_id = t.id
	`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += fmt.Sprintf(" ORDER BY a.id DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, filter.Limit, filter.Offset)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	summaries := make([]*domain.AssignmentSummary, 0)
	for rows.Next() {
		summary := &domain.AssignmentSummary{}
		dst := []any{
			&summary.ID,
			&summary.TrainingID,
			&summary.TrainingTopic,
			&summary.AssigneeType,
			&summary.AssigneeID,
			&summary.AssignedBy,
			&summary.CreatedAt,
			&summary.RecipientsCount,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		summaries = append(summaries, summary)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return summaries, nil
}

func (r *Repository) GetAssignmentByID(id int64) (*domain.Assignment, error) {
	query := `
		SELECT training_id, assignee_type, assignee_id, assigned_by, created_at
		FROM training_assignments WHERE id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	assignment := &domain.Assignment{
		ID: id,
	}

	dst := []any{&assignment.TrainingID, &assignment.AssigneeType, &assignment.AssigneeID, &assignment.AssignedBy, &assignment.CreatedAt}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return assignment, nil
}

// GetAssignmentRoster 返回某个分配的完整名单，附带接收人的用户属性
func (r *Repository) GetAssignmentRoster(assignmentID int64) ([]*domain.RosterEntry, error) {
	query := `
		SELECT
			ar.id,
			ar.user_id,
			ar.status,
			ar.notes,
			ar.updated_at,
			u.username,
			u.full_name,
			u.email,
			u.grade,
			u.level,
			u.function
		FROM training_assignment_recipients ar
		JOIN users u ON ar.user_id = u.id
		WHERE ar.assignment_id = $1
		ORDER BY ar.id
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	rows, err := r.dbpool.QueryContext(ctx, query, assignmentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.RosterEntry, 0)
	for rows.Next() {
		entry := &domain.RosterEntry{}
		entry.AssignmentID = assignmentID
		dst := []any{
			&entry.ID,
			&entry.UserID,
			&entry.Status,
			&entry.Notes,
			&entry.UpdatedAt,
			&entry.Username,
			&entry.FullName,
			&entry.Email,
			&entry.Grade,
			&entry.Level,
			&entry.Function,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return entries, nil
}

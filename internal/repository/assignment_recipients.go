package repository

import (
	"context"
	"time"

	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
)

// GetRecipientDetail 读取单条接收记录，连带接收人姓名、培训主题和
// 父分配的创建人，后两条更新路径的权限判断都依赖这里的结果。
func (r *Repository) GetRecipientDetail(id int64) (*domain.RecipientDetail, error) {
	query := `
		SELECT
			ar.assignment_id,
			ar.user_id,
			ar.status,
			ar.notes,
			ar.updated_at,
			u.full_name,
			t.topic,
			a.assigned_by
		FROM training_assignment_recipients ar
		JOIN training_assignments a ON ar.assignment_id = a.id
		JOIN trainings t ON a.training_id = t.id
		JOIN users u ON ar.user_id = u.id
		WHERE ar.id = $1
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	detail := &domain.RecipientDetail{}
	detail.ID = id

	dst := []any{
		&detail.AssignmentID,
		&detail.UserID,
		&detail.Status,
		&detail.Notes,
		&detail.UpdatedAt,
		&detail.RecipientName,
		&detail.TrainingTopic,
		&detail.AssignedBy,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, id).Scan(dst...); err != nil {
		return nil, err
	}

	return detail, nil
}

// UpdateRecipient 按当前内存中的状态和备注整行覆盖写回，并刷新更新时间。
// 接收记录上没有版本号，并发更新按后写覆盖处理。
func (r *Repository) UpdateRecipient(recipient *domain.RecipientDetail) error {
	query := `
		UPDATE training_assignment_recipients
		SET
			status = $1,
			notes = $2,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = $3
		RETURNING updated_at
	`

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	params := []any{recipient.Status, recipient.Notes, recipient.ID}
	if err := r.dbpool.QueryRowContext(ctx, query, params...).Scan(&recipient.UpdatedAt); err != nil {
		return err
	}

	return nil
}

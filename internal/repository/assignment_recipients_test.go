package repository

import (
	"database/sql"
	"errors"
	"strconv"
	"testing"

	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
)

func TestGetRecipientDetail(t *testing.T) {
	r := newTestRepository(t)

	assigner := createTestUser(t, r, "admin1", func(u *domain.User) { u.Role = domain.RoleAdmin })
	recipient := createTestUser(t, r, "zhangsan", nil)
	training := createTestTraining(t, r, "信息安全意识", nil, nil)

	committed, err := r.CreateAssignment(training.ID, domain.AssigneeTypeIndividual, strconv.FormatInt(recipient.ID, 10), assigner.ID, nil)
	if err != nil {
		t.Fatalf("创建分配失败: %v", err)
	}

	detail, err := r.GetRecipientDetail(committed.Recipients[0].RecipientID)
	if err != nil {
		t.Fatalf("读取接收记录失败: %v", err)
	}

	if detail.AssignmentID != committed.Assignment.ID {
		t.Errorf("所属分配应为 %d，实际为 %d", committed.Assignment.ID, detail.AssignmentID)
	}
	if detail.UserID != recipient.ID {
		t.Errorf("接收人应为用户 %d，实际为 %d", recipient.ID, detail.UserID)
	}
	if detail.Status != domain.RecipientStatusPending {
		t.Errorf("初始状态应为 pending，实际为 %s", detail.Status)
	}
	if detail.RecipientName != recipient.FullName {
		t.Errorf("接收人姓名应为 %s，实际为 %s", recipient.FullName, detail.RecipientName)
	}
	if detail.TrainingTopic != "信息安全意识" {
		t.Errorf("培训主题应为 信息安全意识，实际为 %s", detail.TrainingTopic)
	}
	if detail.AssignedBy != assigner.ID {
		t.Errorf("分配人应为 %d，实际为 %d", assigner.ID, detail.AssignedBy)
	}
}

func TestGetRecipientDetailNotFound(t *testing.T) {
	r := newTestRepository(t)

	_, err := r.GetRecipientDetail(9999)
	if !errors.Is(err, sql.ErrNoRows) {
		t.Fatalf("应返回 sql.ErrNoRows，实际为 %v", err)
	}
}

func TestUpdateRecipient(t *testing.T) {
	r := newTestRepository(t)

	assigner := createTestUser(t, r, "admin1", func(u *domain.User) { u.Role = domain.RoleAdmin })
	recipient := createTestUser(t, r, "zhangsan", nil)
	training := createTestTraining(t, r, "合规与职业道德", nil, nil)

	committed, err := r.CreateAssignment(training.ID, domain.AssigneeTypeIndividual, strconv.FormatInt(recipient.ID, 10), assigner.ID, nil)
	if err != nil {
		t.Fatalf("创建分配失败: %v", err)
	}

	detail, err := r.GetRecipientDetail(committed.Recipients[0].RecipientID)
	if err != nil {
		t.Fatalf("读取接收记录失败: %v", err)
	}

	notes := "已线下完成"
	detail.Status = domain.RecipientStatusCompleted
	detail.Notes = &notes
	if err := r.UpdateRecipient(detail); err != nil {
		t.Fatalf("更新接收记录失败: %v", err)
	}

	reloaded, err := r.GetRecipientDetail(detail.ID)
	if err != nil {
		t.Fatalf("重新读取接收记录失败: %v", err)
	}
	if reloaded.Status != domain.RecipientStatusCompleted {
		t.Errorf("状态应更新为 completed，实际为 %s", reloaded.Status)
	}
	if reloaded.Notes == nil || *reloaded.Notes != notes {
		t.Errorf("备注应更新为 %q，实际为 %v", notes, reloaded.Notes)
	}
}

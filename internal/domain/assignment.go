package domain

import (
	"time"
)

// AssigneeType 决定了分配规则中 assigneeId 的解释方式
type AssigneeType string

const (
	AssigneeTypeIndividual AssigneeType = "individual" // 单个用户 ID
	AssigneeTypeGrade      AssigneeType = "grade"      // 职等编码
	AssigneeTypeLevel      AssigneeType = "level"      // 职级编码
	AssigneeTypePosition   AssigneeType = "position"   // 岗位 ID
	AssigneeTypeDMT        AssigneeType = "dmt"        // 部门/团队 ID
	AssigneeTypeFunction   AssigneeType = "function"   // 职能编码
)

type RecipientStatus string

const (
	RecipientStatusPending   RecipientStatus = "pending"
	RecipientStatusCompleted RecipientStatus = "completed"
	RecipientStatusCancelled RecipientStatus = "cancelled"
)

type Assignment struct {
	ID           int64        `json:"id"`
	TrainingID   int64        `json:"trainingId"`
	AssigneeType AssigneeType `json:"assigneeType"`
	AssigneeID   string       `json:"assigneeId"`
	AssignedBy   int64        `json:"assignedBy"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// AssignmentSummary 是分配列表查询的返回项
type AssignmentSummary struct {
	ID              int64        `json:"id"`
	TrainingID      int64        `json:"trainingId"`
	TrainingTopic   string       `json:"trainingTopic"`
	AssigneeType    AssigneeType `json:"assigneeType"`
	AssigneeID      string       `json:"assigneeId"`
	AssignedBy      int64        `json:"assignedBy"`
	CreatedAt       time.Time    `json:"createdAt"`
	RecipientsCount int64        `json:"recipientsCount"`
}

type AssignmentRecipient struct {
	ID           int64           `json:"id"`
	AssignmentID int64           `json:"assignmentId"`
	UserID       int64           `json:"userId"`
	Status       RecipientStatus `json:"status"`
	Notes        *string         `json:"notes"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// RecipientDetail 在接收记录的基础上带上了接收人姓名和培训主题，
// 另外带上父分配的创建人和培训 ID 供两条更新路径做权限判断。
type RecipientDetail struct {
	AssignmentRecipient
	RecipientName string `json:"recipientName"`
	TrainingTopic string `json:"trainingTopic"`
	AssignedBy    int64  `json:"-"`
}

// RosterEntry 是分配名单查询的返回项，附带接收人的用户属性
type RosterEntry struct {
	AssignmentRecipient
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`
	Grade    string `json:"grade"`
	Level    string `json:"level"`
	Function string `json:"function"`
}

// CommittedRecipient 是事务提交后返回给通知阶段的接收人信息
type CommittedRecipient struct {
	RecipientID int64
	UserID      int64
	FullName    string
	Email       string
}

// CommittedAssignment 只能由成功提交的分配事务产生，
// 通知派发只接受这个类型，从而保证通知一定发生在提交之后。
type CommittedAssignment struct {
	Assignment Assignment
	Training   TrainingSnapshot
	Recipients []CommittedRecipient
}

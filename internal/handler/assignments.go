package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/sysu-ecnc-dev/training-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/training-manager/backend/internal/repository"
)

func (h *Handler) CreateAssignment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		TrainingID   *int64  `json:"trainingId" validate:"required"`
		AssigneeType string  `json:"assigneeType" validate:"required,oneof=individual grade level position dmt function"`
		AssigneeID   string  `json:"assigneeId"`
		Notes        *string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	assignerID, err := h.requesterID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	committed, err := h.repository.CreateAssignment(*req.TrainingID, domain.AssigneeType(req.AssigneeType), req.AssigneeID, assignerID, req.Notes)
	if err != nil {
		var validationErr *domain.ValidationError
		switch {
		case errors.As(err, &validationErr):
			h.errorResponse(w, r, http.StatusBadRequest, validationErr.Message)
		case errors.Is(err, domain.ErrNoRecipients):
			h.errorResponse(w, r, http.StatusBadRequest, err.Error())
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "培训不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	// 通知在事务提交之后才进行，投递失败只记录日志，不影响已创建的分配
	h.notifier.NotifyAll(committed)

	h.successResponse(w, r, http.StatusCreated, "分配创建成功", map[string]any{
		"assignmentId":    committed.Assignment.ID,
		"recipientsCount": len(committed.Recipients),
	})
}

func (h *Handler) GetAssignments(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	filter := repository.AssignmentFilter{}

	if v := query.Get("userId"); v != "" {
		userID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "userId 必须是数字")
			return
		}
		filter.UserID = &userID
	}

	if v := query.Get("trainingId"); v != "" {
		trainingID, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.errorResponse(w, r, http.StatusBadRequest, "trainingId 必须是数字")
			return
		}
		filter.TrainingID = &trainingID
	}

	if v := query.Get("status"); v != "" {
		status := domain.RecipientStatus(v)
		switch status {
		case domain.RecipientStatusPending, domain.RecipientStatusCompleted, domain.RecipientStatusCancelled:
			filter.Status = &status
		default:
			h.errorResponse(w, r, http.StatusBadRequest, "无效的状态")
			return
		}
	}

	page := 1
	if v := query.Get("page"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			h.errorResponse(w, r, http.StatusBadRequest, "page 必须是正整数")
			return
		}
		page = parsed
	}

	pageSize := 20
	if v := query.Get("pageSize"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 || parsed > 100 {
			h.errorResponse(w, r, http.StatusBadRequest, "pageSize 必须是 1 到 100 之间的整数")
			return
		}
		pageSize = parsed
	}

	filter.Limit = pageSize
	filter.Offset = (page - 1) * pageSize

	summaries, err := h.repository.GetAssignments(filter)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "获取分配列表成功", summaries)
}

func (h *Handler) GetAssignmentRecipients(w http.ResponseWriter, r *http.Request) {
	assignment := r.Context().Value(AssignmentCtx).(*domain.Assignment)

	roster, err := h.repository.GetAssignmentRoster(assignment.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, http.StatusOK, "获取分配名单成功", roster)
}

// UpdateRecipientStatus 是分配人路径，只有创建该分配的人可以调用
func (h *Handler) UpdateRecipientStatus(w http.ResponseWriter, r *http.Request) {
	detail := r.Context().Value(RecipientCtx).(*domain.RecipientDetail)

	// 权限判断先于参数校验，非分配人一律拒绝
	requesterID, err := h.requesterID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if requesterID != detail.AssignedBy {
		h.forbidden(w, r)
		return
	}

	var req struct {
		Status *string `json:"status" validate:"omitempty,oneof=pending completed cancelled"`
		Notes  *string `json:"notes"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	// 空更新直接拒绝，而不是静默接受
	if req.Status == nil && req.Notes == nil {
		h.errorResponse(w, r, http.StatusBadRequest, "状态和备注至少需要提供一项")
		return
	}

	if req.Status != nil {
		detail.Status = domain.RecipientStatus(*req.Status)
	}
	if req.Notes != nil {
		detail.Notes = req.Notes
	}

	if err := h.repository.UpdateRecipient(detail); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "接收记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, http.StatusOK, "更新接收记录成功", detail)
}

// SelfUpdateRecipient 是接收人自助路径，只能更新自己的完成状态，
// 且不允许自行取消
func (h *Handler) SelfUpdateRecipient(w http.ResponseWriter, r *http.Request) {
	detail := r.Context().Value(RecipientCtx).(*domain.RecipientDetail)

	// 权限判断先于参数校验，非本人一律拒绝
	requesterID, err := h.requesterID(r)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if requesterID != detail.UserID {
		h.forbidden(w, r)
		return
	}

	var req struct {
		Status string `json:"status" validate:"required,oneof=pending completed"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	detail.Status = domain.RecipientStatus(req.Status)

	if err := h.repository.UpdateRecipient(detail); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.notFound(w, r, "接收记录不存在")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, http.StatusOK, "更新完成状态成功", detail)
}

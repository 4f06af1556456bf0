package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pharmacy-roster/backend/internal/dto"
	"pharmacy-roster/backend/internal/service"
	pkgerrors "pharmacy-roster/backend/pkg/errors"
	"pharmacy-roster/backend/pkg/response"
)

// StaffHandler 员工模块 HTTP 处理器
type StaffHandler struct {
	staffSvc service.StaffService
}

// NewStaffHandler 创建 StaffHandler
func NewStaffHandler(staffSvc service.StaffService) *StaffHandler {
	return &StaffHandler{staffSvc: staffSvc}
}

// List 员工列表
// GET /api/v1/staff
func (h *StaffHandler) List(c *gin.Context) {
	staff, err := h.staffSvc.List(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, staff)
}

// Create 新增员工
// POST /api/v1/staff
func (h *StaffHandler) Create(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	staff, err := h.staffSvc.Create(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, staff)
}

// Update 更新员工属性
// PUT /api/v1/staff/:id
func (h *StaffHandler) Update(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	staff, err := h.staffSvc.Update(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrStaffNotFound):
			response.NotFound(c, 12001, "员工不存在")
		case errors.Is(err, pkgerrors.ErrOptimisticLock):
			response.Error(c, http.StatusConflict, 12002, "数据已被其他操作修改，请刷新后重试")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, staff)
}

// Delete 删除员工
// DELETE /api/v1/staff/:id
func (h *StaffHandler) Delete(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.staffSvc.Delete(c.Request.Context(), c.Param("id"), callerID); err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.NotFound(c, 12001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, nil)
}

// Resize 调整某角色的员工数量
// POST /api/v1/staff/resize
func (h *StaffHandler) Resize(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ResizeStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	staff, err := h.staffSvc.Resize(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, staff)
}

// SetMark 设置员工某日标记（NONE 清除标记）
// PUT /api/v1/staff/:id/marks
func (h *StaffHandler) SetMark(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SetMarkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.staffSvc.SetMark(c.Request.Context(), c.Param("id"), &req, callerID); err != nil {
		switch {
		case errors.Is(err, service.ErrStaffNotFound):
			response.NotFound(c, 12001, "员工不存在")
		case errors.Is(err, service.ErrInvalidMarkType):
			response.BadRequest(c, 12003, "无效的标记类型")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, nil)
}

// ListMarks 员工全部日期标记
// GET /api/v1/staff/:id/marks
func (h *StaffHandler) ListMarks(c *gin.Context) {
	marks, err := h.staffSvc.ListMarks(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrStaffNotFound) {
			response.NotFound(c, 12001, "员工不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, marks)
}

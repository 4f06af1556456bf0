package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"pharmacy-roster/backend/internal/dto"
	"pharmacy-roster/backend/internal/service"
	"pharmacy-roster/backend/pkg/response"
)

// ScheduleHandler 排班模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// Generate 生成 28 天排班
// POST /api/v1/schedules
func (h *ScheduleHandler) Generate(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Generate(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.Created(c, result)
}

// GetLatest 获取当前生效中的排班
// GET /api/v1/schedules/latest
func (h *ScheduleHandler) GetLatest(c *gin.Context) {
	result, err := h.scheduleSvc.GetLatest(c.Request.Context())
	if err != nil {
		if errors.Is(err, service.ErrNoActiveRun) {
			response.NotFound(c, 13002, "当前没有生效中的排班")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// GetByID 获取指定排班运行
// GET /api/v1/schedules/:id
func (h *ScheduleHandler) GetByID(c *gin.Context) {
	result, err := h.scheduleSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			response.NotFound(c, 13001, "排班运行不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

// SetOverride 单格覆写
// PUT /api/v1/schedules/:id/override
func (h *ScheduleHandler) SetOverride(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.SetOverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.SetOverride(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRunNotFound):
			response.NotFound(c, 13001, "排班运行不存在")
		case errors.Is(err, service.ErrStaffNotFound):
			response.NotFound(c, 12001, "员工不存在")
		case errors.Is(err, service.ErrInvalidShiftCode):
			response.BadRequest(c, 13003, "该角色不存在此班别代码")
		case errors.Is(err, service.ErrInvalidMarkType):
			response.BadRequest(c, 12003, "无效的标记类型")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// CycleCell 单格循环点击：空白 → 班别 → 标记 → 空白
// POST /api/v1/schedules/:id/cycle
func (h *ScheduleHandler) CycleCell(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.CycleCellRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.CycleCell(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrRunNotFound):
			response.NotFound(c, 13001, "排班运行不存在")
		case errors.Is(err, service.ErrStaffNotFound):
			response.NotFound(c, 12001, "员工不存在")
		default:
			response.InternalError(c)
		}
		return
	}
	response.OK(c, result)
}

// ClearOverrides 清空覆写（可按日）
// POST /api/v1/schedules/:id/overrides/clear
func (h *ScheduleHandler) ClearOverrides(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	// 请求体可为空：空体表示清空整个运行的覆写
	var req dto.ClearOverridesRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.BadRequest(c, 10001, "参数校验失败")
			return
		}
	}

	result, err := h.scheduleSvc.ClearOverrides(c.Request.Context(), c.Param("id"), &req, callerID)
	if err != nil {
		if errors.Is(err, service.ErrRunNotFound) {
			response.NotFound(c, 13001, "排班运行不存在")
			return
		}
		response.InternalError(c)
		return
	}
	response.OK(c, result)
}

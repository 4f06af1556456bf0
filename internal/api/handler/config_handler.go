package handler

import (
	"github.com/gin-gonic/gin"

	"pharmacy-roster/backend/internal/dto"
	"pharmacy-roster/backend/internal/service"
	"pharmacy-roster/backend/pkg/response"
)

// ConfigHandler 排班配置模块 HTTP 处理器
type ConfigHandler struct {
	configSvc service.ConfigService
}

// NewConfigHandler 创建 ConfigHandler
func NewConfigHandler(configSvc service.ConfigService) *ConfigHandler {
	return &ConfigHandler{configSvc: configSvc}
}

// Get 获取完整排班配置（整点需求 + 覆盖规则）
// GET /api/v1/config
func (h *ConfigHandler) Get(c *gin.Context) {
	cfg, err := h.configSvc.GetConfig(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, cfg)
}

// UpdateRequirements 批量更新整点人力需求
// PUT /api/v1/config/requirements
func (h *ConfigHandler) UpdateRequirements(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateRequirementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cfg, err := h.configSvc.UpdateRequirements(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, cfg)
}

// UpdateCoverage 批量更新药师覆盖规则
// PUT /api/v1/config/coverage
func (h *ConfigHandler) UpdateCoverage(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.UpdateCoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cfg, err := h.configSvc.UpdateCoverage(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, cfg)
}

// ApplyPreset 套用预设配置
// POST /api/v1/config/preset
func (h *ConfigHandler) ApplyPreset(c *gin.Context) {
	callerID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	var req dto.ApplyPresetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	cfg, err := h.configSvc.ApplyPreset(c.Request.Context(), &req, callerID)
	if err != nil {
		response.InternalError(c)
		return
	}
	response.OK(c, cfg)
}

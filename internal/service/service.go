package service

import (
	"go.uber.org/zap"

	"pharmacy-roster/backend/config"
	"pharmacy-roster/backend/internal/repository"
	"pharmacy-roster/backend/pkg/jwt"
	"pharmacy-roster/backend/pkg/redis"
)

// Service 所有 Service 的聚合入口
type Service struct {
	Auth     AuthService
	Staff    StaffService
	Config   ConfigService
	Schedule ScheduleService
	Export   ExportService
}

// NewService 创建 Service 聚合
func NewService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) *Service {
	scheduleSvc := NewScheduleService(cfg, repo, logger)
	return &Service{
		Auth:     NewAuthService(cfg, repo, jwtMgr, rdb, logger),
		Staff:    NewStaffService(repo, logger),
		Config:   NewConfigService(repo, logger),
		Schedule: scheduleSvc,
		Export:   NewExportService(repo, scheduleSvc, logger),
	}
}

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"pharmacy-roster/backend/internal/dto"
	"pharmacy-roster/backend/internal/model"
	"pharmacy-roster/backend/internal/repository"
	"pharmacy-roster/backend/internal/roster"
	pkgerrors "pharmacy-roster/backend/pkg/errors"
)

// ── 员工模块业务错误 ──

var (
	ErrStaffNotFound   = errors.New("员工不存在")
	ErrInvalidMarkType = errors.New("无效的标记类型")
)

// StaffService 员工业务接口
type StaffService interface {
	List(ctx context.Context) ([]dto.StaffResponse, error)
	Create(ctx context.Context, req *dto.CreateStaffRequest, callerID string) (*dto.StaffResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateStaffRequest, callerID string) (*dto.StaffResponse, error)
	Delete(ctx context.Context, id string, callerID string) error
	Resize(ctx context.Context, req *dto.ResizeStaffRequest, callerID string) ([]dto.StaffResponse, error)
	SetMark(ctx context.Context, staffID string, req *dto.SetMarkRequest, callerID string) error
	ListMarks(ctx context.Context, staffID string) ([]dto.MarkResponse, error)
}

type staffService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewStaffService 创建 StaffService 实例
func NewStaffService(repo *repository.Repository, logger *zap.Logger) StaffService {
	return &staffService{repo: repo, logger: logger}
}

func (s *staffService) List(ctx context.Context) ([]dto.StaffResponse, error) {
	staff, err := s.repo.Staff.List(ctx)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.StaffResponse, 0, len(staff))
	for i := range staff {
		result = append(result, toStaffResponse(&staff[i]))
	}
	return result, nil
}

func (s *staffService) Create(ctx context.Context, req *dto.CreateStaffRequest, callerID string) (*dto.StaffResponse, error) {
	maxOrder, err := s.repo.Staff.MaxSortOrder(ctx, req.Role)
	if err != nil {
		s.logger.Error("查询排序序号失败", zap.Error(err))
		return nil, err
	}

	staff := &model.Staff{
		Name:      req.Name,
		Role:      req.Role,
		StaffType: req.StaffType,
		Score:     req.Score,
		HasKey:    req.HasKey,
		SortOrder: maxOrder + 1,
	}
	if staff.StaffType == "" {
		staff.StaffType = roster.StaffTypeGeneral
	}
	if staff.Score == 0 {
		staff.Score = 1
	}
	staff.CreatedBy = &callerID
	staff.UpdatedBy = &callerID

	if err := s.repo.Staff.Create(ctx, staff); err != nil {
		s.logger.Error("创建员工失败", zap.Error(err))
		return nil, err
	}

	resp := toStaffResponse(staff)
	return &resp, nil
}

func (s *staffService) Update(ctx context.Context, id string, req *dto.UpdateStaffRequest, callerID string) (*dto.StaffResponse, error) {
	staff, err := s.repo.Staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return nil, err
	}

	// 乐观锁：请求携带的版本必须与当前版本一致
	if staff.Version != req.Version {
		return nil, pkgerrors.ErrOptimisticLock
	}

	if req.Name != nil {
		staff.Name = *req.Name
	}
	if req.StaffType != nil {
		staff.StaffType = *req.StaffType
	}
	if req.Score != nil {
		staff.Score = *req.Score
	}
	if req.HasKey != nil {
		staff.HasKey = *req.HasKey
	}
	staff.Version++
	staff.UpdatedBy = &callerID

	if err := s.repo.Staff.Update(ctx, staff); err != nil {
		s.logger.Error("更新员工失败", zap.Error(err))
		return nil, err
	}

	resp := toStaffResponse(staff)
	return &resp, nil
}

func (s *staffService) Delete(ctx context.Context, id string, callerID string) error {
	if _, err := s.repo.Staff.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		s.logger.Error("查询员工失败", zap.Error(err))
		return err
	}

	if err := s.repo.Staff.Delete(ctx, id, callerID); err != nil {
		s.logger.Error("删除员工失败", zap.Error(err))
		return err
	}
	return nil
}

// Resize 把某角色的员工数调整到目标值。
// 增加时按序补充默认员工（药师N / 门市N），减少时从列表尾部删除
func (s *staffService) Resize(ctx context.Context, req *dto.ResizeStaffRequest, callerID string) ([]dto.StaffResponse, error) {
	existing, err := s.repo.Staff.ListByRole(ctx, req.Role)
	if err != nil {
		s.logger.Error("查询员工列表失败", zap.Error(err))
		return nil, err
	}

	prefix := "药师"
	if req.Role == string(roster.RoleClerk) {
		prefix = "门市"
	}

	switch {
	case len(existing) < req.Count:
		maxOrder, err := s.repo.Staff.MaxSortOrder(ctx, req.Role)
		if err != nil {
			return nil, err
		}
		for i := len(existing); i < req.Count; i++ {
			maxOrder++
			staff := &model.Staff{
				Name:      fmt.Sprintf("%s%d", prefix, i+1),
				Role:      req.Role,
				StaffType: roster.StaffTypeGeneral,
				Score:     1,
				SortOrder: maxOrder,
			}
			staff.CreatedBy = &callerID
			staff.UpdatedBy = &callerID
			if err := s.repo.Staff.Create(ctx, staff); err != nil {
				s.logger.Error("补充员工失败", zap.Error(err))
				return nil, err
			}
		}
	case len(existing) > req.Count:
		for i := len(existing) - 1; i >= req.Count; i-- {
			if err := s.repo.Staff.Delete(ctx, existing[i].StaffID, callerID); err != nil {
				s.logger.Error("删除员工失败", zap.Error(err))
				return nil, err
			}
		}
	}

	updated, err := s.repo.Staff.ListByRole(ctx, req.Role)
	if err != nil {
		return nil, err
	}
	result := make([]dto.StaffResponse, 0, len(updated))
	for i := range updated {
		result = append(result, toStaffResponse(&updated[i]))
	}
	return result, nil
}

// SetMark 设置某员工某天的标记；Type 为 NONE 时删除该标记。
// 计时类标记（公/特/补/支）未携带时数时按默认 8h 处理
func (s *staffService) SetMark(ctx context.Context, staffID string, req *dto.SetMarkRequest, callerID string) error {
	if _, err := s.repo.Staff.GetByID(ctx, staffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrStaffNotFound
		}
		return err
	}

	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		return err
	}

	markType := roster.MarkType(req.Type)
	if markType != roster.MarkNone && markType != roster.MarkOff && !markType.NeedsHours() {
		return ErrInvalidMarkType
	}
	if markType == roster.MarkNone {
		if err := s.repo.StaffMark.Delete(ctx, staffID, date); err != nil {
			s.logger.Error("清除标记失败", zap.Error(err))
			return err
		}
		return nil
	}

	hours := req.Hours
	if markType.NeedsHours() && hours == 0 {
		hours = roster.MarkDefaultHours
	}
	if !markType.NeedsHours() {
		hours = 0
	}

	mark := &model.StaffMark{
		StaffID: staffID,
		Date:    date,
		Type:    req.Type,
		Hours:   hours,
	}
	mark.CreatedBy = &callerID
	mark.UpdatedBy = &callerID

	if err := s.repo.StaffMark.Upsert(ctx, mark); err != nil {
		s.logger.Error("写入标记失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *staffService) ListMarks(ctx context.Context, staffID string) ([]dto.MarkResponse, error) {
	if _, err := s.repo.Staff.GetByID(ctx, staffID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStaffNotFound
		}
		return nil, err
	}

	marks, err := s.repo.StaffMark.ListByStaff(ctx, staffID)
	if err != nil {
		s.logger.Error("查询标记失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.MarkResponse, 0, len(marks))
	for _, m := range marks {
		result = append(result, dto.MarkResponse{
			StaffID: m.StaffID,
			Date:    m.Date.Format("2006-01-02"),
			Type:    m.Type,
			Hours:   m.Hours,
		})
	}
	return result, nil
}

func toStaffResponse(staff *model.Staff) dto.StaffResponse {
	return dto.StaffResponse{
		ID:        staff.StaffID,
		Name:      staff.Name,
		Role:      staff.Role,
		StaffType: staff.StaffType,
		Score:     staff.Score,
		HasKey:    staff.HasKey,
		SortOrder: staff.SortOrder,
		Version:   staff.Version,
	}
}

package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pharmacy-roster/backend/internal/model"
)

// ScheduleRunRepository 排班运行数据访问接口
type ScheduleRunRepository interface {
	Create(ctx context.Context, run *model.ScheduleRun) error
	GetByID(ctx context.Context, id string) (*model.ScheduleRun, error)
	GetLatestActive(ctx context.Context) (*model.ScheduleRun, error)
	Update(ctx context.Context, run *model.ScheduleRun) error
	ArchiveActive(ctx context.Context, updatedBy string) error
}

// scheduleRunRepo ScheduleRunRepository 的 GORM 实现
type scheduleRunRepo struct {
	db *gorm.DB
}

// NewScheduleRunRepo 创建 ScheduleRunRepository 实例
func NewScheduleRunRepo(db *gorm.DB) ScheduleRunRepository {
	return &scheduleRunRepo{db: db}
}

func (r *scheduleRunRepo) Create(ctx context.Context, run *model.ScheduleRun) error {
	return r.db.WithContext(ctx).Create(run).Error
}

func (r *scheduleRunRepo) GetByID(ctx context.Context, id string) (*model.ScheduleRun, error) {
	var run model.ScheduleRun
	err := r.db.WithContext(ctx).
		Where("run_id = ?", id).
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *scheduleRunRepo) GetLatestActive(ctx context.Context) (*model.ScheduleRun, error) {
	var run model.ScheduleRun
	err := r.db.WithContext(ctx).
		Where("status = ?", "active").
		Order("created_at DESC").
		First(&run).Error
	if err != nil {
		return nil, err
	}
	return &run, nil
}

func (r *scheduleRunRepo) Update(ctx context.Context, run *model.ScheduleRun) error {
	return r.db.WithContext(ctx).Save(run).Error
}

// ArchiveActive 将所有 active 运行归档（新运行生成前调用）
func (r *scheduleRunRepo) ArchiveActive(ctx context.Context, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.ScheduleRun{}).
		Where("status = ?", "active").
		Updates(map[string]interface{}{
			"status":     "archived",
			"updated_by": updatedBy,
		}).Error
}

// ScheduleBlockRepository 基线班次数据访问接口
type ScheduleBlockRepository interface {
	BatchCreate(ctx context.Context, blocks []model.ScheduleBlock) error
	ListByRun(ctx context.Context, runID string) ([]model.ScheduleBlock, error)
	DeleteByRun(ctx context.Context, runID string) error
}

// scheduleBlockRepo ScheduleBlockRepository 的 GORM 实现
type scheduleBlockRepo struct {
	db *gorm.DB
}

// NewScheduleBlockRepo 创建 ScheduleBlockRepository 实例
func NewScheduleBlockRepo(db *gorm.DB) ScheduleBlockRepository {
	return &scheduleBlockRepo{db: db}
}

func (r *scheduleBlockRepo) BatchCreate(ctx context.Context, blocks []model.ScheduleBlock) error {
	if len(blocks) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(&blocks, 200).Error
}

func (r *scheduleBlockRepo) ListByRun(ctx context.Context, runID string) ([]model.ScheduleBlock, error) {
	var blocks []model.ScheduleBlock
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("date, start_time, staff_id").
		Find(&blocks).Error
	return blocks, err
}

func (r *scheduleBlockRepo) DeleteByRun(ctx context.Context, runID string) error {
	return r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Delete(&model.ScheduleBlock{}).Error
}

// ScheduleOverrideRepository 单格覆写数据访问接口
type ScheduleOverrideRepository interface {
	Upsert(ctx context.Context, override *model.ScheduleOverride) error
	Get(ctx context.Context, runID string, date time.Time, staffID string) (*model.ScheduleOverride, error)
	ListByRun(ctx context.Context, runID string) ([]model.ScheduleOverride, error)
	Delete(ctx context.Context, runID string, date time.Time, staffID string) error
	DeleteByRun(ctx context.Context, runID string) error
	DeleteByRunAndDate(ctx context.Context, runID string, date time.Time) error
}

// scheduleOverrideRepo ScheduleOverrideRepository 的 GORM 实现
type scheduleOverrideRepo struct {
	db *gorm.DB
}

// NewScheduleOverrideRepo 创建 ScheduleOverrideRepository 实例
func NewScheduleOverrideRepo(db *gorm.DB) ScheduleOverrideRepository {
	return &scheduleOverrideRepo{db: db}
}

// Upsert 以 (run_id, date, staff_id) 为冲突键插入或更新覆写
func (r *scheduleOverrideRepo) Upsert(ctx context.Context, override *model.ScheduleOverride) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "run_id"}, {Name: "date"}, {Name: "staff_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"kind", "code", "mark_type", "hours", "updated_at", "updated_by"}),
		}).
		Create(override).Error
}

func (r *scheduleOverrideRepo) Get(ctx context.Context, runID string, date time.Time, staffID string) (*model.ScheduleOverride, error) {
	var override model.ScheduleOverride
	err := r.db.WithContext(ctx).
		Where("run_id = ? AND date = ? AND staff_id = ?", runID, date, staffID).
		First(&override).Error
	if err != nil {
		return nil, err
	}
	return &override, nil
}

func (r *scheduleOverrideRepo) ListByRun(ctx context.Context, runID string) ([]model.ScheduleOverride, error) {
	var overrides []model.ScheduleOverride
	err := r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Order("date, staff_id").
		Find(&overrides).Error
	return overrides, err
}

func (r *scheduleOverrideRepo) Delete(ctx context.Context, runID string, date time.Time, staffID string) error {
	return r.db.WithContext(ctx).
		Where("run_id = ? AND date = ? AND staff_id = ?", runID, date, staffID).
		Delete(&model.ScheduleOverride{}).Error
}

func (r *scheduleOverrideRepo) DeleteByRun(ctx context.Context, runID string) error {
	return r.db.WithContext(ctx).
		Where("run_id = ?", runID).
		Delete(&model.ScheduleOverride{}).Error
}

func (r *scheduleOverrideRepo) DeleteByRunAndDate(ctx context.Context, runID string, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("run_id = ? AND date = ?", runID, date).
		Delete(&model.ScheduleOverride{}).Error
}

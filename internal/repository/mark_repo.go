package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pharmacy-roster/backend/internal/model"
)

// StaffMarkRepository 员工日期标记数据访问接口
type StaffMarkRepository interface {
	Upsert(ctx context.Context, mark *model.StaffMark) error
	Delete(ctx context.Context, staffID string, date time.Time) error
	ListByStaff(ctx context.Context, staffID string) ([]model.StaffMark, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]model.StaffMark, error)
}

// staffMarkRepo StaffMarkRepository 的 GORM 实现
type staffMarkRepo struct {
	db *gorm.DB
}

// NewStaffMarkRepo 创建 StaffMarkRepository 实例
func NewStaffMarkRepo(db *gorm.DB) StaffMarkRepository {
	return &staffMarkRepo{db: db}
}

// Upsert 以 (staff_id, date) 为冲突键插入或更新标记
func (r *staffMarkRepo) Upsert(ctx context.Context, mark *model.StaffMark) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "staff_id"}, {Name: "date"}},
			DoUpdates: clause.AssignmentColumns([]string{"type", "hours", "updated_at", "updated_by"}),
		}).
		Create(mark).Error
}

func (r *staffMarkRepo) Delete(ctx context.Context, staffID string, date time.Time) error {
	return r.db.WithContext(ctx).
		Where("staff_id = ? AND date = ?", staffID, date).
		Delete(&model.StaffMark{}).Error
}

func (r *staffMarkRepo) ListByStaff(ctx context.Context, staffID string) ([]model.StaffMark, error) {
	var marks []model.StaffMark
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", staffID).
		Order("date").
		Find(&marks).Error
	return marks, err
}

func (r *staffMarkRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.StaffMark, error) {
	var marks []model.StaffMark
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date < ?", from, to).
		Order("staff_id, date").
		Find(&marks).Error
	return marks, err
}

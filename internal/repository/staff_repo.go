package repository

import (
	"context"

	"gorm.io/gorm"

	"pharmacy-roster/backend/internal/model"
)

// StaffRepository 员工数据访问接口
type StaffRepository interface {
	Create(ctx context.Context, staff *model.Staff) error
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	Update(ctx context.Context, staff *model.Staff) error
	Delete(ctx context.Context, id string, deletedBy string) error
	List(ctx context.Context) ([]model.Staff, error)
	ListByRole(ctx context.Context, role string) ([]model.Staff, error)
	CountByRole(ctx context.Context, role string) (int64, error)
	MaxSortOrder(ctx context.Context, role string) (int, error)
}

// staffRepo StaffRepository 的 GORM 实现
type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo 创建 StaffRepository 实例
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) Create(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Create(staff).Error
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	var staff model.Staff
	err := r.db.WithContext(ctx).
		Where("staff_id = ?", id).
		First(&staff).Error
	if err != nil {
		return nil, err
	}
	return &staff, nil
}

func (r *staffRepo) Update(ctx context.Context, staff *model.Staff) error {
	return r.db.WithContext(ctx).Save(staff).Error
}

func (r *staffRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Staff{}).
		Where("staff_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

func (r *staffRepo) List(ctx context.Context) ([]model.Staff, error) {
	var staff []model.Staff
	err := r.db.WithContext(ctx).
		Order("role, sort_order, created_at").
		Find(&staff).Error
	return staff, err
}

func (r *staffRepo) ListByRole(ctx context.Context, role string) ([]model.Staff, error) {
	var staff []model.Staff
	err := r.db.WithContext(ctx).
		Where("role = ?", role).
		Order("sort_order, created_at").
		Find(&staff).Error
	return staff, err
}

func (r *staffRepo) CountByRole(ctx context.Context, role string) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&model.Staff{}).
		Where("role = ?", role).
		Count(&total).Error
	return total, err
}

func (r *staffRepo) MaxSortOrder(ctx context.Context, role string) (int, error) {
	var max int
	err := r.db.WithContext(ctx).
		Model(&model.Staff{}).
		Where("role = ?", role).
		Select("COALESCE(MAX(sort_order), 0)").
		Scan(&max).Error
	return max, err
}

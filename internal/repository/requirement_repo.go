package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"pharmacy-roster/backend/internal/model"
)

// RequirementRepository 整点人力需求数据访问接口
type RequirementRepository interface {
	List(ctx context.Context) ([]model.HourlyRequirement, error)
	BatchUpsert(ctx context.Context, items []model.HourlyRequirement) error
}

// requirementRepo RequirementRepository 的 GORM 实现
type requirementRepo struct {
	db *gorm.DB
}

// NewRequirementRepo 创建 RequirementRepository 实例
func NewRequirementRepo(db *gorm.DB) RequirementRepository {
	return &requirementRepo{db: db}
}

func (r *requirementRepo) List(ctx context.Context) ([]model.HourlyRequirement, error) {
	var items []model.HourlyRequirement
	err := r.db.WithContext(ctx).Order("hour").Find(&items).Error
	return items, err
}

// BatchUpsert 以 hour 为冲突键批量插入或更新
func (r *requirementRepo) BatchUpsert(ctx context.Context, items []model.HourlyRequirement) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hour"}},
			DoUpdates: clause.AssignmentColumns([]string{"required", "updated_at", "updated_by"}),
		}).
		Create(&items).Error
}

// CoverageRuleRepository 药师覆盖规则数据访问接口
type CoverageRuleRepository interface {
	List(ctx context.Context) ([]model.CoverageRule, error)
	BatchUpsert(ctx context.Context, rules []model.CoverageRule) error
}

// coverageRuleRepo CoverageRuleRepository 的 GORM 实现
type coverageRuleRepo struct {
	db *gorm.DB
}

// NewCoverageRuleRepo 创建 CoverageRuleRepository 实例
func NewCoverageRuleRepo(db *gorm.DB) CoverageRuleRepository {
	return &coverageRuleRepo{db: db}
}

func (r *coverageRuleRepo) List(ctx context.Context) ([]model.CoverageRule, error) {
	var rules []model.CoverageRule
	err := r.db.WithContext(ctx).Order("weekday").Find(&rules).Error
	return rules, err
}

// BatchUpsert 以 weekday 为冲突键批量插入或更新
func (r *coverageRuleRepo) BatchUpsert(ctx context.Context, rules []model.CoverageRule) error {
	if len(rules) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "weekday"}},
			DoUpdates: clause.AssignmentColumns([]string{"enabled", "start_time", "end_time", "updated_at", "updated_by"}),
		}).
		Create(&rules).Error
}

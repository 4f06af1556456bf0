package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	User        UserRepository
	Staff       StaffRepository
	StaffMark   StaffMarkRepository
	Requirement RequirementRepository
	Coverage    CoverageRuleRepository
	Run         ScheduleRunRepository
	Block       ScheduleBlockRepository
	Override    ScheduleOverrideRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		User:        NewUserRepo(db),
		Staff:       NewStaffRepo(db),
		StaffMark:   NewStaffMarkRepo(db),
		Requirement: NewRequirementRepo(db),
		Coverage:    NewCoverageRuleRepo(db),
		Run:         NewScheduleRunRepo(db),
		Block:       NewScheduleBlockRepo(db),
		Override:    NewScheduleOverrideRepo(db),
	}
}

package repository

import (
	"context"

	"gorm.io/gorm"

	"clinic-route/internal/model"
)

// StaffRepository 施术者数据访问接口（只读）
type StaffRepository interface {
	List(ctx context.Context) ([]model.Staff, error)
	ListAutoSchedule(ctx context.Context) ([]model.Staff, error)
	GetByID(ctx context.Context, id string) (*model.Staff, error)
	GetByName(ctx context.Context, name string) (*model.Staff, error)
}

type staffRepo struct {
	db *gorm.DB
}

// NewStaffRepo 创建 StaffRepository 实例
func NewStaffRepo(db *gorm.DB) StaffRepository {
	return &staffRepo{db: db}
}

func (r *staffRepo) List(ctx context.Context) ([]model.Staff, error) {
	var staffs []model.Staff
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&staffs).Error
	return staffs, err
}

func (r *staffRepo) ListAutoSchedule(ctx context.Context) ([]model.Staff, error) {
	var staffs []model.Staff
	err := r.db.WithContext(ctx).
		Where("auto_schedule = ?", true).
		Order("created_at ASC, id ASC").
		Find(&staffs).Error
	return staffs, err
}

func (r *staffRepo) GetByID(ctx context.Context, id string) (*model.Staff, error) {
	var s model.Staff
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// GetByName 同名时取最早登记的一条
func (r *staffRepo) GetByName(ctx context.Context, name string) (*model.Staff, error) {
	var s model.Staff
	err := r.db.WithContext(ctx).
		Where("name = ?", name).
		Order("created_at ASC, id ASC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

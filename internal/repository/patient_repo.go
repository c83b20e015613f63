package repository

import (
	"context"

	"gorm.io/gorm"

	"clinic-route/internal/model"
)

// PatientRepository 患者数据访问接口（只读）
type PatientRepository interface {
	List(ctx context.Context) ([]model.Patient, error)
	GetByID(ctx context.Context, id string) (*model.Patient, error)
	ListByIDs(ctx context.Context, ids []string) ([]model.Patient, error)
}

type patientRepo struct {
	db *gorm.DB
}

// NewPatientRepo 创建 PatientRepository 实例
func NewPatientRepo(db *gorm.DB) PatientRepository {
	return &patientRepo{db: db}
}

// List 按档案登记顺序返回全部患者，该顺序即自动排班的遍历顺序
func (r *patientRepo) List(ctx context.Context) ([]model.Patient, error) {
	var patients []model.Patient
	err := r.db.WithContext(ctx).
		Order("created_at ASC, id ASC").
		Find(&patients).Error
	return patients, err
}

func (r *patientRepo) GetByID(ctx context.Context, id string) (*model.Patient, error) {
	var p model.Patient
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&p).Error
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *patientRepo) ListByIDs(ctx context.Context, ids []string) ([]model.Patient, error) {
	var patients []model.Patient
	if len(ids) == 0 {
		return patients, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("created_at ASC, id ASC").
		Find(&patients).Error
	return patients, err
}

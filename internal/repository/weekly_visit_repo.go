package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"clinic-route/internal/model"
	pkgerrors "clinic-route/pkg/errors"
)

// VisitPlacement 移动访问时需要改写的字段
type VisitPlacement struct {
	StaffID   string
	Date      time.Time
	Time      string
	IsManual  bool
	UpdatedBy *string
}

// WeeklyVisitRepository 周访问数据访问接口
type WeeklyVisitRepository interface {
	// ListByDateRange 返回 [from, to] 闭区间内的访问，按日期、时间排序
	ListByDateRange(ctx context.Context, from, to time.Time) ([]model.WeeklyVisit, error)
	GetByID(ctx context.Context, id string) (*model.WeeklyVisit, error)
	ExistsByNaturalKey(ctx context.Context, patientID string, date time.Time, hhmm string) (bool, error)
	BatchCreate(ctx context.Context, visits []model.WeeklyVisit) error
	UpdatePlacement(ctx context.Context, id string, p VisitPlacement) error
	UpsertStatus(ctx context.Context, id, status string, updatedBy *string) error
	Delete(ctx context.Context, id string) error
}

type weeklyVisitRepo struct {
	db *gorm.DB
}

// NewWeeklyVisitRepo 创建 WeeklyVisitRepository 实例
func NewWeeklyVisitRepo(db *gorm.DB) WeeklyVisitRepository {
	return &weeklyVisitRepo{db: db}
}

func (r *weeklyVisitRepo) ListByDateRange(ctx context.Context, from, to time.Time) ([]model.WeeklyVisit, error) {
	var visits []model.WeeklyVisit
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", from.Format("2006-01-02"), to.Format("2006-01-02")).
		Order("date ASC, time ASC, id ASC").
		Find(&visits).Error
	return visits, err
}

func (r *weeklyVisitRepo) GetByID(ctx context.Context, id string) (*model.WeeklyVisit, error) {
	var v model.WeeklyVisit
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&v).Error
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *weeklyVisitRepo) ExistsByNaturalKey(ctx context.Context, patientID string, date time.Time, hhmm string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WeeklyVisit{}).
		Where("patient_id = ? AND date = ? AND time = ?", patientID, date.Format("2006-01-02"), hhmm).
		Count(&count).Error
	return count > 0, err
}

func (r *weeklyVisitRepo) BatchCreate(ctx context.Context, visits []model.WeeklyVisit) error {
	if len(visits) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(visits, 100).Error
}

// UpdatePlacement 改写担当、日期、时间与手动标记；记录已不存在时返回 ErrOptimisticLock
func (r *weeklyVisitRepo) UpdatePlacement(ctx context.Context, id string, p VisitPlacement) error {
	result := r.db.WithContext(ctx).
		Model(&model.WeeklyVisit{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"staff_id":   p.StaffID,
			"date":       p.Date.Format("2006-01-02"),
			"time":       p.Time,
			"is_manual":  p.IsManual,
			"updated_by": p.UpdatedBy,
			"updated_at": gorm.Expr("NOW()"),
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

// UpsertStatus 以 id 为冲突目标，仅更新状态列
func (r *weeklyVisitRepo) UpsertStatus(ctx context.Context, id, status string, updatedBy *string) error {
	existing, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	existing.Status = status
	existing.UpdatedBy = updatedBy
	existing.Staff = nil
	existing.Patient = nil

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"status":     status,
				"updated_by": updatedBy,
				"updated_at": gorm.Expr("NOW()"),
			}),
		}).
		Create(existing).Error
}

// Delete 删除访问；记录已不存在时返回 ErrOptimisticLock
func (r *weeklyVisitRepo) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.WeeklyVisit{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return pkgerrors.ErrOptimisticLock
	}
	return nil
}

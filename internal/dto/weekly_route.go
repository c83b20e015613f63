package dto

// ── 周路线模块 DTO ──

// WeekQuery 周参数（任意日期，自动换算为所在周周一；缺省为本周）
type WeekQuery struct {
	Week string `form:"week" json:"week" binding:"omitempty,datetime=2006-01-02"`
}

// GenerateRequest 自动排班请求
type GenerateRequest struct {
	Week   string `json:"week"    binding:"omitempty,datetime=2006-01-02"`
	DryRun bool   `json:"dry_run"` // 仅预览，不写入
}

// VisitTarget 操作目标：优先使用 visit_id，否则按显示标签定位
type VisitTarget struct {
	Week    string `json:"week"     binding:"omitempty,datetime=2006-01-02"`
	Label   string `json:"label"    binding:"omitempty,max=300"`
	VisitID string `json:"visit_id" binding:"omitempty,uuid"`
}

// MoveVisitRequest 移动访问请求
type MoveVisitRequest struct {
	VisitTarget
	ToStaffID string `json:"to_staff_id" binding:"required,uuid"`
	ToDay     string `json:"to_day"      binding:"required"` // 月..日
	ToTime    string `json:"to_time"     binding:"required"` // HH:MM
	Manual    *bool  `json:"manual"`                         // 缺省保持原分区
}

// DeleteVisitRequest 删除访问请求
type DeleteVisitRequest struct {
	VisitTarget
}

// ManualAddRequest 手动登记单条访问
type ManualAddRequest struct {
	Week      string `json:"week"       binding:"omitempty,datetime=2006-01-02"`
	StaffID   string `json:"staff_id"   binding:"required,uuid"`
	PatientID string `json:"patient_id" binding:"required,uuid"`
	Day       string `json:"day"        binding:"required"`
	Time      string `json:"time"       binding:"required"`
	Duration  *int   `json:"duration"   binding:"omitempty,min=1,max=600"`
}

// UpdateVisitStatusRequest 更新访问状态
type UpdateVisitStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=scheduled completed absent"`
}

// ManualBatchRequest 手动患者批量分配请求
type ManualBatchRequest struct {
	Week      string `json:"week"       binding:"omitempty,datetime=2006-01-02"`
	StaffName string `json:"staff_name" binding:"omitempty,max=100"` // 缺省使用配置的施术者
}

// ExportICSQuery 施术者日历导出参数
type ExportICSQuery struct {
	Week    string `form:"week"     binding:"omitempty,datetime=2006-01-02"`
	StaffID string `form:"staff_id" binding:"required,uuid"`
}

// ── 响应 ──

// VisitEntryResponse 视图中的单条访问
type VisitEntryResponse struct {
	VisitID     string `json:"visit_id,omitempty"`
	StaffID     string `json:"staff_id"`
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	Duration    *int   `json:"duration,omitempty"`
	Marker      string `json:"marker,omitempty"`
	IsManual    bool   `json:"is_manual"`
	Status      string `json:"status,omitempty"`
	Label       string `json:"label"`
}

// DayRouteResponse 某一天的访问列表
type DayRouteResponse struct {
	Weekday string               `json:"weekday"`
	Date    string               `json:"date"`
	Visits  []VisitEntryResponse `json:"visits"`
}

// StaffRouteResponse 施术者一周路线
type StaffRouteResponse struct {
	StaffID   string             `json:"staff_id"`
	StaffName string             `json:"staff_name"`
	Total     int                `json:"total"`
	Days      []DayRouteResponse `json:"days"`
}

// WeeklyRouteResponse 周视图
type WeeklyRouteResponse struct {
	WeekStart    string               `json:"week_start"`
	WeekEnd      string               `json:"week_end"`
	AutoRoutes   []StaffRouteResponse `json:"auto_routes"`
	ManualRoutes []StaffRouteResponse `json:"manual_routes"`
}

// UnassignedResponse 未分配的 (患者, 星期)
type UnassignedResponse struct {
	PatientID   string `json:"patient_id"`
	PatientName string `json:"patient_name"`
	Weekday     string `json:"weekday"`
	Time        string `json:"time,omitempty"`
	Reason      string `json:"reason"`
}

// GenerateResponse 自动排班结果（汇总，不含逐行失败）
type GenerateResponse struct {
	DryRun            bool                 `json:"dry_run"`
	Proposed          int                  `json:"proposed"`
	Inserted          int                  `json:"inserted"`
	SkippedDuplicates int                  `json:"skipped_duplicates"`
	Unassigned        []UnassignedResponse `json:"unassigned"`
	Preview           []StaffRouteResponse `json:"preview,omitempty"`
	Week              *WeeklyRouteResponse `json:"week,omitempty"`
}

// BatchResultResponse 复制上周 / 批量分配结果
type BatchResultResponse struct {
	Source            int                  `json:"source"`
	Inserted          int                  `json:"inserted"`
	SkippedDuplicates int                  `json:"skipped_duplicates"`
	SkippedInvalid    int                  `json:"skipped_invalid"`
	Week              *WeeklyRouteResponse `json:"week"`
}

// VisitStatusResponse 状态更新结果
type VisitStatusResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

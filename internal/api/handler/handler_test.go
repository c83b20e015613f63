package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"clinic-route/internal/dto"
	"clinic-route/internal/service"
	pkgerrors "clinic-route/pkg/errors"
	"clinic-route/pkg/response"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// ═══════════════════════════════════════════════════════════
// Mock Services
// ═══════════════════════════════════════════════════════════

// ── Mock WeeklyRouteService ──

type mockWeeklyRouteService struct {
	weekResult     *dto.WeeklyRouteResponse
	weekErr        error
	generateResult *dto.GenerateResponse
	generateErr    error
	statusResult   *dto.VisitStatusResponse
	statusErr      error
	batchResult    *dto.BatchResultResponse
	batchErr       error
	discardErr     error

	lastCaller   string
	lastMove     *dto.MoveVisitRequest
	lastGenerate *dto.GenerateRequest
	lastVisitID  string
}

func (m *mockWeeklyRouteService) GetWeek(_ context.Context, _ *dto.WeekQuery, callerID string) (*dto.WeeklyRouteResponse, error) {
	m.lastCaller = callerID
	return m.weekResult, m.weekErr
}
func (m *mockWeeklyRouteService) Generate(_ context.Context, req *dto.GenerateRequest, callerID string) (*dto.GenerateResponse, error) {
	m.lastCaller = callerID
	m.lastGenerate = req
	return m.generateResult, m.generateErr
}
func (m *mockWeeklyRouteService) MoveVisit(_ context.Context, req *dto.MoveVisitRequest, _ string) (*dto.WeeklyRouteResponse, error) {
	m.lastMove = req
	return m.weekResult, m.weekErr
}
func (m *mockWeeklyRouteService) DeleteVisit(_ context.Context, _ *dto.DeleteVisitRequest, _ string) (*dto.WeeklyRouteResponse, error) {
	return m.weekResult, m.weekErr
}
func (m *mockWeeklyRouteService) ManualAdd(_ context.Context, _ *dto.ManualAddRequest, _ string) (*dto.WeeklyRouteResponse, error) {
	return m.weekResult, m.weekErr
}
func (m *mockWeeklyRouteService) UpdateVisitStatus(_ context.Context, visitID string, _ *dto.UpdateVisitStatusRequest, _ string) (*dto.VisitStatusResponse, error) {
	m.lastVisitID = visitID
	return m.statusResult, m.statusErr
}
func (m *mockWeeklyRouteService) CopyPreviousWeek(_ context.Context, _ *dto.WeekQuery, _ string) (*dto.BatchResultResponse, error) {
	return m.batchResult, m.batchErr
}
func (m *mockWeeklyRouteService) ManualBatchAssign(_ context.Context, _ *dto.ManualBatchRequest, _ string) (*dto.BatchResultResponse, error) {
	return m.batchResult, m.batchErr
}
func (m *mockWeeklyRouteService) DiscardSession(_ context.Context, _ *dto.WeekQuery, _ string) error {
	return m.discardErr
}

// ── Mock ExportService ──

type mockExportService struct {
	buf      *bytes.Buffer
	filename string
	err      error
}

func (m *mockExportService) ExportWeek(_ context.Context, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}
func (m *mockExportService) ExportStaffCalendar(_ context.Context, _, _ string) (*bytes.Buffer, string, error) {
	return m.buf, m.filename, m.err
}

// ═══════════════════════════════════════════════════════════
// Test Helpers
// ═══════════════════════════════════════════════════════════

const testStaffID = "00000000-0000-0000-0000-00000000000b"

func withAuth(c *gin.Context) {
	c.Set("user_id", "test-user-id")
	c.Set("role", "scheduler")
}

func jsonBody(v interface{}) io.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func parseResponse(w *httptest.ResponseRecorder) response.Response {
	var resp response.Response
	json.Unmarshal(w.Body.Bytes(), &resp)
	return resp
}

// serve 注册单个路由并执行请求
func serve(method, pattern string, h gin.HandlerFunc, req *http.Request, auth bool) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r := gin.New()
	chain := []gin.HandlerFunc{}
	if auth {
		chain = append(chain, withAuth)
	}
	chain = append(chain, h)
	r.Handle(method, pattern, chain...)
	r.ServeHTTP(w, req)
	return w
}

func jsonRequest(method, path string, body interface{}) *http.Request {
	req := httptest.NewRequest(method, path, jsonBody(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

// ═══════════════════════════════════════════════════════════
// WeeklyRouteHandler Tests
// ═══════════════════════════════════════════════════════════

func TestWeeklyRouteHandler_GetWeek_Success(t *testing.T) {
	mock := &mockWeeklyRouteService{weekResult: &dto.WeeklyRouteResponse{WeekStart: "2025-05-05", WeekEnd: "2025-05-11"}}
	h := NewWeeklyRouteHandler(mock)

	w := serve("GET", "/weekly-routes", h.GetWeek, httptest.NewRequest("GET", "/weekly-routes?week=2025-05-07", nil), true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastCaller != "test-user-id" {
		t.Errorf("期望传入调用方 ID，实际: %s", mock.lastCaller)
	}
	resp := parseResponse(w)
	data, _ := resp.Data.(map[string]interface{})
	if data["week_start"] != "2025-05-05" {
		t.Errorf("期望 week_start=2025-05-05，实际: %v", data["week_start"])
	}
}

func TestWeeklyRouteHandler_GetWeek_BadWeekFormat(t *testing.T) {
	h := NewWeeklyRouteHandler(&mockWeeklyRouteService{})

	w := serve("GET", "/weekly-routes", h.GetWeek, httptest.NewRequest("GET", "/weekly-routes?week=05-07", nil), true)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestWeeklyRouteHandler_GetWeek_Unauthenticated(t *testing.T) {
	h := NewWeeklyRouteHandler(&mockWeeklyRouteService{})

	w := serve("GET", "/weekly-routes", h.GetWeek, httptest.NewRequest("GET", "/weekly-routes", nil), false)

	if w.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", w.Code)
	}
}

func TestWeeklyRouteHandler_Generate_DryRun(t *testing.T) {
	mock := &mockWeeklyRouteService{generateResult: &dto.GenerateResponse{DryRun: true, Proposed: 3}}
	h := NewWeeklyRouteHandler(mock)

	req := jsonRequest("POST", "/weekly-routes/generate", dto.GenerateRequest{Week: "2025-05-05", DryRun: true})
	w := serve("POST", "/weekly-routes/generate", h.Generate, req, true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastGenerate == nil || !mock.lastGenerate.DryRun {
		t.Error("期望 dry_run 透传给 Service")
	}
}

func TestWeeklyRouteHandler_Generate_BadJSON(t *testing.T) {
	h := NewWeeklyRouteHandler(&mockWeeklyRouteService{})

	req := httptest.NewRequest("POST", "/weekly-routes/generate", strings.NewReader("invalid json"))
	req.Header.Set("Content-Type", "application/json")
	w := serve("POST", "/weekly-routes/generate", h.Generate, req, true)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestWeeklyRouteHandler_MoveVisit_Success(t *testing.T) {
	mock := &mockWeeklyRouteService{weekResult: &dto.WeeklyRouteResponse{WeekStart: "2025-05-05"}}
	h := NewWeeklyRouteHandler(mock)

	body := dto.MoveVisitRequest{
		VisitTarget: dto.VisitTarget{Week: "2025-05-05", Label: "①山田 2025-05-05 09:00（30分）"},
		ToStaffID:   testStaffID,
		ToDay:       "火",
		ToTime:      "13:00",
	}
	w := serve("PUT", "/weekly-routes/visits/move", h.MoveVisit, jsonRequest("PUT", "/weekly-routes/visits/move", body), true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastMove == nil || mock.lastMove.Label != body.Label || mock.lastMove.ToDay != "火" {
		t.Errorf("请求未正确绑定: %+v", mock.lastMove)
	}
}

func TestWeeklyRouteHandler_MoveVisit_MissingTarget(t *testing.T) {
	mock := &mockWeeklyRouteService{}
	h := NewWeeklyRouteHandler(mock)

	body := dto.MoveVisitRequest{ToStaffID: testStaffID, ToDay: "火", ToTime: "13:00"}
	w := serve("PUT", "/weekly-routes/visits/move", h.MoveVisit, jsonRequest("PUT", "/weekly-routes/visits/move", body), true)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
	if mock.lastMove != nil {
		t.Error("校验失败时不应调用 Service")
	}
}

func TestWeeklyRouteHandler_DeleteVisit_Unresolved(t *testing.T) {
	mock := &mockWeeklyRouteService{weekErr: service.ErrVisitIdentityUnresolved}
	h := NewWeeklyRouteHandler(mock)

	body := dto.DeleteVisitRequest{VisitTarget: dto.VisitTarget{Label: "不存在"}}
	w := serve("DELETE", "/weekly-routes/visits", h.DeleteVisit, jsonRequest("DELETE", "/weekly-routes/visits", body), true)

	if w.Code != http.StatusConflict {
		t.Errorf("expected 409, got %d", w.Code)
	}
	if resp := parseResponse(w); resp.Code != 20301 {
		t.Errorf("expected code 20301, got %d", resp.Code)
	}
}

func TestWeeklyRouteHandler_ManualAdd_Created(t *testing.T) {
	mock := &mockWeeklyRouteService{weekResult: &dto.WeeklyRouteResponse{WeekStart: "2025-05-05"}}
	h := NewWeeklyRouteHandler(mock)

	body := dto.ManualAddRequest{StaffID: testStaffID, PatientID: testStaffID, Day: "金", Time: "14:00"}
	w := serve("POST", "/weekly-routes/visits", h.ManualAdd, jsonRequest("POST", "/weekly-routes/visits", body), true)

	if w.Code != http.StatusCreated {
		t.Errorf("expected 201, got %d", w.Code)
	}
}

func TestWeeklyRouteHandler_UpdateVisitStatus(t *testing.T) {
	mock := &mockWeeklyRouteService{statusResult: &dto.VisitStatusResponse{ID: "v1", Status: "completed"}}
	h := NewWeeklyRouteHandler(mock)

	w := serve("PUT", "/visits/:id/status", h.UpdateVisitStatus,
		jsonRequest("PUT", "/visits/v1/status", dto.UpdateVisitStatusRequest{Status: "completed"}), true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if mock.lastVisitID != "v1" {
		t.Errorf("期望路径参数 v1，实际: %s", mock.lastVisitID)
	}

	w = serve("PUT", "/visits/:id/status", h.UpdateVisitStatus,
		jsonRequest("PUT", "/visits/v1/status", dto.UpdateVisitStatusRequest{Status: "done"}), true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("无效状态 expected 400, got %d", w.Code)
	}
}

func TestWeeklyRouteHandler_CopyPreviousWeek(t *testing.T) {
	mock := &mockWeeklyRouteService{batchResult: &dto.BatchResultResponse{Source: 2, Inserted: 2}}
	h := NewWeeklyRouteHandler(mock)

	w := serve("POST", "/weekly-routes/copy-previous", h.CopyPreviousWeek,
		jsonRequest("POST", "/weekly-routes/copy-previous", dto.WeekQuery{Week: "2025-05-05"}), true)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestWeeklyRouteHandler_DiscardSession(t *testing.T) {
	h := NewWeeklyRouteHandler(&mockWeeklyRouteService{})

	w := serve("DELETE", "/weekly-routes/session", h.DiscardSession,
		httptest.NewRequest("DELETE", "/weekly-routes/session?week=2025-05-05", nil), true)

	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
}

func TestWeeklyRouteHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   int
	}{
		{"InvalidWeek", service.ErrInvalidWeek, 400, 20101},
		{"InvalidWeekday", service.ErrInvalidWeekday, 400, 20102},
		{"InvalidTime", service.ErrInvalidTime, 400, 20103},
		{"InvalidStatus", service.ErrInvalidVisitStatus, 400, 20104},
		{"NoAutoStaff", service.ErrNoAutoStaff, 400, 20105},
		{"PreviousWeekEmpty", service.ErrPreviousWeekEmpty, 400, 20106},
		{"StaffNotFound", service.ErrStaffNotFound, 404, 20201},
		{"PatientNotFound", service.ErrPatientNotFound, 404, 20202},
		{"VisitNotFound", service.ErrVisitNotFound, 404, 20203},
		{"Unresolved", service.ErrVisitIdentityUnresolved, 409, 20301},
		{"OptimisticLock", pkgerrors.ErrOptimisticLock, 409, 20302},
		{"Duplicate", service.ErrDuplicateVisit, 409, 20303},
		{"InternalError", errors.New("unknown"), 500, 50000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewWeeklyRouteHandler(&mockWeeklyRouteService{weekErr: tt.err})

			w := serve("GET", "/weekly-routes", h.GetWeek, httptest.NewRequest("GET", "/weekly-routes", nil), true)

			if w.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, w.Code)
			}
			resp := parseResponse(w)
			if resp.Code != tt.wantCode {
				t.Errorf("expected code %d, got %d", tt.wantCode, resp.Code)
			}
		})
	}
}

// ═══════════════════════════════════════════════════════════
// ExportHandler Tests
// ═══════════════════════════════════════════════════════════

func TestExportHandler_ExportWeek_Success(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("excel content"), filename: "周路线_2025-05-05.xlsx"}
	h := NewExportHandler(mock)

	w := serve("GET", "/export/weekly-routes", h.ExportWeek, httptest.NewRequest("GET", "/export/weekly-routes?week=2025-05-05", nil), true)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeXLSX {
		t.Errorf("unexpected content type: %s", ct)
	}
	cd := w.Header().Get("Content-Disposition")
	if !strings.Contains(cd, "filename*=UTF-8''") || !strings.Contains(cd, "2025-05-05.xlsx") {
		t.Errorf("unexpected Content-Disposition: %s", cd)
	}
	if w.Body.String() != "excel content" {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestExportHandler_ExportStaffCalendar(t *testing.T) {
	mock := &mockExportService{buf: bytes.NewBufferString("BEGIN:VCALENDAR"), filename: "A_2025-05-05.ics"}
	h := NewExportHandler(mock)

	w := serve("GET", "/export/weekly-routes/ics", h.ExportStaffCalendar,
		httptest.NewRequest("GET", "/export/weekly-routes/ics?week=2025-05-05&staff_id="+testStaffID, nil), true)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); ct != contentTypeICS {
		t.Errorf("unexpected content type: %s", ct)
	}

	// 缺少 staff_id
	w = serve("GET", "/export/weekly-routes/ics", h.ExportStaffCalendar,
		httptest.NewRequest("GET", "/export/weekly-routes/ics?week=2025-05-05", nil), true)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestExportHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		err        error
		wantStatus int
	}{
		{service.ErrExportNoVisits, http.StatusNotFound},
		{service.ErrStaffNotFound, http.StatusNotFound},
		{service.ErrInvalidWeek, http.StatusBadRequest},
		{service.ErrExportGenerateFail, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		h := NewExportHandler(&mockExportService{err: tt.err})
		w := serve("GET", "/export/weekly-routes", h.ExportWeek, httptest.NewRequest("GET", "/export/weekly-routes", nil), true)
		if w.Code != tt.wantStatus {
			t.Errorf("%v: expected %d, got %d", tt.err, tt.wantStatus, w.Code)
		}
	}
}

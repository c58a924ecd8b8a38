package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/campusops/timetable-api/internal/dto"
	"github.com/campusops/timetable-api/internal/engine"
	"github.com/campusops/timetable-api/internal/models"
	appErrors "github.com/campusops/timetable-api/pkg/errors"
)

type timetableRunnerMock struct {
	captured    dto.GenerateTimetableRequest
	listQuery   dto.TimetableQuery
	exportQuery dto.ExportTimetableQuery
	generateErr error
}

func (m *timetableRunnerMock) Generate(_ context.Context, req dto.GenerateTimetableRequest) (*dto.GenerateTimetableResponse, error) {
	m.captured = req
	if m.generateErr != nil {
		return nil, m.generateErr
	}
	return &dto.GenerateTimetableResponse{Term: req.Term, Result: &engine.Result{Success: true}}, nil
}

func (m *timetableRunnerMock) List(_ context.Context, query dto.TimetableQuery) ([]models.ScheduleItem, error) {
	m.listQuery = query
	return []models.ScheduleItem{{CourseID: "CENG101"}}, nil
}

func (m *timetableRunnerMock) Export(_ context.Context, query dto.ExportTimetableQuery) ([]byte, string, error) {
	m.exportQuery = query
	return []byte("Day,Time\n"), "timetable-fall.csv", nil
}

func TestTimetableGenerateSuccess(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableRunnerMock{}
	handler := &TimetableHandler{service: mockSvc}
	payload := []byte(`{"term":"fall","persist":true,"seed":42}`)
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "fall", mockSvc.captured.Term)
	require.True(t, mockSvc.captured.Persist)
	require.NotNil(t, mockSvc.captured.Seed)
	require.EqualValues(t, 42, *mockSvc.captured.Seed)
}

func TestTimetableGenerateMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &TimetableHandler{service: &timetableRunnerMock{}}
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", bytes.NewReader([]byte(`{"term":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableGenerateServiceError(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableRunnerMock{generateErr: appErrors.ErrEmptySnapshot}
	handler := &TimetableHandler{service: mockSvc}
	req, _ := http.NewRequest(http.MethodPost, "/timetable/generate", bytes.NewReader([]byte(`{"term":"fall"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Generate(c)

	require.Equal(t, http.StatusPreconditionFailed, w.Code)
}

func TestTimetableListBindsQuery(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableRunnerMock{}
	handler := &TimetableHandler{service: mockSvc}
	req, _ := http.NewRequest(http.MethodGet, "/timetable?term=fall&courseId=CENG101&day=Monday", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "fall", mockSvc.listQuery.Term)
	require.Equal(t, "CENG101", mockSvc.listQuery.CourseID)
	require.Equal(t, "Monday", mockSvc.listQuery.Day)
}

func TestTimetableExportSetsHeaders(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableRunnerMock{}
	handler := &TimetableHandler{service: mockSvc}
	req, _ := http.NewRequest(http.MethodGet, "/timetable/export?term=fall&format=csv", nil)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "csv", mockSvc.exportQuery.Format)
	require.Contains(t, w.Header().Get("Content-Disposition"), "timetable-fall.csv")
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
}

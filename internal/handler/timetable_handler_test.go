package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/timetable-api/internal/dto"
	"github.com/noah-isme/timetable-api/internal/middleware"
	"github.com/noah-isme/timetable-api/internal/models"
	"github.com/noah-isme/timetable-api/internal/service"
	appErrors "github.com/noah-isme/timetable-api/pkg/errors"
)

type timetableBuilderMock struct {
	previewReq  dto.PreviewTimetableRequest
	savedOwner  string
	savedReq    dto.SaveTimetableRequest
	saveErr     error
	getView     *dto.TimetableView
	getErr      error
	deletedID   string
	exportErr   error
	exportedFmt string
}

func (m *timetableBuilderMock) Preview(ctx context.Context, req dto.PreviewTimetableRequest) (*dto.PreviewTimetableResponse, error) {
	m.previewReq = req
	return &dto.PreviewTimetableResponse{ProposalID: "proposal-1"}, nil
}

func (m *timetableBuilderMock) Save(ctx context.Context, ownerID string, req dto.SaveTimetableRequest) (string, error) {
	m.savedOwner = ownerID
	m.savedReq = req
	if m.saveErr != nil {
		return "", m.saveErr
	}
	return "tt-1", nil
}

func (m *timetableBuilderMock) List(ctx context.Context, ownerID string) ([]models.Timetable, error) {
	return []models.Timetable{{ID: "tt-1", OwnerID: ownerID}}, nil
}

func (m *timetableBuilderMock) Get(ctx context.Context, ownerID, id string) (*dto.TimetableView, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.getView, nil
}

func (m *timetableBuilderMock) Delete(ctx context.Context, ownerID, id string) error {
	m.deletedID = id
	return nil
}

func (m *timetableBuilderMock) Export(ctx context.Context, ownerID, id, format string) (*service.ExportResult, error) {
	m.exportedFmt = format
	if m.exportErr != nil {
		return nil, m.exportErr
	}
	return &service.ExportResult{
		Filename:    "timetable-" + id + ".csv",
		ContentType: "text/csv",
		Content:     []byte("Day,Start\n"),
	}, nil
}

func testContextWithClaims(t *testing.T, req *http.Request) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{UserID: "user-1"})
	return c, w
}

func TestTimetableHandlerPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableBuilderMock{}
	handler := &TimetableHandler{service: mockSvc}

	payload, err := json.Marshal(dto.PreviewTimetableRequest{
		Courses: []models.CourseRecord{
			{CourseID: 106, CourseName: "Advanced Calculus 2", DayOfWeek: "THU", StartPeriod: 25, EndPeriod: 26, Credit: 3, Category: "교선"},
		},
	})
	require.NoError(t, err)

	req, _ := http.NewRequest(http.MethodPost, "/timetables/preview", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Preview(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, mockSvc.previewReq.Courses, 1)
	require.Equal(t, 106, mockSvc.previewReq.Courses[0].CourseID)
}

func TestTimetableHandlerPreviewMalformedBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &TimetableHandler{service: &timetableBuilderMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/timetables/preview", bytes.NewReader([]byte(`{"courses":`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Preview(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTimetableHandlerSave(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableBuilderMock{}
	handler := &TimetableHandler{service: mockSvc}

	payload := []byte(`{"proposalId":"proposal-1","title":"Fall Draft"}`)
	req, _ := http.NewRequest(http.MethodPost, "/timetables", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	c, w := testContextWithClaims(t, req)

	handler.Save(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.Equal(t, "user-1", mockSvc.savedOwner)
	require.Equal(t, "proposal-1", mockSvc.savedReq.ProposalID)
}

func TestTimetableHandlerSaveUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := &TimetableHandler{service: &timetableBuilderMock{}}

	req, _ := http.NewRequest(http.MethodPost, "/timetables", bytes.NewReader([]byte(`{}`)))
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = req

	handler.Save(c)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestTimetableHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableBuilderMock{getErr: appErrors.Clone(appErrors.ErrNotFound, "timetable not found")}
	handler := &TimetableHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodGet, "/timetables/missing", nil)
	c, w := testContextWithClaims(t, req)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestTimetableHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableBuilderMock{}
	handler := &TimetableHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodDelete, "/timetables/tt-1", nil)
	c, w := testContextWithClaims(t, req)
	c.Params = gin.Params{{Key: "id", Value: "tt-1"}}

	handler.Delete(c)
	c.Writer.WriteHeaderNow()

	require.Equal(t, http.StatusNoContent, w.Code)
	require.Equal(t, "tt-1", mockSvc.deletedID)
}

func TestTimetableHandlerExportDefaultsToCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &timetableBuilderMock{}
	handler := &TimetableHandler{service: mockSvc}

	req, _ := http.NewRequest(http.MethodGet, "/timetables/tt-1/export", nil)
	c, w := testContextWithClaims(t, req)
	c.Params = gin.Params{{Key: "id", Value: "tt-1"}}

	handler.Export(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "csv", mockSvc.exportedFmt)
	require.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	require.Contains(t, w.Header().Get("Content-Disposition"), "timetable-tt-1.csv")
}

package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"student-admin-backend/internal/handler"
	"student-admin-backend/internal/service"
)

func TestGetFileProgress(t *testing.T) {
	mockService := new(MockProgressService)
	progress := &service.ProgressInfo{
		FileName:     "test.csv",
		TotalRecords: 100,
		Processed:    50,
		Status:       service.StatusProcessing,
	}
	mockService.On("GetFileProgress", "test.csv").Return(progress)
	mockService.On("GetFileProgress", "nonexistent.csv").Return(nil)

	router := handler.NewRouter(nil, handler.NewProgressHandler(mockService))

	w := serve(router, httptest.NewRequest(http.MethodGet, "/students/import/progress/file?fileName=test.csv", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	var response service.ProgressInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Equal(t, "test.csv", response.FileName)
	assert.Equal(t, 100, response.TotalRecords)
	assert.Equal(t, 50, response.Processed)
	assert.Equal(t, service.StatusProcessing, response.Status)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/students/import/progress/file?fileName=nonexistent.csv", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(router, httptest.NewRequest(http.MethodGet, "/students/import/progress/file", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAllProgress(t *testing.T) {
	mockService := new(MockProgressService)
	mockService.On("GetAllFileProgress").Return([]*service.ProgressInfo{
		{FileName: "file1.csv", TotalRecords: 100, Processed: 75, Status: service.StatusProcessing},
		{FileName: "file2.csv", TotalRecords: 200, Processed: 200, Status: service.StatusCompleted},
	})

	h := handler.NewProgressHandler(mockService)
	w := httptest.NewRecorder()
	h.GetAllProgress(w, httptest.NewRequest(http.MethodGet, "/students/import/progress", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	var response []*service.ProgressInfo
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	assert.Len(t, response, 2)
	assert.Equal(t, "file1.csv", response[0].FileName)
	assert.Equal(t, service.StatusCompleted, response[1].Status)
	mockService.AssertExpectations(t)
}

// syncRecorder guards the body so the test can read it while the handler
// is still streaming.
type syncRecorder struct {
	*httptest.ResponseRecorder
	mu sync.Mutex
}

func (r *syncRecorder) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Write(p)
}

func (r *syncRecorder) body() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ResponseRecorder.Body.String()
}

func TestSSEProgress(t *testing.T) {
	mockService := new(MockProgressService)
	registered := make(chan chan service.ProgressInfo, 1)
	mockService.On("RegisterProgressListener", mock.AnythingOfType("chan service.ProgressInfo")).
		Run(func(args mock.Arguments) {
			registered <- args.Get(0).(chan service.ProgressInfo)
		}).
		Return()
	mockService.On("UnregisterProgressListener", mock.AnythingOfType("chan service.ProgressInfo")).Return()

	h := handler.NewProgressHandler(mockService)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	req := httptest.NewRequest(http.MethodGet, "/students/import/progress/stream", nil).WithContext(ctx)
	w := &syncRecorder{ResponseRecorder: httptest.NewRecorder()}

	done := make(chan struct{})
	go func() {
		h.SSEProgress(w, req)
		close(done)
	}()

	var ch chan service.ProgressInfo
	select {
	case ch = <-registered:
	case <-time.After(time.Second):
		t.Fatal("listener was never registered")
	}

	progress := service.ProgressInfo{FileName: "test.csv", TotalRecords: 100, Processed: 50, Status: service.StatusProcessing}
	ch <- progress

	expectedData, err := json.Marshal(progress)
	require.NoError(t, err)
	assert.Eventually(t, func() bool {
		return w.body() == "data: "+string(expectedData)+"\n\n"
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("handler did not stop after the client disconnected")
	}

	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "keep-alive", w.Header().Get("Connection"))
	mockService.AssertExpectations(t)
}

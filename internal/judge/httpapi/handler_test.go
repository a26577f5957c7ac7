package httpapi

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"judge/internal/judge/model"
	"judge/internal/judge/submit"

	"github.com/gin-gonic/gin"
)

type fakeContests struct {
	contests map[string]*model.Contest
}

func (f fakeContests) Contest(id string) (*model.Contest, bool) {
	c, ok := f.contests[id]
	return c, ok
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func multipartBody(t *testing.T, field, content string) (*bytes.Buffer, string) {
	t.Helper()
	buf := &bytes.Buffer{}
	w := multipart.NewWriter(buf)
	fw, err := w.CreateFormFile(field, "source")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := fw.Write([]byte(content)); err != nil {
		t.Fatal(err)
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return buf, w.FormDataContentType()
}

func TestSubmitUnknownContestIs404(t *testing.T) {
	store := fakeContests{contests: map[string]*model.Contest{}}
	h := NewHandler(store, Config{}, submit.NewDriver("", t.TempDir()))
	router := newTestRouter()
	h.Register(router)

	body, contentType := multipartBody(t, "code", "print(1)")
	req := httptest.NewRequest(http.MethodPost, "/nope/1?language=py", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSubmitUnknownLanguageIs400Equivalent(t *testing.T) {
	store := fakeContests{contests: map[string]*model.Contest{
		"c1": {Name: "c1", Tasks: []model.Task{{Subtasks: []model.Subtask{{Tests: []model.Test{{Input: "1"}}}}}}},
	}}
	h := NewHandler(store, Config{Languages: map[string]model.Language{}}, submit.NewDriver("", t.TempDir()))
	router := newTestRouter()
	h.Register(router)

	body, contentType := multipartBody(t, "code", "print(1)")
	req := httptest.NewRequest(http.MethodPost, "/c1/1?language=py", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code < 400 || rec.Code >= 500 {
		t.Fatalf("status = %d, want a 4xx for an unsupported language", rec.Code)
	}
}

func TestSubmitTaskOutOfRangeIs404(t *testing.T) {
	store := fakeContests{contests: map[string]*model.Contest{
		"c1": {Name: "c1", Tasks: []model.Task{{Subtasks: []model.Subtask{{Tests: []model.Test{{Input: "1"}}}}}}},
	}}
	h := NewHandler(store, Config{}, submit.NewDriver("", t.TempDir()))
	router := newTestRouter()
	h.Register(router)

	body, contentType := multipartBody(t, "code", "print(1)")
	req := httptest.NewRequest(http.MethodPost, "/c1/9?language=py", body)
	req.Header.Set("Content-Type", contentType)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"judge/pkg/errors"

	"github.com/gin-gonic/gin"
)

func newTestContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("trace_id", "trace-xyz")
	return c, rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return resp
}

func TestSuccess(t *testing.T) {
	c, rec := newTestContext()
	Success(c, map[string]string{"id": "sub-1"})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp.Code != errors.Success {
		t.Fatalf("expected Success code, got %v", resp.Code)
	}
	if resp.TraceID != "trace-xyz" {
		t.Fatalf("expected trace id to be echoed, got %q", resp.TraceID)
	}
}

func TestErrorWithCode(t *testing.T) {
	c, rec := newTestContext()
	ErrorWithCode(c, errors.ContestNotFound, "")

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp.Code != errors.ContestNotFound {
		t.Fatalf("expected ContestNotFound code, got %v", resp.Code)
	}
	if resp.Message != errors.ContestNotFound.Message() {
		t.Fatalf("expected default message, got %q", resp.Message)
	}
}

func TestNotFoundDefaultsMessage(t *testing.T) {
	c, rec := newTestContext()
	NotFound(c, "")

	resp := decodeBody(t, rec)
	if resp.Message != errors.NotFound.Message() {
		t.Fatalf("expected default not-found message, got %q", resp.Message)
	}
}

func TestErrorUsesCustomErrorCode(t *testing.T) {
	c, rec := newTestContext()
	Error(c, errors.New(errors.LanguageNotSupported))

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	resp := decodeBody(t, rec)
	if resp.Code != errors.LanguageNotSupported {
		t.Fatalf("expected LanguageNotSupported code, got %v", resp.Code)
	}
}

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestAbortWithEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.Use(RequestID())
	r.GET("/x", func(c *gin.Context) {
		AbortWithEnvelope(c, http.StatusTooManyRequests, CodeRateLimited, "slow down")
		c.String(http.StatusOK, "unreachable")
	})

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req.Header.Set(requestIDHeader, "rid-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d; want 429", w.Code)
	}
	var body ErrorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v (%s)", err, w.Body.String())
	}
	want := ErrorEnvelope{RequestID: "rid-7", Code: CodeRateLimited, Message: "slow down"}
	if body != want {
		t.Fatalf("body = %+v; want %+v", body, want)
	}
}

func TestAbortWithEnvelope_NoRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		AbortWithEnvelope(c, http.StatusUnauthorized, CodeUnauthorized, "missing api key")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if _, ok := body["request_id"]; ok {
		t.Fatalf("request_id should be omitted, got %v", body)
	}
	if body["code"] != CodeUnauthorized || body["message"] != "missing api key" {
		t.Fatalf("unexpected body %v", body)
	}
}

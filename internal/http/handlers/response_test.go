package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/tbourn/go-poetry-api/internal/services"
)

// envelopeRouter serves h on GET /x behind a fixed request id and a logger
// that writes to logs.
func envelopeRouter(h gin.HandlerFunc) (*gin.Engine, *bytes.Buffer) {
	gin.SetMode(gin.TestMode)
	var logs bytes.Buffer
	lg := zerolog.New(&logs)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-1")
		c.Set("logger", &lg)
		c.Next()
	})
	r.GET("/x", h)
	return r, &logs
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) ErrorResponse {
	t.Helper()
	var er ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &er); err != nil {
		t.Fatalf("envelope: %v (%q)", err, w.Body.String())
	}
	return er
}

func TestFail_Envelope(t *testing.T) {
	cases := []struct {
		status int
		logged bool
	}{
		{http.StatusNotFound, false},
		{http.StatusInternalServerError, true},
		{http.StatusServiceUnavailable, true},
	}
	for _, tc := range cases {
		r, logs := envelopeRouter(func(c *gin.Context) {
			Fail(c, tc.status, "some_code", "some message")
		})
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		if w.Code != tc.status {
			t.Fatalf("status = %d; want %d", w.Code, tc.status)
		}
		if er := decodeEnvelope(t, w); er != (ErrorResponse{RequestID: "rid-1", Code: "some_code", Message: "some message"}) {
			t.Fatalf("%d: envelope %+v", tc.status, er)
		}
		if got := strings.Contains(logs.String(), `"message":"api error"`); got != tc.logged {
			t.Fatalf("%d: logged=%v; want %v (%s)", tc.status, got, tc.logged, logs.String())
		}
	}
}

func TestSuccessHelpers(t *testing.T) {
	r, _ := envelopeRouter(func(c *gin.Context) { ok(c, http.StatusCreated, gin.H{"slug": "dawn"}) })
	r.DELETE("/x", noContent)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))
	if w.Code != http.StatusCreated || strings.TrimSpace(w.Body.String()) != `{"slug":"dawn"}` {
		t.Fatalf("ok: %d %q", w.Code, w.Body.String())
	}

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/x", nil))
	if w.Code != http.StatusNoContent || w.Body.Len() != 0 {
		t.Fatalf("noContent: %d %q", w.Code, w.Body.String())
	}
}

func TestFailErr_Mapping(t *testing.T) {
	cases := []struct {
		err     error
		status  int
		code    string
		message string
	}{
		{services.ErrPoemNotFound, http.StatusNotFound, ErrCodeNotFound, services.ErrPoemNotFound.Error()},
		{services.ErrAuthorNotFound, http.StatusNotFound, ErrCodeNotFound, ""},
		{services.ErrThemeNotFound, http.StatusNotFound, ErrCodeNotFound, ""},
		{fmt.Errorf("day 2026-01-02: %w", services.ErrFeaturedNotFound), http.StatusNotFound, ErrCodeNotFound, ""},
		{services.ErrEmptyQuery, http.StatusBadRequest, ErrCodeEmptyQuery, "query parameter q is required"},
		{fmt.Errorf("%w: title too long", services.ErrInvalidInput), http.StatusBadRequest, ErrCodeBadRequest, ""},
		{services.ErrThemeInUse, http.StatusConflict, ErrCodeConflict, ""},
		{services.ErrDuplicateSlug, http.StatusConflict, ErrCodeConflict, ""},
		{services.ErrPoemFeatured, http.StatusConflict, ErrCodeConflict, ""},
		{services.ErrNoPoems, http.StatusServiceUnavailable, ErrCodeNoPoems, "there are no poems to feature yet"},
		{errors.New("db exploded"), http.StatusInternalServerError, ErrCodeInternal, "internal server error"},
	}
	for _, tc := range cases {
		r, _ := envelopeRouter(func(c *gin.Context) { failErr(c, tc.err) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		if w.Code != tc.status {
			t.Fatalf("%v: status = %d; want %d", tc.err, w.Code, tc.status)
		}
		er := decodeEnvelope(t, w)
		want := tc.message
		if want == "" {
			want = tc.err.Error()
		}
		if er.Code != tc.code || er.Message != want {
			t.Fatalf("%v: got %+v; want code %q message %q", tc.err, er, tc.code, want)
		}
	}
}

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollector_CountsOperations(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	c.RecordUpload(1024)
	c.RecordUpload(0)
	c.RecordDownload()
	c.RecordDelete()
	c.RecordHTTPStatus(200)
	c.RecordHTTPStatus(404)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w := httptest.NewRecorder()
	Handler(reg).ServeHTTP(w, req)

	body := w.Body.String()
	for _, want := range []string{
		`noteshare_note_uploads_total 2`,
		`noteshare_upload_bytes_total 1024`,
		`noteshare_note_downloads_total 1`,
		`noteshare_note_deletes_total 1`,
		`noteshare_http_requests_total{status_code="200"} 1`,
		`noteshare_http_requests_total{status_code="404"} 1`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("metrics output missing %q", want)
		}
	}
}

func TestMiddleware_RecordsStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector(reg)

	handler := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	mw := httptest.NewRecorder()
	Handler(reg).ServeHTTP(mw, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if !strings.Contains(mw.Body.String(), `noteshare_http_requests_total{status_code="418"} 1`) {
		t.Error("middleware did not record the response status")
	}
}

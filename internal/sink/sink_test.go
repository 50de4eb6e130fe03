package sink

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/loglift/loglift/internal/config"
	"github.com/loglift/loglift/internal/model"
)

func testRecord() *model.AccessRecord {
	n := int64(203023)
	return &model.AccessRecord{
		IP:        "83.149.9.216",
		Ident:     "-",
		AuthUser:  "-",
		Timestamp: "04/Jan/2015:05:13:42 +0000",
		Method:    "GET",
		Path:      "/a.png",
		Protocol:  "HTTP/1.1",
		Request:   "GET /a.png HTTP/1.1",
		Status:    200,
		Bytes:     &n,
		Referrer:  "http://x/",
		UserAgent: "UA",
	}
}

func newClient(url string, timeoutMS int) *Client {
	return New(&config.SinkConfig{URL: url, TimeoutMS: timeoutMS}, zerolog.Nop())
}

func TestIndexSuccess(t *testing.T) {
	var gotContentType string
	var gotBody []byte
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	if err := newClient(ts.URL, 5000).Index(context.Background(), testRecord()); err != nil {
		t.Fatalf("index: %v", err)
	}
	if gotContentType != "application/json" {
		t.Errorf("content type: got %q", gotContentType)
	}

	var doc map[string]any
	if err := json.Unmarshal(gotBody, &doc); err != nil {
		t.Fatalf("body not valid JSON: %v", err)
	}
	if doc["ip"] != "83.149.9.216" {
		t.Errorf("ip field: got %v", doc["ip"])
	}
	if doc["status"] != float64(200) {
		t.Errorf("status field: got %v", doc["status"])
	}
	if doc["bytes"] != float64(203023) {
		t.Errorf("bytes field: got %v", doc["bytes"])
	}
}

func TestIndexNon201IsFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"index unavailable"}`))
	}))
	defer ts.Close()

	err := newClient(ts.URL, 5000).Index(context.Background(), testRecord())
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !strings.Contains(err.Error(), "500") || !strings.Contains(err.Error(), "index unavailable") {
		t.Errorf("error should carry status and body, got: %v", err)
	}
}

// A 200 OK is not success: the sink contract is 201 Created.
func TestIndexRequires201(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer ts.Close()

	if err := newClient(ts.URL, 5000).Index(context.Background(), testRecord()); err == nil {
		t.Fatal("expected error for 200 response")
	}
}

func TestIndexTimeoutIsFailure(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(300 * time.Millisecond)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	if err := newClient(ts.URL, 20).Index(context.Background(), testRecord()); err == nil {
		t.Fatal("expected timeout error")
	}
}

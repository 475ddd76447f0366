package opener

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseS3URL(t *testing.T) {
	cases := []struct {
		in      string
		bucket  string
		key     string
		wantErr bool
	}{
		{"s3://workbooks/imports/a.xlsx", "workbooks", "imports/a.xlsx", false},
		{"s3://workbooks/a/../b.xlsx", "workbooks", "b.xlsx", false},
		{"s3://workbooks", "", "", true},
		{"s3:///no-bucket/key", "", "", true},
		{"https://example.com/a.xlsx", "", "", true},
	}
	for _, c := range cases {
		bucket, key, err := parseS3URL(c.in)
		if c.wantErr {
			if err == nil {
				t.Errorf("parseS3URL(%q): want error, got %q/%q", c.in, bucket, key)
			}
			continue
		}
		if err != nil {
			t.Errorf("parseS3URL(%q): %v", c.in, err)
			continue
		}
		if bucket != c.bucket || key != c.key {
			t.Errorf("parseS3URL(%q) = %q/%q, want %q/%q", c.in, bucket, key, c.bucket, c.key)
		}
	}
}

func TestHTTPOpenerOK(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/vnd.ms-excel")
		_, _ = w.Write([]byte("workbook-bytes"))
	}))
	defer srv.Close()

	rc, meta, err := NewHTTPOpener(srv.Client()).Open(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer rc.Close()

	body, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "workbook-bytes" {
		t.Fatalf("body = %q", body)
	}
	if meta.Source != "https" || meta.ContentType != "application/vnd.ms-excel" {
		t.Fatalf("meta = %+v", meta)
	}
}

func TestHTTPOpenerNon2xx(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	if _, _, err := NewHTTPOpener(srv.Client()).Open(context.Background(), srv.URL); err == nil {
		t.Fatal("want error on 404")
	}
}

func TestWorkbookOpenerReadAllViaHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("content"))
	}))
	defer srv.Close()

	wo := NewWorkbookOpener(NewHTTPOpener(srv.Client()), nil, "")
	content, meta, err := wo.ReadAll(context.Background(), srv.URL)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(content) != "content" {
		t.Fatalf("content = %q", content)
	}
	if meta.Source != "https" {
		t.Fatalf("meta source = %q", meta.Source)
	}
}

func TestWorkbookOpenerBareKeyNeedsBucket(t *testing.T) {
	wo := NewWorkbookOpener(NewHTTPOpener(nil), nil, "")
	if _, _, err := wo.Open(context.Background(), "imports/a.xlsx"); err == nil {
		t.Fatal("bare key without a default bucket should fail")
	}
}

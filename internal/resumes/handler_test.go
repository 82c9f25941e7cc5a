package resumes

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestHandler(maxBytes int64) (*gin.Engine, *Service) {
	gin.SetMode(gin.TestMode)
	svc := &Service{Repo: NewMemoryRepo(), Analyzer: fakeAnalyzer{}}
	r := gin.New()
	NewHandler(svc, maxBytes).RegisterRoutes(r.Group("/api"))
	return r, svc
}

type formFile struct {
	name string
	data string
}

func multipartBody(t *testing.T, files []formFile, jobDescription string) (*bytes.Buffer, string) {
	t.Helper()
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	for _, f := range files {
		part, err := mw.CreateFormFile("files", f.name)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write([]byte(f.data)); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if jobDescription != "" {
		if err := mw.WriteField("job_description", jobDescription); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, mw.FormDataContentType()
}

func TestParseReturnsEnvelope(t *testing.T) {
	r, _ := newTestHandler(0)
	body, contentType := multipartBody(t, []formFile{{"a.pdf", "aa"}, {"b.docx", "bbb"}}, "Backend role")

	req := httptest.NewRequest(http.MethodPost, "/api/parse", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}
	var payload parseResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &payload); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !payload.OK || payload.Count != 2 || len(payload.Items) != 2 {
		t.Fatalf("unexpected envelope: %+v", payload)
	}
	if payload.Items[0].FileName != "a.pdf" || payload.Items[1].FileName != "b.docx" {
		t.Fatalf("items out of order: %+v", payload.Items)
	}
	if payload.Items[0].Email == nil || *payload.Items[0].Email != "a.pdf@example.com" {
		t.Fatalf("unexpected email: %v", payload.Items[0].Email)
	}
	if payload.Items[0].Phone != nil {
		t.Fatalf("expected null phone, got %q", *payload.Items[0].Phone)
	}
	if !strings.Contains(resp.Body.String(), `"phone":null`) {
		t.Fatalf("expected explicit null phone in %s", resp.Body.String())
	}
}

func TestParseRequiresFiles(t *testing.T) {
	r, _ := newTestHandler(0)
	tests := []struct {
		name        string
		body        *bytes.Buffer
		contentType string
	}{
		{name: "not multipart", body: bytes.NewBufferString(`{}`), contentType: "application/json"},
	}
	body, contentType := multipartBody(t, nil, "only a job description")
	tests = append(tests, struct {
		name        string
		body        *bytes.Buffer
		contentType string
	}{name: "no files field", body: body, contentType: contentType})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/parse", tt.body)
			req.Header.Set("Content-Type", tt.contentType)
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, req)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.Code)
			}
		})
	}
}

func TestParseTooLarge(t *testing.T) {
	r, _ := newTestHandler(1024)
	body, contentType := multipartBody(t, []formFile{{"big.pdf", strings.Repeat("x", 4096)}}, "")

	req := httptest.NewRequest(http.MethodPost, "/api/parse", body)
	req.Header.Set("Content-Type", contentType)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestListNewestFirst(t *testing.T) {
	r, svc := newTestHandler(0)
	for _, name := range []string{"one.pdf", "two.pdf", "three.pdf"} {
		if _, err := svc.ProcessBatch(context.Background(), []Upload{{FileName: name, Data: []byte("x")}}, "", ""); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/resumes?limit=2", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var items []summaryResponse
	if err := json.Unmarshal(resp.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(items) != 2 || items[0].FileName != "three.pdf" || items[1].FileName != "two.pdf" {
		t.Fatalf("unexpected list: %+v", items)
	}
	if strings.Contains(resp.Body.String(), "raw_text") {
		t.Fatalf("summary must not carry raw text")
	}
}

func TestListEmptyIsArray(t *testing.T) {
	r, _ := newTestHandler(0)
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/resumes", nil))
	if resp.Code != http.StatusOK || strings.TrimSpace(resp.Body.String()) != "[]" {
		t.Fatalf("expected empty array, got %d %s", resp.Code, resp.Body.String())
	}
}

func TestListBadQuery(t *testing.T) {
	r, _ := newTestHandler(0)
	for _, q := range []string{"limit=abc", "offset=1.5", "limit=-1"} {
		resp := httptest.NewRecorder()
		r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/resumes?"+q, nil))
		if resp.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400, got %d", q, resp.Code)
		}
	}
}

func TestGetDetail(t *testing.T) {
	r, svc := newTestHandler(0)
	if _, err := svc.ProcessBatch(context.Background(), []Upload{{FileName: "cv.pdf", Data: []byte("hello")}}, "", ""); err != nil {
		t.Fatalf("seed: %v", err)
	}

	tests := []struct {
		name string
		path string
		want int
	}{
		{name: "found", path: "/api/resumes/1", want: http.StatusOK},
		{name: "missing", path: "/api/resumes/42", want: http.StatusNotFound},
		{name: "zero", path: "/api/resumes/0", want: http.StatusNotFound},
		{name: "not an integer", path: "/api/resumes/abc", want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, tt.path, nil))
			if resp.Code != tt.want {
				t.Fatalf("expected %d, got %d", tt.want, resp.Code)
			}
			if tt.want != http.StatusOK {
				return
			}
			var detail detailResponse
			if err := json.Unmarshal(resp.Body.Bytes(), &detail); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if detail.ID != 1 || detail.RawText != "hello" || detail.ResumeRating != 5 {
				t.Fatalf("unexpected detail: %+v", detail)
			}
		})
	}
}

package httpclient

import (
	"bytes"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"testing"
)

func readAll(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	return string(b)
}

func TestEncodeBody_JSONOverridesContentType(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "text/plain")

	r, err := encodeBody(map[string]any{"name": "fex"}, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readAll(t, r); got != `{"name":"fex"}` {
		t.Errorf("unexpected body %s", got)
	}
	if h.Get("Content-Type") != "application/json" {
		t.Errorf("expected application/json, got %s", h.Get("Content-Type"))
	}
}

func TestEncodeBody_StringIsJSON(t *testing.T) {
	h := http.Header{}
	r, err := encodeBody("hello", h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readAll(t, r); got != `"hello"` {
		t.Errorf("expected JSON string, got %s", got)
	}
}

func TestEncodeBody_PassThrough(t *testing.T) {
	h := http.Header{}
	src := strings.NewReader("raw")
	r, err := encodeBody(src, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r != io.Reader(src) {
		t.Error("expected reader to pass through unchanged")
	}
	if h.Get("Content-Type") != "" {
		t.Errorf("expected no content type, got %s", h.Get("Content-Type"))
	}

	r, err = encodeBody([]byte{0x1, 0x2}, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readAll(t, r); got != "\x01\x02" {
		t.Errorf("unexpected bytes %q", got)
	}
	if h.Get("Content-Type") != "" {
		t.Errorf("expected no content type, got %s", h.Get("Content-Type"))
	}
}

func TestEncodeBody_Form(t *testing.T) {
	h := http.Header{}
	r, err := encodeBody(url.Values{"a": {"1"}, "b": {"x y"}}, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := readAll(t, r); got != "a=1&b=x+y" {
		t.Errorf("unexpected form body %s", got)
	}
	if h.Get("Content-Type") != "application/x-www-form-urlencoded" {
		t.Errorf("unexpected content type %s", h.Get("Content-Type"))
	}

	h = http.Header{}
	h.Set("Content-Type", "application/x-www-form-urlencoded; charset=utf-8")
	if _, err := encodeBody(url.Values{"a": {"1"}}, h); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if h.Get("Content-Type") != "application/x-www-form-urlencoded; charset=utf-8" {
		t.Errorf("expected configured content type to be kept, got %s", h.Get("Content-Type"))
	}
}

func TestEncodeBody_Multipart(t *testing.T) {
	h := http.Header{}
	h.Set("Content-Type", "application/json")
	body := &MultipartBody{
		Fields: map[string]string{"title": "report"},
		Files: []FileField{
			{FieldName: "file", FileName: `a"b.txt`, ContentType: "text/plain", Data: []byte("hello")},
			{FieldName: "raw", FileName: "r.bin", Reader: bytes.NewReader([]byte{0xff})},
		},
	}

	r, err := encodeBody(body, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mediaType, params, err := mime.ParseMediaType(h.Get("Content-Type"))
	if err != nil {
		t.Fatalf("parse content type: %v", err)
	}
	if mediaType != "multipart/form-data" {
		t.Fatalf("expected multipart/form-data, got %s", mediaType)
	}

	mr := multipart.NewReader(r, params["boundary"])
	form, err := mr.ReadForm(1 << 20)
	if err != nil {
		t.Fatalf("read form: %v", err)
	}
	if form.Value["title"][0] != "report" {
		t.Errorf("unexpected title %v", form.Value["title"])
	}
	files := form.File["file"]
	if len(files) != 1 || files[0].Filename != `a"b.txt` {
		t.Errorf("unexpected file parts %v", files)
	}
	if len(form.File["raw"]) != 1 {
		t.Error("expected raw file part")
	}
}

func TestHasBody(t *testing.T) {
	for _, m := range []string{http.MethodGet, http.MethodHead} {
		if hasBody(m) {
			t.Errorf("%s must not carry a body", m)
		}
	}
	for _, m := range []string{http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions} {
		if !hasBody(m) {
			t.Errorf("%s may carry a body", m)
		}
	}
}

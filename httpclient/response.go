package httpclient

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// Response is the normalized result of a call.
type Response struct {
	// Data is the decoded body: the json.Unmarshal result for JSON, a string
	// for text/*, and []byte for everything else.
	Data       any
	Status     int
	StatusText string
	Headers    http.Header
	// Config is the effective configuration of the call.
	Config *Config
	// Raw is the transport response. Its body has been read and replaced
	// with an in-memory copy.
	Raw *http.Response

	body []byte
}

// IsSuccess returns true for 2xx status codes.
func (r *Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// Body returns the raw response bytes.
func (r *Response) Body() []byte {
	return r.body
}

// Bind decodes the raw JSON body into v.
func (r *Response) Bind(v any) error {
	if len(r.body) == 0 {
		return fmt.Errorf("httpclient: bind: empty response body")
	}
	if err := json.Unmarshal(r.body, v); err != nil {
		return fmt.Errorf("httpclient: bind: %w", err)
	}
	return nil
}

// statusText mirrors the reason phrase of the status line.
func statusText(resp *http.Response) string {
	if _, text, ok := strings.Cut(resp.Status, " "); ok {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

// readBody reads the whole body, closing it, and fails once more than limit
// bytes arrive. A limit of zero or less reads without bound.
func readBody(body io.ReadCloser, limit int64) ([]byte, error) {
	defer body.Close()
	if limit <= 0 {
		return io.ReadAll(body)
	}
	b, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(b)) > limit {
		return nil, ErrBodyTooLarge
	}
	return b, nil
}

// decodeData picks the decoding by Content-Type: JSON media types decode
// into generic Go values, text/* becomes a string, anything else stays bytes.
func decodeData(contentType string, body []byte) (any, error) {
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "application/json"), strings.Contains(ct, "+json"):
		if len(bytes.TrimSpace(body)) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(body, &v); err != nil {
			return nil, err
		}
		return v, nil
	case strings.HasPrefix(ct, "text/"):
		return string(body), nil
	default:
		return body, nil
	}
}

// normalize reads and decodes raw into a Response. A read or decode failure
// still returns the partially filled Response.
func normalize(cfg *Config, raw *http.Response) (*Response, error) {
	resp := &Response{
		Status:     raw.StatusCode,
		StatusText: statusText(raw),
		Headers:    raw.Header,
		Config:     cfg,
		Raw:        raw,
	}

	body, err := readBody(raw.Body, cfg.MaxContentLength)
	raw.Body = io.NopCloser(bytes.NewReader(body))
	if err != nil {
		return resp, err
	}
	resp.body = body

	data, err := decodeData(raw.Header.Get("Content-Type"), body)
	if err != nil {
		return resp, err
	}
	resp.Data = data
	return resp, nil
}

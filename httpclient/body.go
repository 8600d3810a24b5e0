package httpclient

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
)

const (
	contentTypeJSON = "application/json"
	contentTypeForm = "application/x-www-form-urlencoded"
)

// MultipartBody is a multipart/form-data payload. Passed as Config.Data it
// is encoded with its boundary Content-Type, replacing any configured one.
type MultipartBody struct {
	// Fields are simple key-value form fields.
	Fields map[string]string
	// Files are file upload fields.
	Files []FileField
}

// FileField is a file part of a MultipartBody.
type FileField struct {
	FieldName string
	FileName  string
	// ContentType defaults to application/octet-stream.
	ContentType string
	// Data is the file content. Used if Reader is nil.
	Data   []byte
	Reader io.Reader
}

func (m *MultipartBody) encode() (io.Reader, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)

	for k, v := range m.Fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}

	for _, f := range m.Files {
		var part io.Writer
		var err error
		if f.ContentType != "" {
			header := make(textproto.MIMEHeader)
			header.Set("Content-Disposition",
				`form-data; name="`+escapeQuotes(f.FieldName)+`"; filename="`+escapeQuotes(f.FileName)+`"`)
			header.Set("Content-Type", f.ContentType)
			part, err = w.CreatePart(header)
		} else {
			part, err = w.CreateFormFile(f.FieldName, f.FileName)
		}
		if err != nil {
			return nil, "", err
		}

		switch {
		case f.Data != nil:
			_, err = part.Write(f.Data)
		case f.Reader != nil:
			_, err = io.Copy(part, f.Reader)
		}
		if err != nil {
			return nil, "", err
		}
	}

	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}

func hasBody(method string) bool {
	return method != http.MethodGet && method != http.MethodHead
}

// encodeBody turns a payload into a request body and sets the Content-Type
// it implies on header. Readers and byte slices pass through untouched.
// url.Values and *MultipartBody are native form containers. Everything
// else, strings included, is sent as JSON.
func encodeBody(data any, header http.Header) (io.Reader, error) {
	switch v := data.(type) {
	case nil:
		return nil, nil
	case io.Reader:
		return v, nil
	case []byte:
		return bytes.NewReader(v), nil
	case url.Values:
		if header.Get("Content-Type") == "" {
			header.Set("Content-Type", contentTypeForm)
		}
		return strings.NewReader(v.Encode()), nil
	case *MultipartBody:
		r, ct, err := v.encode()
		if err != nil {
			return nil, err
		}
		header.Set("Content-Type", ct)
		return r, nil
	default:
		b, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		header.Set("Content-Type", contentTypeJSON)
		return bytes.NewReader(b), nil
	}
}

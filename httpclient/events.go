package httpclient

import (
	"bytes"

	"github.com/kbukum/fex/httpclient/sse"
)

// Events parses a text/event-stream response body into events.
func Events(resp *Response) ([]sse.Event, error) {
	return sse.ReadAll(bytes.NewReader(resp.body))
}

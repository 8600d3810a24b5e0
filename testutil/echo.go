package testutil

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// RecordedRequest is a request as seen by EchoServer.
type RecordedRequest struct {
	Method  string
	Path    string
	Query   map[string][]string
	Headers http.Header
	Body    []byte
}

// Echo is the JSON document returned by the /echo routes.
type Echo struct {
	Method  string              `json:"method"`
	Path    string              `json:"path"`
	Query   map[string][]string `json:"query"`
	Headers map[string][]string `json:"headers"`
	Body    string              `json:"body"`
}

// EchoServer is a Gin test server exposing fixed routes for client tests:
//
//	ANY  /echo/*path       request echoed back as JSON
//	ANY  /status/:code     empty response with the given status
//	GET  /delay/:ms        responds after ms milliseconds or when the client goes away
//	GET  /text             text/plain body
//	GET  /bytes/:n         n bytes of application/octet-stream
//	GET  /events?n=3       n server-sent events
//	GET  /cookies/set      sets cookie session=abc
//	GET  /cookies          echoes the request cookies as JSON
//
// Extra routes may be added through Engine before Start.
type EchoServer struct {
	engine   *gin.Engine
	ts       *httptest.Server
	mu       sync.RWMutex
	requests []RecordedRequest
}

var _ TestComponent = (*EchoServer)(nil)

// NewEchoServer creates an unstarted echo server.
func NewEchoServer() *EchoServer {
	s := &EchoServer{}
	s.engine = s.routes()
	return s
}

// Engine returns the Gin engine for registering extra routes.
func (s *EchoServer) Engine() *gin.Engine { return s.engine }

// URL returns the base URL, or "" when not started.
func (s *EchoServer) URL() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.ts == nil {
		return ""
	}
	return s.ts.URL
}

// Requests returns the requests received since the last Reset.
func (s *EchoServer) Requests() []RecordedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]RecordedRequest, len(s.requests))
	copy(out, s.requests)
	return out
}

// LastRequest returns the most recent request, or nil.
func (s *EchoServer) LastRequest() *RecordedRequest {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.requests) == 0 {
		return nil
	}
	r := s.requests[len(s.requests)-1]
	return &r
}

func (s *EchoServer) Name() string { return "echo-server" }

func (s *EchoServer) Start(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts != nil {
		return fmt.Errorf("component already started")
	}
	s.ts = httptest.NewServer(s.engine)
	return nil
}

func (s *EchoServer) Stop(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ts == nil {
		return nil
	}
	s.ts.CloseClientConnections()
	s.ts.Close()
	s.ts = nil
	return nil
}

// Reset clears the recorded requests.
func (s *EchoServer) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = nil
	return nil
}

func (s *EchoServer) routes() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), s.record)

	r.Any("/echo/*path", func(c *gin.Context) {
		body, _ := c.Get("body")
		c.JSON(http.StatusOK, Echo{
			Method:  c.Request.Method,
			Path:    c.Request.URL.Path,
			Query:   c.Request.URL.Query(),
			Headers: c.Request.Header,
			Body:    string(body.([]byte)),
		})
	})

	r.Any("/status/:code", func(c *gin.Context) {
		code, err := strconv.Atoi(c.Param("code"))
		if err != nil || code < 100 || code > 999 {
			c.String(http.StatusBadRequest, "invalid status code")
			return
		}
		c.Status(code)
	})

	r.GET("/delay/:ms", func(c *gin.Context) {
		ms, err := strconv.Atoi(c.Param("ms"))
		if err != nil {
			c.String(http.StatusBadRequest, "invalid delay")
			return
		}
		select {
		case <-time.After(time.Duration(ms) * time.Millisecond):
			c.JSON(http.StatusOK, gin.H{"delayed_ms": ms})
		case <-c.Request.Context().Done():
		}
	})

	r.GET("/text", func(c *gin.Context) {
		c.String(http.StatusOK, "hello from echo")
	})

	r.GET("/bytes/:n", func(c *gin.Context) {
		n, err := strconv.Atoi(c.Param("n"))
		if err != nil || n < 0 {
			c.String(http.StatusBadRequest, "invalid size")
			return
		}
		buf := make([]byte, n)
		for i := range buf {
			buf[i] = byte(i)
		}
		c.Data(http.StatusOK, "application/octet-stream", buf)
	})

	r.GET("/events", func(c *gin.Context) {
		n, err := strconv.Atoi(c.DefaultQuery("n", "3"))
		if err != nil || n < 0 {
			c.String(http.StatusBadRequest, "invalid count")
			return
		}
		for i := 1; i <= n; i++ {
			c.SSEvent("tick", strconv.Itoa(i))
		}
	})

	r.GET("/cookies/set", func(c *gin.Context) {
		c.SetCookie("session", "abc", 3600, "/", "", false, true)
		c.Status(http.StatusNoContent)
	})

	r.GET("/cookies", func(c *gin.Context) {
		out := map[string]string{}
		for _, ck := range c.Request.Cookies() {
			out[ck.Name] = ck.Value
		}
		c.JSON(http.StatusOK, out)
	})

	return r
}

func (s *EchoServer) record(c *gin.Context) {
	var body []byte
	if c.Request.Body != nil {
		body, _ = io.ReadAll(c.Request.Body)
	}
	c.Set("body", body)

	s.mu.Lock()
	s.requests = append(s.requests, RecordedRequest{
		Method:  c.Request.Method,
		Path:    c.Request.URL.Path,
		Query:   c.Request.URL.Query(),
		Headers: c.Request.Header.Clone(),
		Body:    body,
	})
	s.mu.Unlock()

	c.Next()
}

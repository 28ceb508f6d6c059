package request

import "net/http"

// ClientWriter is a http.ResponseWriter that remembers the status code written to the client.
type ClientWriter struct {
	http.ResponseWriter

	statusCode int
}

// NewClientWriter wraps w. The status code defaults to 200 for handlers that never call WriteHeader.
func NewClientWriter(w http.ResponseWriter) *ClientWriter {
	return &ClientWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (c *ClientWriter) WriteHeader(code int) {
	c.statusCode = code
	c.ResponseWriter.WriteHeader(code)
}

// StatusCode returns the status code written to the client.
func (c *ClientWriter) StatusCode() int {
	return c.statusCode
}

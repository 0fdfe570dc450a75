package httpx

import (
	"bytes"
	"errors"
	"io"
	"log"
	"net/http"
	"time"
)

// logBodyLimit caps how much of a request or response body ends up in the log.
const logBodyLimit = 2048

type responseWriter struct {
	http.ResponseWriter
	statusCode    int
	bytesWritten  int64
	headerWritten bool
	body          bytes.Buffer
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.headerWritten {
		rw.statusCode = code
		rw.headerWritten = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.headerWritten {
		rw.WriteHeader(http.StatusOK)
	}
	if remaining := logBodyLimit - rw.body.Len(); remaining > 0 {
		if len(b) > remaining {
			rw.body.Write(b[:remaining])
		} else {
			rw.body.Write(b)
		}
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytesWritten += int64(n)
	return n, err
}

func (rw *responseWriter) wroteHeader() bool {
	return rw.headerWritten
}

// AccessLogMiddleware logs each request and response, including a bounded
// copy of both bodies. The request body is buffered and replayed so the
// handler still sees the full payload. It must sit inside the request size
// limit so the buffer stays bounded; a body that exceeds the limit is
// rejected here with 413 instead of reaching the handler truncated.
func AccessLogMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		var requestBody []byte
		if r.Body != nil && r.Body != http.NoBody {
			var err error
			requestBody, err = io.ReadAll(r.Body)
			r.Body.Close()
			if err != nil {
				requestID := RequestIDFrom(r)
				log.Printf("request body read failed method=%s path=%s request_id=%s error=%v",
					r.Method, r.URL.Path, requestID, err)
				var maxErr *http.MaxBytesError
				if errors.As(err, &maxErr) {
					JSONErrorWithRequest(r, w, http.StatusRequestEntityTooLarge, "REQUEST_TOO_LARGE", "Request body too large", nil)
					return
				}
				JSONErrorWithRequest(r, w, http.StatusBadRequest, "INVALID_BODY", "Request body could not be read", nil)
				return
			}
			r.Body = io.NopCloser(bytes.NewReader(requestBody))
		}

		requestID := RequestIDFrom(r)
		log.Printf("request method=%s path=%s query=%q request_id=%s body=%s",
			r.Method, r.URL.Path, r.URL.RawQuery, requestID, truncate(requestBody))

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}
		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Printf("response method=%s path=%s status=%d bytes=%d duration_ms=%d request_id=%s body=%s",
			r.Method, r.URL.Path, rw.statusCode, rw.bytesWritten,
			duration.Milliseconds(), requestID, truncate(rw.body.Bytes()))
	})
}

func truncate(b []byte) string {
	if len(b) > logBodyLimit {
		return string(b[:logBodyLimit]) + "..."
	}
	return string(b)
}

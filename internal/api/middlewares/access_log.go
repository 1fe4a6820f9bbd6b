package middlewares

import (
	"log"
	"net/http"
	"time"
)

type logWriter struct {
	http.ResponseWriter
	start       time.Time
	wroteHeader bool
	status      int
}

func (w *logWriter) stamp() {
	if !w.wroteHeader {
		w.Header().Set("X-Response-Time", time.Since(w.start).String())
		w.wroteHeader = true
	}
}

func (w *logWriter) WriteHeader(code int) {
	if !w.wroteHeader {
		w.status = code
	}
	w.stamp()
	w.ResponseWriter.WriteHeader(code)
}

func (w *logWriter) Write(b []byte) (int, error) {
	w.stamp()
	return w.ResponseWriter.Write(b)
}

func (w *logWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }

// AccessLog stamps X-Response-Time and logs one line per request.
func AccessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		lw := &logWriter{
			ResponseWriter: w,
			start:          time.Now(),
			status:         http.StatusOK,
		}
		next.ServeHTTP(lw, r)

		// nothing written (e.g., empty 200)
		if !lw.wroteHeader {
			lw.Header().Set("X-Response-Time", time.Since(lw.start).String())
		}
		log.Printf("[HTTP] %s %s %d %s rid=%s", r.Method, r.URL.Path, lw.status, time.Since(lw.start), GetRequestID(r))
	})
}

package middleware

import (
	"net/http"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.ResponseWriter.Write(b)
}

type ErrorHandler struct {
	handler http.Handler
	log     logger.Logger
}

// WithErrorHandler логирует ответы консоли со статусом 4xx и 5xx.
func WithErrorHandler(log logger.Logger) func(http.Handler) http.Handler {
	return func(h http.Handler) http.Handler {
		return &ErrorHandler{handler: h, log: log}
	}
}

func (eh *ErrorHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rec := &statusRecorder{ResponseWriter: w}
	start := time.Now()

	eh.handler.ServeHTTP(rec, r)

	fields := []logger.Field{
		logger.StringField("method", r.Method),
		logger.StringField("path", r.URL.Path),
		logger.IntField("status", rec.status),
		logger.DurationField("duration", time.Since(start)),
	}
	switch {
	case rec.status >= http.StatusInternalServerError:
		eh.log.Error("console request failed", fields...)
	case rec.status >= http.StatusBadRequest:
		eh.log.Warn("console request rejected", fields...)
	}
}

package notify

import (
	"sync"
	"time"

	"github.com/Nzyazin/ledgerconsole/internal/core/clock"
	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/observable"
)

type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

const (
	DefaultDuration = 4 * time.Second
	ErrorDuration   = 6 * time.Second
)

// Notifier is the narrow interface error sources depend on.
type Notifier interface {
	Notify(message string, severity Severity)
}

type Toast struct {
	ID       int64         `json:"id"`
	Message  string        `json:"message"`
	Severity Severity      `json:"severity"`
	Duration time.Duration `json:"duration"`
}

// Sink keeps the visible toasts and expires them.
type Sink struct {
	mu     sync.Mutex
	clock  clock.Clock
	log    logger.Logger
	nextID int64
	toasts *observable.Store[[]Toast]
}

func NewSink(c clock.Clock, log logger.Logger) *Sink {
	return &Sink{
		clock:  c,
		log:    log,
		toasts: observable.NewStore[[]Toast](nil),
	}
}

func (s *Sink) Notify(message string, severity Severity) {
	duration := DefaultDuration
	if severity == SeverityError {
		duration = ErrorDuration
	}
	s.Show(message, severity, duration)
}

// Show adds a toast; duration <= 0 keeps it until dismissed.
func (s *Sink) Show(message string, severity Severity, duration time.Duration) int64 {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	toast := Toast{ID: id, Message: message, Severity: severity, Duration: duration}
	s.toasts.Update(func(list []Toast) []Toast {
		next := make([]Toast, 0, len(list)+1)
		next = append(next, list...)
		return append(next, toast)
	})

	s.log.Debug("Notification shown",
		logger.Int64Field("id", id),
		logger.StringField("severity", string(severity)),
		logger.StringField("message", message),
	)

	if duration > 0 {
		s.clock.AfterFunc(duration, func() { s.Dismiss(id) })
	}
	return id
}

func (s *Sink) Success(message string) { s.Notify(message, SeveritySuccess) }
func (s *Sink) Error(message string)   { s.Notify(message, SeverityError) }
func (s *Sink) Warning(message string) { s.Notify(message, SeverityWarning) }
func (s *Sink) Info(message string)    { s.Notify(message, SeverityInfo) }

func (s *Sink) Dismiss(id int64) {
	s.toasts.Update(func(list []Toast) []Toast {
		next := make([]Toast, 0, len(list))
		for _, t := range list {
			if t.ID != id {
				next = append(next, t)
			}
		}
		return next
	})
}

func (s *Sink) List() []Toast {
	return append([]Toast(nil), s.toasts.Get()...)
}

func (s *Sink) Subscribe(fn func([]Toast)) func() {
	return s.toasts.Subscribe(fn)
}

package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
	"github.com/Nzyazin/ledgerconsole/internal/core/notify"
)

const maxErrorBody = 1 << 20

var errNotReplayable = errors.New("request body cannot be replayed")

type Kind string

const (
	KindTransport      Kind = "transport"
	KindAuthentication Kind = "authentication"
	KindValidation     Kind = "validation"
	KindConflict       Kind = "conflict"
	KindNotFound       Kind = "not_found"
	KindServer         Kind = "server"
	KindOther          Kind = "other"
)

// APIError is the single error shape callers of the pipeline observe.
type APIError struct {
	Kind       Kind
	Status     int
	StatusText string
	Title      string
	Detail     string
	Message    string
	Method     string
	Path       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
	}
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.Path, e.Status, e.Message)
}

func (e *APIError) Unwrap() error { return e.Err }

// ProblemDetail is the server-supplied detail, empty when none was sent.
func (e *APIError) ProblemDetail() string { return e.Detail }

func (e *APIError) UserMessage() string { return e.Message }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

var statusMessages = map[int]string{
	0:                              "Unable to connect to server. Please check your connection.",
	http.StatusBadRequest:          "Invalid request. Please check your input.",
	http.StatusUnauthorized:        "Unauthorized. Please log in again.",
	http.StatusForbidden:           "Access denied.",
	http.StatusNotFound:            "Resource not found.",
	http.StatusConflict:            "Conflict. The operation could not be completed.",
	http.StatusUnprocessableEntity: "Validation error. Please check your input.",
	http.StatusInternalServerError: "Server error. Please try again later.",
}

// Classify never fails: any status, body or cause maps to an APIError.
func Classify(status int, statusText string, body []byte, cause error) *APIError {
	e := &APIError{Status: status, StatusText: statusText, Err: cause}
	if e.StatusText == "" {
		e.StatusText = http.StatusText(status)
	}

	var p problem
	if len(body) > 0 && json.Unmarshal(body, &p) == nil {
		e.Title = strings.TrimSpace(p.Title)
		e.Detail = strings.TrimSpace(p.Detail)
	}

	switch {
	case status == 0:
		e.Kind = KindTransport
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		e.Kind = KindAuthentication
	case status == http.StatusBadRequest || status == http.StatusUnprocessableEntity:
		e.Kind = KindValidation
	case status == http.StatusConflict:
		e.Kind = KindConflict
	case status == http.StatusNotFound:
		e.Kind = KindNotFound
	case status >= 500:
		e.Kind = KindServer
	default:
		e.Kind = KindOther
	}

	switch {
	case e.Detail != "":
		e.Message = e.Detail
	case e.Title != "":
		e.Message = e.Title
	default:
		if msg, ok := statusMessages[status]; ok {
			e.Message = msg
		} else {
			e.Message = fmt.Sprintf("Error %d: %s", status, e.StatusText)
		}
	}
	return e
}

// Normalize turns transport failures and non-2xx responses into *APIError and
// raises one notification per failure unless the path is quiet.
func Normalize(notifier notify.Notifier, quiet []string, log logger.Logger) Stage {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			resp, err := next.Do(req)

			var apiErr *APIError
			switch {
			case err != nil:
				if errors.As(err, &apiErr) {
					return nil, err
				}
				apiErr = Classify(0, "", nil, err)
			case resp.StatusCode >= http.StatusBadRequest:
				body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
				resp.Body.Close()
				apiErr = Classify(resp.StatusCode, statusText(resp), body, nil)
			default:
				return resp, nil
			}

			apiErr.Method = req.Method
			apiErr.Path = req.URL.Path

			log.Warn("Ledger request failed",
				logger.StringField("method", req.Method),
				logger.StringField("path", req.URL.Path),
				logger.IntField("status", apiErr.Status),
				logger.StringField("kind", string(apiErr.Kind)),
				logger.ErrorField("error", err))

			if !matchesAny(req.URL.Path, quiet) {
				notifier.Notify(apiErr.Message, notify.SeverityError)
			}
			return nil, apiErr
		})
	}
}

func statusText(resp *http.Response) string {
	if text := strings.TrimSpace(strings.TrimPrefix(resp.Status, fmt.Sprint(resp.StatusCode))); text != "" {
		return text
	}
	return http.StatusText(resp.StatusCode)
}

func matchesAny(path string, fragments []string) bool {
	for _, f := range fragments {
		if strings.Contains(path, f) {
			return true
		}
	}
	return false
}

package pipeline

import (
	"io"
	"net/http"

	"github.com/Nzyazin/ledgerconsole/internal/core/loading"
)

// Busy holds a tracker guard for the lifetime of each non-silent request.
// The guard is released when the response body is closed, or immediately
// when there is no body to close.
func Busy(tracker *loading.Tracker, silent []string) Stage {
	return func(next Doer) Doer {
		return DoerFunc(func(req *http.Request) (*http.Response, error) {
			if matchesAny(req.URL.Path, silent) {
				return next.Do(req)
			}

			guard := tracker.Acquire()
			resp, err := next.Do(req)
			if err != nil || resp == nil || resp.Body == nil {
				guard.Release()
				return resp, err
			}
			resp.Body = &guardedBody{ReadCloser: resp.Body, release: guard.Release}
			return resp, nil
		})
	}
}

type guardedBody struct {
	io.ReadCloser
	release func()
}

func (b *guardedBody) Close() error {
	err := b.ReadCloser.Close()
	b.release()
	return err
}

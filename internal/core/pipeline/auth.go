package pipeline

import (
	"bytes"
	"io"
	"net/http"
	"strings"

	"github.com/Nzyazin/ledgerconsole/internal/core/logger"
)

// RecoveryState is the 401 recovery state machine:
// Attempt -> RefreshPending -> Retry | GiveUp. Retry can only end in Done or
// GiveUp, so a request is refreshed and replayed at most once.
type RecoveryState int

const (
	StateAttempt RecoveryState = iota
	StateRefreshPending
	StateRetry
	StateGiveUp
	StateDone
)

func (s RecoveryState) String() string {
	switch s {
	case StateAttempt:
		return "attempt"
	case StateRefreshPending:
		return "refresh_pending"
	case StateRetry:
		return "retry"
	case StateGiveUp:
		return "give_up"
	case StateDone:
		return "done"
	}
	return "unknown"
}

type RecoveryEvent int

const (
	// EventPassed: the response is returned to the caller as is.
	EventPassed RecoveryEvent = iota
	EventUnauthorized
	EventFailed
	EventRefreshed
	EventRefreshFailed
)

func NextState(s RecoveryState, e RecoveryEvent) RecoveryState {
	switch s {
	case StateAttempt:
		if e == EventUnauthorized {
			return StateRefreshPending
		}
		return StateDone
	case StateRefreshPending:
		if e == EventRefreshed {
			return StateRetry
		}
		return StateGiveUp
	case StateRetry:
		if e == EventPassed {
			return StateDone
		}
		return StateGiveUp
	}
	return s
}

func (s RecoveryState) Terminal() bool {
	return s == StateDone || s == StateGiveUp
}

// Auth attaches the bearer token to non-auth requests and drives the
// recovery state machine on 401.
func Auth(tokens TokenSource, authPath string, log logger.Logger) Stage {
	return func(next Doer) Doer {
		return &authStage{next: next, tokens: tokens, authPath: authPath, log: log}
	}
}

type authStage struct {
	next     Doer
	tokens   TokenSource
	authPath string
	log      logger.Logger
}

func (a *authStage) Do(req *http.Request) (*http.Response, error) {
	if strings.Contains(req.URL.Path, a.authPath) {
		return a.next.Do(req)
	}

	attempt := req.Clone(req.Context())
	if token, ok := a.tokens.AccessToken(); ok {
		attempt.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := a.next.Do(attempt)

	if err != nil || resp.StatusCode != http.StatusUnauthorized {
		return resp, err
	}
	state := NextState(StateAttempt, EventUnauthorized)

	original, err := buffer(resp)
	if err != nil {
		return nil, err
	}

	var replay *http.Response
	var token string
	for !state.Terminal() {
		switch state {
		case StateRefreshPending:
			s, ok := a.tokens.Refresh(req.Context())
			if ok {
				token = s.AccessToken
				refreshTotal.WithLabelValues("refreshed").Inc()
				state = NextState(state, EventRefreshed)
			} else {
				refreshTotal.WithLabelValues("failed").Inc()
				state = NextState(state, EventRefreshFailed)
			}
		case StateRetry:
			// Any failed replay ends recovery, a 5xx included. Its own status is
			// dropped: the caller gets the original 401 and the session is closed.
			retry, rerr := a.replay(req, token)
			if rerr == nil && retry.StatusCode < http.StatusBadRequest {
				replay = retry
				state = NextState(state, EventPassed)
				break
			}
			if rerr == nil {
				retry.Body.Close()
			}
			state = NextState(state, EventFailed)
		}
	}

	if state == StateDone {
		return replay, nil
	}

	a.log.Warn("Unauthorized request could not be recovered",
		logger.StringField("method", req.Method),
		logger.StringField("path", req.URL.Path))
	a.tokens.Logout()
	return original, nil
}

func (a *authStage) replay(req *http.Request, token string) (*http.Response, error) {
	retry := req.Clone(req.Context())
	if req.Body != nil && req.Body != http.NoBody {
		if req.GetBody == nil {
			return nil, errNotReplayable
		}
		body, err := req.GetBody()
		if err != nil {
			return nil, err
		}
		retry.Body = body
	}
	retry.Header.Set("Authorization", "Bearer "+token)
	return a.next.Do(retry)
}

// buffer reads the body so the original response can still be returned after
// a failed recovery.
func buffer(resp *http.Response) (*http.Response, error) {
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))
	return resp, nil
}

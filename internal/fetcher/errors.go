package fetcher

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel causes distinguished with errors.Is.
var (
	// ErrEmptyData means the upstream answered but produced zero rows.
	ErrEmptyData = errors.New("no data returned")
	// ErrRateLimited means the upstream signaled throttling.
	ErrRateLimited = errors.New("rate limited by upstream")
	// ErrSourceUnavailable means the upstream is unreachable or its
	// response is structurally broken.
	ErrSourceUnavailable = errors.New("data source unavailable")
)

// FetchError is the failure of one source for one stock. It carries the
// source name, the stock code and the underlying cause so callers can
// reach the root failure with errors.Is / errors.As.
type FetchError struct {
	Source string
	Code   string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("[%s] %s: %v", e.Source, e.Code, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

func newFetchError(source, code string, err error) *FetchError {
	return &FetchError{Source: source, Code: code, Err: err}
}

// ExhaustedError reports that every configured source failed for one
// stock. Attempts holds the per-source failures in trial order.
type ExhaustedError struct {
	Code     string
	Attempts []error
}

func (e *ExhaustedError) Error() string {
	lines := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		lines[i] = a.Error()
	}
	return fmt.Sprintf("所有数据源获取 %s 失败:\n%s", e.Code, strings.Join(lines, "\n"))
}

func (e *ExhaustedError) Unwrap() []error { return e.Attempts }

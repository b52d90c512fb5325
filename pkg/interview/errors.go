package interview

import (
	"errors"
	"fmt"
)

// ErrBusy is returned when a stream is started while another one is still
// running on the same client.
var ErrBusy = errors.New("a response is already streaming")

// FetchError reports a request that never produced a readable stream: a
// transport failure, a non-2xx status or an empty body.
type FetchError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *FetchError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
	case e.StatusCode != 0 && e.Body != "":
		return fmt.Sprintf("fetching %s: status %d: %s", e.URL, e.StatusCode, e.Body)
	case e.StatusCode != 0:
		return fmt.Sprintf("fetching %s: status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: empty response body", e.URL)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// IsUnreachable reports whether err is a FetchError for a request that never
// reached the backend.
func IsUnreachable(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe) && fe.Err != nil && fe.StatusCode == 0
}

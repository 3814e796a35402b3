package api

import (
	"context"
	"errors"
	"fmt"
)

// RemoteRequestError is the single error shape for failed API requests: HTTP
// failure statuses, GraphQL error payloads, timeouts and transport errors.
type RemoteRequestError struct {
	Status int
	Detail string
	Err    error
}

func (e *RemoteRequestError) Error() string {
	if e == nil {
		return ""
	}
	switch {
	case e.Status > 0 && e.Detail != "":
		return fmt.Sprintf("remote request failed with status %d: %s", e.Status, e.Detail)
	case e.Status > 0:
		return fmt.Sprintf("remote request failed with status %d", e.Status)
	case e.Detail != "":
		return fmt.Sprintf("remote request failed: %s", e.Detail)
	case e.Err != nil:
		return fmt.Sprintf("remote request failed: %v", e.Err)
	}
	return "remote request failed"
}

func (e *RemoteRequestError) Unwrap() error {
	return e.Err
}

// Timeout reports whether the request hit its deadline.
func (e *RemoteRequestError) Timeout() bool {
	return e != nil && errors.Is(e.Err, context.DeadlineExceeded)
}

// NotFoundError means the metadata query returned no board for the id.
type NotFoundError struct {
	BoardID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no board found for id %s", e.BoardID)
}

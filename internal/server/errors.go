package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/dustin/go-humanize"

	"github.com/KaramelBytes/dataprep-cli/internal/table"
)

// requestError is a client mistake outside the dataset itself, such as a bad
// query parameter or a missing form field.
type requestError struct {
	msg string
}

func (e *requestError) Error() string { return e.msg }

func badRequest(format string, args ...any) error {
	return &requestError{msg: fmt.Sprintf(format, args...)}
}

// uploadTooLargeError reports a body over the configured cap.
type uploadTooLargeError struct {
	limit int64
}

func (e *uploadTooLargeError) Error() string {
	return fmt.Sprintf("upload exceeds the %s limit", humanize.IBytes(uint64(e.limit)))
}

type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id"`
}

// statusFor maps an error to its HTTP status. Everything outside the known
// taxonomy is a server error.
func statusFor(err error) int {
	var (
		tooLarge    *uploadTooLargeError
		bad         *requestError
		unsupported *table.UnsupportedFormatError
		parse       *table.ParseError
		empty       *table.EmptyInputError
		degenerate  *table.DegenerateColumnError
	)
	switch {
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &bad),
		errors.As(err, &unsupported),
		errors.As(err, &parse),
		errors.As(err, &empty),
		errors.As(err, &degenerate):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// errorMessage hides internal error details from clients.
func errorMessage(err error, code int) string {
	if code >= http.StatusInternalServerError {
		return "internal server error"
	}
	return err.Error()
}

func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	ctx := r.Context()
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.log.ErrorContext(ctx, "request failed", "path", r.URL.Path, "error", err, "request_id", RequestID(ctx))
	} else {
		s.log.InfoContext(ctx, "request rejected", "path", r.URL.Path, "status", code, "error", err, "request_id", RequestID(ctx))
	}
	s.writeJSON(ctx, w, code, errorResponse{Error: errorMessage(err, code), RequestID: RequestID(ctx)})
}

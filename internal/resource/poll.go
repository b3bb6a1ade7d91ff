package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/cenkalti/backoff/v4"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/gcp"
)

// operation is the wire shape of a google.longrunning.Operation.
type operation struct {
	Name     string          `json:"name"`
	Done     bool            `json:"done"`
	Error    *operationError `json:"error,omitempty"`
	Response json.RawMessage `json:"response,omitempty"`
}

type operationError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

var errOperationPending = errors.New("operation still running")

// newPollBackOff builds the poll schedule. Tests shrink it to exercise
// the timeout path without waiting out the real ceiling.
var newPollBackOff = func() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = constants.PollInitialInterval
	b.MaxInterval = constants.PollMaxInterval
	b.MaxElapsedTime = constants.PollCeiling
	return b
}

// pollOperation waits for a long-running operation to settle, checking
// with bounded exponential backoff up to the poll ceiling. Exceeding
// the ceiling surfaces Timeout (re-verify later); a terminal remote
// failure surfaces Failed (not retryable without a spec change).
// Transient errors during a poll are retried within the same budget.
func pollOperation(ctx context.Context, t *gcp.Transport, baseURL, opName string) (json.RawMessage, error) {
	b := newPollBackOff()

	var response json.RawMessage
	check := func() error {
		var op operation
		if err := t.DoJSON(ctx, http.MethodGet, baseURL+"/"+opName, nil, &op); err != nil {
			if apperr.Retryable(err) {
				return err
			}
			return backoff.Permanent(err)
		}
		if !op.Done {
			return errOperationPending
		}
		if op.Error != nil {
			return backoff.Permanent(apperr.New(apperr.CodeFailed, fmt.Sprintf(
				"operation %s failed: %s (code %d)", opName, op.Error.Message, op.Error.Code)))
		}
		response = op.Response
		return nil
	}

	if err := backoff.Retry(check, backoff.WithContext(b, ctx)); err != nil {
		if errors.Is(err, errOperationPending) || apperr.IsCode(err, apperr.CodeRemoteUnavailable) {
			return nil, apperr.Wrap(apperr.CodeTimeout, fmt.Sprintf(
				"operation %s did not settle within %s; re-check later before retrying",
				opName, b.MaxElapsedTime), err)
		}
		return nil, err
	}
	return response, nil
}

package gateway

import (
	"fmt"
	"net/http"

	"github.com/samber/lo"

	"github.com/fatflowers/pledge/pkg/payload"
)

// Response is what the provider answered to one call.
type Response interface {
	// ID is the provider identifier of the resource, empty when absent.
	ID() string
	// State is the provider-reported state string.
	State() string
	Success() bool
	// Serialize returns the payload verbatim for the transaction log.
	Serialize() ([]byte, error)
}

// FailureStates are provider states that mean the operation did not happen.
var FailureStates = []string{"failed", "denied", "exception", "expired", "canceled"}

// IsFailureState reports whether state is a provider failure state.
func IsFailureState(state string) bool {
	return lo.Contains(FailureStates, state)
}

// JSONResponse is a Response backed by a JSON body.
type JSONResponse struct {
	status int
	raw    []byte
	id     string
	state  string
}

// NewJSONResponse parses a provider body. 5xx statuses and bodies that are not
// JSON objects are errors; a 4xx body without a state is a failed response.
func NewJSONResponse(status int, raw []byte) (*JSONResponse, error) {
	if status >= http.StatusInternalServerError {
		return nil, fmt.Errorf("provider returned status %d", status)
	}
	data, ok := payload.Decode(raw)
	if !ok {
		return nil, fmt.Errorf("provider returned non-JSON body (status %d)", status)
	}
	if _, isObject := data.(map[string]any); !isObject {
		return nil, fmt.Errorf("provider returned unexpected body (status %d)", status)
	}
	r := &JSONResponse{status: status, raw: raw}
	r.id, _ = payload.String(data, "id")
	r.state, _ = payload.String(data, "state")
	if r.state == "" && status >= http.StatusBadRequest {
		r.state = "failed"
	}
	return r, nil
}

func (r *JSONResponse) ID() string { return r.id }

func (r *JSONResponse) State() string { return r.state }

// Success is true for a 2xx answer whose state is set and not a failure state.
func (r *JSONResponse) Success() bool {
	return r.status >= 200 && r.status < 300 && r.state != "" && !IsFailureState(r.state)
}

func (r *JSONResponse) Serialize() ([]byte, error) {
	return r.raw, nil
}

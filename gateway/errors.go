package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// Error is the gateway's uniform error envelope, adapted from the teacher's
// api package: Code is a stable, never-reused application error code;
// HTTPstatus is the status line written to the client; Err carries the
// underlying cause, attached per-request via WithErr.
//
// Error codes in the 40001-49999 range are caller mistakes (bad hash,
// malformed parameter, not found); 50001-59999 are this service's own
// failures (retrieval transport errors, JSON marshaling).
type Error struct {
	Code       int
	HTTPstatus int
	Err        error
}

func (e Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("gateway: error %d", e.Code)
	}
	return fmt.Sprintf("gateway: error %d: %v", e.Code, e.Err)
}

// WithErr returns a copy of e carrying cause as its underlying error.
func (e Error) WithErr(cause error) Error {
	e.Err = cause
	return e
}

// Write serializes e as a JSON {code, error} body with the configured HTTP
// status.
func (e Error) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(e.HTTPstatus)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"code":  e.Code,
		"error": e.Error(),
	})
}

var (
	ErrMalformedHash     = Error{Code: 40001, HTTPstatus: http.StatusBadRequest, Err: fmt.Errorf("malformed hash parameter")}
	ErrEnvelopesNotFound = Error{Code: 40004, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("envelopes not found")}
	ErrManifestNotFound  = Error{Code: 40005, HTTPstatus: http.StatusNotFound, Err: fmt.Errorf("manifest not found")}

	ErrRetrievalFailed  = Error{Code: 50001, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("retrieval failed")}
	ErrMarshalingFailed = Error{Code: 50002, HTTPstatus: http.StatusInternalServerError, Err: fmt.Errorf("marshaling response failed")}
)

package gateway

import (
	"encoding/hex"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/ethereum/go-ethereum/common"

	"github.com/loadnetwork/bundler/log"
)

// httpWriteJSON writes data as a JSON response body, matching the teacher's
// api.httpWriteJSON.
func httpWriteJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	jdata, err := json.Marshal(data)
	if err != nil {
		ErrMarshalingFailed.WithErr(err).Write(w)
		return
	}
	if _, err := w.Write(jdata); err != nil {
		log.Warnw("failed to write http response", "error", err)
	}
}

// httpWriteBinary streams an in-memory byte slice as an octet-stream
// response, optionally overriding the content type (empty means
// application/octet-stream).
func httpWriteBinary(w http.ResponseWriter, data []byte, contentType string) {
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	if _, err := w.Write(data); err != nil {
		log.Warnw("failed to write binary response", "error", err)
	}
}

// httpWriteOK writes a bare 200 response, matching the teacher's
// api.httpWriteOK.
func httpWriteOK(w http.ResponseWriter) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("\n")); err != nil {
		log.Warnw("failed to write on response", "error", err)
	}
}

// parseHashParam parses a URL path segment as a 32-byte common.Hash,
// tolerating an optional 0x prefix.
func parseHashParam(raw string) (common.Hash, bool) {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(raw, "0x"), "0X")
	if len(trimmed) != 64 {
		return common.Hash{}, false
	}
	if _, err := hex.DecodeString(trimmed); err != nil {
		return common.Hash{}, false
	}
	return common.HexToHash(trimmed), true
}

package submit

import (
	"errors"
	"strings"
)

// ErrBundleNotCreated is returned when every broadcast attempt in
// CreateBundleSync fails.
var ErrBundleNotCreated = errors.New("submit: all broadcast attempts failed")

// containsErr reports whether err's message contains substr, case-insensitively.
func containsErr(err error, substr string) bool {
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), strings.ToLower(substr))
}

// isUnderpriced matches the family of "fee too low" broadcast rejections that
// trigger AdjustAndRetry (§4.4).
func isUnderpriced(err error) bool {
	return containsErr(err, "replacement transaction underpriced") ||
		containsErr(err, "transaction underpriced") ||
		containsErr(err, "tip too low") ||
		containsErr(err, "fee too low")
}

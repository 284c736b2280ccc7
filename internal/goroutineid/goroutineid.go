// Package goroutineid extracts the calling goroutine's runtime id, for
// runtime code that wants to assert "this must run on the loop's own
// goroutine" without plumbing an explicit token through every call site.
package goroutineid

import (
	"runtime"
	"strconv"
	"strings"
)

// Current parses the numeric goroutine id out of a runtime.Stack dump of the
// calling goroutine. This is the same technique net/http and many event
// loop implementations use internally; it is a diagnostic aid, not
// something correctness should depend on.
func Current() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	// format: "goroutine 123 [running]:\n..."
	s := string(buf[:n])
	const prefix = "goroutine "
	if !strings.HasPrefix(s, prefix) {
		return 0
	}
	s = s[len(prefix):]
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0
	}
	return id
}

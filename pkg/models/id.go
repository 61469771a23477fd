package models

import (
	"strconv"
	"sync/atomic"
	"time"
)

var idCounter uint64

// NewID returns a time-ordered unique token: the current millisecond
// timestamp in base36 followed by a monotonic counter suffix. The counter
// keeps ids unique when several are generated within the same millisecond.
func NewID() string {
	c := atomic.AddUint64(&idCounter, 1)
	return strconv.FormatInt(time.Now().UnixMilli(), 36) + "-" + strconv.FormatUint(c%46656, 36)
}

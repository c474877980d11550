package service

import (
	"log"
	"strconv"
	"sync/atomic"
)

var debugLogging atomic.Bool

// SetDebug turns [DEBUG] log lines on or off (LOG_LEVEL=debug)
func SetDebug(on bool) {
	debugLogging.Store(on)
}

func debugf(format string, args ...any) {
	if debugLogging.Load() {
		log.Printf("[DEBUG] "+format, args...)
	}
}

func fmtOpt(v *float64) string {
	if v == nil {
		return "n/a"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

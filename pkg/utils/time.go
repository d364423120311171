package utils

import (
	"strings"
	"time"
)

// NowRFC3339 returns the current UTC time in RFC3339 format, truncated to
// whole seconds.
func NowRFC3339() string {
	return time.Now().UTC().Truncate(time.Second).Format(time.RFC3339)
}

// NowStorageTimestamp returns the current UTC time formatted for use inside
// storage keys: second resolution, with the ':' characters replaced by '-'
// so the value is safe in a path segment. The 'Z' suffix is dropped the way
// a naive UTC timestamp would render.
func NowStorageTimestamp() string {
	ts := time.Now().UTC().Truncate(time.Second).Format("2006-01-02T15:04:05")
	return strings.ReplaceAll(ts, ":", "-")
}

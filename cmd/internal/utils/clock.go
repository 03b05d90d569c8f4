package utils

import "time"

// Timestamps are stored as UTC epoch millis and rendered as RFC 3339.

func NowUTC() int64 {
	return time.Now().UnixMilli()
}

func FormatEpoch(millis int64) string {
	if millis == 0 {
		return ""
	}
	return time.UnixMilli(millis).UTC().Format(time.RFC3339)
}

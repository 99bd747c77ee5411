package format

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// FormatBytes formats a byte count into a human-readable string with 1 decimal place.
// Thresholds: <1KB → B, <1MB → KB, <1GB → MB, <1TB → GB, else TB.
func FormatBytes(bytes int64) string {
	const (
		kb = 1024
		mb = kb * 1024
		gb = mb * 1024
		tb = gb * 1024
	)
	switch {
	case bytes < kb:
		return fmt.Sprintf("%d B", bytes)
	case bytes < mb:
		return fmt.Sprintf("%.1f KB", float64(bytes)/kb)
	case bytes < gb:
		return fmt.Sprintf("%.1f MB", float64(bytes)/mb)
	case bytes < tb:
		return fmt.Sprintf("%.1f GB", float64(bytes)/gb)
	default:
		return fmt.Sprintf("%.1f TB", float64(bytes)/tb)
	}
}

// FormatUsage renders "used / total (pct%)" for memory and disks.
func FormatUsage(used, total int64, pct float64) string {
	return fmt.Sprintf("%s / %s (%.0f%%)", FormatBytes(used), FormatBytes(total), pct)
}

// FormatMB formats a decimal megabyte figure, as the collector reports
// process memory.
func FormatMB(mb float64) string {
	return fmt.Sprintf("%.1f MB", mb)
}

// FormatLatency formats a latency value in milliseconds.
// Values >= 1000 ms are shown as seconds with 2 decimal places.
// Negative values return "---".
func FormatLatency(ms float64) string {
	if ms < 0 {
		return "---"
	}
	if ms >= 1000 {
		return fmt.Sprintf("%.2f s", ms/1000)
	}
	return fmt.Sprintf("%.2f ms", ms)
}

// FormatNumber formats an integer with locale-style comma separators.
// Example: 12345678 → "12,345,678".
func FormatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	if n < 0 {
		return "-" + insertCommas(s[1:])
	}
	return insertCommas(s)
}

// FormatPercent formats a percentage with one decimal place.
// Example: 34.5 → "34.5%".
func FormatPercent(p float64) string {
	return fmt.Sprintf("%.1f%%", p)
}

// FormatLoad joins the 1, 5 and 15 minute load averages.
func FormatLoad(l1, l5, l15 float64) string {
	return fmt.Sprintf("%.2f / %.2f / %.2f", l1, l5, l15)
}

// FormatUptime renders the whole hours elapsed since an epoch-seconds boot
// time. A boot time in the future renders as 0h.
func FormatUptime(bootTime float64, now time.Time) string {
	secs := float64(now.UnixNano())/1e9 - bootTime
	if secs < 0 {
		secs = 0
	}
	return fmt.Sprintf("%dh", int64(secs/3600))
}

// FormatClock renders a timestamp as local HH:MM:SS, or "---" when unset.
func FormatClock(t time.Time) string {
	if t.IsZero() {
		return "---"
	}
	return t.Local().Format("15:04:05")
}

// insertCommas inserts comma separators into a digit string every 3 digits from the right.
func insertCommas(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}
	var buf strings.Builder
	lead := n % 3
	if lead > 0 {
		buf.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString(s[i : i+3])
	}
	return buf.String()
}

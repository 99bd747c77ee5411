package tui

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/dm/sysmap-go/internal/client"
	"github.com/dm/sysmap-go/internal/engine"
)

// sanitize strips terminal escape sequences and control characters from
// backend-supplied text (labels, command lines) before it reaches the screen.
func sanitize(s string) string {
	var b strings.Builder
	rs := []rune(s)
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if r != '\x1b' {
			if !unicode.IsControl(r) {
				b.WriteRune(r)
			}
			continue
		}
		if i+1 >= len(rs) {
			break
		}
		i++
		switch rs[i] {
		case '[': // CSI: parameters then a final byte in 0x40–0x7E
			for i+1 < len(rs) {
				i++
				if rs[i] >= 0x40 && rs[i] <= 0x7E {
					break
				}
			}
		case ']': // OSC: terminated by BEL or ESC \
			for i+1 < len(rs) {
				i++
				if rs[i] == '\a' {
					break
				}
				if rs[i] == '\x1b' && i+1 < len(rs) && rs[i+1] == '\\' {
					i++
					break
				}
			}
		}
	}
	return b.String()
}

// classifyError turns a poll error into a short status line.
func classifyError(err error) string {
	if err == nil {
		return ""
	}
	var se *client.StatusError
	if errors.As(err, &se) {
		return fmt.Sprintf("HTTP %d", se.Code)
	}
	var fe *engine.FetchError
	if errors.As(err, &fe) && fe.Malformed() {
		return "Malformed payload"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "connection refused"):
		return "Connection refused"
	case strings.Contains(msg, "deadline exceeded"), strings.Contains(msg, "timeout"):
		return "Timeout"
	case strings.Contains(msg, "x509"), strings.Contains(msg, "certificate"), strings.Contains(msg, "tls"):
		return "TLS error"
	case strings.Contains(msg, "no such host"):
		return "Unknown host"
	}
	return truncate(sanitize(err.Error()), 40)
}

package tui

import (
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"

	"github.com/dm/sysmap-go/internal/client"
	"github.com/dm/sysmap-go/internal/engine"
)

func TestClassifyError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"nil error", nil, ""},
		{"connection refused", errors.New("dial tcp: connection refused"), "Connection refused"},
		{"status", &engine.FetchError{Err: &client.StatusError{Code: 503}}, "HTTP 503"},
		{"malformed", &engine.FetchError{Err: fmt.Errorf("%w: node 0 has no id", engine.ErrMalformedPayload)}, "Malformed payload"},
		{"context deadline exceeded", errors.New("context deadline exceeded"), "Timeout"},
		{"timeout", errors.New("request timeout after 5s"), "Timeout"},
		{"certificate", errors.New("x509: certificate signed by unknown authority"), "TLS error"},
		{"tls", errors.New("tls: handshake failure"), "TLS error"},
		{"dns", errors.New("dial tcp: lookup nowhere: no such host"), "Unknown host"},
		{"short unknown", errors.New("some random error"), "some random error"},
		{"long unknown", errors.New(strings.Repeat("a", 52)), strings.Repeat("a", 39) + "…"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, classifyError(tc.err))
		})
	}
}

func TestSanitize(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"empty string", "", ""},
		{"plain text passthrough", "hello world", "hello world"},
		{"CSI color reset stripped", "\x1b[0m", ""},
		{"CSI color sequence stripped, text preserved", "\x1b[31mred\x1b[0m", "red"},
		{"OSC terminated by BEL stripped", "\x1b]0;title\x07text", "text"},
		{"OSC terminated by ST stripped", "\x1b]0;title\x1b\\text", "text"},
		{"single char escape stripped", "\x1bA", ""},
		{"lone ESC at end stripped", "hello\x1b", "hello"},
		{"C1 control U+0084 stripped", "a\xc2\x84b", "ab"},
		{"DEL 0x7F stripped", "a\x7fb", "ab"},
		{"NUL control 0x01 stripped", "a\x01b", "ab"},
		{"mixed safe and unsafe", "hello\x1b[31m world", "hello world"},
		{"unicode label kept", "nginx: worker (42) ●", "nginx: worker (42) ●"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, sanitize(tc.input))
		})
	}
}

// headerLineCount returns the number of lines in a rendered header string
// (ANSI-stripped), treating a single-line result as count=1.
func headerLineCount(rendered string) int {
	stripped := stripANSI(rendered)
	return strings.Count(stripped, "\n") + 1
}

func TestRenderHeader_LiveWidth60(t *testing.T) {
	app := newTestApp(t, nil)
	connect(t, app)
	app.session.LastUpdated = time.Date(2024, 1, 1, 14, 32, 5, 0, time.Local)

	result := renderHeader(app, 60)
	assert.Equal(t, 1, headerLineCount(result), "header must be single line at width=60")
	assert.Equal(t, 60, lipgloss.Width(result), "rendered header must fill terminal width exactly")
	assert.Contains(t, stripANSI(renderHeader(app, 100)), "LIVE")
	assert.Contains(t, stripANSI(renderHeader(app, 100)), "updated 14:32:05  Poll: 2s")
}

func TestRenderHeader_VeryNarrowWidth30(t *testing.T) {
	app := newTestApp(t, nil)
	connect(t, app)

	result := renderHeader(app, 30)
	assert.Equal(t, 1, headerLineCount(result), "header must be single line at width=30")
	assert.Equal(t, 30, lipgloss.Width(result), "rendered header must fill terminal width exactly")
}

func TestRenderHeader_Reconnecting(t *testing.T) {
	app := newTestApp(t, nil)
	connect(t, app)
	app.session.LastError = &engine.FetchError{Err: errors.New("dial tcp: connection refused")}
	app.retryIn = 3200 * time.Millisecond

	result := stripANSI(renderHeader(app, 120))
	assert.Contains(t, result, "RECONNECTING  Connection refused")
	assert.Contains(t, result, "retry in 3.2s")

	result = renderHeader(app, 60)
	assert.Equal(t, 1, headerLineCount(result), "reconnecting header must be single line at width=60")
	assert.Equal(t, 60, lipgloss.Width(result))
}

func TestRenderHeader_Paused(t *testing.T) {
	app := newTestApp(t, nil)
	connect(t, app)
	app.session.Scheduler.SetAutoRefresh(false)
	assert.Contains(t, stripANSI(renderHeader(app, 120)), "PAUSED")
}

func TestRenderHeader_Probing(t *testing.T) {
	app := newTestApp(t, nil)
	app.Init()
	out := stripANSI(renderHeader(app, 120))
	assert.Contains(t, out, "probing backend…")
	assert.Contains(t, out, "PROBING")
}

func TestFormatDuration(t *testing.T) {
	cases := []struct {
		name  string
		input time.Duration
		want  string
	}{
		{"2 seconds", 2 * time.Second, "2s"},
		{"fractional", 3200 * time.Millisecond, "3.2s"},
		{"59 seconds", 59 * time.Second, "59s"},
		{"60 seconds exact", 60 * time.Second, "1m"},
		{"90 seconds", 90 * time.Second, "1m30s"},
		{"300 seconds", 300 * time.Second, "5m"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, formatDuration(tc.input))
		})
	}
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab…", truncate("abcd", 3))
	assert.Equal(t, "a", truncate("abcd", 1))
	assert.Equal(t, "", truncate("abcd", 0))
}

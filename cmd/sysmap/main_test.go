package main

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dm/sysmap-go/internal/config"
	"github.com/dm/sysmap-go/internal/engine"
	"github.com/dm/sysmap-go/internal/model"
)

const topologyJSON = `{
	"generated_at": 1700000000,
	"nodes": [
		{"data": {"id": "host", "label": "box", "type": "host"}},
		{"data": {"id": "pid:1", "label": "init (1)", "type": "process"}},
		{"data": {"id": "pid:2", "label": "sshd (2)", "type": "process"}}
	],
	"edges": [
		{"data": {"source": "host", "target": "pid:1", "kind": "runs"}},
		{"data": {"source": "pid:1", "target": "pid:2", "kind": "parent"}}
	]
}`

func init() {
	color.NoColor = true
}

func backend(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/health":
			_, _ = w.Write([]byte(`{"ok":true}`))
		case "/api/topology":
			_, _ = w.Write([]byte(topologyJSON))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)
	return srv
}

// isolate points config and state at empty temp dirs.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := isolate(t)
	f := &flags{}
	cmd := newRootCmd(f)
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(dir, "missing.toml")}))

	cfg, err := loadConfig(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, cfg.Poll.Interval.Duration)
	assert.True(t, cfg.Poll.AutoRefresh)
}

func TestLoadConfig_FlagsOverrideFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[poll]\ninterval = \"5s\"\n[log]\nlevel = \"debug\"\n"), 0o644))

	f := &flags{}
	cmd := newRootCmd(f)
	require.NoError(t, cmd.ParseFlags([]string{
		"--config", path, "--interval", "750ms", "--no-auto-refresh", "--theme", "light",
	}))
	cfg, err := loadConfig(cmd, f)
	require.NoError(t, err)
	assert.Equal(t, 750*time.Millisecond, cfg.Poll.Interval.Duration)
	assert.False(t, cfg.Poll.AutoRefresh)
	assert.Equal(t, "light", cfg.View.Theme)
	assert.Equal(t, "debug", cfg.Log.Level, "unset flag keeps the file value")
}

func TestLoadConfig_RejectsBadFlag(t *testing.T) {
	dir := isolate(t)
	f := &flags{}
	cmd := newRootCmd(f)
	require.NoError(t, cmd.ParseFlags([]string{"--config", filepath.Join(dir, "x.toml"), "--theme", "neon"}))
	_, err := loadConfig(cmd, f)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"", slog.LevelInfo},
		{"debug", slog.LevelDebug},
		{"WARN", slog.LevelWarn},
		{" error ", slog.LevelError},
	}
	for _, tc := range tests {
		got, err := parseLevel(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
	_, err := parseLevel("loud")
	assert.Error(t, err)
}

func TestOpenLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sysmap.log")
	logger, closeLog, err := openLogger(config.LogConfig{Level: "debug"}, path)
	require.NoError(t, err)
	logger.Debug("hello", "k", "v")
	closeLog()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "msg=hello k=v")
}

func TestLogFilePath(t *testing.T) {
	isolate(t)
	assert.Equal(t, "/tmp/x.log", logFilePath(config.LogConfig{File: "/tmp/x.log"}))
	assert.Equal(t, "sysmap.log", filepath.Base(logFilePath(config.LogConfig{})))
}

func TestCountByType(t *testing.T) {
	nodes := []*model.Node{
		{ID: "a", Type: model.NodeProcess},
		{ID: "b", Type: model.NodeProcess},
		{ID: "c", Type: model.NodeHost},
		{ID: "d", Type: model.NodeCPU},
	}
	got := countByType(nodes)
	require.Len(t, got, 3)
	assert.Equal(t, typeCount{model.NodeProcess, 2}, got[0])
	assert.Equal(t, typeCount{model.NodeCPU, 1}, got[1])
	assert.Equal(t, typeCount{model.NodeHost, 1}, got[2])
}

func TestOutcomeLine(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.Local)
	sink := &printSink{nodes: 1234, edges: 5}

	line := outcomeLine(now, engine.Outcome{Result: engine.Result{Strategy: engine.Structural}}, sink)
	assert.Contains(t, line, "12:00:00")
	assert.Contains(t, line, "structural")
	assert.Contains(t, line, "1,234 nodes  5 edges")

	line = outcomeLine(now, engine.Outcome{
		Err:   errors.New("boom"),
		Retry: &engine.Timer{Delay: 2 * time.Second},
	}, sink)
	assert.Contains(t, line, "failed boom")
	assert.Contains(t, line, "retry in 2s")
}

func TestSnapshotCommand(t *testing.T) {
	dir := isolate(t)
	srv := backend(t)

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"snapshot", "--config", filepath.Join(dir, "none.toml"), "--base", srv.URL})
	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Contains(t, text, "snapshot "+srv.URL)
	assert.Contains(t, text, "3 nodes  2 edges")
	lines := strings.Split(strings.TrimSpace(text), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[1], "process")
	assert.Contains(t, lines[2], "host")
}

func TestResolveCommand(t *testing.T) {
	dir := isolate(t)
	srv := backend(t)

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"resolve", "--config", filepath.Join(dir, "none.toml"), "--base", srv.URL})
	require.NoError(t, cmd.Execute())
	assert.Equal(t, "backend "+srv.URL+"\n", out.String())
}

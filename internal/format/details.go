package format

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/dm/sysmap-go/internal/client"
	"github.com/dm/sysmap-go/internal/model"
)

// Line is one key/value row of the details pane.
type Line struct {
	Key   string
	Value string
}

var pidSuffix = regexp.MustCompile(`\s*\(\d+\)\s*$`)

// DetailLines builds the summary rows for a node. proc, when non-nil, is the
// on-demand process record and takes precedence over the node's own fields.
// Nodes without a dedicated summary get their raw fields.
func DetailLines(n *model.Node, proc *client.ProcessDetail, now time.Time) []Line {
	if n == nil {
		return nil
	}
	var out []Line
	kv := func(k, v string) { out = append(out, Line{Key: k, Value: v}) }
	dash := func(s string) string {
		if s == "" {
			return "—"
		}
		return s
	}

	switch a := n.Attrs.(type) {
	case *model.CPUAttrs:
		kv("Cores", fmt.Sprintf("%d", a.Cores))
		kv("Usage", FormatPercent(a.UsagePercent))
		if a.FreqMHz != nil && *a.FreqMHz > 0 {
			kv("Freq", fmt.Sprintf("%.0f MHz", *a.FreqMHz))
		}
		kv("Load (1/5/15)", FormatLoad(a.Load1, a.Load5, a.Load15))
	case *model.RAMAttrs:
		kv("Used", FormatUsage(a.Used, a.Total, a.Percent))
		kv("Available", FormatBytes(a.Available))
	case *model.DiskAttrs:
		kv("Mount", n.Label())
		kv("FS Type", dash(a.FSType))
		kv("Used", FormatUsage(a.Used, a.Total, a.Percent))
	case *model.HostAttrs:
		kv("Hostname", n.Label())
		kv("OS", dash(a.OS))
		if a.BootTime > 0 {
			kv("Uptime", FormatUptime(a.BootTime, now))
		}
	case *model.RemoteAttrs:
		kv("Remote IP", n.Label())
	case *model.ProcessAttrs:
		out = processLines(n, a, proc, now)
	default:
		return RawLines(n)
	}
	return out
}

func processLines(n *model.Node, a *model.ProcessAttrs, p *client.ProcessDetail, now time.Time) []Line {
	if p == nil {
		p = &client.ProcessDetail{}
	}
	var out []Line
	kv := func(k, v string) { out = append(out, Line{Key: k, Value: v}) }

	name := p.Name
	if name == "" {
		name = pidSuffix.ReplaceAllString(a.Label, "")
	}
	kv("Process", name)

	switch pid, ok := model.ProcessID(n.ID); {
	case p.PID != 0:
		kv("PID", fmt.Sprintf("%d", p.PID))
	case ok:
		kv("PID", fmt.Sprintf("%d", pid))
	default:
		kv("PID", "—")
	}

	if user := firstNonEmpty(p.Username, a.User); user != "" {
		kv("User", user)
	}
	cpu := a.CPU
	if p.CPUPercent != nil {
		cpu = *p.CPUPercent
	}
	kv("CPU %", fmt.Sprintf("%.1f", cpu))

	switch {
	case p.MemoryInfo != nil:
		kv("Memory", FormatMB(float64(p.MemoryInfo.RSS)/1e6))
	case a.MemMB > 0:
		kv("Memory", FormatMB(a.MemMB))
	}
	if len(p.Cmdline) > 0 {
		kv("Command", strings.Join(p.Cmdline, " "))
	}
	if p.Exe != "" {
		kv("Executable", p.Exe)
	}
	if p.CWD != "" {
		kv("CWD", p.CWD)
	}
	if p.CreateTime > 0 {
		started := time.Unix(0, int64(p.CreateTime*1e9))
		kv("Started", started.Local().Format("2006-01-02 15:04:05"))
	}
	return out
}

// RawLines lists every source field of a node, sorted by key, with values
// as compact JSON.
func RawLines(n *model.Node) []Line {
	if n == nil || n.Attrs == nil {
		return nil
	}
	fields := n.Attrs.Base().Fields
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]Line, 0, len(keys))
	for _, k := range keys {
		var v string
		if s, ok := fields[k].(string); ok {
			v = s
		} else if b, err := json.Marshal(fields[k]); err == nil {
			v = string(b)
		} else {
			v = fmt.Sprint(fields[k])
		}
		out = append(out, Line{Key: k, Value: v})
	}
	return out
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

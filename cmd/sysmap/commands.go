package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dm/sysmap-go/internal/config"
	"github.com/dm/sysmap-go/internal/engine"
	"github.com/dm/sysmap-go/internal/format"
	"github.com/dm/sysmap-go/internal/model"
	"github.com/dm/sysmap-go/internal/state"
)

var (
	errorLabel = color.New(color.FgRed, color.Bold)
	goodLabel  = color.New(color.FgGreen)
	warnLabel  = color.New(color.FgYellow)
	infoLabel  = color.New(color.FgCyan)
	subtle     = color.New(color.FgHiBlack)
)

// oneShot is the setup shared by the non-TUI commands: config, a stderr
// logger and a resolved client.
type oneShot struct {
	cfg     *config.Config
	session *engine.Session
	base    string
}

func prepare(cmd *cobra.Command, f *flags) (*oneShot, error) {
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return nil, err
	}
	logger, err := stderrLogger(cfg.Log, cmd.Flags().Changed("log-level"))
	if err != nil {
		return nil, err
	}
	return &oneShot{cfg: cfg, session: newSession(cfg, logger), base: f.base}, nil
}

func (o *oneShot) resolve(ctx context.Context) (string, error) {
	store := state.NewStore(state.DefaultPath())
	return newResolver(o.cfg, o.base, store, o.session.Logger()).Resolve(ctx)
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func resolveCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "resolve",
		Short: "Find a reachable backend and print its base URL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := prepare(cmd, f)
			if err != nil {
				return fail(err)
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			base, err := o.resolve(ctx)
			if err != nil {
				return fail(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", goodLabel.Sprint("backend"), base)
			return nil
		},
	}
}

func snapshotCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Fetch the topology once and summarize it by node type",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := prepare(cmd, f)
			if err != nil {
				return fail(err)
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			base, err := o.resolve(ctx)
			if err != nil {
				return fail(err)
			}
			c, err := clientFactory(o.cfg)(base)
			if err != nil {
				return fail(err)
			}
			fctx, fcancel := context.WithTimeout(ctx, o.cfg.Endpoint.RequestTimeout.Duration)
			defer fcancel()
			snap, err := engine.FetchSnapshot(fctx, c)
			if err != nil {
				return fail(err)
			}
			printSnapshot(cmd.OutOrStdout(), base, snap)
			return nil
		},
	}
}

func watchCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Poll without the UI and print how each snapshot was reconciled",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			o, err := prepare(cmd, f)
			if err != nil {
				return fail(err)
			}
			ctx, cancel := signalContext(cmd.Context())
			defer cancel()

			base, err := o.resolve(ctx)
			if err != nil {
				return fail(err)
			}
			c, err := clientFactory(o.cfg)(base)
			if err != nil {
				return fail(err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s every %s\n", infoLabel.Sprint("watching"), base, o.cfg.Poll.Interval.Duration)
			sink := &printSink{}
			r := &engine.Runner{
				Session:      o.session,
				Client:       c,
				Sink:         sink,
				FetchTimeout: o.cfg.Endpoint.RequestTimeout.Duration,
				Report: func(res engine.Outcome) {
					fmt.Fprintln(out, outcomeLine(time.Now(), res, sink))
				},
			}
			return fail(r.Run(ctx))
		},
	}
}

// printSink counts what the engine hands to the render side.
type printSink struct {
	nodes, edges int
	reheats      int
}

func (s *printSink) Render(g *model.Graph) {
	s.nodes, s.edges = len(g.Nodes), len(g.Edges)
}

func (s *printSink) Reheat() { s.reheats++ }

func outcomeLine(now time.Time, res engine.Outcome, s *printSink) string {
	stamp := subtle.Sprint(format.FormatClock(now))
	if res.Err != nil {
		line := fmt.Sprintf("%s %s %v", stamp, errorLabel.Sprint("failed"), res.Err)
		if res.Retry != nil {
			line += subtle.Sprintf("  retry in %s", res.Retry.Delay)
		}
		return line
	}
	label := subtle.Sprint(res.Result.Strategy.String())
	if res.Result.Reheat() || res.Result.Strategy == engine.FirstLoad {
		label = warnLabel.Sprint(res.Result.Strategy.String())
	}
	return fmt.Sprintf("%s %-14s %s nodes  %s edges", stamp, label,
		format.FormatNumber(int64(s.nodes)), format.FormatNumber(int64(s.edges)))
}

type typeCount struct {
	Type  model.NodeType
	Count int
}

// countByType tallies nodes per type, most common first, ties by name.
func countByType(nodes []*model.Node) []typeCount {
	counts := make(map[model.NodeType]int)
	for _, n := range nodes {
		counts[n.Type]++
	}
	out := make([]typeCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, typeCount{Type: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Type < out[j].Type
	})
	return out
}

func printSnapshot(w io.Writer, base string, snap *model.Snapshot) {
	fmt.Fprintf(w, "%s %s  %s nodes  %s edges  %s\n",
		goodLabel.Sprint("snapshot"), base,
		format.FormatNumber(int64(len(snap.Nodes))),
		format.FormatNumber(int64(len(snap.Edges))),
		subtle.Sprint(format.FormatLatency(float64(snap.Latency)/float64(time.Millisecond))))
	for _, tc := range countByType(snap.Nodes) {
		fmt.Fprintf(w, "  %-8s %s\n", tc.Type, format.FormatNumber(int64(tc.Count)))
	}
}

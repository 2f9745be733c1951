package main

import (
	"fmt"
	"time"

	"github.com/gomlx/vxtrace/backends"
	"github.com/gomlx/vxtrace/replay"
	"github.com/gomlx/vxtrace/trace"
	"github.com/gomlx/vxtrace/ui/commandline"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"k8s.io/klog/v2"
)

type replayFlags struct {
	backend  string
	quiet    bool
	parallel int
}

func newReplayCmd(flags *sessionFlags) *cobra.Command {
	rf := &replayFlags{}
	cmd := &cobra.Command{
		Use:   "replay [prefixes...]",
		Short: "Replay trace sessions on a backend",
		Long: "Replay executes the statements of the trace sessions, reading the logged buffers from their binary " +
			"logs. Sessions are given by their prefixes, or by --prefix. Several sessions are replayed concurrently.",
		RunE: func(cmd *cobra.Command, args []string) error {
			prefixes := args
			if len(prefixes) == 0 {
				prefixes = []string{flags.prefix}
			}
			configs := make([]trace.Config, len(prefixes))
			for i, prefix := range prefixes {
				configs[i] = flags.config(prefix)
			}
			summaries, err := replaySessions(configs, rf)
			for _, summary := range summaries {
				if summary != nil {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), summary.Render())
				}
			}
			return err
		},
	}
	cmd.Flags().StringVar(&rf.backend, "backend", "",
		"Backend configuration used for all contexts, instead of the one logged. E.g. \"notimplemented\" only "+
			"checks that the trace can be replayed.")
	cmd.Flags().BoolVarP(&rf.quiet, "quiet", "q", false, "Don't display progress.")
	cmd.Flags().IntVar(&rf.parallel, "parallel", 4, "Maximum number of sessions replayed concurrently.")
	return cmd
}

// replaySessions replays the sessions concurrently, each with its own replayer and interpreter.
// It returns the summaries of the sessions, in the order given, and the first error.
func replaySessions(configs []trace.Config, rf *replayFlags) ([]*commandline.Summary, error) {
	summaries := make([]*commandline.Summary, len(configs))
	var g errgroup.Group
	g.SetLimit(max(rf.parallel, 1))
	for i, cfg := range configs {
		g.Go(func() error {
			summary, err := replaySession(cfg, rf, len(configs) == 1)
			summaries[i] = summary
			if err != nil {
				return errors.WithMessagef(err, "session %q", cfg.Prefix)
			}
			return nil
		})
	}
	return summaries, g.Wait()
}

func replaySession(cfg trace.Config, rf *replayFlags, single bool) (*commandline.Summary, error) {
	s, err := readSession(cfg)
	if err != nil {
		return nil, err
	}
	r, err := trace.OpenReplayer(cfg)
	if err != nil {
		return nil, err
	}
	defer func() { _ = r.Close() }()

	statements, err := replay.ParseLog(s.src)
	if err != nil {
		return nil, err
	}
	summary, err := commandline.Summarize(s.src, s.binSize)
	if err != nil {
		return nil, err
	}
	in := replay.New(r)
	if rf.backend != "" {
		in.WithContextFactory(func() backends.Context { return backends.CreateContextWithConfig(rf.backend) })
	}

	var pBar *commandline.ProgressBar
	if !rf.quiet {
		pBar = commandline.AttachProgressBar(in, cfg.Prefix+cfg.LogFileName, len(statements), single)
	}
	start := time.Now()
	err = in.RunStatements(statements)
	if pBar != nil {
		summary.ReplayDuration = pBar.Done()
	} else {
		summary.ReplayDuration = time.Since(start)
	}
	summary.ReplayFailures = in.Failures()
	if summary.ReplayFailures == nil {
		summary.ReplayFailures = []replay.Failure{}
	}
	if len(summary.ReplayFailures) != summary.FailedCalls {
		klog.Warningf("session %s: %d calls failed when replayed, %d when traced",
			summary.Session, len(summary.ReplayFailures), summary.FailedCalls)
	}
	return summary, err
}

// vxtrace replays and inspects the trace sessions recorded with package traced.
//
// Each session is a pair of files: the text log (statements) and the binary log (buffers), with a common prefix
// given by --prefix or by $VSI_TRACE_PREFIX.
//
//	vxtrace replay --prefix=/tmp/traces/
//	vxtrace gen --prefix=/tmp/traces/ -o replay/main.go
//	vxtrace inspect --prefix=/tmp/traces/ --filter=CreateOperation
//	vxtrace summary --prefix=/tmp/traces/
package main

import (
	"flag"
	"os"

	"github.com/gomlx/vxtrace/backends"
	_ "github.com/gomlx/vxtrace/backends/default"
	"github.com/gomlx/vxtrace/backends/notimplemented"
	"github.com/gomlx/vxtrace/trace"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"k8s.io/klog/v2"
)

// sessionFlags are the flags that select the trace files.
type sessionFlags struct {
	prefix, logFileName, binFileName string
}

func (f *sessionFlags) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&f.prefix, "prefix", os.Getenv(trace.PrefixEnvVar),
		"Prefix of the trace files, concatenated as is: use a trailing \"/\" for a directory. Defaults to $"+trace.PrefixEnvVar+".")
	cmd.PersistentFlags().StringVar(&f.logFileName, "log", trace.DefaultLogFileName, "Name of the text log file.")
	cmd.PersistentFlags().StringVar(&f.binFileName, "bin", trace.DefaultBinFileName, "Name of the binary log file.")
}

// config returns the trace.Config of the session with the given prefix.
func (f *sessionFlags) config(prefix string) trace.Config {
	return trace.Config{Prefix: prefix, LogFileName: f.logFileName, BinFileName: f.binFileName}
}

// session holds the files of one trace session.
type session struct {
	cfg     trace.Config
	src     []byte
	binSize uint64
}

func readSession(cfg trace.Config) (*session, error) {
	src, err := os.ReadFile(cfg.LogPath())
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read text log")
	}
	s := &session{cfg: cfg, src: src}
	if info, err := os.Stat(cfg.BinPath()); err == nil {
		s.binSize = uint64(info.Size())
	} else if !os.IsNotExist(err) {
		return nil, errors.Wrapf(err, "failed to stat binary log")
	}
	return s, nil
}

func newRootCmd() *cobra.Command {
	flags := &sessionFlags{}
	root := &cobra.Command{
		Use:           "vxtrace",
		Short:         "Replay and inspect traces of the backends API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.register(root)
	klogFlags := flag.NewFlagSet("klog", flag.ExitOnError)
	klog.InitFlags(klogFlags)
	root.PersistentFlags().AddGoFlagSet(klogFlags)

	root.AddCommand(
		newReplayCmd(flags),
		newGenCmd(flags),
		newInspectCmd(flags),
		newSummaryCmd(flags),
	)
	return root
}

func main() {
	backends.Register(notimplemented.BackendName, notimplemented.New)
	defer klog.Flush()
	if err := newRootCmd().Execute(); err != nil {
		klog.Errorf("%+v", err)
		klog.Flush()
		os.Exit(1)
	}
}

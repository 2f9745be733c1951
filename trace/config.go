package trace

import "os"

// PrefixEnvVar is the environment variable holding the prefix of the trace files.
//
// The prefix is concatenated as is to the file names: use a trailing "/" to select a directory,
// e.g. VSI_TRACE_PREFIX=/tmp/traces/ writes /tmp/traces/trace_log.txt.
const PrefixEnvVar = "VSI_TRACE_PREFIX"

// Default file names of the text (statements) log and the binary log.
const (
	DefaultLogFileName = "trace_log.txt"
	DefaultBinFileName = "trace_bin.bin"
)

// Config holds the location of the pair of trace files of a session.
type Config struct {
	// Prefix is prepended (concatenated) to both file names. Empty means the current directory.
	Prefix string

	LogFileName, BinFileName string
}

// NewConfig returns a Config with the default file names and the given prefix.
func NewConfig(prefix string) Config {
	return Config{
		Prefix:      prefix,
		LogFileName: DefaultLogFileName,
		BinFileName: DefaultBinFileName,
	}
}

// ConfigFromEnv returns the default Config, with the prefix taken from $VSI_TRACE_PREFIX.
func ConfigFromEnv() Config {
	return NewConfig(os.Getenv(PrefixEnvVar))
}

// LogPath returns the path of the text log.
func (c Config) LogPath() string { return c.Prefix + c.LogFileName }

// BinPath returns the path of the binary log.
func (c Config) BinPath() string { return c.Prefix + c.BinFileName }

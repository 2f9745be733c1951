// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

// Package trace implements the recording of calls to the backends API: every call made through the
// traced wrappers (see package github.com/gomlx/vxtrace/traced) is logged as a Go statement in a text log,
// and its bulk data (tensor contents, binary graphs) is appended to a binary log.
//
// The text log is a replay program: its statements can be interpreted (see package
// github.com/gomlx/vxtrace/replay) or compiled, reading the bulk data back with GetVector and GetBytes.
//
// A Session owns the pair of logs, the names of the traced objects (Registry) and the statements being
// assembled (StatementCache). Calls are recorded with Factory and Do, which take a declarative Call
// describing the call and a function that forwards it to the backend.
//
// Tracing never changes the outcome of a traced call: tracing failures (files that can't be opened,
// short writes, unknown objects) are logged with klog and counted in Stats.
package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Stats of a Session.
type Stats struct {
	// Statements written to the text log, including auxiliary declarations.
	Statements int

	// BinaryBytes written (or attempted) to the binary log.
	BinaryBytes uint64

	// Diagnostics is the number of tracing errors: unknown objects, failed writes, etc.
	Diagnostics int

	// FailedCalls is the number of traced calls that returned an error or panicked.
	FailedCalls int

	// Corrupted is set if a write to the binary log failed: the offsets logged after that are not trustworthy.
	Corrupted bool
}

// Session records traced calls. It is safe for concurrent use: calls are serialized.
type Session struct {
	mu sync.Mutex

	id       uuid.UUID
	text     io.Writer
	closers  []io.Closer
	binLog   *BinaryLog
	registry *Registry
	cache    *StatementCache
	stats    Stats
}

// NewSession creates a Session writing statements to textLog and bulk data to binLog.
//
// A nil writer is accepted: the writes are then reported as errors (see Stats), and the traced calls proceed.
func NewSession(textLog, binLog io.Writer) *Session {
	s := &Session{
		id:       uuid.New(),
		text:     textLog,
		binLog:   NewBinaryLog(binLog),
		registry: NewRegistry(),
		cache:    NewStatementCache(),
	}
	s.writeComment(fmt.Sprintf("vxtrace session %s", s.id))
	return s
}

// OpenSession creates the files of the session configured by cfg, and returns a new Session writing to them.
//
// Files that can't be created are reported with klog, and the session is still returned: writes to the
// missing files are then reported as errors.
func OpenSession(cfg Config) *Session {
	var textLog, binLog io.Writer
	var closers []io.Closer
	for _, target := range []struct {
		path string
		w    *io.Writer
	}{{cfg.LogPath(), &textLog}, {cfg.BinPath(), &binLog}} {
		f, err := os.Create(target.path)
		if err != nil {
			klog.Errorf("vxtrace: failed to create trace file: %v", err)
			continue
		}
		*target.w = f
		closers = append(closers, f)
	}
	s := NewSession(textLog, binLog)
	s.closers = closers
	klog.V(1).Infof("vxtrace: session %s tracing to %q and %q", s.id, cfg.LogPath(), cfg.BinPath())
	return s
}

var (
	defaultOnce    sync.Once
	defaultSession *Session
)

// Default returns the process-wide Session, opened on first use with ConfigFromEnv.
// It is never closed: the files are released when the process exits.
func Default() *Session {
	defaultOnce.Do(func() {
		defaultSession = OpenSession(ConfigFromEnv())
	})
	return defaultSession
}

// ID returns the unique id of the session, logged in the first line of the text log.
func (s *Session) ID() uuid.UUID { return s.id }

// Registry of the names of the traced objects. Access it only while no traced call is in progress.
func (s *Session) Registry() *Registry { return s.registry }

// BinaryLog of the session. Access it only while no traced call is in progress.
func (s *Session) BinaryLog() *BinaryLog { return s.binLog }

// Stats returns a snapshot of the statistics of the session.
func (s *Session) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	stats := s.stats
	stats.BinaryBytes = s.binLog.Offset()
	stats.Corrupted = s.binLog.Corrupted()
	return stats
}

// NameOf returns the name of a traced object, or false if it was not registered.
func (s *Session) NameOf(o Identifiable) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.registry.NameOf(o.TraceIdentity())
}

// Close the files opened by OpenSession. The session must not be used afterwards.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var firstErr error
	for _, closer := range s.closers {
		if err := closer.Close(); err != nil && firstErr == nil {
			firstErr = errors.Wrapf(err, "failed to close trace file")
		}
	}
	s.closers = nil
	return firstErr
}

// nameOf returns the registered name of o. Unregistered objects are reported and logged as nil.
func (s *Session) nameOf(o Identifiable) string {
	if o == nil {
		return NilText
	}
	name, found := s.registry.NameOf(o.TraceIdentity())
	if !found {
		klog.Errorf("vxtrace: %T object was never registered in session %s, it is logged as %s", o, s.id, NilText)
		s.stats.Diagnostics++
		return NilText
	}
	return name
}

// writeLines writes the statements to the text log, or reports them as lost if it failed.
func (s *Session) writeLines(lines ...string) {
	for _, line := range lines {
		klog.V(1).Infof("vxtrace: %s", line)
	}
	if s.text == nil {
		klog.Errorf("vxtrace: text log not open, %d statement(s) lost", len(lines))
		s.stats.Diagnostics++
		return
	}
	for _, line := range lines {
		if _, err := io.WriteString(s.text, line+"\n"); err != nil {
			klog.Errorf("vxtrace: failed to write to text log: %v", err)
			s.stats.Diagnostics++
			return
		}
		s.stats.Statements++
	}
}

// statementWriter writes to the text log of the session: the StatementCache writes one statement per Write.
type statementWriter struct{ s *Session }

func (w statementWriter) Write(p []byte) (int, error) {
	w.s.writeLines(strings.TrimSuffix(string(p), "\n"))
	return len(p), nil
}

// flush the statement cache to the text log.
func (s *Session) flush() {
	_, _ = s.cache.FlushAll(statementWriter{s})
}

// writeComment writes a comment line: comments are not counted as statements.
func (s *Session) writeComment(text string) {
	text = "// " + strings.ReplaceAll(text, "\n", " ")
	klog.V(1).Infof("vxtrace: %s", text)
	if s.text == nil {
		klog.Errorf("vxtrace: text log not open, comment lost")
		s.stats.Diagnostics++
		return
	}
	if _, err := io.WriteString(s.text, text+"\n"); err != nil {
		klog.Errorf("vxtrace: failed to write to text log: %v", err)
		s.stats.Diagnostics++
	}
}

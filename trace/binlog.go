// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package trace

import (
	"io"

	"k8s.io/klog/v2"
)

// BinaryLog is an append-only log of bytes: every write returns the offset where it started.
//
// Write failures are logged and mark the log as corrupted, but the cursor still advances by the requested
// number of bytes, so the offsets of later writes are still the sum of the sizes written before them.
//
// It is not safe for concurrent use, the owning Session serializes access to it.
type BinaryLog struct {
	w         io.Writer
	offset    uint64
	corrupted bool
}

// NewBinaryLog creates a BinaryLog appending to w. A nil w is accepted: every write is then reported as an error.
func NewBinaryLog(w io.Writer) *BinaryLog {
	return &BinaryLog{w: w}
}

// Write appends data and returns the offset where it was written.
func (b *BinaryLog) Write(data []byte) (offset uint64) {
	offset = b.offset
	b.offset += uint64(len(data))
	if len(data) == 0 {
		return
	}
	if b.w == nil {
		klog.Errorf("vxtrace: binary log not open, %d bytes at offset %d lost", len(data), offset)
		b.corrupted = true
		return
	}
	n, err := b.w.Write(data)
	if err != nil || n != len(data) {
		klog.Errorf("vxtrace: short write to binary log at offset %d: wrote %d of %d bytes: %v", offset, n, len(data), err)
		b.corrupted = true
	}
	return
}

// WriteElements appends count elements of elementSize bytes each, taken from data, and returns the offset where
// they were written. If data is shorter than elementSize*count, what's available is written, the error is logged
// and the log is marked as corrupted.
func (b *BinaryLog) WriteElements(data []byte, elementSize, count int) (offset uint64) {
	size := elementSize * count
	if len(data) >= size {
		return b.Write(data[:size])
	}
	klog.Errorf("vxtrace: WriteElements(%d x %d bytes) given only %d bytes", count, elementSize, len(data))
	offset = b.Write(data)
	b.offset = offset + uint64(size)
	b.corrupted = true
	return
}

// Offset returns the current write cursor, the total number of bytes written (or attempted) so far.
func (b *BinaryLog) Offset() uint64 { return b.offset }

// Corrupted returns whether any write failed.
func (b *BinaryLog) Corrupted() bool { return b.corrupted }

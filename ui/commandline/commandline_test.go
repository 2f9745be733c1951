// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package commandline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testLog = `// vxtrace session 3f0c7a4e-0000-4000-8000-000000000000
ctx_0 := backends.CreateContext();
graph_0 := ctx_0.CreateGraph();
spec_0 := backends.NewTensorSpec(backends.DataType(9), trace.GetVector[uint32](replayer, 0, 1), backends.TensorAttribute(8));
tensor_0 := graph_0.CreateTensor(spec_0, nil);
tensor_1 := graph_0.CreateTensor(spec_0, nil);
graph_0.Compile();
// graph_0.Compile failed: not implemented
`

func TestSummarize(t *testing.T) {
	summary, err := Summarize([]byte(testLog), 2048)
	require.NoError(t, err)
	assert.Equal(t, "3f0c7a4e-0000-4000-8000-000000000000", summary.Session)
	assert.Equal(t, 6, summary.Statements)
	assert.Equal(t, 1, summary.FailedCalls)
	assert.Equal(t, map[string]int{"ctx_": 1, "graph_": 1, "spec_": 1, "tensor_": 2}, summary.Declared)
	assert.Equal(t, map[string]int{
		"backends.CreateContext": 1,
		"CreateGraph":            1,
		"backends.NewTensorSpec": 1,
		"CreateTensor":           2,
		"Compile":                1,
	}, summary.Calls)
	assert.Equal(t, "session 3f0c7a4e-0000-4000-8000-000000000000: 6 statements, 2.0 kB binary log, 1 failed calls",
		summary.String())

	summary.ReplayDuration = 1500 * time.Millisecond
	rendered := summary.Render()
	assert.Contains(t, rendered, "CreateTensor")
	assert.Contains(t, rendered, "tensor_*")
	assert.Contains(t, rendered, "2.0 kB")
	assert.Contains(t, rendered, "4.0 stmts/s")

	_, err = Summarize([]byte("x := (;"), 0)
	require.Error(t, err)
}

func TestCallName(t *testing.T) {
	assert.Equal(t, "Run", CallName("graph_0.Run"))
	assert.Equal(t, "BindInputs", CallName("add_12.BindInputs"))
	assert.Equal(t, "ops.Add", CallName("ops.Add"))
	assert.Equal(t, "uint64", CallName("uint64"))
	assert.Equal(t, "nbg_size_", NamePrefix("nbg_size_3"))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "1.50s", FormatDuration(1500*time.Millisecond))
	assert.Equal(t, "2.35ms", FormatDuration(2345678*time.Nanosecond))
	assert.Equal(t, "1m30s", FormatDuration(90*time.Second))
	assert.Equal(t, "-", FormatRate(10, 0, "stmts"))
	assert.Equal(t, "20.0 stmts/s", FormatRate(10, 500*time.Millisecond, "stmts"))
}

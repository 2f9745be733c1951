// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package simplego

import (
	"fmt"
	"os"
	"testing"

	"github.com/gomlx/vxtrace/backends"
	"github.com/janpfeifer/must"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"k8s.io/klog/v2"
)

var backend backends.Context

func init() {
	klog.InitFlags(nil)
}

func setup() {
	fmt.Printf("Available backends: %q\n", backends.List())
	if os.Getenv(backends.ConfigEnvVar) == "" {
		must.M(os.Setenv(backends.ConfigEnvVar, BackendName))
	} else {
		fmt.Printf("\t$%s=%q\n", backends.ConfigEnvVar, os.Getenv(backends.ConfigEnvVar))
	}
	backend = backends.CreateContextWithConfig(BackendName)
	fmt.Printf("Backend: %s\n", backend.Name())
}

func TestMain(m *testing.M) {
	setup()
	code := m.Run() // Run all tests in the file
	os.Exit(code)
}

// spec is a shortcut to create a TensorSpec.
func spec(dtype backends.DataType, attr backends.TensorAttribute, dims ...uint32) backends.TensorSpec {
	return backends.NewTensorSpec(dtype, dims, attr)
}

func TestContext(t *testing.T) {
	require.Contains(t, backends.List(), BackendName)
	assert.Equal(t, BackendName, backend.Name())

	caps := backend.(backends.HasCapabilities).Capabilities()
	assert.True(t, caps.Operations[backends.OpTypeAdd])
	assert.True(t, caps.Operations[backends.OpTypeNBG])
	assert.False(t, caps.DataTypes[backends.Int4])

	// Capabilities returns a copy.
	caps.Operations[backends.OpTypeAdd] = false
	assert.True(t, Capabilities.Operations[backends.OpTypeAdd])
}

func TestTensor(t *testing.T) {
	g := backend.CreateGraph()
	x := g.CreateTensor(spec(backends.Int32, backends.AttributeInput, 2, 2), []int32{1, 2, 3, 4})
	assert.Equal(t, 16, x.Spec().ByteSize())

	got := make([]int32, 4)
	require.NoError(t, x.CopyDataFromTensor(got))
	assert.Equal(t, []int32{1, 2, 3, 4}, got)

	// Raw bytes are accepted in both directions.
	raw := make([]byte, 16)
	require.NoError(t, x.CopyDataFromTensor(raw))
	require.NoError(t, x.CopyDataToTensor([]int32{5, 6, 7, 8}))
	require.NoError(t, x.CopyDataFromTensor(got))
	assert.Equal(t, []int32{5, 6, 7, 8}, got)
	require.NoError(t, x.CopyDataToTensor(raw))
	require.NoError(t, x.CopyDataFromTensor(got))
	assert.Equal(t, []int32{1, 2, 3, 4}, got)

	// Short buffers fail.
	require.Error(t, x.CopyDataToTensor([]int32{1}))
	require.Error(t, x.CopyDataFromTensor(make([]int32, 3)))
	require.Error(t, x.CopyDataToTensor("not a slice"))

	// Unsupported data types panic.
	require.Panics(t, func() { g.CreateTensor(spec(backends.Int4, backends.AttributeInput, 2), nil) })

	// Tensors from other graphs can't be bound.
	other := backend.CreateGraph().CreateTensor(spec(backends.Int32, backends.AttributeInput, 2, 2), nil)
	op := g.CreateOperation(backends.OpDesc{Type: backends.OpTypeAdd})
	require.Panics(t, func() { op.BindInput(other) })
}

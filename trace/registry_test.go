package trace

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	const numNames = 20
	seen := make(map[string]bool)
	for i := range numNames {
		name := r.AllocateName("tensor_")
		require.Equal(t, fmt.Sprintf("tensor_%d", i), name)
		require.False(t, seen[name])
		seen[name] = true
		if i%5 == 0 {
			// Interleaved prefixes have their own counters.
			require.Equal(t, fmt.Sprintf("graph_%d", i/5), r.AllocateName("graph_"))
		}
	}

	a, b := new(int), new(int)
	_, found := r.NameOf(a)
	assert.False(t, found)
	r.Register(b, "graph_0")
	r.Register(a, "tensor_0")
	name, found := r.NameOf(a)
	require.True(t, found)
	assert.Equal(t, "tensor_0", name)
	assert.Equal(t, []string{"graph_0", "tensor_0"}, r.Names())
	assert.Equal(t, 2, r.Len())

	// Last registration wins.
	r.Register(a, "tensor_1")
	name, _ = r.NameOf(a)
	assert.Equal(t, "tensor_1", name)
	assert.Equal(t, 2, r.Len())
}

func TestStatementCache(t *testing.T) {
	c := NewStatementCache()
	c.AppendToCurrent("a := f(")
	c.InsertBeforeCurrent("size_0 := uint64(0);")
	c.InsertBeforeCurrent("buf_0 := nil;")
	c.AppendToCurrent("&size_0);")
	require.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"size_0 := uint64(0);", "buf_0 := nil;", "a := f(&size_0);"}, c.Pending())

	var out strings.Builder
	n, err := c.FlushAll(&out)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	assert.Equal(t, "size_0 := uint64(0);\nbuf_0 := nil;\na := f(&size_0);\n", out.String())
	assert.Equal(t, 0, c.Len())

	c.InsertBeforeCurrent("x := 1;")
	c.Begin("g(")
	c.AppendToCurrent(");")
	out.Reset()
	_, err = c.FlushAll(&out)
	require.NoError(t, err)
	assert.Equal(t, "x := 1;\ng();\n", out.String())
}

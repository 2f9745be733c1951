package simplego

import "github.com/gomlx/vxtrace/backends"

// Capabilities of the SimpleGo backend.
var Capabilities = backends.Capabilities{
	Operations: map[backends.OpType]bool{
		backends.OpTypeAdd:      true,
		backends.OpTypeSub:      true,
		backends.OpTypeMultiply: true,
		backends.OpTypeDiv:      true,
		backends.OpTypeMaximum:  true,
		backends.OpTypeMinimum:  true,
		backends.OpTypeNBG:      true,
	},

	// Bool8 is only supported for storage and binary graphs, not by the elementwise ops.
	DataTypes: map[backends.DataType]bool{
		backends.Int8:    true,
		backends.Uint8:   true,
		backends.Int16:   true,
		backends.Uint16:  true,
		backends.Int32:   true,
		backends.Uint32:  true,
		backends.Int64:   true,
		backends.Float16: true,
		backends.Float32: true,
		backends.Bool8:   true,
	},
}

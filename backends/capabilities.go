package backends

import "maps"

// Capabilities holds mappings of what is supported by a backend.
type Capabilities struct {
	// Operations supported by a backend.
	// If not listed, it's assumed to be false, hence not supported.
	Operations map[OpType]bool

	// DataTypes list the data types supported by a backend.
	// If not listed, it's assumed to be false, hence not supported.
	DataTypes map[DataType]bool
}

// Clone makes a deep copy of the Capabilities.
func (c Capabilities) Clone() Capabilities {
	var c2 Capabilities
	c2.Operations = make(map[OpType]bool, len(c.Operations))
	maps.Copy(c2.Operations, c.Operations)
	c2.DataTypes = make(map[DataType]bool, len(c.DataTypes))
	maps.Copy(c2.DataTypes, c.DataTypes)
	return c2
}

// HasCapabilities is implemented by contexts that report what they support.
type HasCapabilities interface {
	Capabilities() Capabilities
}

// Package backends defines the graph-builder API that vxtrace observes: a Context creates Graphs,
// a Graph creates Tensors and Operations, Operations are bound to Tensors, and the Graph is compiled
// (optionally to a binary graph) and run.
//
// The API is implemented by registered backends, e.g. the pure Go reference implementation in
// package github.com/gomlx/vxtrace/backends/simplego.
//
// Factory methods (CreateGraph, CreateTensor, CreateOperation, ...) throw (panic) with a stack trace
// on misuse, see package github.com/gomlx/exceptions. Methods that may fail at execution time
// (Compile, CompileToBinary, Run, CopyDataToTensor, CopyDataFromTensor) return an error instead.
package backends

import (
	"os"
	"slices"
	"strings"

	"github.com/gomlx/exceptions"
	"github.com/pkg/errors"
)

//go:generate go tool enumer -type DataType -output=gen_datatype_enumer.go types.go
//go:generate go tool enumer -type TensorAttribute -trimprefix=Attribute -output=gen_tensorattribute_enumer.go types.go

// ErrNotImplemented is returned (wrapped) by backends for operations they don't support.
var ErrNotImplemented = errors.New("not implemented")

// Constructor takes a config string (optionally empty) and returns a new Context.
type Constructor func(config string) Context

var (
	registeredConstructors = make(map[string]Constructor)
	firstRegistered        string
)

// Register backend with the given name, and a default constructor that takes as input a configuration string that is
// passed along to the backend constructor.
//
// To be safe, call Register during initialization of a package.
func Register(name string, constructor Constructor) {
	if len(registeredConstructors) == 0 {
		firstRegistered = name
	}
	registeredConstructors[name] = constructor
}

// List the names of the registered backends, sorted.
func List() []string {
	names := make([]string, 0, len(registeredConstructors))
	for name := range registeredConstructors {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// DefaultConfig is the name of the default backend configuration to use if specified.
//
// See CreateContextWithConfig for the format of the configuration string.
var DefaultConfig string

// ConfigEnvVar is the environment variable with the default backend configuration to use.
//
// The format of config is "<backend_name>:<backend_configuration>".
const ConfigEnvVar = "VX_BACKEND"

// CreateContext returns a new Context of the default backend.
//
// The default is:
//
// 1. The environment $VX_BACKEND is used as a configuration if defined.
// 2. Next the variable DefaultConfig is used as a configuration if defined.
// 3. The first registered backend is used with an empty configuration.
//
// It panics if no backend was registered.
func CreateContext() Context {
	config, found := os.LookupEnv(ConfigEnvVar)
	if found {
		return CreateContextWithConfig(config)
	}
	if DefaultConfig != "" {
		return CreateContextWithConfig(DefaultConfig)
	}
	return CreateContextWithConfig("")
}

// CreateContextWithConfig takes a configuration string formatted as "<backend_name>:<backend_configuration>",
// or simply "<backend_name>", and returns a new Context of that backend.
// An empty backend name selects the first registered backend.
func CreateContextWithConfig(config string) Context {
	if len(registeredConstructors) == 0 {
		exceptions.Panicf(`no registered backends for vxtrace -- maybe import the default one with import _ "github.com/gomlx/vxtrace/backends/default"?`)
	}
	backendName := config
	var backendConfig string
	if idx := strings.Index(config, ":"); idx != -1 {
		backendName = config[:idx]
		backendConfig = config[idx+1:]
	}
	if backendName == "" {
		backendName = firstRegistered
	}
	constructor, found := registeredConstructors[backendName]
	if !found {
		exceptions.Panicf("can't find backend %q for configuration %q given, registered backends: %q",
			backendName, config, List())
	}
	return constructor(backendConfig)
}

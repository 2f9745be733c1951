package replay

import (
	"bytes"
	"fmt"
	"go/format"
	"strings"
	"text/template"

	"github.com/gomlx/vxtrace/trace"
	"github.com/pkg/errors"
)

// importPaths of the packages that statements may refer to.
var importPaths = map[string]string{
	"backends": "github.com/gomlx/vxtrace/backends",
	"ops":      "github.com/gomlx/vxtrace/backends/ops",
	"float16":  "github.com/x448/float16",
	"math":     "math",
}

var programTemplate = template.Must(template.New("program").Parse(`// Code generated by "vxtrace gen"; DO NOT EDIT.

// Replays the trace session {{.Session}}.
package main

import (
	"flag"
{{range .Imports}}
	{{printf "%q" .}}{{end}}

	_ "github.com/gomlx/vxtrace/backends/default"
	"github.com/gomlx/vxtrace/trace"
	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)
	flag.Parse()
	replayer, err := trace.OpenReplayer(trace.Config{
		Prefix:      {{printf "%q" .Config.Prefix}},
		LogFileName: {{printf "%q" .Config.LogFileName}},
		BinFileName: {{printf "%q" .Config.BinFileName}},
	})
	if err != nil {
		klog.Fatalf("Failed to open binary log: %+v", err)
	}
	defer func() { _ = replayer.Close() }()

{{range .Lines}}	{{.}}
{{end}}{{if .Declared}}
	// Variables not used by the trace.
{{range .Declared}}	_ = {{.}}
{{end}}{{end}}}
`))

// GenerateProgram generates the source of a Go program (package main) that replays the text log src, reading the
// buffers from the binary log given by cfg.
//
// The program uses the default backend, configurable with $VX_BACKEND. Calls that return errors are not
// checked, like when they were traced.
func GenerateProgram(src []byte, cfg trace.Config) ([]byte, error) {
	statements, err := ParseLog(src)
	if err != nil {
		return nil, err
	}
	data := struct {
		Session  string
		Config   trace.Config
		Imports  []string
		Lines    []string
		Declared []string
	}{
		Session: sessionID(src),
		Config:  cfg,
	}

	usedPackages := make(map[string]bool)
	for _, st := range statements {
		if strings.Contains(st.Text, trace.OpaqueText) {
			return nil, errors.Errorf("line %d has an argument that was not logged (%s), it can not be replayed: %s",
				st.Line, trace.OpaqueText, st.Text)
		}
		if name := st.DeclaredName(); name != "" {
			data.Declared = append(data.Declared, name)
		}
		for pkg := range importPaths {
			if strings.Contains(st.Text, pkg+".") {
				usedPackages[pkg] = true
			}
		}
		data.Lines = append(data.Lines, strings.TrimSuffix(st.Text, ";"))
	}
	for _, pkg := range []string{"backends", "float16", "math", "ops"} {
		if usedPackages[pkg] {
			data.Imports = append(data.Imports, importPaths[pkg])
		}
	}

	var buf bytes.Buffer
	if err := programTemplate.Execute(&buf, data); err != nil {
		return nil, errors.Wrap(err, "failed to generate replay program")
	}
	formatted, err := format.Source(buf.Bytes())
	if err != nil {
		return nil, errors.Wrapf(err, "generated replay program is not valid Go:\n%s", buf.String())
	}
	return formatted, nil
}

// sessionID returns the id in the header of the text log, or "unknown".
func sessionID(src []byte) string {
	const header = "// vxtrace session "
	firstLine, _, _ := bytes.Cut(src, []byte("\n"))
	if id, found := strings.CutPrefix(string(firstLine), header); found {
		return strings.TrimSpace(id)
	}
	return fmt.Sprintf("unknown (no %q header)", strings.TrimSpace(header))
}

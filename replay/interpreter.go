// Copyright 2023-2026 The GoMLX Authors. SPDX-License-Identifier: Apache-2.0

package replay

import (
	"fmt"
	"go/ast"
	"go/token"
	"slices"
	"strconv"

	"github.com/gomlx/exceptions"
	"github.com/gomlx/vxtrace/backends"
	"github.com/gomlx/vxtrace/trace"
	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Failure is a replayed call that returned an error: the same call is annotated as failed in the text log,
// if it failed when it was traced.
type Failure struct {
	Statement Statement
	Err       error
}

// String implements fmt.Stringer.
func (f Failure) String() string {
	return fmt.Sprintf("line %d: %s failed: %v", f.Statement.Line, f.Statement.Callee(), f.Err)
}

// Interpreter replays the statements of a text log on a backend, reading the logged buffers from the binary log.
//
// An Interpreter holds the variables declared by the statements it ran, so it can only replay one session.
// It is not safe for concurrent use.
type Interpreter struct {
	replayer   *trace.Replayer
	newContext func() backends.Context
	onStep     func(i, total int, st Statement)

	vars     map[string]any
	cells    map[string]*uint64
	outputs  map[string][]byte
	failures []Failure

	// current is the statement being executed.
	current Statement
}

// New creates an Interpreter that reads the buffers from r.
func New(r *trace.Replayer) *Interpreter {
	return &Interpreter{
		replayer: r,
		vars:     make(map[string]any),
		cells:    make(map[string]*uint64),
		outputs:  make(map[string][]byte),
	}
}

// WithContextFactory makes the interpreter create its contexts with newContext, instead of the backend
// configuration logged in backends.CreateContext and backends.CreateContextWithConfig.
// It returns the interpreter itself, for chained configuration.
func (in *Interpreter) WithContextFactory(newContext func() backends.Context) *Interpreter {
	in.newContext = newContext
	return in
}

// WithStepCallback sets a function called after each statement is executed, e.g. to report progress.
// It returns the interpreter itself, for chained configuration.
func (in *Interpreter) WithStepCallback(onStep func(i, total int, st Statement)) *Interpreter {
	in.onStep = onStep
	return in
}

// Run parses and executes the text log src. See RunStatements.
func (in *Interpreter) Run(src []byte) error {
	statements, err := ParseLog(src)
	if err != nil {
		return err
	}
	return in.RunStatements(statements)
}

// RunStatements executes the statements in order.
//
// Calls that return an error are recorded (see Failures) and the execution continues. It stops at the first
// statement that can't be executed (unknown function, argument that was not logged, panic in the backend, ...),
// and returns the error.
func (in *Interpreter) RunStatements(statements []Statement) error {
	for i, st := range statements {
		klog.V(2).Infof("replay: line %d: %s", st.Line, st.Text)
		if err := in.exec(st); err != nil {
			return errors.WithMessagef(err, "replay of line %d (%s) failed", st.Line, st.Text)
		}
		if in.onStep != nil {
			in.onStep(i, len(statements), st)
		}
	}
	return nil
}

// Var returns the value of a variable declared by the replayed statements.
func (in *Interpreter) Var(name string) (any, bool) {
	if cell, found := in.cells[name]; found {
		return *cell, true
	}
	value, found := in.vars[name]
	return value, found
}

// Outputs returns the bytes copied out of the tensors by each CopyDataFromTensor call, keyed by the name of the
// tensor variable. If the data of a tensor is copied more than once, the last copy is kept.
func (in *Interpreter) Outputs() map[string][]byte {
	return in.outputs
}

// Failures returns the calls that returned an error, in order of execution.
func (in *Interpreter) Failures() []Failure {
	return in.failures
}

// exec executes one statement, converting panics to errors.
func (in *Interpreter) exec(st Statement) error {
	in.current = st
	exception := exceptions.Try(func() { in.execStmt(st.Stmt) })
	if exception == nil {
		return nil
	}
	if err, ok := exception.(error); ok {
		return err
	}
	return errors.Errorf("%v", exception)
}

func (in *Interpreter) execStmt(stmt ast.Stmt) {
	switch stmt := stmt.(type) {
	case *ast.AssignStmt:
		if stmt.Tok != token.DEFINE || len(stmt.Lhs) != 1 || len(stmt.Rhs) != 1 {
			exceptions.Panicf("only single variable declarations (\"x := ...\") are supported")
		}
		ident, ok := stmt.Lhs[0].(*ast.Ident)
		if !ok {
			exceptions.Panicf("can not assign to %s", exprName(stmt.Lhs[0]))
		}
		in.declare(ident.Name, in.eval(stmt.Rhs[0]))
	case *ast.ExprStmt:
		in.eval(stmt.X)
	default:
		exceptions.Panicf("unsupported statement type %T", stmt)
	}
}

// declare a variable: uint64 values are kept in cells, so their address can be taken as an output parameter.
func (in *Interpreter) declare(name string, value any) {
	delete(in.vars, name)
	delete(in.cells, name)
	if u, ok := value.(uint64); ok {
		in.cells[name] = &u
		return
	}
	in.vars[name] = value
}

func (in *Interpreter) eval(expr ast.Expr) any {
	switch e := expr.(type) {
	case *ast.BasicLit:
		return evalLiteral(e)
	case *ast.Ident:
		return in.evalIdent(e.Name)
	case *ast.ParenExpr:
		return in.eval(e.X)
	case *ast.UnaryExpr:
		return in.evalUnary(e)
	case *ast.CompositeLit:
		return in.evalCompositeLit(e)
	case *ast.CallExpr:
		return in.evalCall(e)
	}
	exceptions.Panicf("unsupported expression type %T", expr)
	return nil
}

func evalLiteral(lit *ast.BasicLit) any {
	switch lit.Kind {
	case token.INT:
		if v, err := strconv.ParseInt(lit.Value, 0, 64); err == nil {
			return v
		}
		v, err := strconv.ParseUint(lit.Value, 0, 64)
		if err != nil {
			panic(errors.Wrapf(err, "invalid integer literal %s", lit.Value))
		}
		return v
	case token.FLOAT:
		v, err := strconv.ParseFloat(lit.Value, 64)
		if err != nil {
			panic(errors.Wrapf(err, "invalid float literal %s", lit.Value))
		}
		return v
	case token.STRING:
		v, err := strconv.Unquote(lit.Value)
		if err != nil {
			panic(errors.Wrapf(err, "invalid string literal %s", lit.Value))
		}
		return v
	}
	exceptions.Panicf("unsupported literal %s", lit.Value)
	return nil
}

func (in *Interpreter) evalIdent(name string) any {
	switch name {
	case trace.NilText:
		return nil
	case "replayer":
		return in.replayer
	case trace.OpaqueText:
		exceptions.Panicf("an argument of the call was not logged (%s), it can not be replayed", trace.OpaqueText)
	}
	if cell, found := in.cells[name]; found {
		return *cell
	}
	if value, found := in.vars[name]; found {
		return value
	}
	exceptions.Panicf("undefined variable %q%s", name, suggestion(name, in.varNames()))
	return nil
}

func (in *Interpreter) varNames() []string {
	names := make([]string, 0, len(in.vars)+len(in.cells))
	for name := range in.vars {
		names = append(names, name)
	}
	for name := range in.cells {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (in *Interpreter) evalUnary(e *ast.UnaryExpr) any {
	ident, ok := e.X.(*ast.Ident)
	if e.Op != token.AND || !ok {
		exceptions.Panicf("unsupported unary expression %s", e.Op)
	}
	cell, found := in.cells[ident.Name]
	if !found {
		exceptions.Panicf("can not take the address of %q: only uint64 variables can be output parameters", ident.Name)
	}
	return cell
}

func (in *Interpreter) evalCompositeLit(lit *ast.CompositeLit) any {
	arrayType, ok := lit.Type.(*ast.ArrayType)
	if !ok || arrayType.Len != nil || exprName(arrayType.Elt) != "backends.Tensor" {
		exceptions.Panicf("unsupported composite literal, only []backends.Tensor{...} is supported")
	}
	tensors := make([]backends.Tensor, len(lit.Elts))
	for i, elt := range lit.Elts {
		value := in.eval(elt)
		if value == nil {
			continue
		}
		tensor, ok := value.(backends.Tensor)
		if !ok {
			exceptions.Panicf("element #%d of []backends.Tensor is a %T", i, value)
		}
		tensors[i] = tensor
	}
	return tensors
}

func (in *Interpreter) evalCall(call *ast.CallExpr) any {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		// Conversion, e.g. uint64(12).
		return convert(fun.Name, in.evalArgs(fun.Name, call.Args, 1)[0])
	case *ast.IndexExpr:
		// Generic function: trace.GetVector[T].
		name := exprName(fun.X)
		if name != "trace.GetVector" {
			exceptions.Panicf("unsupported generic function %q", name)
		}
		return getVector(exprName(fun.Index), in.evalArgs(name, call.Args, 3))
	case *ast.SelectorExpr:
		x, ok := fun.X.(*ast.Ident)
		if !ok {
			exceptions.Panicf("unsupported call of %s", exprName(fun))
		}
		if _, isVar := in.vars[x.Name]; !isVar && packageNames[x.Name] {
			return in.callFunction(x.Name+"."+fun.Sel.Name, call.Args)
		}
		return in.callMethod(x.Name, fun.Sel.Name, call.Args)
	}
	exceptions.Panicf("unsupported call expression %T", call.Fun)
	return nil
}

// evalArgs evaluates the arguments of the call to name, checking their number.
func (in *Interpreter) evalArgs(name string, exprs []ast.Expr, numArgs int) []any {
	if len(exprs) != numArgs {
		exceptions.Panicf("%s takes %d arguments, got %d", name, numArgs, len(exprs))
	}
	args := make([]any, len(exprs))
	for i, expr := range exprs {
		args[i] = in.eval(expr)
	}
	return args
}

func (in *Interpreter) callFunction(name string, exprs []ast.Expr) any {
	fn, found := functions[name]
	if !found {
		exceptions.Panicf("unknown function %s%s", name, suggestion(name, functionNames()))
	}
	return fn.call(in, in.evalArgs(name, exprs, fn.numArgs))
}

func (in *Interpreter) callMethod(recvName, methodName string, exprs []ast.Expr) any {
	recv, found := in.vars[recvName]
	if !found {
		exceptions.Panicf("undefined variable %q%s", recvName, suggestion(recvName, in.varNames()))
	}
	kind := receiverKind(recv)
	key := kind + "." + methodName
	m, found := methods[key]
	if !found {
		exceptions.Panicf("unknown method %s of %s (a backends.%s)%s",
			methodName, recvName, kind, suggestion(key, methodNames(kind)))
	}
	result, err := m.call(in, recvName, recv, in.evalArgs(key, exprs, m.numArgs))
	if err != nil {
		klog.Warningf("replay: line %d: %s.%s failed: %v", in.current.Line, recvName, methodName, err)
		in.failures = append(in.failures, Failure{Statement: in.current, Err: err})
	}
	return result
}

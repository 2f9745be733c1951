package trace

import (
	"fmt"
	"strings"

	"k8s.io/klog/v2"
)

// CallKind defines how the statement of a call is written.
type CallKind int

//go:generate go tool enumer -type=CallKind -trimprefix=CallKind -output=gen_callkind_enumer.go call.go

const (
	// CallKindConstructor is a package function creating a new traced object: "<name> := <Func>(<args>);".
	CallKindConstructor CallKind = iota

	// CallKindFactory is a method creating a new traced object: "<name> := <receiver>.<Method>(<args>);".
	CallKindFactory

	// CallKindMethod is a method that doesn't create a traced object: "<receiver>.<Method>(<args>);".
	CallKindMethod

	// CallKindInPlace is a method that changes and returns the receiver, logged as CallKindMethod.
	CallKindInPlace
)

// Call describes one traced call.
type Call struct {
	Kind CallKind

	// Receiver of a method call, nil for constructors.
	Receiver Identifiable

	// Func is the package qualified function called by constructors, e.g. "backends.NewTensorSpec".
	Func string

	// Method name of the receiver.
	Method string

	// Prefix of the name of the object created by constructors and factories, e.g. "tensor_".
	Prefix string

	Args []Arg

	// Hook, if given, is called after the arguments are encoded and before the statement is finished:
	// it can change the text of arguments and insert auxiliary statements before the call.
	Hook func(c *CallContext)
}

// callee returns the text of the function or method called.
func (s *Session) callee(call *Call) string {
	if call.Receiver == nil {
		return call.Func
	}
	return s.nameOf(call.Receiver) + "." + call.Method
}

// Values are the values of the arguments of a call, forwarded to the backend.
type Values []any

// Get returns the i-th value.
func (v Values) Get(i int) any { return v[i] }

// As returns the i-th value converted to T, or the zero value of T if it is nil or of another type.
func As[T any](v Values, i int) T {
	value, _ := v[i].(T)
	return value
}

// AsSlice returns the i-th value, a slice of underlying objects (see ObjectSlice), as a []T.
func AsSlice[T any](v Values, i int) []T {
	switch values := v[i].(type) {
	case []T:
		return values
	case []any:
		result := make([]T, len(values))
		for ii, value := range values {
			result[ii], _ = value.(T)
		}
		return result
	}
	return nil
}

// CallContext is the state of a call being recorded, given to the Encode method of the arguments and to the
// call Hook.
//
// They run while the Session is locked, so they must use the CallContext methods (e.g. NameOf) and never
// the ones of the Session.
type CallContext struct {
	session *Session
	call    *Call
	args    []string

	// cached is true if the statement is assembled in the StatementCache.
	cached bool
}

// NumArgs returns the number of arguments of the call.
func (c *CallContext) NumArgs() int { return len(c.call.Args) }

// Arg returns the i-th argument of the call.
func (c *CallContext) Arg(i int) Arg { return c.call.Args[i] }

// SetArg sets the text of the i-th argument.
func (c *CallContext) SetArg(i int, text string) { c.args[i] = text }

// InsertBefore inserts an auxiliary statement before the statement of the call.
func (c *CallContext) InsertBefore(statement string) {
	if !c.cached {
		// Calls without Hook or special arguments are written in one pass: the statement of the call is only written
		// at the end, so writing right away still keeps the order.
		klog.Warningf("vxtrace: auxiliary statement %q inserted in a call with no special arguments", statement)
		c.session.writeLines(statement)
		return
	}
	c.session.cache.InsertBeforeCurrent(statement)
}

// Dump writes data to the binary log, and returns its offset.
func (c *CallContext) Dump(data []byte) uint64 {
	return c.session.binLog.Write(data)
}

// Bytes sets the i-th argument to a bulk buffer: data is written to the binary log and logged as a GetBytes call.
// A nil data is logged as nil, and nothing is written.
func (c *CallContext) Bytes(i int, data []byte) {
	if data == nil {
		c.SetArg(i, NilText)
		return
	}
	offset := c.Dump(data)
	c.SetArg(i, fmt.Sprintf("trace.GetBytes(replayer, %d, %d)", offset, len(data)))
}

// OutParam sets the i-th argument to an output parameter: a variable initialized with *ptr is declared before
// the call, and its address is given as the argument. A nil ptr is logged as nil.
func (c *CallContext) OutParam(i int, ptr *uint64, prefix string) {
	if ptr == nil {
		c.SetArg(i, NilText)
		return
	}
	name := c.Hoist(prefix, fmt.Sprintf("uint64(%d)", *ptr))
	c.SetArg(i, "&"+name)
}

// Hoist declares a new variable, with a name allocated under prefix, initialized with expr, before the
// statement of the call. It returns the name of the variable.
func (c *CallContext) Hoist(prefix, expr string) string {
	name := c.session.registry.AllocateName(prefix)
	c.InsertBefore(fmt.Sprintf("%s := %s;", name, expr))
	return name
}

// NameOf returns the name of a traced object, or NilText (and a diagnostic is reported) if it's not registered.
func (c *CallContext) NameOf(o Identifiable) string {
	return c.session.nameOf(o)
}

func (c *CallContext) values() Values {
	values := make(Values, len(c.call.Args))
	for i, arg := range c.call.Args {
		values[i] = arg.Value()
	}
	return values
}

// record writes the statement of the call and returns its context. newName is the name of the object
// created by constructors and factories.
//
// Calls with a Hook or special arguments are assembled in the StatementCache, others in one pass.
func (s *Session) record(call *Call, newName string) *CallContext {
	c := &CallContext{session: s, call: call, args: make([]string, len(call.Args))}
	c.cached = call.Hook != nil
	for _, arg := range call.Args {
		if arg.Strategy() == StrategySpecial {
			c.cached = true
		}
	}

	head := s.callee(call) + "("
	if call.Kind == CallKindConstructor || call.Kind == CallKindFactory {
		head = newName + " := " + head
	}
	if c.cached {
		s.cache.Begin(head)
	}
	for i, arg := range call.Args {
		c.args[i] = arg.Encode(c)
	}
	if call.Hook != nil {
		call.Hook(c)
	}
	tail := strings.Join(c.args, ", ") + ");"
	if c.cached {
		s.cache.AppendToCurrent(tail)
		s.flush()
	} else {
		s.writeLines(head + tail)
	}
	return c
}

// annotateFailure writes a comment after the statement of a failed call.
func (s *Session) annotateFailure(call *Call, failure any) {
	s.stats.FailedCalls++
	s.writeComment(fmt.Sprintf("%s failed: %v", s.callee(call), failure))
}

// Factory records a constructor or factory call and forwards it to the backend with forward.
// The traced object returned by forward is registered with the name used in the statement.
//
// If forward panics, the failure is annotated in the log and the panic is propagated.
// If s is nil, the Default session is used.
func Factory[T Identifiable](s *Session, call Call, forward func(Values) T) T {
	if s == nil {
		s = Default()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	name := s.registry.AllocateName(call.Prefix)
	c := s.record(&call, name)
	defer func() {
		if r := recover(); r != nil {
			s.annotateFailure(&call, r)
			panic(r)
		}
	}()
	result := forward(c.values())
	s.registry.Register(result.TraceIdentity(), name)
	return result
}

// Do records a method call and forwards it to the backend with forward.
// If forward returns an error (or panics), the failure is annotated in the log, and the error returned
// (or the panic propagated).
//
// If s is nil, the Default session is used.
func Do(s *Session, call Call, forward func(Values) error) error {
	if s == nil {
		s = Default()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.record(&call, "")
	defer func() {
		if r := recover(); r != nil {
			s.annotateFailure(&call, r)
			panic(r)
		}
	}()
	err := forward(c.values())
	if err != nil {
		s.annotateFailure(&call, err)
	}
	return err
}

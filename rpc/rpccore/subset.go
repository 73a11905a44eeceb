package rpccore

import (
	"slices"

	"github.com/NethermindEth/deploy-gateway/jsonrpc"
)

// ErrorSubset is the closed set of error kinds a single RPC method may
// return. KindInternal belongs to every subset.
type ErrorSubset struct {
	method string
	kinds  []Kind
}

func NewErrorSubset(method string, kinds ...Kind) *ErrorSubset {
	declared := make([]Kind, 0, len(kinds))
	for _, kind := range kinds {
		if kind != KindInternal && !slices.Contains(declared, kind) {
			declared = append(declared, kind)
		}
	}
	return &ErrorSubset{
		method: method,
		kinds:  declared,
	}
}

func (s *ErrorSubset) Method() string {
	return s.method
}

// Kinds returns the declared kinds followed by KindInternal.
func (s *ErrorSubset) Kinds() []Kind {
	return append(slices.Clone(s.kinds), KindInternal)
}

func (s *ErrorSubset) Contains(kind Kind) bool {
	return kind == KindInternal || slices.Contains(s.kinds, kind)
}

// Project narrows err to the subset. A declared kind passes through
// unchanged, anything else becomes an internal error wrapping err.
func (s *ErrorSubset) Project(err *Error) *MethodError {
	if err == nil {
		return nil
	}
	if s.Contains(err.Kind) {
		return &MethodError{
			Method: s.method,
			Kind:   err.Kind,
			Cause:  err.Cause,
			Detail: err.Detail,
		}
	}
	return &MethodError{
		Method: s.method,
		Kind:   KindInternal,
		Cause:  err,
	}
}

// MethodError is an error returned by a method, guaranteed to be one of the
// kinds of the method's ErrorSubset.
type MethodError struct {
	Method string
	Kind   Kind
	Cause  error
	Detail string
}

func (e *MethodError) Error() string {
	msg := e.Method + ": " + e.Kind.String()
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *MethodError) Unwrap() error {
	return e.Cause
}

// JSONRPC returns the error as the client sees it. The cause never leaves the
// node; an internal error carries at most its diagnostic.
func (e *MethodError) JSONRPC() *jsonrpc.Error {
	if e.Kind == KindInternal && e.Detail != "" {
		return ErrInternal.CloneWithData(e.Detail)
	}
	return e.Kind.RPCError().CloneWithData(nil)
}

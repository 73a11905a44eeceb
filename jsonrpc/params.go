package jsonrpc

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
)

// Parameter names a handler argument. Optional arguments that the request
// leaves out are passed as zero values, so an absent pointer is nil.
type Parameter struct {
	Name     string
	Optional bool
}

type Validator interface {
	Struct(any) error
}

// bindArgs decodes the request params into handler arguments, in handler
// order. Positional params may stop early when every remaining parameter is
// optional.
func (s *Server) bindArgs(ctx context.Context, method *Method, params json.RawMessage, hasParams bool) ([]reflect.Value, error) {
	raw, err := method.rawArgs(params, hasParams)
	if err != nil {
		return nil, err
	}

	args := make([]reflect.Value, 0, len(method.argTypes)+1)
	if method.needsContext {
		args = append(args, reflect.ValueOf(ctx))
	}
	for i, argType := range method.argTypes {
		if raw[i] == nil {
			args = append(args, reflect.Zero(argType))
			continue
		}

		arg := reflect.New(argType)
		if err = json.Unmarshal(raw[i], arg.Interface()); err != nil {
			return nil, err
		}
		if s.validator != nil {
			if err = s.validateArg(arg.Elem()); err != nil {
				return nil, err
			}
		}
		args = append(args, arg.Elem())
	}
	return args, nil
}

// rawArgs lines up the encoded params with the method's parameters. A nil
// entry is an omitted optional parameter.
func (m *Method) rawArgs(params json.RawMessage, hasParams bool) ([]json.RawMessage, error) {
	raw := make([]json.RawMessage, len(m.Params))
	switch {
	case !hasParams:
		if m.requiredParams() > 0 {
			return nil, errors.New("missing non-optional param field")
		}
	case params[0] == '[':
		var list []json.RawMessage
		if err := json.Unmarshal(params, &list); err != nil {
			return nil, err
		}
		if len(list) > len(m.Params) || len(list) < m.requiredPrefix() {
			return nil, errors.New("missing/unexpected params in list")
		}
		copy(raw, list)
	default:
		var named map[string]json.RawMessage
		if err := json.Unmarshal(params, &named); err != nil {
			return nil, err
		}
		for i, param := range m.Params {
			value, found := named[param.Name]
			if !found && !param.Optional {
				return nil, errors.New("missing non-optional param")
			}
			raw[i] = value
		}
	}
	return raw, nil
}

func (m *Method) requiredParams() int {
	var required int
	for _, param := range m.Params {
		if !param.Optional {
			required++
		}
	}
	return required
}

// requiredPrefix is the shortest positional list that reaches the last
// required parameter.
func (m *Method) requiredPrefix() int {
	for i := len(m.Params) - 1; i >= 0; i-- {
		if !m.Params[i].Optional {
			return i + 1
		}
	}
	return 0
}

// validateArg runs the validator on structs, including those inside
// pointers, slices, arrays and maps.
func (s *Server) validateArg(arg reflect.Value) error {
	switch arg.Kind() {
	case reflect.Struct:
		return s.validator.Struct(arg.Interface())
	case reflect.Pointer:
		if !arg.IsNil() && arg.Elem().Kind() == reflect.Struct {
			return s.validator.Struct(arg.Interface())
		}
	case reflect.Slice, reflect.Array:
		for i := range arg.Len() {
			if err := s.validateArg(arg.Index(i)); err != nil {
				return err
			}
		}
	case reflect.Map:
		iter := arg.MapRange()
		for iter.Next() {
			if err := s.validateArg(iter.Value()); err != nil {
				return err
			}
		}
	}
	return nil
}

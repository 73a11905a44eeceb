package jsonrpc

import "errors"

// Error codes reserved by JSON-RPC 2.0.
const (
	InvalidJSON    = -32700
	InvalidRequest = -32600
	MethodNotFound = -32601
	InvalidParams  = -32602
	InternalError  = -32603
)

var reservedMessages = map[int]string{
	InvalidJSON:    "Parse error",
	InvalidRequest: "Invalid Request",
	MethodNotFound: "Method Not Found",
	InvalidParams:  "Invalid Params",
	InternalError:  "Internal Error",
}

var ErrInvalidID = errors.New("id should be a string or an integer")

// Error is the error object of a response. Handlers return it as their second
// value, a nil *Error means success.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func (e *Error) Error() string {
	return e.Message
}

// CloneWithData returns a copy of the error carrying the given data.
func (e *Error) CloneWithData(data any) *Error {
	clone := *e
	clone.Data = data
	return &clone
}

// Err builds one of the reserved errors. Unknown codes become InternalError.
func Err(code int, data any) *Error {
	message, reserved := reservedMessages[code]
	if !reserved {
		code, message = InternalError, reservedMessages[InternalError]
	}
	return &Error{Code: code, Message: message, Data: data}
}

package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
)

const version = "2.0"

var nullJSON = []byte("null")

type request struct {
	Version string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      any             `json:"id,omitempty"`
}

type response struct {
	Version string `json:"jsonrpc"`
	Result  any    `json:"result,omitempty"`
	Error   *Error `json:"error,omitempty"`
	ID      any    `json:"id"`
}

func errorResponse(id any, err *Error) *response {
	return &response{Version: version, Error: err, ID: id}
}

// decodeRequest keeps numeric ids as json.Number so they are echoed unchanged.
func decodeRequest(data []byte) (*request, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	req := new(request)
	if err := dec.Decode(req); err != nil {
		return nil, err
	}
	return req, nil
}

func (r *request) isNotification() bool {
	return r.ID == nil
}

func (r *request) hasParams() bool {
	return len(r.Params) > 0 && !bytes.Equal(r.Params, nullJSON)
}

func (r *request) validate() error {
	if r.Version != version {
		return errors.New("unsupported RPC request version")
	}
	if r.Method == "" {
		return errors.New("no method specified")
	}
	if r.hasParams() {
		if first := r.Params[0]; first != '[' && first != '{' {
			return errors.New("params should be an array or an object")
		}
	}

	switch id := r.ID.(type) {
	case nil, string:
	case json.Number:
		if _, err := id.Int64(); err != nil {
			return ErrInvalidID
		}
	default:
		return ErrInvalidID
	}
	return nil
}

// invalidRequest reports a request that failed validate. The id is only echoed
// when it is valid itself.
func invalidRequest(req *request, err error) *response {
	var id any
	if !errors.Is(err, ErrInvalidID) {
		id = req.ID
	}
	return errorResponse(id, Err(InvalidRequest, err.Error()))
}

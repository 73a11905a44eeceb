// Package jsonrpc implements a JSONRPC2.0 compliant server as described in https://www.jsonrpc.org/specification
package jsonrpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"reflect"
	"sync"
	"time"

	"github.com/NethermindEth/deploy-gateway/utils"
	"github.com/sourcegraph/conc/pool"
)

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[*Error]()
)

type Method struct {
	Name    string
	Params  []Parameter
	Handler any

	// Set upon successful registration.
	needsContext bool
	argTypes     []reflect.Type
}

type Server struct {
	methods   map[string]*Method
	validator Validator
	pool      *pool.Pool
	log       utils.SimpleLogger
	listener  EventListener
}

// NewServer instantiates a JSONRPC server. Batch entries run concurrently on
// at most poolMaxGoroutines goroutines shared by all batches.
func NewServer(poolMaxGoroutines int, log utils.SimpleLogger) *Server {
	return &Server{
		log:      log,
		methods:  make(map[string]*Method),
		pool:     pool.New().WithMaxGoroutines(poolMaxGoroutines),
		listener: &SelectiveListener{},
	}
}

// WithValidator registers a validator to validate handler struct arguments
func (s *Server) WithValidator(validator Validator) *Server {
	s.validator = validator
	return s
}

// WithListener registers an EventListener
func (s *Server) WithListener(listener EventListener) *Server {
	s.listener = listener
	return s
}

// RegisterMethod checks the handler signature against the declared params and
// makes the method callable. The handler may take a context.Context first and
// must return (any, *jsonrpc.Error).
func (s *Server) RegisterMethod(method Method) error {
	handlerT := reflect.TypeOf(method.Handler)
	if handlerT == nil || handlerT.Kind() != reflect.Func {
		return errors.New("handler must be a function")
	}

	first := 0
	if handlerT.NumIn() > 0 && handlerT.In(0).Implements(contextType) {
		method.needsContext = true
		first = 1
	}
	if handlerT.NumIn()-first != len(method.Params) {
		return errors.New("number of non-context function params and param names must match")
	}
	if handlerT.NumOut() != 2 {
		return errors.New("handler must return 2 values")
	}
	if handlerT.Out(1) != errorType {
		return errors.New("second return value must be a *jsonrpc.Error")
	}

	method.argTypes = make([]reflect.Type, 0, len(method.Params))
	for i := first; i < handlerT.NumIn(); i++ {
		method.argTypes = append(method.argTypes, handlerT.In(i))
	}
	s.methods[method.Name] = &method
	return nil
}

// HandleReadWriter reads a JSON-RPC payload from rw and writes the response,
// if there is one.
func (s *Server) HandleReadWriter(ctx context.Context, rw io.ReadWriter) error {
	resp, err := s.HandleReader(ctx, rw)
	if err != nil || resp == nil {
		return err
	}
	_, err = rw.Write(resp)
	return err
}

// Handle processes a single request or a batch. A nil response means every
// request was a notification. The error is only set when the response cannot
// be encoded.
func (s *Server) Handle(ctx context.Context, data []byte) ([]byte, error) {
	return s.HandleReader(ctx, bytes.NewReader(data))
}

// HandleReader is Handle for a payload read from reader.
func (s *Server) HandleReader(ctx context.Context, reader io.Reader) ([]byte, error) {
	var payload json.RawMessage
	if err := json.NewDecoder(reader).Decode(&payload); err != nil {
		return json.Marshal(errorResponse(nil, Err(InvalidJSON, err.Error())))
	}

	if payload[0] == '[' {
		return s.handleBatch(ctx, payload)
	}

	req, err := decodeRequest(payload)
	if err != nil {
		return json.Marshal(errorResponse(nil, Err(InvalidJSON, err.Error())))
	}
	resp := s.handleRequest(ctx, req)
	if resp == nil {
		return nil, nil
	}
	return json.Marshal(resp)
}

func (s *Server) handleBatch(ctx context.Context, payload json.RawMessage) ([]byte, error) {
	var entries []json.RawMessage
	if err := json.Unmarshal(payload, &entries); err != nil {
		return json.Marshal(errorResponse(nil, Err(InvalidJSON, err.Error())))
	}
	if len(entries) == 0 {
		return json.Marshal(errorResponse(nil, Err(InvalidRequest, "empty batch")))
	}

	responses := make([]*response, len(entries))
	var wg sync.WaitGroup
	for i, entry := range entries {
		req, err := decodeRequest(entry)
		if err != nil {
			responses[i] = errorResponse(nil, Err(InvalidRequest, err.Error()))
			continue
		}

		wg.Add(1)
		s.pool.Go(func() {
			defer wg.Done()
			responses[i] = s.handleRequest(ctx, req)
		})
	}
	wg.Wait()

	// Responses keep the order of the requests; notifications leave gaps.
	encoded := make([]json.RawMessage, 0, len(responses))
	for _, resp := range responses {
		if resp == nil {
			continue
		}
		respJSON, err := json.Marshal(resp)
		if err != nil {
			s.log.Errorw("Failed to marshal response", "err", err)
			continue
		}
		encoded = append(encoded, respJSON)
	}
	// A batch of notifications gets no response at all, not an empty array.
	if len(encoded) == 0 {
		return nil, nil
	}
	return json.Marshal(encoded)
}

// handleRequest returns nil for notifications unless the request itself is
// invalid.
func (s *Server) handleRequest(ctx context.Context, req *request) *response {
	if err := req.validate(); err != nil {
		return invalidRequest(req, err)
	}

	method, found := s.methods[req.Method]
	if !found {
		return errorResponse(req.ID, Err(MethodNotFound, nil))
	}

	s.listener.OnCall(req.Method)
	start := time.Now()
	args, err := s.bindArgs(ctx, method, req.Params, req.hasParams())
	if err != nil {
		rpcErr := Err(InvalidParams, err.Error())
		s.listener.OnCallFailed(req.Method, rpcErr, time.Since(start))
		return errorResponse(req.ID, rpcErr)
	}

	results := reflect.ValueOf(method.Handler).Call(args)
	if req.isNotification() {
		return nil
	}

	if rpcErr := results[1].Interface().(*Error); rpcErr != nil {
		s.listener.OnCallFailed(req.Method, rpcErr, time.Since(start))
		return errorResponse(req.ID, rpcErr)
	}
	s.listener.OnCallHandled(req.Method, time.Since(start))
	return &response{Version: version, Result: results[0].Interface(), ID: req.ID}
}

package jsonrpc

import "time"

// Transport names passed to RequestListener.
const (
	TransportHTTP      = "http"
	TransportWebsocket = "ws"
)

// RequestListener is told about every payload a transport accepts, before it
// is decoded. A batch is a single payload.
type RequestListener interface {
	OnRequest(transport string)
}

// EventListener is told about every call to a registered method. Failures
// carry the error object sent to the client.
type EventListener interface {
	OnCall(method string)
	OnCallHandled(method string, took time.Duration)
	OnCallFailed(method string, err *Error, took time.Duration)
}

// SelectiveListener implements both listeners. Unset callbacks are skipped.
type SelectiveListener struct {
	OnRequestCb     func(transport string)
	OnCallCb        func(method string)
	OnCallHandledCb func(method string, took time.Duration)
	OnCallFailedCb  func(method string, err *Error, took time.Duration)
}

var (
	_ RequestListener = (*SelectiveListener)(nil)
	_ EventListener   = (*SelectiveListener)(nil)
)

func (l *SelectiveListener) OnRequest(transport string) {
	if l.OnRequestCb != nil {
		l.OnRequestCb(transport)
	}
}

func (l *SelectiveListener) OnCall(method string) {
	if l.OnCallCb != nil {
		l.OnCallCb(method)
	}
}

func (l *SelectiveListener) OnCallHandled(method string, took time.Duration) {
	if l.OnCallHandledCb != nil {
		l.OnCallHandledCb(method, took)
	}
}

func (l *SelectiveListener) OnCallFailed(method string, err *Error, took time.Duration) {
	if l.OnCallFailedCb != nil {
		l.OnCallFailedCb(method, err, took)
	}
}

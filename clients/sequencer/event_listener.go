package sequencer

import "time"

type EventListener interface {
	OnResponse(urlPath string, status int, took time.Duration)
	OnGatewayError(code ErrorCode)
}

type SelectiveListener struct {
	OnResponseCb     func(urlPath string, status int, took time.Duration)
	OnGatewayErrorCb func(code ErrorCode)
}

func (l *SelectiveListener) OnResponse(urlPath string, status int, took time.Duration) {
	if l.OnResponseCb != nil {
		l.OnResponseCb(urlPath, status, took)
	}
}

func (l *SelectiveListener) OnGatewayError(code ErrorCode) {
	if l.OnGatewayErrorCb != nil {
		l.OnGatewayErrorCb(code)
	}
}

package jsonrpc

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/NethermindEth/deploy-gateway/utils"
	"github.com/coder/websocket"
)

// A close frame reason must fit in a control frame.
const closeReasonMaxBytes = 125

type WebsocketConnParams struct {
	// Maximum message size allowed.
	ReadLimit int64
	// Maximum time to write a response.
	WriteTimeout time.Duration
}

// DefaultWebsocketConnParams accepts messages as large as an HTTP request body.
func DefaultWebsocketConnParams() WebsocketConnParams {
	return WebsocketConnParams{
		ReadLimit:    MaxRequestBodySize,
		WriteTimeout: 5 * time.Second,
	}
}

// Websocket serves JSON-RPC over websocket. Every message is one payload, a
// single request or a batch, and gets at most one response message.
type Websocket struct {
	rpc      *Server
	log      utils.SimpleLogger
	params   WebsocketConnParams
	listener RequestListener
}

func NewWebsocket(rpc *Server, log utils.SimpleLogger) *Websocket {
	return &Websocket{
		rpc:      rpc,
		log:      log,
		params:   DefaultWebsocketConnParams(),
		listener: &SelectiveListener{},
	}
}

func (ws *Websocket) WithConnParams(params WebsocketConnParams) *Websocket {
	ws.params = params
	return ws
}

// WithListener registers a RequestListener
func (ws *Websocket) WithListener(listener RequestListener) *Websocket {
	ws.listener = listener
	return ws
}

// ServeHTTP upgrades the request and serves the connection until either side
// closes it or a read or write fails.
func (ws *Websocket) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		ws.log.Errorw("Failed to upgrade connection", "remote", r.RemoteAddr, "err", err)
		return
	}
	conn.SetReadLimit(ws.params.ReadLimit)

	served, err := ws.serve(r.Context(), conn)
	ws.close(conn, r.RemoteAddr, served, err)
}

// serve returns the number of payloads answered and the error that ended the
// connection.
func (ws *Websocket) serve(ctx context.Context, conn *websocket.Conn) (int, error) {
	for served := 0; ; served++ {
		_, payload, err := conn.Read(ctx)
		if err != nil {
			return served, err
		}

		ws.listener.OnRequest(TransportWebsocket)
		resp, err := ws.rpc.Handle(ctx, payload)
		if err != nil {
			return served, err
		}
		if resp == nil {
			continue
		}
		if err = ws.write(ctx, conn, resp); err != nil {
			return served, err
		}
	}
}

func (ws *Websocket) write(ctx context.Context, conn *websocket.Conn, resp []byte) error {
	ctx, cancel := context.WithTimeout(ctx, ws.params.WriteTimeout)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, resp)
}

func (ws *Websocket) close(conn *websocket.Conn, remote string, served int, err error) {
	if status := websocket.CloseStatus(err); status != -1 {
		ws.log.Debugw("Client closed websocket connection", "remote", remote, "status", status, "served", served)
		return
	}

	ws.log.Warnw("Closing websocket connection", "remote", remote, "served", served, "err", err)
	if closeErr := conn.Close(websocket.StatusInternalError, closeReason(err)); closeErr != nil && !alreadyClosed(closeErr) {
		ws.log.Errorw("Failed to close websocket connection", "remote", remote, "err", closeErr)
	}
}

func closeReason(err error) string {
	reason := err.Error()
	if len(reason) > closeReasonMaxBytes {
		reason = reason[:closeReasonMaxBytes]
	}
	return reason
}

// alreadyClosed reports close failures on connections that timed out or
// whose peer went away before the close handshake.
func alreadyClosed(err error) bool {
	if errors.Is(err, net.ErrClosed) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "already wrote close") || strings.Contains(msg, "WebSocket closed")
}

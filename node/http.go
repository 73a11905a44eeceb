package node

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/NethermindEth/deploy-gateway/jsonrpc"
	"github.com/NethermindEth/deploy-gateway/service"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sourcegraph/conc"
)

type httpService struct {
	srv      *http.Server
	listener net.Listener
}

var _ service.Service = (*httpService)(nil)

func (h *httpService) Run(ctx context.Context) error {
	errCh := make(chan error)
	defer close(errCh)

	var wg conc.WaitGroup
	defer wg.Wait()
	wg.Go(func() {
		if err := h.srv.Serve(h.listener); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	})

	select {
	case <-ctx.Done():
		return h.srv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}

func (h *httpService) Addr() net.Addr {
	return h.listener.Addr()
}

func makeHTTPService(listener net.Listener, handler http.Handler) *httpService {
	return &httpService{
		srv: &http.Server{
			Addr:    listener.Addr().String(),
			Handler: handler,
			// ReadTimeout also sets ReadHeaderTimeout and IdleTimeout.
			ReadTimeout: 30 * time.Second,
		},
		listener: listener,
	}
}

func makeRPCOverHTTP(listener net.Listener, httpHandler *jsonrpc.HTTP, path string, corsOrigins []string) *httpService {
	var handler http.Handler = httpHandler
	if len(corsOrigins) > 0 {
		handler = httpHandler.WithCORS(corsOrigins)
	}
	mux := http.NewServeMux()
	mux.Handle("/", handler)
	mux.Handle(path, handler)
	return makeHTTPService(listener, mux)
}

func makeRPCOverWebsocket(listener net.Listener, wsHandler *jsonrpc.Websocket, path string) *httpService {
	mux := http.NewServeMux()
	mux.Handle("/", wsHandler)
	mux.Handle(path, wsHandler)
	return makeHTTPService(listener, mux)
}

func makeMetrics(listener net.Listener) *httpService {
	return makeHTTPService(listener,
		promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{Registry: prometheus.DefaultRegisterer}))
}

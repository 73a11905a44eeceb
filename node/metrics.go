package node

import (
	"strconv"
	"time"

	"github.com/NethermindEth/deploy-gateway/clients/sequencer"
	"github.com/NethermindEth/deploy-gateway/jsonrpc"
	"github.com/NethermindEth/deploy-gateway/rpc/rpccore"
	"github.com/prometheus/client_golang/prometheus"
)

// makeTransportMetrics counts payloads per transport. HTTP and websocket
// share the returned listener.
func makeTransportMetrics() jsonrpc.RequestListener {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rpc",
		Subsystem: "transport",
		Name:      "requests",
	}, []string{"transport"})
	prometheus.MustRegister(requests)

	return &jsonrpc.SelectiveListener{
		OnRequestCb: func(transport string) {
			requests.WithLabelValues(transport).Inc()
		},
	}
}

// failureLabel names the outward error kind of a failed call. Reserved
// JSON-RPC errors, like invalid params, fall back to their code.
func failureLabel(err *jsonrpc.Error) string {
	if kind, ok := rpccore.KindOf(err); ok {
		return kind.String()
	}
	return strconv.Itoa(err.Code)
}

func makeRPCMetrics(version string) jsonrpc.EventListener {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rpc",
		Subsystem: "server",
		Name:      "requests",
	}, []string{"method", "version"})
	failedRequests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "rpc",
		Subsystem: "server",
		Name:      "failed_requests",
	}, []string{"method", "version", "kind"})
	requestLatencies := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "rpc",
		Subsystem: "server",
		Name:      "requests_latency",
	}, []string{"method", "version", "outcome"})
	prometheus.MustRegister(requests, failedRequests, requestLatencies)

	return &jsonrpc.SelectiveListener{
		OnCallCb: func(method string) {
			requests.WithLabelValues(method, version).Inc()
		},
		OnCallHandledCb: func(method string, took time.Duration) {
			requestLatencies.WithLabelValues(method, version, "ok").Observe(took.Seconds())
		},
		OnCallFailedCb: func(method string, err *jsonrpc.Error, took time.Duration) {
			failedRequests.WithLabelValues(method, version, failureLabel(err)).Inc()
			requestLatencies.WithLabelValues(method, version, "failed").Observe(took.Seconds())
		},
	}
}

func makeSequencerMetrics() sequencer.EventListener {
	requestLatencies := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "sequencer",
		Subsystem: "client",
		Name:      "request_latency",
	}, []string{"method", "status"})
	gatewayErrors := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "sequencer",
		Subsystem: "client",
		Name:      "errors",
	}, []string{"code"})
	prometheus.MustRegister(requestLatencies, gatewayErrors)

	return &sequencer.SelectiveListener{
		OnResponseCb: func(urlPath string, status int, took time.Duration) {
			statusString := strconv.FormatInt(int64(status), 10)
			requestLatencies.WithLabelValues(urlPath, statusString).Observe(took.Seconds())
		},
		OnGatewayErrorCb: func(code sequencer.ErrorCode) {
			gatewayErrors.WithLabelValues(code.String()).Inc()
		},
	}
}

func makeGatewayMetrics(version string) {
	prometheus.MustRegister(prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace:   "deploy_gateway",
		Name:        "info",
		Help:        "Information about the deploy-gateway binary",
		ConstLabels: prometheus.Labels{"version": version},
	}))
}

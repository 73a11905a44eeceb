package node

import (
	"context"
	"fmt"
	"net"
	"reflect"
	"runtime"
	"strconv"
	"time"

	"github.com/Masterminds/semver/v3"
	"github.com/NethermindEth/deploy-gateway/clients/sequencer"
	"github.com/NethermindEth/deploy-gateway/jsonrpc"
	"github.com/NethermindEth/deploy-gateway/rpc"
	"github.com/NethermindEth/deploy-gateway/service"
	"github.com/NethermindEth/deploy-gateway/upgrader"
	"github.com/NethermindEth/deploy-gateway/utils"
	"github.com/NethermindEth/deploy-gateway/validator"
	"github.com/sourcegraph/conc"
)

const (
	upgraderDelay    = 5 * time.Minute
	githubAPIUrl     = "https://api.github.com/repos/NethermindEth/deploy-gateway/releases/latest"
	latestReleaseURL = "https://github.com/NethermindEth/deploy-gateway/releases/latest"
)

// Config is the top-level deploy-gateway configuration.
type Config struct {
	LogLevel utils.LogLevel `mapstructure:"log-level"`
	Colour   bool           `mapstructure:"colour"`

	Network        utils.Network `mapstructure:"network"`
	GatewayURL     string        `mapstructure:"gateway-url"`
	GatewayAPIKey  string        `mapstructure:"gateway-api-key"`
	GatewayTimeout time.Duration `mapstructure:"gateway-timeout"`

	HTTP            bool     `mapstructure:"http"`
	HTTPHost        string   `mapstructure:"http-host"`
	HTTPPort        uint16   `mapstructure:"http-port"`
	HTTPCORSOrigins []string `mapstructure:"http-cors-origins"`
	Websocket       bool     `mapstructure:"ws"`
	WebsocketHost   string   `mapstructure:"ws-host"`
	WebsocketPort   uint16   `mapstructure:"ws-port"`

	Metrics     bool   `mapstructure:"metrics"`
	MetricsHost string `mapstructure:"metrics-host"`
	MetricsPort uint16 `mapstructure:"metrics-port"`
}

type Node struct {
	cfg      *Config
	services []service.Service
	log      utils.SimpleLogger

	version string
}

// New builds the gateway client, the JSON-RPC server and every enabled
// service. Listeners are bound here so a busy port fails fast.
func New(cfg *Config, version string) (_ *Node, err error) { //nolint:gocyclo,funlen
	log, err := utils.NewZapLogger(cfg.LogLevel, cfg.Colour)
	if err != nil {
		return nil, err
	}

	gatewayURL := cfg.GatewayURL
	if gatewayURL == "" {
		if cfg.Network == 0 {
			return nil, utils.ErrUnknownNetwork
		}
		gatewayURL = cfg.Network.GatewayURL()
	}

	ua := fmt.Sprintf("Deploy-Gateway/%s Starknet Client", version)
	client := sequencer.NewClient(gatewayURL, log).WithUserAgent(ua).WithAPIKey(cfg.GatewayAPIKey)
	if cfg.GatewayTimeout > 0 {
		client.WithTimeout(cfg.GatewayTimeout)
	}

	rpcHandler := rpc.New(client, version, log)
	// to improve RPC throughput we double GOMAXPROCS
	maxGoroutines := 2 * runtime.GOMAXPROCS(0)
	jsonrpcServer := jsonrpc.NewServer(maxGoroutines, log).WithValidator(validator.Validator())
	methods, path := rpcHandler.Methods()
	for _, method := range methods {
		if err = jsonrpcServer.RegisterMethod(method); err != nil {
			return nil, err
		}
	}

	var transportListener jsonrpc.RequestListener = &jsonrpc.SelectiveListener{}
	if cfg.Metrics {
		transportListener = makeTransportMetrics()
	}

	var bound []net.Listener
	defer func() {
		if err != nil {
			for _, listener := range bound {
				_ = listener.Close()
			}
		}
	}()
	listen := func(host string, port uint16) (net.Listener, error) {
		listener, listenErr := net.Listen("tcp", net.JoinHostPort(host, strconv.FormatUint(uint64(port), 10)))
		if listenErr == nil {
			bound = append(bound, listener)
		}
		return listener, listenErr
	}

	services := make([]service.Service, 0)
	if cfg.HTTP {
		listener, listenErr := listen(cfg.HTTPHost, cfg.HTTPPort)
		if listenErr != nil {
			return nil, fmt.Errorf("listen on http port: %w", listenErr)
		}
		httpHandler := jsonrpc.NewHTTP(jsonrpcServer, log).WithListener(transportListener)
		services = append(services, makeRPCOverHTTP(listener, httpHandler, path, cfg.HTTPCORSOrigins))
	}
	if cfg.Websocket {
		listener, listenErr := listen(cfg.WebsocketHost, cfg.WebsocketPort)
		if listenErr != nil {
			return nil, fmt.Errorf("listen on websocket port: %w", listenErr)
		}
		wsHandler := jsonrpc.NewWebsocket(jsonrpcServer, log).WithListener(transportListener)
		services = append(services, makeRPCOverWebsocket(listener, wsHandler, path))
	}
	if cfg.Metrics {
		listener, listenErr := listen(cfg.MetricsHost, cfg.MetricsPort)
		if listenErr != nil {
			return nil, fmt.Errorf("listen on metrics port: %w", listenErr)
		}
		jsonrpcServer.WithListener(makeRPCMetrics(rpc.SpecVersion))
		client.WithListener(makeSequencerMetrics())
		makeGatewayMetrics(version)
		services = append(services, makeMetrics(listener))
	}

	n := &Node{
		cfg:      cfg,
		log:      log,
		version:  version,
		services: services,
	}

	if semversion, err := semver.NewVersion(version); err == nil {
		ug := upgrader.NewUpgrader(semversion, githubAPIUrl, latestReleaseURL, upgraderDelay, n.log)
		n.services = append(n.services, ug)
	} else {
		log.Warnw("Failed to parse deploy-gateway version, will not warn about new releases", "version", version)
	}

	n.log.Infow("Forwarding deploy transactions", "gateway", gatewayURL)
	return n, nil
}

// Run starts every service and blocks until ctx is cancelled or one of them
// fails. Run waits for all services to return before exiting.
func (n *Node) Run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	wg := conc.NewWaitGroup()
	for _, s := range n.services {
		wg.Go(func() {
			if err := s.Run(ctx); err != nil {
				n.log.Errorw("Service error", "name", reflect.TypeOf(s), "err", err)
				cancel()
			}
		})
	}
	defer wg.Wait()

	<-ctx.Done()
	cancel()
	n.log.Infow("Shutting down deploy-gateway...")
}

func (n *Node) Config() Config {
	return *n.cfg
}

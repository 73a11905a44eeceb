package main

import (
	"strings"
	"time"

	"github.com/NethermindEth/deploy-gateway/node"
	"github.com/NethermindEth/deploy-gateway/utils"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const greeting = `
Deploy Gateway %s
Starknet JSON-RPC write gateway for DEPLOY transactions.

`

const (
	configF          = "config"
	logLevelF        = "log-level"
	colourF          = "colour"
	networkF         = "network"
	gatewayURLF      = "gateway-url"
	gatewayAPIKeyF   = "gateway-api-key"
	gatewayTimeoutF  = "gateway-timeout"
	httpF            = "http"
	httpHostF        = "http-host"
	httpPortF        = "http-port"
	httpCORSOriginsF = "http-cors-origins"
	wsF              = "ws"
	wsHostF          = "ws-host"
	wsPortF          = "ws-port"
	metricsF         = "metrics"
	metricsHostF     = "metrics-host"
	metricsPortF     = "metrics-port"

	defaultConfig         = ""
	defaultColour         = true
	defaultGatewayURL     = ""
	defaultGatewayAPIKey  = ""
	defaultGatewayTimeout = 10 * time.Second
	defaultHTTP           = false
	defaultHost           = "localhost"
	defaultHTTPPort       = uint16(6060)
	defaultWS             = false
	defaultWSPort         = uint16(6061)
	defaultMetrics        = false
	defaultMetricsPort    = uint16(9090)

	envPrefix = "DEPLOY_GATEWAY"

	configFlagUsage      = "The YAML configuration file."
	logLevelFlagUsage    = "Options: debug, info, warn, error."
	colourUsage          = "Uses --colour=false command to disable colourized outputs (ANSI Escape Codes)."
	networkUsage         = "Options: mainnet, sepolia, sepolia-integration."
	gatewayURLUsage      = "Gateway write API base URL. Overrides the URL derived from --network."
	gatewayAPIKeyUsage   = "API key sent to the gateway with every request."
	gatewayTimeoutUsage  = "Timeout of a single gateway request."
	httpUsage            = "Enables the HTTP RPC server on the default port and interface."
	httpHostUsage        = "The interface on which the HTTP RPC server will listen for requests."
	httpPortUsage        = "The port on which the HTTP server will listen for requests."
	httpCORSOriginsUsage = "Origins allowed to make cross-origin HTTP requests. Empty disables CORS."
	wsUsage              = "Enables the Websocket RPC server on the default port."
	wsHostUsage          = "The interface on which the Websocket RPC server will listen for requests."
	wsPortUsage          = "The port on which the websocket server will listen for requests."
	metricsUsage         = "Enables the Prometheus metrics endpoint on the default port."
	metricsHostUsage     = "The interface on which the Prometheus endpoint will listen for requests."
	metricsPortUsage     = "The port on which the Prometheus endpoint will listen for requests."
)

// NewCmd returns a command that can be executed with any of the Cobra Execute* functions.
// The RunE field is set to the user-provided run function, allowing for robust testing setups.
//
// 1. NewCmd is called with a non-nil config and a run function.
// 2. An Execute* function is called on the command returned from step 1.
// 3. The config struct is populated.
// 4. Cobra calls the run function.
func NewCmd(config *node.Config, run func(*cobra.Command, []string) error) *cobra.Command {
	gatewayCmd := &cobra.Command{
		Use:     "deploy-gateway",
		Short:   "Starknet JSON-RPC write gateway for DEPLOY transactions.",
		Version: Version,
		Args:    cobra.NoArgs,
		RunE:    run,
	}

	var cfgFile string

	// PreRunE populates the configuration struct from the Cobra flags and Viper configuration.
	// This is called in step 3 of the process described above.
	gatewayCmd.PreRunE = func(cmd *cobra.Command, _ []string) error {
		v := viper.New()
		if cfgFile != "" {
			v.SetConfigType("yaml")
			v.SetConfigFile(cfgFile)
			if err := v.ReadInConfig(); err != nil {
				return err
			}
		}

		v.SetEnvPrefix(envPrefix)
		v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		v.AutomaticEnv()

		if err := v.BindPFlags(cmd.Flags()); err != nil {
			return err
		}

		return v.Unmarshal(config, decoderConfig)
	}

	defaultLogLevel := utils.INFO
	defaultNetwork := utils.Mainnet

	gatewayCmd.Flags().StringVar(&cfgFile, configF, defaultConfig, configFlagUsage)
	gatewayCmd.Flags().Var(&defaultLogLevel, logLevelF, logLevelFlagUsage)
	gatewayCmd.Flags().Bool(colourF, defaultColour, colourUsage)
	gatewayCmd.Flags().Var(&defaultNetwork, networkF, networkUsage)
	gatewayCmd.Flags().String(gatewayURLF, defaultGatewayURL, gatewayURLUsage)
	gatewayCmd.Flags().String(gatewayAPIKeyF, defaultGatewayAPIKey, gatewayAPIKeyUsage)
	gatewayCmd.Flags().Duration(gatewayTimeoutF, defaultGatewayTimeout, gatewayTimeoutUsage)
	gatewayCmd.Flags().Bool(httpF, defaultHTTP, httpUsage)
	gatewayCmd.Flags().String(httpHostF, defaultHost, httpHostUsage)
	gatewayCmd.Flags().Uint16(httpPortF, defaultHTTPPort, httpPortUsage)
	gatewayCmd.Flags().StringSlice(httpCORSOriginsF, nil, httpCORSOriginsUsage)
	gatewayCmd.Flags().Bool(wsF, defaultWS, wsUsage)
	gatewayCmd.Flags().String(wsHostF, defaultHost, wsHostUsage)
	gatewayCmd.Flags().Uint16(wsPortF, defaultWSPort, wsPortUsage)
	gatewayCmd.Flags().Bool(metricsF, defaultMetrics, metricsUsage)
	gatewayCmd.Flags().String(metricsHostF, defaultHost, metricsHostUsage)
	gatewayCmd.Flags().Uint16(metricsPortF, defaultMetricsPort, metricsPortUsage)

	return gatewayCmd
}

func decoderConfig(config *mapstructure.DecoderConfig) {
	config.DecodeHook = mapstructure.ComposeDecodeHookFunc(
		mapstructure.TextUnmarshallerHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

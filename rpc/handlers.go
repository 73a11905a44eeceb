package rpc

import (
	"context"

	"github.com/NethermindEth/deploy-gateway/core/felt"
	"github.com/NethermindEth/deploy-gateway/jsonrpc"
	"github.com/NethermindEth/deploy-gateway/rpc/rpccore"
	"github.com/NethermindEth/deploy-gateway/starknet"
	"github.com/NethermindEth/deploy-gateway/utils"
)

const (
	SpecVersion = "0.2.1"
	PathV0_2    = "/v0_2"
)

//go:generate mockgen -destination=../mocks/mock_sequencer.go -package=mocks github.com/NethermindEth/deploy-gateway/rpc Sequencer
type Sequencer interface {
	AddDeployTransaction(ctx context.Context, version, salt *felt.Felt, calldata []*felt.Felt,
		definition *starknet.ContractDefinition, token *string) (*starknet.DeployTransactionResponse, error)
}

type Handler struct {
	sequencer Sequencer
	log       utils.SimpleLogger
	version   string
}

func New(sequencer Sequencer, version string, logger utils.SimpleLogger) *Handler {
	return &Handler{
		sequencer: sequencer,
		log:       logger,
		version:   version,
	}
}

// SpecVersion returns the version of the Starknet JSON-RPC write API served.
func (h *Handler) SpecVersion() (string, *jsonrpc.Error) {
	return SpecVersion, nil
}

func (h *Handler) Version() (string, *jsonrpc.Error) {
	return h.version, nil
}

// methodError narrows err to the method's subset. Causes stay in the logs.
func (h *Handler) methodError(subset *rpccore.ErrorSubset, err *rpccore.Error) *jsonrpc.Error {
	methodErr := subset.Project(err)
	if methodErr.Kind == rpccore.KindInternal {
		h.log.Errorw("Request failed", "method", methodErr.Method, "err", methodErr.Cause)
	} else {
		h.log.Debugw("Request rejected", "method", methodErr.Method, "kind", methodErr.Kind, "err", methodErr.Cause)
	}
	return methodErr.JSONRPC()
}

func (h *Handler) Methods() ([]jsonrpc.Method, string) {
	return []jsonrpc.Method{
		{
			Name:    "starknet_specVersion",
			Handler: h.SpecVersion,
		},
		{
			Name:    "starknet_addDeployTransaction",
			Params:  []jsonrpc.Parameter{{Name: "deploy_transaction"}, {Name: "token", Optional: true}},
			Handler: h.AddDeployTransaction,
		},
		{
			Name:    "gateway_version",
			Handler: h.Version,
		},
	}, PathV0_2
}

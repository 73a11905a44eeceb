package rpc

import (
	"context"
	"errors"

	"github.com/NethermindEth/deploy-gateway/clients/sequencer"
	"github.com/NethermindEth/deploy-gateway/core/felt"
	"github.com/NethermindEth/deploy-gateway/jsonrpc"
	"github.com/NethermindEth/deploy-gateway/rpc/rpccore"
	"github.com/NethermindEth/deploy-gateway/starknet"
)

// https://github.com/starkware-libs/starknet-specs/blob/v0.2.1/api/starknet_write_api.json
type BroadcastedDeployTransaction struct {
	Type                starknet.TransactionType `json:"type" validate:"required"`
	Version             *felt.Felt               `json:"version" validate:"required"`
	ConstructorCallData []*felt.Felt             `json:"constructor_calldata" validate:"dive,required"`
	ContractAddressSalt *felt.Felt               `json:"contract_address_salt" validate:"required"`
	ContractClass       ContractClass            `json:"contract_class"`
}

type AddDeployTxResponse struct {
	TransactionHash *felt.Felt `json:"transaction_hash"`
	ContractAddress *felt.Felt `json:"contract_address"`
}

var addDeployTransactionErrors = rpccore.NewErrorSubset("starknet_addDeployTransaction",
	rpccore.KindInvalidContractClass)

// AddDeployTransaction submits a DEPLOY transaction to the gateway. token is
// forwarded as is and only required by some networks.
//
// It follows the specification defined here:
// https://github.com/starkware-libs/starknet-specs/blob/v0.2.1/api/starknet_write_api.json#L104
func (h *Handler) AddDeployTransaction(ctx context.Context, tx BroadcastedDeployTransaction,
	token *string,
) (*AddDeployTxResponse, *jsonrpc.Error) {
	definition, err := AdaptContractClass(&tx.ContractClass)
	if err != nil {
		return nil, h.methodError(addDeployTransactionErrors,
			rpccore.Internal(err).WithDetail("Failed to convert contract definition"))
	}

	resp, err := h.sequencer.AddDeployTransaction(ctx, tx.Version, tx.ContractAddressSalt,
		tx.ConstructorCallData, definition, token)
	if err != nil {
		return nil, h.methodError(addDeployTransactionErrors, adaptAddDeployTransactionError(err))
	}

	return &AddDeployTxResponse{
		TransactionHash: resp.TransactionHash,
		ContractAddress: resp.Address,
	}, nil
}

// adaptAddDeployTransactionError singles out the gateway rejecting the
// program, every other failure goes through the shared classification.
func adaptAddDeployTransactionError(err error) *rpccore.Error {
	var gatewayErr *sequencer.Error
	if errors.As(err, &gatewayErr) && gatewayErr.Code == sequencer.InvalidProgram {
		return rpccore.NewError(rpccore.KindInvalidContractClass, err)
	}
	return AdaptSequencerError(err)
}

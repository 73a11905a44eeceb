package rpccore

import "github.com/NethermindEth/deploy-gateway/jsonrpc"

var (
	ErrContractNotFound         = &jsonrpc.Error{Code: 20, Message: "Contract not found"}
	ErrInvalidMessageSelector   = &jsonrpc.Error{Code: 21, Message: "Invalid message selector"}
	ErrInvalidCallData          = &jsonrpc.Error{Code: 22, Message: "Invalid call data"}
	ErrInvalidBlockID           = &jsonrpc.Error{Code: 24, Message: "Invalid block id"}
	ErrInvalidTxHash            = &jsonrpc.Error{Code: 25, Message: "Invalid transaction hash"}
	ErrInvalidContractClassHash = &jsonrpc.Error{Code: 28, Message: "The supplied contract class hash is invalid or unknown"}
	ErrContractError            = &jsonrpc.Error{Code: 40, Message: "Contract error"}
	ErrInvalidContractClass     = &jsonrpc.Error{Code: 50, Message: "Invalid contract class"}
	ErrInternal                 = &jsonrpc.Error{Code: jsonrpc.InternalError, Message: "Internal error"}
)

package rpc

import (
	"errors"
	"slices"
	"strings"

	"github.com/NethermindEth/deploy-gateway/clients/sequencer"
	"github.com/NethermindEth/deploy-gateway/rpc/rpccore"
)

const callFailed = "call failed"

// sequencerErrorKinds maps every gateway error code to the kind it surfaces
// as when no message rule applies.
var sequencerErrorKinds = map[sequencer.ErrorCode]rpccore.Kind{
	sequencer.BlockNotFound:             rpccore.KindInternal,
	sequencer.EntryPointNotFound:        rpccore.KindInvalidMessageSelector,
	sequencer.OutOfRangeContractAddress: rpccore.KindContractNotFound,
	sequencer.SchemaValidationError:     rpccore.KindInternal,
	sequencer.TransactionFailed:         rpccore.KindInvalidCallData,
	sequencer.UninitializedContract:     rpccore.KindContractNotFound,
	sequencer.OutOfRangeBlockHash:       rpccore.KindInternal,
	sequencer.OutOfRangeTransactionHash: rpccore.KindInvalidTxHash,
	sequencer.MalformedRequest:          rpccore.KindInternal,
	sequencer.UnsupportedSelectorForFee: rpccore.KindInternal,
	sequencer.InvalidContractDefinition: rpccore.KindContractError,
	sequencer.NotPermittedContract:      rpccore.KindInternal,
	sequencer.UndeclaredClass:           rpccore.KindInvalidContractClassHash,
	sequencer.TransactionLimitExceeded:  rpccore.KindInternal,
	sequencer.InvalidTransactionNonce:   rpccore.KindInternal,
	sequencer.OutOfRangeFee:             rpccore.KindInternal,
	sequencer.InvalidTransactionVersion: rpccore.KindInternal,
	sequencer.InvalidProgram:            rpccore.KindInternal,
}

type messageRule struct {
	codes     []sequencer.ErrorCode
	substring string
	kind      rpccore.Kind
}

// The gateway reuses block codes for lookups by hash and by number. Rules are
// tried in order, the hash rule has to run before the number rule.
var messageRules = []messageRule{
	{
		codes:     []sequencer.ErrorCode{sequencer.OutOfRangeBlockHash, sequencer.BlockNotFound},
		substring: "Block hash",
		kind:      rpccore.KindInvalidBlockID,
	},
	{
		codes:     []sequencer.ErrorCode{sequencer.BlockNotFound},
		substring: "Block number",
		kind:      rpccore.KindInvalidBlockID,
	},
}

// AdaptSequencerError classifies a failed gateway call. Only gateway domain
// errors are classified; transport and decoding failures are internal.
func AdaptSequencerError(err error) *rpccore.Error {
	var gatewayErr *sequencer.Error
	if !errors.As(err, &gatewayErr) {
		return rpccore.Internal(err).WithDetail(callFailed)
	}

	for _, rule := range messageRules {
		if rule.matches(gatewayErr) {
			return rpccore.NewError(rule.kind, err)
		}
	}

	kind, found := sequencerErrorKinds[gatewayErr.Code]
	if !found || kind == rpccore.KindInternal {
		return rpccore.Internal(err).WithDetail(callFailed)
	}
	return rpccore.NewError(kind, err)
}

func (r *messageRule) matches(err *sequencer.Error) bool {
	return slices.Contains(r.codes, err.Code) && strings.Contains(err.Message, r.substring)
}

// MessageOverride reclassifies a gateway error whose message contains Substring.
type MessageOverride struct {
	Substring string
	Kind      rpccore.Kind
}

// ErrorMapping describes how one gateway code is classified.
type ErrorMapping struct {
	Code      sequencer.ErrorCode
	Kind      rpccore.Kind
	Overrides []MessageOverride
}

// SequencerErrorMappings lists the classification of every gateway code in
// declaration order. Overrides are listed in the order they are tried.
func SequencerErrorMappings() []ErrorMapping {
	codes := sequencer.ErrorCodes()
	mappings := make([]ErrorMapping, 0, len(codes))
	for _, code := range codes {
		mapping := ErrorMapping{Code: code, Kind: sequencerErrorKinds[code]}
		for _, rule := range messageRules {
			if slices.Contains(rule.codes, code) {
				mapping.Overrides = append(mapping.Overrides, MessageOverride{Substring: rule.substring, Kind: rule.kind})
			}
		}
		mappings = append(mappings, mapping)
	}
	return mappings
}

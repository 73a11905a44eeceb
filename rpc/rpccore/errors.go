package rpccore

import (
	"fmt"

	"github.com/NethermindEth/deploy-gateway/jsonrpc"
)

// Kind is an error kind a client can observe.
type Kind uint8

const (
	KindInternal Kind = iota
	KindContractNotFound
	KindInvalidMessageSelector
	KindInvalidCallData
	KindInvalidBlockID
	KindInvalidTxHash
	KindInvalidContractClassHash
	KindContractError
	KindInvalidContractClass
)

var kindErrors = [...]*jsonrpc.Error{
	KindInternal:                 ErrInternal,
	KindContractNotFound:         ErrContractNotFound,
	KindInvalidMessageSelector:   ErrInvalidMessageSelector,
	KindInvalidCallData:          ErrInvalidCallData,
	KindInvalidBlockID:           ErrInvalidBlockID,
	KindInvalidTxHash:            ErrInvalidTxHash,
	KindInvalidContractClassHash: ErrInvalidContractClassHash,
	KindContractError:            ErrContractError,
	KindInvalidContractClass:     ErrInvalidContractClass,
}

var kindNames = [...]string{
	KindInternal:                 "Internal",
	KindContractNotFound:         "ContractNotFound",
	KindInvalidMessageSelector:   "InvalidMessageSelector",
	KindInvalidCallData:          "InvalidCallData",
	KindInvalidBlockID:           "InvalidBlockId",
	KindInvalidTxHash:            "InvalidTransactionHash",
	KindInvalidContractClassHash: "InvalidContractClassHash",
	KindContractError:            "ContractError",
	KindInvalidContractClass:     "InvalidContractClass",
}

// Kinds lists every kind, KindInternal first.
func Kinds() []Kind {
	kinds := make([]Kind, len(kindNames))
	for i := range kinds {
		kinds[i] = Kind(i)
	}
	return kinds
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// RPCError returns the shared error template of the kind. Callers must not
// mutate it; use CloneWithData to attach data.
func (k Kind) RPCError() *jsonrpc.Error {
	if int(k) < len(kindErrors) {
		return kindErrors[k]
	}
	return ErrInternal
}

// KindOf finds the kind whose JSON-RPC code err carries. Reserved JSON-RPC
// codes other than the internal error have no kind.
func KindOf(err *jsonrpc.Error) (Kind, bool) {
	if err == nil {
		return 0, false
	}
	for kind, kindErr := range kindErrors {
		if kindErr.Code == err.Code {
			return Kind(kind), true
		}
	}
	return 0, false
}

// Error is an outward error before it is narrowed to what a particular method
// declares. Cause is kept for server side logging only.
type Error struct {
	Kind  Kind
	Cause error
	// Detail is the opaque diagnostic reported alongside an internal error.
	Detail string
}

// Internal builds the generic failure around cause.
func Internal(cause error) *Error {
	return &Error{Kind: KindInternal, Cause: cause}
}

func NewError(kind Kind, cause error) *Error {
	return &Error{Kind: kind, Cause: cause}
}

// WithDetail sets the diagnostic and returns e.
func (e *Error) WithDetail(detail string) *Error {
	e.Detail = detail
	return e
}

func (e *Error) Error() string {
	switch {
	case e.Cause != nil:
		return e.Kind.String() + ": " + e.Cause.Error()
	case e.Detail != "":
		return e.Kind.String() + ": " + e.Detail
	default:
		return e.Kind.String()
	}
}

func (e *Error) Unwrap() error {
	return e.Cause
}

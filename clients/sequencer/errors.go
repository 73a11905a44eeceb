package sequencer

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnknownErrorCode = errors.New("unknown sequencer error code")
	// ErrInvalidErrorVariant is reported when the gateway answers with a structured
	// error whose code is not part of the known vocabulary.
	ErrInvalidErrorVariant = errors.New("error decoding response body: invalid error variant")
	ErrMissingErrorCode    = errors.New("sequencer error without code")
)

// ErrorCode is the closed set of error codes the gateway reports. Values outside
// the set are rejected on decoding instead of being mapped to a default.
type ErrorCode uint8

const (
	BlockNotFound ErrorCode = iota + 1
	EntryPointNotFound
	OutOfRangeContractAddress
	SchemaValidationError
	TransactionFailed
	UninitializedContract
	OutOfRangeBlockHash
	OutOfRangeTransactionHash
	MalformedRequest
	UnsupportedSelectorForFee
	InvalidContractDefinition
	NotPermittedContract
	UndeclaredClass
	// May be returned by the transaction write api.
	TransactionLimitExceeded
	InvalidTransactionNonce
	OutOfRangeFee
	InvalidTransactionVersion
	InvalidProgram
)

var errorCodeTags = map[ErrorCode]string{
	BlockNotFound:             "StarknetErrorCode.BLOCK_NOT_FOUND",
	EntryPointNotFound:        "StarknetErrorCode.ENTRY_POINT_NOT_FOUND_IN_CONTRACT",
	OutOfRangeContractAddress: "StarknetErrorCode.OUT_OF_RANGE_CONTRACT_ADDRESS",
	SchemaValidationError:     "StarkErrorCode.SCHEMA_VALIDATION_ERROR",
	TransactionFailed:         "StarknetErrorCode.TRANSACTION_FAILED",
	UninitializedContract:     "StarknetErrorCode.UNINITIALIZED_CONTRACT",
	OutOfRangeBlockHash:       "StarknetErrorCode.OUT_OF_RANGE_BLOCK_HASH",
	OutOfRangeTransactionHash: "StarknetErrorCode.OUT_OF_RANGE_TRANSACTION_HASH",
	MalformedRequest:          "StarkErrorCode.MALFORMED_REQUEST",
	UnsupportedSelectorForFee: "StarknetErrorCode.UNSUPPORTED_SELECTOR_FOR_FEE",
	InvalidContractDefinition: "StarknetErrorCode.INVALID_CONTRACT_DEFINITION",
	NotPermittedContract:      "StarknetErrorCode.NON_PERMITTED_CONTRACT",
	UndeclaredClass:           "StarknetErrorCode.UNDECLARED_CLASS",
	TransactionLimitExceeded:  "StarknetErrorCode.TRANSACTION_LIMIT_EXCEEDED",
	InvalidTransactionNonce:   "StarknetErrorCode.INVALID_TRANSACTION_NONCE",
	OutOfRangeFee:             "StarknetErrorCode.OUT_OF_RANGE_FEE",
	InvalidTransactionVersion: "StarknetErrorCode.INVALID_TRANSACTION_VERSION",
	InvalidProgram:            "StarknetErrorCode.INVALID_PROGRAM",
}

var errorCodesByTag = func() map[string]ErrorCode {
	codes := make(map[string]ErrorCode, len(errorCodeTags))
	for code, tag := range errorCodeTags {
		codes[tag] = code
	}
	return codes
}()

// ErrorCodes returns every known code in declaration order.
func ErrorCodes() []ErrorCode {
	codes := make([]ErrorCode, 0, len(errorCodeTags))
	for code := BlockNotFound; code <= InvalidProgram; code++ {
		codes = append(codes, code)
	}
	return codes
}

func (c ErrorCode) String() string {
	if tag, ok := errorCodeTags[c]; ok {
		return tag
	}
	return fmt.Sprintf("ErrorCode(%d)", uint8(c))
}

func (c ErrorCode) MarshalText() ([]byte, error) {
	tag, ok := errorCodeTags[c]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownErrorCode, uint8(c))
	}
	return []byte(tag), nil
}

func (c *ErrorCode) UnmarshalText(data []byte) error {
	code, ok := errorCodesByTag[string(data)]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownErrorCode, data)
	}
	*c = code
	return nil
}

// Error is a domain error reported by the gateway.
type Error struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// rawError is the wire shape of Error with the code left undecoded.
type rawError struct {
	Code    *string `json:"code"`
	Message string  `json:"message"`
}

// UnmarshalJSON rejects objects whose code is absent or null.
func (e *Error) UnmarshalJSON(data []byte) error {
	var raw rawError
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw.Code == nil {
		return ErrMissingErrorCode
	}

	var code ErrorCode
	if err := code.UnmarshalText([]byte(*raw.Code)); err != nil {
		return err
	}
	*e = Error{Code: code, Message: raw.Message}
	return nil
}

// TransportError wraps a failure to reach the gateway or an unexpected HTTP
// status whose body is not a structured gateway error.
type TransportError struct {
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("gateway responded with status %d: %v", e.Status, e.Err)
	}
	return "gateway request failed: " + e.Err.Error()
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// DecodeError wraps a response body which could not be decoded.
type DecodeError struct {
	Err error
}

func (e *DecodeError) Error() string {
	return "decode gateway response: " + e.Err.Error()
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// parseError turns the body of a non-200 response into one of the three
// sequencer error shapes.
func parseError(status int, body []byte) error {
	var raw rawError
	if err := json.Unmarshal(body, &raw); err != nil || raw.Code == nil {
		if len(body) == 0 {
			return &TransportError{Status: status, Err: errors.New("empty response body")}
		}
		return &TransportError{Status: status, Err: errors.New(string(body))}
	}

	var code ErrorCode
	if err := code.UnmarshalText([]byte(*raw.Code)); err != nil {
		return &DecodeError{Err: fmt.Errorf("%w: %v", ErrInvalidErrorVariant, err)}
	}
	return &Error{Code: code, Message: raw.Message}
}

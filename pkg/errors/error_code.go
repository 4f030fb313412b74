package errors

// ErrorCode represents a unique error code for identifying different error types.
type ErrorCode int

const (
	// General errors (1-99)
	ErrCodeUnknown  ErrorCode = 1
	ErrCodeInternal ErrorCode = 2

	// Configuration errors (100-199)
	ErrCodeInvalidParameter     ErrorCode = 100
	ErrCodeMissingParameter     ErrorCode = 101
	ErrCodeMissingSymbol        ErrorCode = 102
	ErrCodeMissingCredentials   ErrorCode = 103
	ErrCodeUnsupportedProvider  ErrorCode = 104
	ErrCodeUnsupportedMarket    ErrorCode = 105
	ErrCodeUnsupportedAction    ErrorCode = 106
	ErrCodeStreamingUnsupported ErrorCode = 107
	ErrCodeInvalidConfiguration ErrorCode = 108
	ErrCodeIncompatibleVersion  ErrorCode = 109

	// Data errors (200-299)
	ErrCodeInsufficientData  ErrorCode = 200
	ErrCodeDataNotFound      ErrorCode = 201
	ErrCodeInvalidMarketData ErrorCode = 202

	// Strategy errors (300-399)
	ErrCodeUnsupportedStrategy ErrorCode = 300
	ErrCodeStrategyExists      ErrorCode = 301

	// Trading errors (400-499)
	ErrCodeInvalidQuantity    ErrorCode = 400
	ErrCodeSideNotAllowed     ErrorCode = 401
	ErrCodeOrderFailed        ErrorCode = 402
	ErrCodeOrderNotFound      ErrorCode = 403
	ErrCodeOrderNotCancelable ErrorCode = 404

	// Exchange errors (500-599)
	ErrCodeExchangeRequestFailed ErrorCode = 500
	ErrCodeExchangeRejected      ErrorCode = 501
	ErrCodeStreamFailed          ErrorCode = 502

	// Export errors (600-699)
	ErrCodeExportFailed ErrorCode = 600
)

// IsConfiguration reports whether the code belongs to the configuration category.
// Configuration errors are surfaced verbatim and never retried.
func (c ErrorCode) IsConfiguration() bool {
	return c >= 100 && c < 200
}

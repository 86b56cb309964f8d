package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Token errors — terminal for the request; the caller must treat the
// principal as absent.
const (
	// ErrCodeTokenExpired indicates the bearer token has expired.
	ErrCodeTokenExpired ErrorCode = "TOKEN_EXPIRED"
	// ErrCodeInvalidSignature indicates the token signature did not verify.
	ErrCodeInvalidSignature ErrorCode = "INVALID_SIGNATURE"
	// ErrCodeUnknownKeyID indicates the token's key id is not in the key set.
	ErrCodeUnknownKeyID ErrorCode = "UNKNOWN_KEY_ID"
	// ErrCodeMalformedClaims indicates a missing or malformed claim.
	ErrCodeMalformedClaims ErrorCode = "MALFORMED_CLAIMS"
)

// Boundary errors
const (
	// ErrCodeUnauthorized indicates the request carries no usable credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeKeySetUnavailable indicates the verification key set could not
	// be fetched and no usable snapshot remains.
	ErrCodeKeySetUnavailable ErrorCode = "KEYSET_UNAVAILABLE"
)

// Configuration errors — defensive, fail-closed; logged, never propagated
// as request failures.
const (
	// ErrCodeUnknownClassification indicates a stored level outside the scale.
	ErrCodeUnknownClassification ErrorCode = "UNKNOWN_CLASSIFICATION_LEVEL"
	// ErrCodeMalformedCompartments indicates an unparseable compartment claim.
	ErrCodeMalformedCompartments ErrorCode = "MALFORMED_COMPARTMENT_CLAIM"
	// ErrCodeInvalidInput indicates invalid caller-supplied configuration.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeKeySetUnavailable: true,
}

// IsRetryableCode returns true if the error code indicates a retryable error.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}

package tokenclaims

import "errors"

var (
	// ErrMalformedToken indicates the token is not a decodable three-segment
	// structure with a JSON payload.
	ErrMalformedToken = errors.New("tokenclaims: malformed token")

	// ErrMissingExpiry indicates the token payload carries no usable exp claim.
	ErrMissingExpiry = errors.New("tokenclaims: missing expiry claim")
)

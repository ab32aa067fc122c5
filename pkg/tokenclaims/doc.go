// Package tokenclaims decodes bearer token claims without cryptographic
// verification.
//
// The decoded expiry drives local-only decisions: whether a cached session
// is worth presenting to the user before the backend has been asked. It is
// explicitly non-authoritative — every request is still authorized by the
// backend, which verifies the signature server-side.
//
//	claims, err := tokenclaims.Decode(accessToken)
//	if err != nil || claims.Expired(time.Now()) {
//	    // treat the cached session as absent
//	}
package tokenclaims

package sessionmgr

import "errors"

var (
	// ErrNilStore indicates the manager was constructed without a store.
	ErrNilStore = errors.New("sessionmgr: nil key/value store")

	// ErrNilGateway indicates the manager was constructed without a gateway.
	ErrNilGateway = errors.New("sessionmgr: nil API gateway")
)

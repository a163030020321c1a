package superaccount

import "errors"

var (
	// ErrKeystoreDirRequired is returned when a Pool is used without a
	// configured keystore directory.
	ErrKeystoreDirRequired = errors.New("superaccount: keystore directory is required")
	// ErrNoChunkersLoaded is returned by Fund when called before LoadChunkers.
	ErrNoChunkersLoaded = errors.New("superaccount: no chunkers loaded")
)

package lddb

import "errors"

var (
	ErrBlockSizeUnsupported = errors.New("lddb: block size unsupported")
	ErrSizeMismatch         = errors.New("lddb: block size mismatch")
	ErrMalformedTable       = errors.New("lddb: malformed table")
)

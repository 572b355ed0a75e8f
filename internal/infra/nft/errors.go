package nft

import "errors"

var ErrMintUnavailable = errors.New("mint service unavailable")

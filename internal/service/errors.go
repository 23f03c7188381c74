package service

import "errors"

var (
	ErrMissingIdentity     = errors.New("missing user identity")
	ErrStubUpgradeDisabled = errors.New("stub tier upgrade is disabled")
)

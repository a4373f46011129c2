package common

import "errors"

// Kind names a class of failure that callers can map to a status code.
type Kind string

const (
	KindNone               Kind = ""
	KindNotFound           Kind = "NotFound"
	KindAlreadyExists      Kind = "AlreadyExists"
	KindInvalidCredentials Kind = "InvalidCredentials"
	KindUnauthenticated    Kind = "Unauthenticated"
	KindInvalidToken       Kind = "InvalidToken"
	KindInsufficientFunds  Kind = "InsufficientFunds"
	KindCardNotOwned       Kind = "CardNotOwned"
	KindSlotLimitExceeded  Kind = "SlotLimitExceeded"
	KindNoBoosterAvailable Kind = "NoBoosterAvailable"
	KindValidation         Kind = "ValidationError"
	KindInternal           Kind = "InternalError"
)

var kinds = []struct {
	err  error
	kind Kind
}{
	{ErrorNotFound, KindNotFound},
	{ErrorAlreadyExists, KindAlreadyExists},
	{ErrorInvalidCredentials, KindInvalidCredentials},
	{ErrorUnauthenticated, KindUnauthenticated},
	{ErrInvalidToken, KindInvalidToken},
	{ErrInsufficientFunds, KindInsufficientFunds},
	{ErrCardNotOwned, KindCardNotOwned},
	{ErrSlotLimitExceeded, KindSlotLimitExceeded},
	{ErrNoBoosterAvailable, KindNoBoosterAvailable},
	{ErrorValidation, KindValidation},
	{ErrorInternal, KindInternal},
}

// KindOf classifies err. A nil error has KindNone; anything that does not
// wrap one of the sentinels in this package is KindInternal.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.kind
		}
	}
	return KindInternal
}

// Code returns the error code used with oops for this kind.
func (k Kind) Code() string {
	return string(k)
}

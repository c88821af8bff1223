// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reverts defines the domain errors returned when an operation is
// rejected. A rejected operation never changes any state.
package reverts

import (
	"errors"
	"fmt"
)

// Kind classifies a revert.
type Kind uint8

const (
	Unknown Kind = iota
	InvalidSchedule
	InsufficientBond
	Unauthorized
	ArithmeticOverflow
	InvalidRequest
)

func (k Kind) String() string {
	switch k {
	case InvalidSchedule:
		return "invalid_schedule"
	case InsufficientBond:
		return "insufficient_bond"
	case Unauthorized:
		return "unauthorized"
	case ArithmeticOverflow:
		return "arithmetic_overflow"
	case InvalidRequest:
		return "invalid_request"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is matching by kind.
var (
	ErrInvalidSchedule    = &ErrRevert{kind: InvalidSchedule}
	ErrInsufficientBond   = &ErrRevert{kind: InsufficientBond}
	ErrUnauthorized       = &ErrRevert{kind: Unauthorized}
	ErrArithmeticOverflow = &ErrRevert{kind: ArithmeticOverflow}
	ErrInvalidRequest     = &ErrRevert{kind: InvalidRequest}
)

type ErrRevert struct {
	kind    Kind
	message string
}

func New(kind Kind, message string) *ErrRevert {
	return &ErrRevert{
		kind:    kind,
		message: message,
	}
}

func Newf(kind Kind, format string, args ...any) *ErrRevert {
	return New(kind, fmt.Sprintf(format, args...))
}

func (e *ErrRevert) Error() string {
	if e.message == "" {
		return e.kind.String()
	}
	return e.message
}

func (e *ErrRevert) Kind() Kind {
	return e.kind
}

// Is matches another revert of the same kind. A target without a message
// matches any message.
func (e *ErrRevert) Is(target error) bool {
	t, ok := target.(*ErrRevert)
	if !ok {
		return false
	}
	return t.kind == e.kind && (t.message == "" || t.message == e.message)
}

func IsRevertErr(err any) bool {
	if err == nil {
		return false
	}
	e, ok := err.(error)
	if !ok {
		return false
	}
	var ve *ErrRevert
	return errors.As(e, &ve)
}

// KindOf returns the kind of the revert wrapped in err, or Unknown.
func KindOf(err error) Kind {
	var ve *ErrRevert
	if errors.As(err, &ve) {
		return ve.kind
	}
	return Unknown
}

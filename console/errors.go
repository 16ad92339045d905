// console/errors.go
// Copyright(c) 2022-2025 console contributors, licensed under the GNU Public License, Version 3.
// SPDX: GPL-3.0-only

package console

import "errors"

// Registration errors are returned to the caller; problems that arise while
// running a command are reported through the interaction log instead.
var (
	ErrCommandExists     = errors.New("command already registered")
	ErrVariableExists    = errors.New("variable already registered")
	ErrScriptExists      = errors.New("script already registered")
	ErrInvalidName       = errors.New("invalid name")
	ErrInvalidHandler    = errors.New("invalid handler")
	ErrHandlerMismatch   = errors.New("handler signature does not match declared arguments")
	ErrInvalidSetter     = errors.New("invalid setter")
	ErrNeedsCustomSetter = errors.New("variable type requires a custom setter")
	ErrNotRegistered     = errors.New("not registered")
)

package domain

import (
	"errors"
	"fmt"
)

var (
	ErrEmptyDisplayName     = errors.New("display name is empty")
	ErrEmptySelection       = errors.New("at least one topic must be selected")
	ErrUnknownTopic         = errors.New("unknown topic")
	ErrBusy                 = errors.New("submission already in progress")
	ErrAlreadyAuthenticated = errors.New("session is already authenticated")
)

// PhaseError is returned when an event arrives in a phase that does not accept it
type PhaseError struct {
	Op    string
	Phase Phase
}

func (e *PhaseError) Error() string {
	return fmt.Sprintf("%s is not allowed in phase %s", e.Op, e.Phase)
}

// ConnectivityError wraps a transport or server failure of a blocking call
// (register, login, preference submit, page fetch).
type ConnectivityError struct {
	Op  string
	Err error
}

func (e *ConnectivityError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

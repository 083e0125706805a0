package services

import "context"

// Confirmer asks the user to affirm a pending action. Returning false means
// the prompt was cancelled or closed.
type Confirmer interface {
	Confirm(ctx context.Context, message string) bool
}

type ConfirmFunc func(ctx context.Context, message string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, message string) bool { return f(ctx, message) }

// NeverConfirm behaves like a prompt that is always dismissed.
var NeverConfirm Confirmer = ConfirmFunc(func(context.Context, string) bool { return false })

// AlwaysConfirm affirms every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

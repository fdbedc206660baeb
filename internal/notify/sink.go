// Package notify delivers listing notifications to the outbound chat
// channel. The engine calls a sink at most once per listing key; a
// delivery failure is logged by the caller and never retried, so a
// flaky sink can drop a message but can never cause a duplicate.
package notify

import "context"

// Sink delivers one notification text.
type Sink interface {
	Notify(ctx context.Context, text string) error
}

// Func is a function adapter for Sink.
type Func func(ctx context.Context, text string) error

func (f Func) Notify(ctx context.Context, text string) error {
	return f(ctx, text)
}

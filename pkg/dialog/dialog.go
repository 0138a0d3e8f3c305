// Package dialog models the confirmation prompts shown before a wallet
// operation touches the network, and provides a terminal implementation.
package dialog

import "context"

// Prompt is a confirmation request.
type Prompt struct {
	Title  string
	Panels []*Panel
}

// Dialog is the host primitive that asks the user to approve an operation
// and notifies them about its outcome.
type Dialog interface {
	Confirm(ctx context.Context, prompt Prompt) (bool, error)
	Notify(ctx context.Context, message string) error
}

// Recorder is a Dialog that answers every prompt with a fixed decision and
// keeps what it was shown.
type Recorder struct {
	Approve       bool
	Prompts       []Prompt
	Notifications []string
}

func (r *Recorder) Confirm(ctx context.Context, prompt Prompt) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.Prompts = append(r.Prompts, prompt)
	return r.Approve, nil
}

func (r *Recorder) Notify(ctx context.Context, message string) error {
	r.Notifications = append(r.Notifications, message)
	return nil
}

// Package notify pushes organization lifecycle events to an operations
// channel. Notifications are strictly advisory: a failed send is logged and
// never fails the lifecycle operation that triggered it.
package notify

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
)

// Messenger posts a text message to a named channel.
type Messenger interface {
	SendMessage(ctx context.Context, channelID, text string) error
}

// Notifier formats lifecycle events and dispatches them via a Messenger.
// A nil *Notifier is valid and drops every event.
type Notifier struct {
	messenger Messenger
	channel   string
}

func New(messenger Messenger, channel string) *Notifier {
	return &Notifier{messenger: messenger, channel: channel}
}

// OrganizationCreated announces a newly provisioned organization.
func (n *Notifier) OrganizationCreated(ctx context.Context, name, collection string) {
	n.send(ctx, fmt.Sprintf("organization %q created (collection %s)", name, collection))
}

// OrganizationRenamed announces a rename.
func (n *Notifier) OrganizationRenamed(ctx context.Context, oldName, newName string) {
	n.send(ctx, fmt.Sprintf("organization %q renamed to %q", oldName, newName))
}

// OrganizationDeleted announces a deletion.
func (n *Notifier) OrganizationDeleted(ctx context.Context, name string) {
	n.send(ctx, fmt.Sprintf("organization %q deleted", name))
}

func (n *Notifier) send(ctx context.Context, text string) {
	if n == nil {
		return
	}

	if err := n.messenger.SendMessage(ctx, n.channel, text); err != nil {
		log.Warn().Err(err).Str("channel", n.channel).Msg("notify: send failed")
	}
}

// Package mail delivers workflow notifications over SMTP. The transport is
// rebuilt from the stored email configuration on every send, so admin
// updates apply to the next message without a restart.
package mail

import (
	"context"

	"github.com/dkazarov/uploadgate/internal/server/models"
)

type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

// Sender delivers a single message using the given configuration.
type Sender interface {
	Send(ctx context.Context, cfg models.EmailConfig, msg Message) error
}

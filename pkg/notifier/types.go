// Package notifier implements the periodic validation of stored policies against
// the service registry, alerting by mail when a referenced service provider no
// longer resolves.
package notifier

import (
	"github.com/openconext/pdp/pkg/logger"
)

var log = logger.New("missing-sp-notifier")

// MailBox delivers alert mail. Implementations must be safe for concurrent use.
type MailBox interface {
	// Send delivers a mail with the given subject and body to the configured recipient.
	Send(subject, body string) error
}

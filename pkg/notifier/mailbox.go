package notifier

import (
	"fmt"
	"net/smtp"
	"sync"

	"github.com/pkg/errors"

	"github.com/openconext/pdp/pkg/configurator"
)

// smtpMailBox delivers mail through a plain SMTP endpoint.
type smtpMailBox struct {
	cfg configurator.MailConfig
}

// NewSMTPMailBox returns a MailBox delivering through the configured SMTP host.
func NewSMTPMailBox(cfg configurator.MailConfig) MailBox {
	return &smtpMailBox{cfg: cfg}
}

// Send delivers a mail with the given subject and body.
func (m *smtpMailBox) Send(subject, body string) error {
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)
	msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s\r\n",
		m.cfg.From, m.cfg.To, subject, body)
	if err := smtp.SendMail(addr, nil, m.cfg.From, []string{m.cfg.To}, []byte(msg)); err != nil {
		return errors.Wrapf(err, "sending mail %q via %s", subject, addr)
	}
	return nil
}

// FakeMailBox records sent mail for tests.
type FakeMailBox struct {
	mu       sync.Mutex
	subjects []string
	bodies   []string
}

// Send records the mail instead of delivering it.
func (m *FakeMailBox) Send(subject, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subjects = append(m.subjects, subject)
	m.bodies = append(m.bodies, body)
	return nil
}

// SentSubjects returns the subjects of the recorded mail.
func (m *FakeMailBox) SentSubjects() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.subjects...)
}

// SentBodies returns the bodies of the recorded mail.
func (m *FakeMailBox) SentBodies() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.bodies...)
}

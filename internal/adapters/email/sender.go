// Package email delivers the transactional mail this app sends, which
// today is just the registration welcome message.
package email

import "context"

// Message is one outbound email. The app never mails more than one
// recipient at a time.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Sender delivers a message through some provider.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

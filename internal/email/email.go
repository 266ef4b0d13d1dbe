// Package email sends transactional mail (welcome, enrollment approved,
// submission graded) behind a small interface so the delivery mechanism is
// swappable: sendgrid in production, console logging in development, a
// recording fake in tests.
package email

// Message is a single outbound email. Plain text only — the notifications
// this app sends are one-liners, not marketing templates.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Service delivers messages. Send is fire-and-forget from the caller's
// perspective: implementations must not block request handling on delivery,
// and a failed send is logged, never surfaced to the user whose action
// triggered it.
type Service interface {
	Send(msg Message)
}

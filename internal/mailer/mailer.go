package mailer

import "context"

// Mailer abstracts outbound email delivery.
// Mocking this interface in tests gives full control over delivery
// behaviour without a real SMTP connection.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

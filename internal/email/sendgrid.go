package email

import (
	"log/slog"
	"net/http"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

// SendgridService delivers mail through the Sendgrid v3 API.
//
// Delivery happens in a goroutine per message: the triggering request
// (signup, grading) must not wait on Sendgrid's latency, and a delivery
// failure is a log line, not a user-facing error.
type SendgridService struct {
	client *sendgrid.Client
	from   *sgmail.Email
	logger *slog.Logger
}

var _ Service = (*SendgridService)(nil)

func NewSendgridService(apiKey, fromAddr string, logger *slog.Logger) *SendgridService {
	return &SendgridService{
		client: sendgrid.NewSendClient(apiKey),
		from:   sgmail.NewEmail("AcademiHub", fromAddr),
		logger: logger,
	}
}

func (s *SendgridService) Send(msg Message) {
	go func() {
		to := sgmail.NewEmail("", msg.To)
		m := sgmail.NewSingleEmail(s.from, msg.Subject, to, msg.Body, msg.Body)

		resp, err := s.client.Send(m)
		if err != nil {
			s.logger.Error("sendgrid delivery failed",
				slog.String("to", msg.To),
				slog.String("error", err.Error()),
			)
			return
		}
		if resp.StatusCode >= http.StatusBadRequest {
			s.logger.Error("sendgrid rejected message",
				slog.String("to", msg.To),
				slog.Int("status", resp.StatusCode),
				slog.String("body", resp.Body),
			)
		}
	}()
}

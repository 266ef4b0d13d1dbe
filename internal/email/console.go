package email

import "log/slog"

// ConsoleService logs messages instead of delivering them. The default for
// local development, where a misconfigured API key shouldn't block signup.
type ConsoleService struct {
	logger *slog.Logger
}

var _ Service = (*ConsoleService)(nil)

func NewConsoleService(logger *slog.Logger) *ConsoleService {
	return &ConsoleService{logger: logger}
}

func (s *ConsoleService) Send(msg Message) {
	s.logger.Info("email (console delivery)",
		slog.String("to", msg.To),
		slog.String("subject", msg.Subject),
		slog.String("body", msg.Body),
	)
}

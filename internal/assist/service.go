// README: Support chat service that degrades gracefully without the AI backend.
package assist

import (
	"context"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	unavailableReply = "Desculpe, nosso assistente está indisponível no momento. Tente novamente em instantes."
	emptyPromptReply = "Oi! Como posso ajudar com a sua corrida?"
)

// Responder produces a support reply. Nil means no backend configured.
type Responder interface {
	Reply(ctx context.Context, message string) (string, error)
}

type Service struct {
	responder Responder
	log       *logrus.Entry
}

func NewService(responder Responder, log *logrus.Entry) *Service {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &Service{responder: responder, log: log}
}

// Chat never fails toward the user; backend trouble turns into the
// unavailable reply.
func (s *Service) Chat(ctx context.Context, message string) string {
	if strings.TrimSpace(message) == "" {
		return emptyPromptReply
	}
	if s.responder == nil {
		return unavailableReply
	}
	reply, err := s.responder.Reply(ctx, message)
	if err != nil {
		s.log.WithError(err).Warn("support chat backend failed")
		return unavailableReply
	}
	return reply
}

package assist

import (
	"context"
	"errors"
	"testing"
)

type stubResponder struct {
	reply string
	err   error
}

func (s stubResponder) Reply(ctx context.Context, message string) (string, error) {
	return s.reply, s.err
}

func TestChat(t *testing.T) {
	ctx := context.Background()

	t.Run("forwards backend reply", func(t *testing.T) {
		svc := NewService(stubResponder{reply: "Sua corrida está a caminho!"}, nil)
		if got := svc.Chat(ctx, "cadê meu motorista?"); got != "Sua corrida está a caminho!" {
			t.Errorf("Chat() = %q", got)
		}
	})

	t.Run("backend error degrades gracefully", func(t *testing.T) {
		svc := NewService(stubResponder{err: errors.New("quota exceeded")}, nil)
		if got := svc.Chat(ctx, "oi"); got != unavailableReply {
			t.Errorf("Chat() = %q, want unavailable reply", got)
		}
	})

	t.Run("no backend configured", func(t *testing.T) {
		svc := NewService(nil, nil)
		if got := svc.Chat(ctx, "oi"); got != unavailableReply {
			t.Errorf("Chat() = %q, want unavailable reply", got)
		}
	})

	t.Run("empty message gets a greeting", func(t *testing.T) {
		svc := NewService(stubResponder{reply: "nunca chega aqui"}, nil)
		if got := svc.Chat(ctx, "   "); got != emptyPromptReply {
			t.Errorf("Chat() = %q, want greeting", got)
		}
	})
}

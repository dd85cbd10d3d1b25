// README: Gemini-backed responder for the in-app support chat.
package assist

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

const geminiModel = "gemini-2.0-flash"

const systemPrompt = `Você é o assistente de suporte do JavaÍ, um aplicativo de mobilidade urbana que opera em Patos de Minas - MG.
Responda sempre em português do Brasil, de forma curta, simpática e objetiva.
Você ajuda passageiros e motoristas com dúvidas sobre corridas, tarifas, formas de pagamento (cartão de crédito, Pix, carteira e dinheiro) e avaliações.
Nunca invente status de corrida nem valores; se não souber, oriente o usuário a verificar o aplicativo.`

// GeminiResponder talks to Gemini for support replies.
type GeminiResponder struct {
	client *genai.Client
	model  *genai.GenerativeModel
}

func NewGeminiResponder(ctx context.Context, apiKey string) (*GeminiResponder, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("gemini: missing api key")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini: create client: %w", err)
	}
	model := client.GenerativeModel(geminiModel)
	model.SetTemperature(0.6)
	return &GeminiResponder{client: client, model: model}, nil
}

func (g *GeminiResponder) Close() {
	g.client.Close()
}

func (g *GeminiResponder) Reply(ctx context.Context, message string) (string, error) {
	prompt := fmt.Sprintf("%s\n\nMensagem do usuário: %s", systemPrompt, message)

	resp, err := g.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", fmt.Errorf("gemini: API returned empty candidates")
	}

	var parts []string
	for _, part := range resp.Candidates[0].Content.Parts {
		txt, ok := part.(genai.Text)
		if !ok || strings.TrimSpace(string(txt)) == "" {
			continue
		}
		parts = append(parts, string(txt))
	}
	if len(parts) == 0 {
		return "", fmt.Errorf("gemini: API returned empty text parts")
	}
	return strings.Join(parts, "\n"), nil
}

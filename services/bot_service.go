package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"
)

// Generator produces a reply for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type GeminiBot struct {
	client *genai.Client
	model  string
}

func NewGeminiBot(ctx context.Context, apiKey, model string) (*GeminiBot, error) {
	if apiKey == "" {
		return nil, errors.New("GEMINI_API_KEY not configured")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("gemini client: %w", err)
	}
	return &GeminiBot{client: client, model: model}, nil
}

func (b *GeminiBot) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.GenerativeModel(b.model).GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("gemini generate: %w", err)
	}

	var sb strings.Builder
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if t, ok := part.(genai.Text); ok {
				sb.WriteString(string(t))
			}
		}
		if sb.Len() > 0 {
			break
		}
	}
	if sb.Len() == 0 {
		return "", errors.New("gemini returned no text")
	}
	return sb.String(), nil
}

func (b *GeminiBot) Close() error { return b.client.Close() }

var cannedReplies = []string{
	"Hi! I'm here to help you follow a healthy eating plan that fits your body. The program is built around your age, height, weight and goal.",
	"Each day you get food recommendations, nutrition tips and a meal schedule matched to your activity and calorie needs.",
	"If you want to lose weight, start with a fiber-rich breakfast like oatmeal with fruit, a high-protein lunch and a light dinner such as clear soup or salad.",
	"If you want to gain weight, go for healthy calorie-dense foods like rice with a protein side, avocado, smoothies or nuts.",
	"Aim for three meals a day plus two healthy snacks so your metabolism stays steady and hunger stays in check.",
	"Your meal times follow your daily routine, so the plan stays easy to keep around work or classes.",
	"Dieting is not about eating as little as possible. It is about choosing the right food in the right portion.",
	"Hungry late at night? I can suggest light snacks that won't break your plan.",
	"Hydration matters too. Drink at least 2 liters of water a day, thirst is often mistaken for hunger.",
	"I can put together a weekly menu around the foods you like. Do you prefer local or western dishes?",
	"Need a weekly shopping list so you know what to pick up at the store? I can help with that.",
	"Ready to start? Fill in your basic profile and I'll build your plan right away!",
}

// CannedBot cycles through fixed replies. Used when Gemini is not configured.
type CannedBot struct {
	mu   sync.Mutex
	next int
}

func (b *CannedBot) Generate(_ context.Context, _ string) (string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	reply := cannedReplies[b.next%len(cannedReplies)]
	b.next++
	return reply, nil
}

type BotService struct {
	gen Generator
}

func NewBotService(gen Generator) *BotService {
	if gen == nil {
		gen = &CannedBot{}
	}
	return &BotService{gen: gen}
}

func (s *BotService) Generate(ctx context.Context, prompt string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("%w: prompt is required", utils.ErrInvalidInput)
	}
	return s.gen.Generate(ctx, prompt)
}

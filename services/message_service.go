package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/RamaAlqdri/sehatin/logger"
	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/repository"
	"github.com/RamaAlqdri/sehatin/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// chatContextSize is how many earlier messages go into the bot prompt.
const chatContextSize = 10

type MessageService struct {
	messages *repository.MessageRepository
	users    *repository.UserRepository
	bot      *BotService
	notifier *Notifier
	clock    utils.Clock
}

func NewMessageService(messages *repository.MessageRepository, users *repository.UserRepository, bot *BotService, notifier *Notifier, clock utils.Clock) *MessageService {
	return &MessageService{messages: messages, users: users, bot: bot, notifier: notifier, clock: clock}
}

type ChatExchange struct {
	Question models.Message `json:"question"`
	Answer   models.Message `json:"answer"`
}

func (s *MessageService) Create(ctx context.Context, userID uuid.UUID, content string, sender models.Sender) (*models.Message, error) {
	if sender == "" {
		sender = models.SenderUser
	}
	if !sender.Valid() {
		return nil, fmt.Errorf("%w: sender must be user or bot", utils.ErrInvalidInput)
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", utils.ErrInvalidInput)
	}
	if err := s.users.MustExist(ctx, userID); err != nil {
		return nil, err
	}

	msg := &models.Message{UserID: userID, Content: content, Sender: sender, CreatedAt: s.clock.Now().UTC()}
	if err := s.messages.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	s.notifier.Emit(userID, EventMessageCreated, msg)
	return msg, nil
}

func (s *MessageService) ListByUser(ctx context.Context, userID uuid.UUID) ([]models.Message, error) {
	return s.messages.ListByUser(ctx, userID)
}

// Chat stores the question, asks the bot and stores its answer.
func (s *MessageService) Chat(ctx context.Context, userID uuid.UUID, content string) (*ChatExchange, error) {
	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	earlier, err := s.messages.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	question, err := s.Create(ctx, userID, content, models.SenderUser)
	if err != nil {
		return nil, err
	}

	reply, err := s.bot.Generate(ctx, s.prompt(user, earlier, question.Content))
	if err != nil {
		logger.Error("bot reply failed", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, fmt.Errorf("bot reply: %w", err)
	}
	answer, err := s.Create(ctx, userID, reply, models.SenderBot)
	if err != nil {
		return nil, err
	}

	s.notifier.Push(ctx, userID, "Sehatin", truncate(answer.Content, 120), map[string]string{
		"kind":       EventMessageCreated,
		"message_id": answer.ID.String(),
	})
	return &ChatExchange{Question: *question, Answer: *answer}, nil
}

func (s *MessageService) prompt(u *models.User, earlier []models.Message, question string) string {
	var b strings.Builder
	b.WriteString("You are a friendly diet assistant. Answer briefly using the user's profile.\n\nProfile:\n")
	if u.Name != "" {
		fmt.Fprintf(&b, "- name: %s\n", u.Name)
	}
	if u.Birthday != nil {
		fmt.Fprintf(&b, "- age: %d\n", utils.CalculateAge(*u.Birthday, s.clock.Now()))
	}
	if u.Gender != "" {
		fmt.Fprintf(&b, "- gender: %s\n", u.Gender)
	}
	if u.Height > 0 {
		fmt.Fprintf(&b, "- height: %s cm\n", formatNumber(u.Height))
	}
	if u.Weight > 0 {
		fmt.Fprintf(&b, "- weight: %s kg\n", formatNumber(u.Weight))
	}
	fmt.Fprintf(&b, "- weight target: %s kg\n", formatNumber(u.WeightTarget))
	if u.Activity != "" {
		fmt.Fprintf(&b, "- activity: %s\n", u.Activity)
	}
	if u.Goal != "" {
		fmt.Fprintf(&b, "- goal: %s\n", u.Goal)
	}

	if n := len(earlier); n > 0 {
		if n > chatContextSize {
			earlier = earlier[n-chatContextSize:]
		}
		b.WriteString("\nConversation so far:\n")
		for _, m := range earlier {
			fmt.Fprintf(&b, "%s: %s\n", m.Sender, m.Content)
		}
	}
	fmt.Fprintf(&b, "\nuser: %s\nbot:", question)
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/google/uuid"
)

const historyWindow = 10

// AIConfig holds the settings for the chat completion backend. An empty
// APIKey disables remote calls and every answer comes from the fallback.
type AIConfig struct {
	APIKey string
	APIURL string
	Model  string
}

type AIService struct {
	chatRepo repository.ChatRepository
	postRepo repository.PostRepository
	client   *http.Client
	cfg      AIConfig
	logger   *slog.Logger
}

// ChatResult is a stored assistant reply plus the session it belongs to.
type ChatResult struct {
	SessionID string              `json:"session_id"`
	Message   *models.ChatMessage `json:"message"`
}

func NewAIService(
	chatRepo repository.ChatRepository,
	postRepo repository.PostRepository,
	cfg AIConfig,
	logger *slog.Logger,
) *AIService {
	return &AIService{
		chatRepo: chatRepo,
		postRepo: postRepo,
		client:   &http.Client{Timeout: 30 * time.Second},
		cfg:      cfg,
		logger:   logger,
	}
}

// Chat stores the user message, generates a reply, and stores that too. A
// blank session ID starts a new session.
func (s *AIService) Chat(ctx context.Context, sessionID, message string) (*ChatResult, error) {
	if strings.TrimSpace(message) == "" {
		return nil, models.NewValidationError("message is required")
	}
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history, err := s.chatRepo.ListMessages(ctx, sessionID, 0)
	if err != nil {
		return nil, translateDBError(err, "chat session", sessionID)
	}

	userMsg := &models.ChatMessage{SessionID: sessionID, Content: message, IsUser: true}
	if err := s.chatRepo.AddMessage(ctx, userMsg); err != nil {
		return nil, translateDBError(err, "chat session", sessionID)
	}

	reply := s.generateReply(ctx, message, history)

	assistantMsg := &models.ChatMessage{SessionID: sessionID, Content: reply, IsUser: false}
	if err := s.chatRepo.AddMessage(ctx, assistantMsg); err != nil {
		return nil, translateDBError(err, "chat session", sessionID)
	}

	return &ChatResult{SessionID: sessionID, Message: assistantMsg}, nil
}

func (s *AIService) History(ctx context.Context, sessionID string) ([]models.ChatMessage, error) {
	messages, err := s.chatRepo.ListMessages(ctx, sessionID, 0)
	if err != nil {
		return nil, translateDBError(err, "chat session", sessionID)
	}
	return messages, nil
}

func (s *AIService) Sessions(ctx context.Context) ([]models.ChatSession, error) {
	sessions, err := s.chatRepo.ListSessions(ctx)
	if err != nil {
		return nil, translateDBError(err, "chat session", nil)
	}
	return sessions, nil
}

func (s *AIService) DeleteSession(ctx context.Context, sessionID string) error {
	if err := s.chatRepo.DeleteSession(ctx, sessionID); err != nil {
		return translateDBError(err, "chat session", sessionID)
	}
	return nil
}

// Assist runs a one-shot writing prompt through the API. Unlike Chat there
// is no fallback; callers need the real model here.
func (s *AIService) Assist(ctx context.Context, prompt, promptType string) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", models.NewValidationError("prompt is required")
	}
	if s.cfg.APIKey == "" {
		return "", models.NewValidationError("AI API key is not configured")
	}
	return s.callAPI(ctx, buildAssistPrompt(prompt, promptType))
}

func (s *AIService) generateReply(ctx context.Context, message string, history []models.ChatMessage) string {
	if s.cfg.APIKey == "" {
		return fallbackReply(message)
	}

	reply, err := s.callAPI(ctx, s.buildChatPrompt(ctx, message, history))
	if err != nil {
		s.logger.WarnContext(ctx, "chat completion failed, using fallback",
			slog.String("error", err.Error()),
		)
		return fallbackReply(message)
	}
	return reply
}

func (s *AIService) buildChatPrompt(ctx context.Context, message string, history []models.ChatMessage) string {
	var b strings.Builder
	b.WriteString("You are the AI assistant on a personal blog. Answer questions about the ")
	b.WriteString("blog's posts and the author's work. Be conversational and concise, and ")
	b.WriteString("admit when you do not know something rather than inventing it.\n\n")

	b.WriteString("Blog content context:\n")
	b.WriteString(s.blogContext(ctx))
	b.WriteString("\n\nConversation history:\n")

	start := 0
	if len(history) > historyWindow {
		start = len(history) - historyWindow
	}
	for _, msg := range history[start:] {
		role := "Assistant"
		if msg.IsUser {
			role = "User"
		}
		fmt.Fprintf(&b, "%s: %s\n", role, msg.Content)
	}

	fmt.Fprintf(&b, "\nUser question: %s\n", message)
	return b.String()
}

// blogContext pulls recent published posts so the model can ground answers
// in what the blog actually says.
func (s *AIService) blogContext(ctx context.Context) string {
	published := models.PostStatusPublished
	posts, _, err := s.postRepo.List(ctx, repository.ListPostsParams{
		Page:     1,
		PageSize: 5,
		Status:   &published,
	})
	if err != nil || len(posts) == 0 {
		return "No blog content available."
	}

	var b strings.Builder
	for _, post := range posts {
		excerpt := post.Content
		if runes := []rune(excerpt); len(runes) > 200 {
			excerpt = string(runes[:200])
		}
		fmt.Fprintf(&b, "Title: %s\nExcerpt: %s\n\n", post.Title, excerpt)
	}
	return b.String()
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

func (s *AIService) callAPI(ctx context.Context, prompt string) (string, error) {
	payload, err := json.Marshal(chatCompletionRequest{
		Model:       s.cfg.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   500,
	})
	if err != nil {
		return "", models.NewInternalError(err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.cfg.APIURL, bytes.NewReader(payload))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", models.NewInternalError(fmt.Errorf("chat completion API returned %d: %s", resp.StatusCode, body))
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", models.NewInternalError(err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return "Sorry, I couldn't generate a response.", nil
	}
	return parsed.Choices[0].Message.Content, nil
}

func fallbackReply(message string) string {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "hello"), strings.Contains(lower, "hi"):
		return "Hello! I'm the blog's assistant. I can help you find posts and learn about the author's projects. What would you like to know?"
	case strings.Contains(lower, "project"):
		return "The author has written about a range of projects on this blog. Browse the posts to find the ones that interest you."
	case strings.Contains(lower, "tech"):
		return "The blog covers software development topics in depth. Check out the published posts for detailed write-ups."
	default:
		return "I'm here to help you explore this blog. Could you be more specific about what you'd like to know?"
	}
}

func buildAssistPrompt(prompt, promptType string) string {
	switch promptType {
	case "blog_post":
		return fmt.Sprintf("Write a blog post about: %s\n\nPlease create an engaging, informative blog post with proper structure including introduction, main content, and conclusion.", prompt)
	case "technical":
		return fmt.Sprintf("Provide technical explanation for: %s\n\nPlease explain this technical concept clearly with examples and practical applications.", prompt)
	case "summary":
		return fmt.Sprintf("Summarize the following: %s\n\nPlease provide a concise but comprehensive summary.", prompt)
	default:
		return prompt
	}
}

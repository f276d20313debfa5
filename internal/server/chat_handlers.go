package server

import (
	"inkwell/internal/models"

	"github.com/gofiber/fiber/v2"
)

type chatRequest struct {
	SessionID string `json:"session_id"`
	Message   string `json:"message"`
}

// Chat handles POST /api/chat. A blank session_id starts a new session; the
// response carries the session to continue with.
func (s *Server) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid request body"))
	}

	result, err := s.aiService.Chat(c.Context(), req.SessionID, req.Message)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(result)
}

// ChatHistory handles GET /api/chat/:sessionID/history.
func (s *Server) ChatHistory(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")
	if sessionID == "" {
		return models.RespondWithError(c, models.NewValidationError("session id is required"))
	}

	messages, err := s.aiService.History(c.Context(), sessionID)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"session_id": sessionID, "messages": messages})
}

// ListChatSessions handles GET /api/admin/chat/sessions.
func (s *Server) ListChatSessions(c *fiber.Ctx) error {
	sessions, err := s.aiService.Sessions(c.Context())
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(sessions)
}

// DeleteChatSession handles DELETE /api/admin/chat/sessions/:sessionID.
func (s *Server) DeleteChatSession(c *fiber.Ctx) error {
	sessionID := c.Params("sessionID")
	if err := s.aiService.DeleteSession(c.Context(), sessionID); err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"deleted": true})
}

type aiAssistRequest struct {
	Prompt     string `json:"prompt"`
	PromptType string `json:"prompt_type"`
}

// AIAssist handles POST /api/admin/ai/assist for writing assistance.
func (s *Server) AIAssist(c *fiber.Ctx) error {
	var req aiAssistRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, models.NewValidationError("invalid request body"))
	}

	content, err := s.aiService.Assist(c.Context(), req.Prompt, req.PromptType)
	if err != nil {
		return models.RespondWithError(c, err)
	}
	return c.JSON(fiber.Map{"content": content})
}

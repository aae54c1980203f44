package controllers

import (
	"net/http"

	"github.com/RamaAlqdri/sehatin/models"
	"github.com/RamaAlqdri/sehatin/services"

	"github.com/gin-gonic/gin"
)

type MessageController struct {
	Messages *services.MessageService
	Bot      *services.BotService
}

func NewMessageController(messages *services.MessageService, bot *services.BotService) *MessageController {
	return &MessageController{Messages: messages, Bot: bot}
}

type MessageInput struct {
	Content string `json:"content" binding:"required"`
	Sender  string `json:"sender"`
}

func (mc *MessageController) Create(c *gin.Context) {
	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	msg, err := mc.Messages.Create(c.Request.Context(), userID, input.Content, models.Sender(input.Sender))
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Message Sended Successfully", msg)
}

// Users may list only their own conversation.
func (mc *MessageController) ListByUser(c *gin.Context) {
	userID, err := parseUUID(c.Param("userId"), "userId")
	if err != nil {
		respondError(c, err)
		return
	}
	if self, _ := currentUser(c); !isAdmin(c) && self != userID {
		respond(c, http.StatusForbidden, "cannot read another user's messages", nil)
		return
	}
	rows, err := mc.Messages.ListByUser(c.Request.Context(), userID)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Messages Found", rows)
}

func (mc *MessageController) Chat(c *gin.Context) {
	var input MessageInput
	if err := c.ShouldBindJSON(&input); err != nil {
		badRequest(c, err)
		return
	}
	userID, err := targetUserID(c, targetQueryKey)
	if err != nil {
		respondError(c, err)
		return
	}
	out, err := mc.Messages.Chat(c.Request.Context(), userID, input.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusCreated, "Message Answered", out)
}

// POST /bot/generate  {"prompt": "..."}
func (mc *MessageController) Generate(c *gin.Context) {
	var body struct {
		Prompt string `json:"prompt" binding:"required"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		badRequest(c, err)
		return
	}
	reply, err := mc.Bot.Generate(c.Request.Context(), body.Prompt)
	if err != nil {
		respondError(c, err)
		return
	}
	respond(c, http.StatusOK, "Response Generated", gin.H{"response": reply})
}

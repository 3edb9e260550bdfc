package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"locate918/internal/models/request_models"
	"locate918/internal/models/response_models"
	"locate918/internal/services"
	"locate918/pkg/utils"
)

type AssistantController struct {
	assistantService services.AssistantServiceInterface
}

func NewAssistantController(assistantService services.AssistantServiceInterface) *AssistantController {
	return &AssistantController{
		assistantService: assistantService,
	}
}

func (a *AssistantController) RootHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "online", "service": "Locate918 LLM"})
}

func (a *AssistantController) HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (a *AssistantController) ChatHandler(c *gin.Context) {
	var req request_models.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "message is required")
		return
	}

	resp, err := a.assistantService.GenerateChatResponse(c.Request.Context(), req.Message, req.ConversationHistory, req.UserProfile)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (a *AssistantController) ParseIntentHandler(c *gin.Context) {
	var req request_models.SearchIntentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "query is required")
		return
	}

	params, err := a.assistantService.ParseUserIntent(c.Request.Context(), req.Query)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, params)
}

func (a *AssistantController) NormalizeHandler(c *gin.Context) {
	var req request_models.NormalizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.RespondError(c, http.StatusBadRequest, "raw_html is required")
		return
	}

	events, err := a.assistantService.NormalizeEvents(c.Request.Context(), req.RawHTML, req.SourceURL)
	if err != nil {
		utils.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, response_models.NormalizeResponse{Events: events})
}

package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"agrigpt/models"
	"agrigpt/services"
)

// Answerer is the question-answering pipeline behind POST /ask.
type Answerer interface {
	Answer(ctx context.Context, question string) (models.Answer, error)
}

type AskRequest struct {
	Question string `json:"question"`
}

type AskResponse struct {
	Answer string `json:"answer"`
}

type AskController struct {
	answerer Answerer
}

func NewAskController(answerer Answerer) *AskController {
	return &AskController{answerer: answerer}
}

// Root reports that the API is up.
func Root(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"message": "AgriAI API is running. Use /ask endpoint to interact."})
}

// MethodNotAllowed rejects anything but POST on /ask without touching the pipeline.
func MethodNotAllowed(ctx *gin.Context) {
	ctx.AbortWithStatusJSON(http.StatusMethodNotAllowed, gin.H{"detail": "Method Not Allowed. Use POST instead."})
}

func (c *AskController) Ask(ctx *gin.Context) {
	var req AskRequest
	if err := ctx.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Question) == "" {
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"detail": "Field 'question' is required."})
		return
	}

	ans, err := c.answerer.Answer(ctx.Request.Context(), req.Question)
	if err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"detail": errorDetail(err)})
		return
	}

	ctx.JSON(http.StatusOK, AskResponse{Answer: ans.Text})
}

func errorDetail(err error) string {
	switch {
	case errors.Is(err, services.ErrTranslation):
		return "Translation service error. Try again later."
	case errors.Is(err, services.ErrRetrieval):
		return "Retrieval error. Try again later."
	default:
		return "AI processing error. Try again later."
	}
}

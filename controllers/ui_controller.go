package controllers

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	"agrigpt/utils"
)

//go:embed templates/index.html
var templateFS embed.FS

var uiTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

const (
	uiFailed   = "Failed to get a response. Please try again later."
	uiNoAnswer = "No response received."
	uiEmpty    = "Please enter a question."

	uiTokenSubject = "agrigpt-ui"
	uiTokenTTL     = 5 * time.Minute
)

type uiPage struct {
	Action   string
	Question string
	Answer   string
	Error    string
	Warning  string
}

// UIController serves the question form and relays submissions to the ask API.
type UIController struct {
	apiURL string
	action string
	client *http.Client
	token  func() (string, error)
}

func NewUIController(apiURL string, timeout time.Duration) *UIController {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &UIController{apiURL: apiURL, action: "/ui", client: &http.Client{Timeout: timeout}}
}

// WithBearer signs each relayed request with a short-lived HS256 token, for
// APIs running with authentication enabled.
func (u *UIController) WithBearer(secret, issuer string) *UIController {
	u.token = func() (string, error) {
		return utils.GenerateJWT(secret, issuer, uiTokenSubject, uiTokenTTL)
	}
	return u
}

// Register mounts the form at path on group.
func (u *UIController) Register(group gin.IRoutes, path string) {
	u.action = path
	group.GET(path, u.Show)
	group.POST(path, u.Submit)
}

func (u *UIController) Show(ctx *gin.Context) {
	u.render(ctx, uiPage{})
}

func (u *UIController) Submit(ctx *gin.Context) {
	question := strings.TrimSpace(ctx.PostForm("question"))
	if question == "" {
		u.render(ctx, uiPage{Warning: uiEmpty})
		return
	}

	answer, err := u.ask(ctx.Request.Context(), question)
	if err != nil {
		slog.Warn("ask api request failed", "url", u.apiURL, "error", err)
		u.render(ctx, uiPage{Question: question, Error: uiFailed})
		return
	}
	if answer == "" {
		answer = uiNoAnswer
	}
	u.render(ctx, uiPage{Question: question, Answer: answer})
}

func (u *UIController) render(ctx *gin.Context, page uiPage) {
	page.Action = u.action
	ctx.Render(http.StatusOK, render.HTML{Template: uiTemplate, Name: "index.html", Data: page})
}

func (u *UIController) ask(ctx context.Context, question string) (string, error) {
	body, err := json.Marshal(AskRequest{Question: question})
	if err != nil {
		return "", err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	if u.token != nil {
		token, err := u.token()
		if err != nil {
			return "", fmt.Errorf("sign request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status %d", resp.StatusCode)
	}
	var out AskResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	return out.Answer, nil
}

package router

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"agrigpt/controllers"
	"agrigpt/models"
	"agrigpt/services"
	"agrigpt/utils"
)

const origin = "https://agrigpt.netlify.app"

func init() {
	gin.SetMode(gin.TestMode)
}

type countingAnswerer struct {
	err   error
	calls int
}

func (c *countingAnswerer) Answer(_ context.Context, q string) (models.Answer, error) {
	c.calls++
	if c.err != nil {
		return models.Answer{}, c.err
	}
	return models.Answer{Text: "answer: " + q, Language: "en"}, nil
}

func do(r http.Handler, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAsk_NonPostMethodsRejected(t *testing.T) {
	a := &countingAnswerer{}
	r := SetupRouter(a, Options{AllowOrigin: origin})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete, http.MethodPatch} {
		for _, body := range []string{"", `{"question":"rice?"}`, "garbage"} {
			w := do(r, method, "/ask", body, nil)
			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
			assert.JSONEq(t, `{"detail":"Method Not Allowed. Use POST instead."}`, w.Body.String())
		}
	}
	assert.Zero(t, a.calls)
}

func TestAsk_PostRoutes(t *testing.T) {
	r := SetupRouter(&countingAnswerer{}, Options{AllowOrigin: origin})

	w := do(r, http.MethodPost, "/ask", `{"question":"rice?"}`, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"answer":"answer: rice?"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestAsk_PipelineFailure(t *testing.T) {
	r := SetupRouter(&countingAnswerer{err: fmt.Errorf("%w: down", services.ErrGeneration)}, Options{AllowOrigin: origin})

	w := do(r, http.MethodPost, "/ask", `{"question":"rice?"}`, nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"AI processing error. Try again later."}`, w.Body.String())
}

func TestRoot(t *testing.T) {
	r := SetupRouter(&countingAnswerer{}, Options{AllowOrigin: origin})

	w := do(r, http.MethodGet, "/", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AgriAI API is running")
}

func TestCORS(t *testing.T) {
	r := SetupRouter(&countingAnswerer{}, Options{AllowOrigin: origin})

	w := do(r, http.MethodPost, "/ask", `{"question":"rice?"}`, map[string]string{"Origin": origin})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = do(r, http.MethodPost, "/ask", `{"question":"rice?"}`, map[string]string{"Origin": "https://evil.example"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_Preflight(t *testing.T) {
	r := SetupRouter(&countingAnswerer{}, Options{AllowOrigin: origin})

	w := do(r, http.MethodOptions, "/ask", "", map[string]string{
		"Origin":                        origin,
		"Access-Control-Request-Method": http.MethodPost,
	})

	assert.Less(t, w.Code, 300)
	assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORS_PreflightEchoesRequestedHeaders(t *testing.T) {
	r := SetupRouter(&countingAnswerer{}, Options{AllowOrigin: origin})

	w := do(r, http.MethodOptions, "/ask", "", map[string]string{
		"Origin":                         origin,
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "content-type,x-client-version",
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, origin, w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "x-client-version")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
}

func TestCORS_PreflightFromOtherOriginRejected(t *testing.T) {
	r := SetupRouter(&countingAnswerer{}, Options{AllowOrigin: origin})

	w := do(r, http.MethodOptions, "/ask", "", map[string]string{
		"Origin":                         "https://evil.example",
		"Access-Control-Request-Method":  http.MethodPost,
		"Access-Control-Request-Headers": "x-client-version",
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Headers"))
}

func TestAsk_AuthEnabled(t *testing.T) {
	a := &countingAnswerer{}
	r := SetupRouter(a, Options{AllowOrigin: origin, JWTSecret: "secret", JWTIssuer: "agrigpt"})

	w := do(r, http.MethodPost, "/ask", `{"question":"rice?"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Zero(t, a.calls)

	token, err := utils.GenerateJWT("secret", "agrigpt", "farmer", time.Minute)
	require.NoError(t, err)
	w = do(r, http.MethodPost, "/ask", `{"question":"rice?"}`, map[string]string{"Authorization": "Bearer " + token})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAsk_RateLimited(t *testing.T) {
	r := SetupRouter(&countingAnswerer{}, Options{AllowOrigin: origin, RateLimit: 0.001, RateBurst: 1})

	assert.Equal(t, http.StatusOK, do(r, http.MethodPost, "/ask", `{"question":"a"}`, nil).Code)
	w := do(r, http.MethodPost, "/ask", `{"question":"b"}`, nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.JSONEq(t, `{"detail":"Too Many Requests"}`, w.Body.String())
}

func TestUIMounted(t *testing.T) {
	r := SetupRouter(&countingAnswerer{}, Options{
		AllowOrigin: origin,
		UI:          controllers.NewUIController("http://127.0.0.1:0/ask", time.Second),
	})

	w := do(r, http.MethodGet, "/ui", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "AgriGPT")
}

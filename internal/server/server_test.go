package server

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"

	"medichat/internal/chain"
	"medichat/internal/domain"
	"medichat/internal/vectorstore"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubEmbedder struct{}

func (stubEmbedder) Dimension() int { return 2 }

func (stubEmbedder) Embed(context.Context, string) ([]float32, error) {
	return []float32{1, 0}, nil
}

func (s stubEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i], _ = s.Embed(ctx, texts[i])
	}
	return out, nil
}

type stubStore struct{}

func (stubStore) Upsert(context.Context, []vectorstore.Entry) error { return nil }

func (stubStore) Query(context.Context, []float32, int) ([]domain.ScoredChunk, error) {
	return []domain.ScoredChunk{{Document: domain.Document{Content: "relevant chunk"}}}, nil
}

type stubChat struct {
	answer string
	err    error
	calls  int
}

func (s *stubChat) Generate(context.Context, string, string) (string, error) {
	s.calls++
	if s.err != nil {
		err := s.err
		s.err = nil // fail only once
		return "", err
	}
	return s.answer, nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func newTestServer(t *testing.T, chat *stubChat, buildErr error) (*Server, *int) {
	t.Helper()
	builds := 0
	provider := chain.NewProvider(func(context.Context) (*chain.Chain, error) {
		builds++
		if buildErr != nil {
			return nil, buildErr
		}
		return chain.New(chain.Config{Embedder: stubEmbedder{}, Store: stubStore{}, Chat: chat})
	})
	return New(provider, quietLogger(), time.Minute), &builds
}

func postMsg(router *gin.Engine, msg string) *httptest.ResponseRecorder {
	form := url.Values{}
	if msg != "" {
		form.Set("msg", msg)
	}
	req := httptest.NewRequest(http.MethodPost, "/get", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t, &stubChat{answer: "X"}, nil)
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIndex_RendersChatPage(t *testing.T) {
	srv, _ := newTestServer(t, &stubChat{answer: "X"}, nil)
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Medical Chatbot")
}

func TestChat_MissingMessage(t *testing.T) {
	srv, builds := newTestServer(t, &stubChat{answer: "X"}, nil)
	router := srv.Router()

	w := postMsg(router, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"No message provided"}`, w.Body.String())
	// Validation failures never touch the chain.
	assert.Zero(t, *builds)
}

func TestChat_Success(t *testing.T) {
	srv, builds := newTestServer(t, &stubChat{answer: "X"}, nil)
	router := srv.Router()

	w := postMsg(router, "what is aspirin?")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "X", w.Body.String())
	assert.Equal(t, 1, *builds)

	// The singleton is reused on the next request.
	w = postMsg(router, "and ibuprofen?")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, *builds)
}

func TestChat_QueryParamMessage(t *testing.T) {
	srv, _ := newTestServer(t, &stubChat{answer: "X"}, nil)
	router := srv.Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/get?msg=hello", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "X", w.Body.String())
}

func TestChat_InitializationFailure(t *testing.T) {
	srv, builds := newTestServer(t, nil, errors.New("PINECONE_API_KEY is not set"))
	router := srv.Router()

	w := postMsg(router, "hello")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Initialization failed"`)
	assert.Contains(t, w.Body.String(), "PINECONE_API_KEY is not set")

	// Initialization is retried on the next request.
	w = postMsg(router, "hello again")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 2, *builds)
}

func TestChat_ExecutionFailureKeepsChainReady(t *testing.T) {
	chat := &stubChat{answer: "recovered", err: errors.New("provider timeout")}
	srv, builds := newTestServer(t, chat, nil)
	router := srv.Router()

	w := postMsg(router, "hello")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), `"error":"Chain execution failed"`)
	assert.Contains(t, w.Body.String(), "provider timeout")

	// The established chain survives the failed request.
	w = postMsg(router, "hello again")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "recovered", w.Body.String())
	assert.Equal(t, 1, *builds)
	assert.Equal(t, 2, chat.calls)
}

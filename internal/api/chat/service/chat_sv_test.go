package chatService

import (
	"WidgetBackend/internal/api/chat"
	chatRepository "WidgetBackend/internal/api/chat/repository"
	"WidgetBackend/internal/api/knowledge"
	"WidgetBackend/internal/entity"
	contextPkg "WidgetBackend/pkg/context"
	"WidgetBackend/pkg/nlp"
	"WidgetBackend/pkg/prompt"
	"WidgetBackend/pkg/utils"
	"WidgetBackend/pkg/webpage"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type fakeKnowledge struct {
	pages    map[string][]entity.PageRecord
	sessions map[string]string
	loadErr  error
}

func (f *fakeKnowledge) ResolveTenantForSession(_ context.Context, sessionID string) (string, error) {
	if tenantID, ok := f.sessions[sessionID]; ok {
		return tenantID, nil
	}
	return "", knowledge.ErrTenantNotFound
}

func (f *fakeKnowledge) LoadPages(_ context.Context, tenantID string) ([]entity.PageRecord, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if pages, ok := f.pages[tenantID]; ok {
		return pages, nil
	}
	return []entity.PageRecord{}, nil
}

func (f *fakeKnowledge) GetPages(context.Context, string) (*knowledge.PagesResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeKnowledge) ReplacePages(context.Context, string, knowledge.ReplacePagesRequest) (*knowledge.PagesResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeKnowledge) RegisterSession(context.Context, string, knowledge.RegisterSessionRequest) (*knowledge.RegisterSessionResponse, error) {
	return nil, errors.New("not used")
}

func (f *fakeKnowledge) PreviewPage(context.Context, string) (*knowledge.PreviewResponse, error) {
	return nil, errors.New("not used")
}

// fakeModel records the turns it receives, keyed by the user message.
type fakeModel struct {
	mu    sync.Mutex
	turns map[string][]prompt.Turn
	err   error
}

func (m *fakeModel) Complete(_ context.Context, turns []prompt.Turn) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.turns == nil {
		m.turns = map[string][]prompt.Turn{}
	}
	user := turns[len(turns)-1].Content
	m.turns[user] = turns
	return "reply to " + user, nil
}

func (m *fakeModel) received(message string) []prompt.Turn {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.turns[message]
}

type mockChatLogs struct{ mock.Mock }

func (m *mockChatLogs) CreateChatLog(ctx context.Context, chatLog entity.ChatLog) error {
	return m.Called(ctx, chatLog).Error(0)
}

func (m *mockChatLogs) GetChatLogsByTenant(ctx context.Context, tenantID string, limit, offset int) ([]entity.ChatLog, int, error) {
	args := m.Called(ctx, tenantID, limit, offset)
	logs, _ := args.Get(0).([]entity.ChatLog)
	return logs, args.Int(1), args.Error(2)
}

type fakeChatRepository struct {
	logs *mockChatLogs
}

func (r *fakeChatRepository) NewClient(bool) (chatRepository.Client, error) {
	return chatRepository.Client{
		ChatLogs: r.logs,
		Commit:   func() error { return nil },
		Rollback: func() error { return nil },
	}, nil
}

const pricingHTML = `<html><body><main>Starter is $10 per month and Pro is $30 per month, billed annually or monthly with no setup fee at all. Every plan includes unlimited seats and email support.</main>
<button>Start trial</button><a href="/contact">Contact sales</a></body></html>`

type fixture struct {
	knowledge *fakeKnowledge
	model     *fakeModel
	logs      *mockChatLogs
	site      *httptest.Server
}

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/pricing", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = io.WriteString(w, pricingHTML)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	})
	site := httptest.NewServer(mux)
	t.Cleanup(site.Close)

	return &fixture{
		knowledge: &fakeKnowledge{pages: map[string][]entity.PageRecord{}, sessions: map[string]string{}},
		model:     &fakeModel{},
		logs:      &mockChatLogs{},
		site:      site,
	}
}

func (f *fixture) service(opts ...nlp.Option) IChatService {
	log := quietLogger()
	return NewChatService(
		log,
		&fakeChatRepository{logs: f.logs},
		f.knowledge,
		nlp.NewMatcher(opts...),
		webpage.New(log, webpage.Config{AllowPrivateNetworks: true}),
		f.model,
		utils.New(),
		Config{PageFetchTimeout: 200 * time.Millisecond},
	)
}

func TestChatService_Respond(t *testing.T) {
	ctx := contextPkg.WithRequestID(context.Background(), "req-1")

	t.Run("Should ground a pricing question on the pricing page", func(t *testing.T) {
		f := newFixture(t)
		f.knowledge.pages["t-1"] = []entity.PageRecord{
			{Intent: "home_page", URL: f.site.URL + "/"},
			{Intent: "pricing_info", URL: f.site.URL + "/pricing"},
		}
		f.logs.On("CreateChatLog", mock.Anything, mock.MatchedBy(func(l entity.ChatLog) bool {
			return l.TenantID == "t-1" && l.MatchedIntent == "pricing_info" && l.Strategy == "forced" && len(l.ID) == 26
		})).Return(nil).Once()

		resp, err := f.service().Respond(ctx, chat.ChatRequest{Message: "what is your pricing plan?", TenantID: "t-1"})

		require.NoError(t, err)
		assert.Equal(t, "reply to what is your pricing plan?", resp.Reply)
		assert.Equal(t, "pricing_info", resp.MatchedIntent)
		assert.Equal(t, f.site.URL+"/pricing", resp.MatchedURL)
		assert.Empty(t, resp.WeakKeywordHint)
		assert.Equal(t, "req-1", resp.RequestID)

		turns := f.model.received("what is your pricing plan?")
		require.Len(t, turns, 3)
		assert.True(t, strings.HasPrefix(turns[0].Content, "Here is some context from the relevant website: Starter is $10"))
		assert.Equal(t, `The page contains these interactive elements: Button: "Start trial", Link: "Contact sales"`, turns[1].Content)
		assert.Equal(t, prompt.Turn{Role: prompt.RoleUser, Content: "what is your pricing plan?"}, turns[2])
		f.logs.AssertExpectations(t)
	})

	t.Run("Should pass a weak hint when the page cannot be fetched", func(t *testing.T) {
		f := newFixture(t)
		f.knowledge.pages["t-1"] = []entity.PageRecord{
			{Intent: "returns_policy", URL: f.site.URL + "/missing", Keywords: []string{"refund"}},
		}
		f.logs.On("CreateChatLog", mock.Anything, mock.Anything).Return(nil)
		similarity := func(string, string) float64 { return 0.45 }

		resp, err := f.service(nlp.WithSimilarity(similarity)).Respond(ctx, chat.ChatRequest{Message: "money back?", TenantID: "t-1"})

		require.NoError(t, err)
		assert.Equal(t, "returns_policy", resp.WeakKeywordHint)
		assert.Equal(t, []prompt.Turn{
			{Role: prompt.RoleSystem, Content: "The user's message is similar to: returns_policy"},
			{Role: prompt.RoleUser, Content: "money back?"},
		}, f.model.received("money back?"))
	})

	t.Run("Should degrade to the bare message when the page times out", func(t *testing.T) {
		f := newFixture(t)
		f.knowledge.pages["t-1"] = []entity.PageRecord{{Intent: "contact_us", URL: f.site.URL + "/slow"}}
		f.logs.On("CreateChatLog", mock.Anything, mock.Anything).Return(nil)

		start := time.Now()
		resp, err := f.service().Respond(ctx, chat.ChatRequest{Message: "contact_us", TenantID: "t-1"})

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 2*time.Second)
		assert.Equal(t, "contact_us", resp.MatchedIntent)
		assert.Equal(t, []prompt.Turn{{Role: prompt.RoleUser, Content: "contact_us"}}, f.model.received("contact_us"))
	})

	t.Run("Should resolve the tenant from the widget session", func(t *testing.T) {
		f := newFixture(t)
		f.knowledge.sessions["design-1"] = "t-1"
		f.knowledge.pages["t-1"] = []entity.PageRecord{{Intent: "pricing", URL: f.site.URL + "/pricing"}}
		f.logs.On("CreateChatLog", mock.Anything, mock.MatchedBy(func(l entity.ChatLog) bool {
			return l.TenantID == "t-1" && l.SessionID == "design-1"
		})).Return(nil).Once()

		resp, err := f.service().Respond(ctx, chat.ChatRequest{Message: "any fee?", SessionID: "design-1"})

		require.NoError(t, err)
		assert.Equal(t, "pricing", resp.MatchedIntent)
		f.logs.AssertExpectations(t)
	})

	t.Run("Should answer without grounding for an unknown session", func(t *testing.T) {
		f := newFixture(t)

		resp, err := f.service().Respond(ctx, chat.ChatRequest{Message: "hello", SessionID: "nope"})

		require.NoError(t, err)
		assert.Empty(t, resp.MatchedIntent)
		assert.Equal(t, []prompt.Turn{{Role: prompt.RoleUser, Content: "hello"}}, f.model.received("hello"))
		f.logs.AssertNotCalled(t, "CreateChatLog", mock.Anything, mock.Anything)
	})

	t.Run("Should answer without grounding when pages cannot be loaded", func(t *testing.T) {
		f := newFixture(t)
		f.knowledge.loadErr = errors.New("db down")
		f.logs.On("CreateChatLog", mock.Anything, mock.Anything).Return(nil)

		resp, err := f.service().Respond(ctx, chat.ChatRequest{Message: "what does it cost", TenantID: "t-1"})

		require.NoError(t, err)
		assert.Empty(t, resp.MatchedIntent)
	})

	t.Run("Should not fail when the chat log cannot be saved", func(t *testing.T) {
		f := newFixture(t)
		f.logs.On("CreateChatLog", mock.Anything, mock.Anything).Return(errors.New("disk full"))

		resp, err := f.service().Respond(ctx, chat.ChatRequest{Message: "hi", TenantID: "t-1"})

		require.NoError(t, err)
		assert.Equal(t, "reply to hi", resp.Reply)
	})

	t.Run("Should surface language model failures", func(t *testing.T) {
		f := newFixture(t)
		f.model.err = errors.New("provider down")

		_, err := f.service().Respond(ctx, chat.ChatRequest{Message: "hi", TenantID: "t-1"})

		assert.ErrorIs(t, err, chat.ErrLanguageModelFailed)
		f.logs.AssertNotCalled(t, "CreateChatLog", mock.Anything, mock.Anything)
	})

	t.Run("Should reject requests without message or tenant", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service()

		_, err := svc.Respond(ctx, chat.ChatRequest{Message: "   ", TenantID: "t-1"})
		assert.ErrorIs(t, err, chat.ErrMessageRequired)

		_, err = svc.Respond(ctx, chat.ChatRequest{Message: "hi"})
		assert.ErrorIs(t, err, chat.ErrTenantRequired)
	})

	t.Run("Should keep hints private to their own request", func(t *testing.T) {
		f := newFixture(t)
		f.knowledge.pages["t-1"] = []entity.PageRecord{
			{Intent: "returns_policy", URL: f.site.URL + "/missing", Keywords: []string{"refund"}},
		}
		f.logs.On("CreateChatLog", mock.Anything, mock.Anything).Return(nil)
		similarity := func(message, _ string) float64 {
			if strings.HasPrefix(message, "weak") {
				return 0.45
			}
			return 0
		}
		svc := f.service(nlp.WithSimilarity(similarity))

		var wg sync.WaitGroup
		for i := 0; i < 20; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				prefix := "plain"
				if i%2 == 0 {
					prefix = "weak"
				}
				_, err := svc.Respond(ctx, chat.ChatRequest{Message: fmt.Sprintf("%s %d", prefix, i), TenantID: "t-1"})
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		for i := 0; i < 20; i++ {
			if i%2 == 0 {
				turns := f.model.received(fmt.Sprintf("weak %d", i))
				require.Len(t, turns, 2)
				assert.Equal(t, "The user's message is similar to: returns_policy", turns[0].Content)
			} else {
				turns := f.model.received(fmt.Sprintf("plain %d", i))
				assert.Equal(t, []prompt.Turn{{Role: prompt.RoleUser, Content: fmt.Sprintf("plain %d", i)}}, turns)
			}
		}
	})
}

func TestChatService_MatchForTenant(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return the match and the turns without calling the model", func(t *testing.T) {
		f := newFixture(t)
		f.knowledge.pages["t-1"] = []entity.PageRecord{{Intent: "pricing_info", URL: f.site.URL + "/pricing"}}

		resp, err := f.service().MatchForTenant(ctx, "t-1", chat.MatchRequest{Message: "price?"})

		require.NoError(t, err)
		assert.Equal(t, "pricing_info", resp.MatchedIntent)
		assert.Equal(t, "forced", resp.Strategy)
		assert.Equal(t, 1.0, resp.Score)
		assert.Len(t, resp.Turns, 3)
		assert.Nil(t, f.model.received("price?"))
	})

	t.Run("Should require a message", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.service().MatchForTenant(ctx, "t-1", chat.MatchRequest{})

		assert.ErrorIs(t, err, chat.ErrMessageRequired)
	})
}

func TestChatService_GetHistory(t *testing.T) {
	ctx := context.Background()

	t.Run("Should apply default paging", func(t *testing.T) {
		f := newFixture(t)
		created := time.Now()
		f.logs.On("GetChatLogsByTenant", mock.Anything, "t-1", DefaultHistoryLimit, 0).
			Return([]entity.ChatLog{{ID: "a", TenantID: "t-1", Message: "hi", Reply: "hello", CreatedAt: created}}, 1, nil)

		resp, err := f.service().GetHistory(ctx, "t-1", 0, 0)

		require.NoError(t, err)
		assert.Equal(t, 1, resp.Total)
		assert.Equal(t, 1, resp.Page)
		assert.Equal(t, DefaultHistoryLimit, resp.Limit)
		assert.Equal(t, []chat.ChatLog{{ID: "a", Message: "hi", Reply: "hello", CreatedAt: created}}, resp.Logs)
	})

	t.Run("Should compute the offset", func(t *testing.T) {
		f := newFixture(t)
		f.logs.On("GetChatLogsByTenant", mock.Anything, "t-1", 10, 20).Return([]entity.ChatLog{}, 25, nil)

		resp, err := f.service().GetHistory(ctx, "t-1", 3, 10)

		require.NoError(t, err)
		assert.Empty(t, resp.Logs)
		assert.NotNil(t, resp.Logs)
	})

	t.Run("Should reject bad paging", func(t *testing.T) {
		f := newFixture(t)
		svc := f.service()

		for _, p := range [][2]int{{-1, 10}, {1, -5}, {1, MaxHistoryLimit + 1}} {
			_, err := svc.GetHistory(ctx, "t-1", p[0], p[1])
			assert.ErrorIs(t, err, chat.ErrInvalidPagination)
		}
	})
}

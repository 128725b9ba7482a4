package chatService

import (
	"WidgetBackend/internal/api/chat"
	"WidgetBackend/internal/api/knowledge"
	"WidgetBackend/internal/entity"
	contextPkg "WidgetBackend/pkg/context"
	"WidgetBackend/pkg/nlp"
	"WidgetBackend/pkg/prompt"
	"WidgetBackend/pkg/response"
	"WidgetBackend/pkg/webpage"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// grounding is everything the knowledge pipeline produced for one message.
type grounding struct {
	tenantID  string
	match     nlp.MatchResult
	extracted webpage.ExtractedContext
	turns     []prompt.Turn
}

func (s *chatService) Respond(ctx context.Context, req chat.ChatRequest) (*chat.ChatResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	start := time.Now()

	if strings.TrimSpace(req.Message) == "" {
		return nil, chat.ErrMessageRequired
	}
	if strings.TrimSpace(req.TenantID) == "" && strings.TrimSpace(req.SessionID) == "" {
		return nil, chat.ErrTenantRequired
	}

	tenantID := s.resolveTenant(ctx, req)
	g := s.ground(ctx, tenantID, req.Message)

	reply, err := s.model.Complete(ctx, g.turns)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"tenant_id":  tenantID,
			"error":      err.Error(),
		}).Error("Language model call failed")
		return nil, response.Wrap(chat.ErrLanguageModelFailed, err)
	}

	s.saveChatLog(ctx, g, req, reply)

	s.log.WithFields(logrus.Fields{
		"request_id":     requestID,
		"tenant_id":      tenantID,
		"matched_intent": g.match.MatchedIntent,
		"strategy":       string(g.match.Strategy),
		"score":          g.match.Score,
		"turns":          len(g.turns),
		"duration_ms":    time.Since(start).Milliseconds(),
	}).Info("Chat message answered")

	return &chat.ChatResponse{
		Reply:           reply,
		MatchedIntent:   g.match.MatchedIntent,
		MatchedURL:      g.match.MatchedURL,
		WeakKeywordHint: g.match.WeakKeywordHint,
		RequestID:       requestID,
	}, nil
}

func (s *chatService) MatchForTenant(ctx context.Context, tenantID string, req chat.MatchRequest) (*chat.MatchResponse, error) {
	if strings.TrimSpace(req.Message) == "" {
		return nil, chat.ErrMessageRequired
	}

	g := s.ground(ctx, tenantID, req.Message)

	return &chat.MatchResponse{
		MatchedIntent:   g.match.MatchedIntent,
		MatchedURL:      g.match.MatchedURL,
		WeakKeywordHint: g.match.WeakKeywordHint,
		Strategy:        string(g.match.Strategy),
		Score:           g.match.Score,
		Turns:           g.turns,
	}, nil
}

// resolveTenant prefers an explicit tenant id. An unknown session is not an
// error: the message is answered without grounding.
func (s *chatService) resolveTenant(ctx context.Context, req chat.ChatRequest) string {
	if tenantID := strings.TrimSpace(req.TenantID); tenantID != "" {
		return tenantID
	}

	tenantID, err := s.knowledge.ResolveTenantForSession(ctx, req.SessionID)
	if err != nil {
		fields := logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": req.SessionID,
			"error":      err.Error(),
		}
		if errors.Is(err, knowledge.ErrTenantNotFound) {
			s.log.WithFields(fields).Info("Unknown widget session, answering without grounding")
		} else {
			s.log.WithFields(fields).Warn("Tenant resolution failed, answering without grounding")
		}
		return ""
	}

	return tenantID
}

// ground runs matcher, extractor and assembler. Every failure on this path
// degrades to less context and never fails the request.
func (s *chatService) ground(ctx context.Context, tenantID string, message string) grounding {
	requestID := contextPkg.GetRequestID(ctx)
	g := grounding{tenantID: tenantID}

	var pages []entity.PageRecord
	if tenantID != "" {
		loaded, err := s.knowledge.LoadPages(ctx, tenantID)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"tenant_id":  tenantID,
				"error":      err.Error(),
			}).Warn("Failed to load pages, answering without grounding")
		} else {
			pages = loaded
		}
	}

	g.match = s.matcher.Match(message, toMatcherPages(pages))

	if g.match.MatchedURL != "" {
		fetchCtx, cancel := context.WithTimeout(ctx, s.config.PageFetchTimeout)
		g.extracted = s.extractor.Extract(fetchCtx, g.match.MatchedURL)
		cancel()
	}

	g.turns = prompt.Assemble(prompt.Input{
		Message:         message,
		BodyText:        g.extracted.BodyText,
		ElementsSummary: g.extracted.ElementsSummary(),
		WeakKeywordHint: g.match.WeakKeywordHint,
	})

	s.log.WithFields(logrus.Fields{
		"request_id":     requestID,
		"tenant_id":      tenantID,
		"pages":          len(pages),
		"matched_intent": g.match.MatchedIntent,
		"strategy":       string(g.match.Strategy),
		"context_chars":  len(g.extracted.BodyText),
	}).Debug("Grounding resolved")

	return g
}

func (s *chatService) saveChatLog(ctx context.Context, g grounding, req chat.ChatRequest, reply string) {
	requestID := contextPkg.GetRequestID(ctx)
	if g.tenantID == "" || s.chatRepo == nil {
		return
	}

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to generate chat log id")
		return
	}

	client, err := s.chatRepo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Warn("Failed to create repository client")
		return
	}

	err = client.ChatLogs.CreateChatLog(ctx, entity.ChatLog{
		ID:              id,
		TenantID:        g.tenantID,
		SessionID:       req.SessionID,
		Message:         req.Message,
		MatchedIntent:   g.match.MatchedIntent,
		MatchedURL:      g.match.MatchedURL,
		WeakKeywordHint: g.match.WeakKeywordHint,
		Strategy:        string(g.match.Strategy),
		Reply:           reply,
		CreatedAt:       now,
	})
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"tenant_id":  g.tenantID,
			"error":      err.Error(),
		}).Warn("Failed to save chat log")
	}
}

func toMatcherPages(pages []entity.PageRecord) []nlp.PageRecord {
	out := make([]nlp.PageRecord, 0, len(pages))
	for _, p := range pages {
		out = append(out, nlp.PageRecord{
			Intent:   p.Intent,
			URL:      p.URL,
			Keywords: p.Keywords,
		})
	}
	return out
}

package knowledgeService

import (
	"WidgetBackend/internal/api/knowledge"
	"WidgetBackend/internal/entity"
	contextPkg "WidgetBackend/pkg/context"
	"WidgetBackend/pkg/prompt"
	"WidgetBackend/pkg/utils"
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
)

func (s *knowledgeService) ResolveTenantForSession(ctx context.Context, sessionID string) (string, error) {
	requestID := contextPkg.GetRequestID(ctx)

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return "", knowledge.ErrTenantNotFound
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	if s.cache != nil {
		tenantID, ok, err := s.cache.GetSessionTenant(ctx, sessionID)
		if err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Session cache read failed, falling back to database")
		} else if ok {
			return tenantID, nil
		}
	}

	client, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return "", err
	}

	tenantID, err := client.Sessions.GetTenantIDBySession(ctx, sessionID)
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.SetSessionTenant(ctx, sessionID, tenantID, s.config.SessionCacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Session cache write failed")
		}
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": sessionID,
		"tenant_id":  tenantID,
	}).Debug("Resolved tenant for session")

	return tenantID, nil
}

func (s *knowledgeService) LoadPages(ctx context.Context, tenantID string) ([]entity.PageRecord, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if strings.TrimSpace(tenantID) == "" {
		return []entity.PageRecord{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	client, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	pages, err := client.Tenants.GetPages(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	if pages == nil {
		pages = []entity.PageRecord{}
	}

	return pages, nil
}

func (s *knowledgeService) GetPages(ctx context.Context, tenantID string) (*knowledge.PagesResponse, error) {
	pages, err := s.LoadPages(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &knowledge.PagesResponse{
		TenantID: tenantID,
		Pages:    toPageDTOs(pages),
	}, nil
}

func (s *knowledgeService) ReplacePages(ctx context.Context, tenantID string, req knowledge.ReplacePagesRequest) (*knowledge.PagesResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	pages := normalizePages(req.Pages)

	client, err := s.repo.NewClient(true)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	defer func() {
		if err != nil {
			if rollbackErr := client.Rollback(); rollbackErr != nil {
				s.log.WithFields(logrus.Fields{
					"request_id": requestID,
					"error":      rollbackErr.Error(),
				}).Error("Failed to rollback transaction")
			}
		}
	}()

	if err = client.Tenants.ReplacePages(ctx, tenantID, pages); err != nil {
		return nil, err
	}

	if err = client.Commit(); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to commit transaction")
		return nil, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"tenant_id":  tenantID,
		"pages":      len(pages),
	}).Info("Knowledge base replaced")

	return &knowledge.PagesResponse{
		TenantID: tenantID,
		Pages:    toPageDTOs(pages),
	}, nil
}

func (s *knowledgeService) RegisterSession(ctx context.Context, tenantID string, req knowledge.RegisterSessionRequest) (*knowledge.RegisterSessionResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)
	sessionID := strings.TrimSpace(req.SessionID)

	client, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	err = client.Sessions.CreateSession(ctx, entity.WidgetSession{
		ID:        sessionID,
		TenantID:  tenantID,
		CreatedAt: time.Now(),
	})
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetSessionTenant(ctx, sessionID, tenantID, s.config.SessionCacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": sessionID,
				"error":      err.Error(),
			}).Warn("Session cache write failed")
		}
	}

	return &knowledge.RegisterSessionResponse{
		SessionID: sessionID,
		TenantID:  tenantID,
	}, nil
}

func (s *knowledgeService) PreviewPage(ctx context.Context, rawURL string) (*knowledge.PreviewResponse, error) {
	if !utils.IsHTTPURL(rawURL) {
		return nil, knowledge.ErrInvalidPreviewURL
	}
	rawURL = strings.TrimSpace(rawURL)

	extracted := s.extractor.Extract(ctx, rawURL)
	bodyLength := utf8.RuneCountInString(extracted.BodyText)

	return &knowledge.PreviewResponse{
		URL:                 rawURL,
		BodyText:            prompt.Truncate(extracted.BodyText, prompt.MaxContextChars),
		BodyLength:          bodyLength,
		Truncated:           bodyLength > prompt.MaxContextChars,
		ElementsSummary:     extracted.ElementsSummary(),
		InteractiveElements: extracted.InteractiveElements,
	}, nil
}

// normalizePages trims fields and drops blank keywords so stored records
// match exactly what the matcher will see.
func normalizePages(in []knowledge.PageRecord) []entity.PageRecord {
	pages := make([]entity.PageRecord, 0, len(in))
	for _, p := range in {
		keywords := make([]string, 0, len(p.Keywords))
		for _, keyword := range p.Keywords {
			if keyword = strings.TrimSpace(keyword); keyword != "" {
				keywords = append(keywords, keyword)
			}
		}
		pages = append(pages, entity.PageRecord{
			Intent:   strings.TrimSpace(p.Intent),
			URL:      strings.TrimSpace(p.URL),
			Keywords: keywords,
		})
	}
	return pages
}

func toPageDTOs(pages []entity.PageRecord) []knowledge.PageRecord {
	dtos := make([]knowledge.PageRecord, 0, len(pages))
	for _, p := range pages {
		keywords := p.Keywords
		if keywords == nil {
			keywords = []string{}
		}
		dtos = append(dtos, knowledge.PageRecord{
			Intent:   p.Intent,
			URL:      p.URL,
			Keywords: keywords,
		})
	}
	return dtos
}

package webpage

import (
	contextPkg "WidgetBackend/pkg/context"
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/unicode/norm"
)

const (
	DefaultTimeout       = 10 * time.Second
	DefaultMaxBodyBytes  = 5 * 1024 * 1024
	DefaultMinMainLength = 100
	DefaultUserAgent     = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

type IExtractor interface {
	Extract(ctx context.Context, rawURL string) ExtractedContext
}

type Config struct {
	Timeout       time.Duration
	UserAgent     string
	MaxBodyBytes  int64
	MinMainLength int

	// AllowPrivateNetworks lets the extractor reach loopback, private and
	// link-local addresses. Off outside local development.
	AllowPrivateNetworks bool
}

type extractor struct {
	log    *logrus.Logger
	client *http.Client
	config Config
}

func New(log *logrus.Logger, config Config) IExtractor {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.UserAgent == "" {
		config.UserAgent = DefaultUserAgent
	}
	if config.MaxBodyBytes <= 0 {
		config.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if config.MinMainLength <= 0 {
		config.MinMainLength = DefaultMinMainLength
	}

	dialer := &net.Dialer{
		Timeout:   5 * time.Second,
		KeepAlive: 30 * time.Second,
	}
	proxy := http.ProxyFromEnvironment
	if !config.AllowPrivateNetworks {
		// a proxy would hide the real target from the dial check
		dialer.Control = publicOnly
		proxy = nil
	}

	transport := &http.Transport{
		Proxy:               proxy,
		DialContext:         dialer.DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}

	return &extractor{
		log: log,
		client: &http.Client{
			Transport: transport,
			Timeout:   config.Timeout,
		},
		config: config,
	}
}

// Extract fetches rawURL once and returns its grounding context. Every
// failure is logged and turned into an empty context.
func (e *extractor) Extract(ctx context.Context, rawURL string) ExtractedContext {
	requestID := contextPkg.GetRequestID(ctx)
	start := time.Now()

	body, contentType, err := e.fetch(ctx, rawURL)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"url":        rawURL,
			"error":      err.Error(),
		}).Warn("Page fetch failed, continuing without page context")
		return emptyContext()
	}
	defer body.Close()

	reader, err := charset.NewReader(io.LimitReader(body, e.config.MaxBodyBytes), contentType)
	if err != nil {
		reader = io.LimitReader(body, e.config.MaxBodyBytes)
	}

	extracted, err := parse(reader, e.config.MinMainLength)
	if err != nil {
		e.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"url":        rawURL,
			"error":      err.Error(),
		}).Warn("Page parse failed, continuing without page context")
		return emptyContext()
	}

	e.log.WithFields(logrus.Fields{
		"request_id":    requestID,
		"url":           rawURL,
		"body_length":   utf8.RuneCountInString(extracted.BodyText),
		"elements":      len(extracted.InteractiveElements),
		"fetch_time_ms": time.Since(start).Milliseconds(),
	}).Debug("Page context extracted")

	return extracted
}

func (e *extractor) fetch(ctx context.Context, rawURL string) (io.ReadCloser, string, error) {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return nil, "", fmt.Errorf("invalid url %q", rawURL)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", e.config.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, "", err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		resp.Body.Close()
		return nil, "", fmt.Errorf("http status %d", resp.StatusCode)
	}

	return resp.Body, resp.Header.Get("Content-Type"), nil
}

// Parse extracts the grounding context from an HTML document.
func Parse(r io.Reader) (ExtractedContext, error) {
	return parse(r, DefaultMinMainLength)
}

func parse(r io.Reader, minMainLength int) (ExtractedContext, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return emptyContext(), err
	}

	doc.Find("script,noscript,style,template").Remove()

	text := collapseWhitespace(doc.Find("main").First().Text())
	if utf8.RuneCountInString(text) < minMainLength {
		text = collapseWhitespace(doc.Find("body").First().Text())
	}

	extracted := emptyContext()
	extracted.BodyText = norm.NFC.String(text)

	doc.Find("button").Each(func(_ int, s *goquery.Selection) {
		if label := collapseWhitespace(s.Text()); label != "" {
			extracted.InteractiveElements = append(extracted.InteractiveElements, InteractiveElement{
				Kind:  ElementButton,
				Label: label,
			})
		}
	})
	doc.Find("a").Each(func(_ int, s *goquery.Selection) {
		if label := collapseWhitespace(s.Text()); label != "" {
			extracted.InteractiveElements = append(extracted.InteractiveElements, InteractiveElement{
				Kind:  ElementLink,
				Label: label,
			})
		}
	})

	return extracted, nil
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

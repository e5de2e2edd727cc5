package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"github.com/noah-isme/sma-substitution-console/pkg/config"
	appErrors "github.com/noah-isme/sma-substitution-console/pkg/errors"
	"github.com/noah-isme/sma-substitution-console/pkg/middleware/requestid"
)

const (
	headerCSRF          = "X-CSRFToken"
	headerRequestedWith = "X-Requested-With"
	ajaxMarker          = "XMLHttpRequest"
	loginPath           = "/login"
	maxRedirects        = 10
)

type redirectTraceKey struct{}

// redirectTrace counts the hops the transport followed for one request.
type redirectTrace struct {
	hops int
}

func followRedirect(req *http.Request, via []*http.Request) error {
	if len(via) >= maxRedirects {
		return fmt.Errorf("stopped after %d redirects", maxRedirects)
	}
	if trace, ok := req.Context().Value(redirectTraceKey{}).(*redirectTrace); ok {
		trace.hops++
	}
	return nil
}

// PortalObserver receives timings for every outbound portal call.
type PortalObserver interface {
	ObservePortalRequest(method, route string, status int, duration time.Duration)
}

// PortalResponse is a drained portal reply.
type PortalResponse struct {
	StatusCode  int
	ContentType string
	// FinalURL is where the transport ended after following redirects.
	FinalURL *url.URL
	// Redirected is set when at least one hop was followed, even back to the same URL.
	Redirected bool
	Body       []byte
}

// IsJSON reports whether the reply declared a JSON body.
func (r *PortalResponse) IsJSON() bool {
	mediaType, _, err := mime.ParseMediaType(r.ContentType)
	if err != nil {
		return strings.Contains(r.ContentType, "application/json")
	}
	return mediaType == "application/json"
}

// PortalClient is a cookie-holding HTTP client bound to one portal base URL.
type PortalClient struct {
	base     *url.URL
	http     *http.Client
	cfg      config.PortalConfig
	observer PortalObserver
	logger   *zap.Logger
}

// NewPortalClient builds a client with its own cookie jar so the portal session survives
// between calls.
func NewPortalClient(cfg config.PortalConfig, observer PortalObserver, logger *zap.Logger) (*PortalClient, error) {
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("invalid portal base url %q", cfg.BaseURL)
	}
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PortalClient{
		base:     base,
		http:     &http.Client{Timeout: cfg.Timeout, Jar: jar, CheckRedirect: followRedirect},
		cfg:      cfg,
		observer: observer,
		logger:   logger,
	}, nil
}

// URL resolves a portal-relative path (with optional query) against the base URL.
func (c *PortalClient) URL(path string) *url.URL {
	ref, err := url.Parse(path)
	if err != nil {
		return c.base.JoinPath(path)
	}
	return c.base.ResolveReference(ref)
}

// RelativePath strips the portal origin from u so callers can present "/admin/..." paths.
func (c *PortalClient) RelativePath(u *url.URL) string {
	if u == nil {
		return ""
	}
	if u.Host != "" && u.Host != c.base.Host {
		return u.String()
	}
	rel := u.EscapedPath()
	if u.RawQuery != "" {
		rel += "?" + u.RawQuery
	}
	return rel
}

// Login posts the portal's login form. The session cookie is kept in the jar.
func (c *PortalClient) Login(ctx context.Context, email, password string) error {
	doc, _, err := c.GetPage(ctx, loginPath)
	if err != nil {
		return err
	}
	form := url.Values{}
	form.Set("email", email)
	form.Set("password", password)
	if token := csrfToken(doc); token != "" {
		form.Set("csrf_token", token)
	}
	resp, err := c.PostForm(ctx, loginPath, form, nil)
	if err != nil {
		return err
	}
	if resp.FinalURL != nil && strings.HasSuffix(resp.FinalURL.Path, loginPath) {
		return appErrors.Clone(appErrors.ErrPortalUnauthorized, "portal rejected the supplied credentials")
	}
	c.logger.Info("portal login succeeded", zap.String("landing", c.RelativePath(resp.FinalURL)))
	return nil
}

// Ping checks that the portal answers at all. Any reply below 500 counts as reachable.
func (c *PortalClient) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, loginPath, nil)
	if err != nil {
		return err
	}
	resp, err := c.do(req, loginPath)
	if err != nil {
		return err
	}
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("portal unhealthy: status %d", resp.StatusCode)
	}
	return nil
}

// GetPage fetches and parses an HTML page. Landing on the login page means the session is
// missing or expired.
func (c *PortalClient) GetPage(ctx context.Context, path string) (*html.Node, *PortalResponse, error) {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, nil, err
	}
	resp, err := c.do(req, routeLabel(path))
	if err != nil {
		return nil, nil, err
	}
	if path != loginPath {
		if err := sessionLost(resp); err != nil {
			return nil, resp, err
		}
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return nil, resp, fmt.Errorf("get %s: unexpected status %d", path, resp.StatusCode)
	}
	doc, err := parseHTML(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, resp, err
	}
	return doc, resp, nil
}

// CSRFToken loads page and returns its anti-forgery token.
func (c *PortalClient) CSRFToken(ctx context.Context, page string) (string, error) {
	doc, _, err := c.GetPage(ctx, page)
	if err != nil {
		return "", err
	}
	token := csrfToken(doc)
	if token == "" {
		c.logger.Warn("page carries no csrf token", zap.String("page", page))
	}
	return token, nil
}

// GetJSON fetches path and decodes the JSON body into dest.
func (c *PortalClient) GetJSON(ctx context.Context, path string, dest interface{}) error {
	req, err := c.newRequest(ctx, http.MethodGet, path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.do(req, routeLabel(path))
	if err != nil {
		return err
	}
	if err := sessionLost(resp); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// PostJSON sends body as JSON with the anti-forgery header and decodes the portal envelope.
func (c *PortalClient) PostJSON(ctx context.Context, path string, body interface{}, csrf string, dest interface{}) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s body: %w", path, err)
		}
		reader = bytes.NewReader(payload)
	}
	req, err := c.newRequest(ctx, http.MethodPost, path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set(headerCSRF, csrf)
	resp, err := c.do(req, routeLabel(path))
	if err != nil {
		return err
	}
	if err := sessionLost(resp); err != nil {
		return err
	}
	if err := json.Unmarshal(resp.Body, dest); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

// PostForm sends a url-encoded form. Extra headers are applied as given.
func (c *PortalClient) PostForm(ctx context.Context, path string, form url.Values, headers http.Header) (*PortalResponse, error) {
	req, err := c.newRequest(ctx, http.MethodPost, path, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for key, values := range headers {
		for _, v := range values {
			req.Header.Add(key, v)
		}
	}
	return c.do(req, routeLabel(path))
}

func (c *PortalClient) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.URL(path).String(), body)
	if err != nil {
		return nil, fmt.Errorf("build %s %s: %w", method, path, err)
	}
	if c.cfg.UserAgent != "" {
		req.Header.Set("User-Agent", c.cfg.UserAgent)
	}
	if id := requestid.FromContext(ctx); id != "" {
		req.Header.Set(requestid.HeaderKey, id)
	}
	return req, nil
}

// sessionLost maps a 401/403 or a bounce to the login page onto PORTAL_UNAUTHORIZED.
func sessionLost(resp *PortalResponse) error {
	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden {
		return appErrors.ErrPortalUnauthorized
	}
	if resp.Redirected && resp.FinalURL != nil && strings.HasSuffix(resp.FinalURL.Path, loginPath) {
		return appErrors.ErrPortalUnauthorized
	}
	return nil
}

func (c *PortalClient) do(req *http.Request, route string) (*PortalResponse, error) {
	trace := &redirectTrace{}
	req = req.WithContext(context.WithValue(req.Context(), redirectTraceKey{}, trace))
	start := time.Now()
	resp, err := c.http.Do(req)
	duration := time.Since(start)

	status := http.StatusServiceUnavailable
	if resp != nil {
		status = resp.StatusCode
	}
	if c.observer != nil {
		c.observer.ObservePortalRequest(req.Method, route, status, duration)
	}
	if err != nil {
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Timeout() {
			return nil, fmt.Errorf("%s %s timed out: %w", req.Method, route, err)
		}
		return nil, fmt.Errorf("%s %s: %w", req.Method, route, err)
	}
	defer resp.Body.Close() //nolint:errcheck

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s body: %w", route, err)
	}

	final := resp.Request.URL
	c.logger.Debug("portal request",
		zap.String("method", req.Method),
		zap.String("route", route),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", duration),
	)
	return &PortalResponse{
		StatusCode:  resp.StatusCode,
		ContentType: resp.Header.Get("Content-Type"),
		FinalURL:    final,
		Redirected:  trace.hops > 0,
		Body:        body,
	}, nil
}

// routeLabel keeps metric cardinality low by dropping numeric ids and query strings.
func routeLabel(path string) string {
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	parts := strings.Split(path, "/")
	for i, p := range parts {
		if p != "" && strings.Trim(p, "0123456789") == "" {
			parts[i] = ":id"
		}
	}
	return strings.Join(parts, "/")
}

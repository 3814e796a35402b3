package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	graphql "github.com/hasura/go-graphql-client"
	"golang.org/x/time/rate"

	"monday-export/internal/models"
)

const (
	DefaultURL     = "https://api.monday.com/v2"
	DefaultTimeout = 30 * time.Second

	maxErrorBodyBytes = 4096
	maxDetailLength   = 1024
)

// Options configures a Client.
type Options struct {
	URL        string
	Token      string
	APIVersion string
	UserAgent  string
	Timeout    time.Duration
	PageSize   int
	// RequestsPerSecond paces requests client-side; zero disables pacing.
	RequestsPerSecond float64
}

// Client is a GraphQL client for the board API. It issues one request at a
// time and must be closed when the export finishes.
type Client struct {
	gql      *graphql.Client
	http     *http.Client
	timeout  time.Duration
	pageSize int
	limiter  *rate.Limiter
}

// NewClient creates a new API client.
func NewClient(opts Options) *Client {
	url := strings.TrimRight(strings.TrimSpace(opts.URL), "/")
	if url == "" {
		url = DefaultURL
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	pageSize := opts.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}

	transport := &authTransport{
		token:      opts.Token,
		userAgent:  opts.UserAgent,
		apiVersion: opts.APIVersion,
		base:       http.DefaultTransport.(*http.Transport).Clone(),
	}
	httpClient := &http.Client{Transport: transport}

	return &Client{
		gql:      graphql.NewClient(url, httpClient),
		http:     httpClient,
		timeout:  timeout,
		pageSize: pageSize,
		limiter:  rate.NewLimiter(limit, 1),
	}
}

// Close releases pooled connections.
func (c *Client) Close() {
	if c == nil || c.http == nil {
		return
	}
	c.http.CloseIdleConnections()
}

// FetchBoard loads board metadata and every item page.
func (c *Client) FetchBoard(ctx context.Context, boardID string, includeSubitems bool) (models.Board, error) {
	return FetchBoard(ctx, c, boardID, FetchOptions{
		PageSize:        c.pageSize,
		IncludeSubitems: includeSubitems,
	})
}

// Execute runs one GraphQL operation and decodes its data object into out.
func (c *Client) Execute(ctx context.Context, query string, variables map[string]any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &RemoteRequestError{Detail: "request not sent", Err: err}
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	outcome := &requestOutcome{}
	raw, err := c.gql.ExecRaw(withOutcome(reqCtx, outcome), query, variables)

	if outcome.failed {
		return &RemoteRequestError{Status: outcome.status, Detail: bodyDetail(outcome.body), Err: err}
	}
	if outcome.err != nil || (err != nil && reqCtx.Err() != nil) {
		cause := outcome.err
		if errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			return &RemoteRequestError{
				Detail: fmt.Sprintf("request timed out after %s", c.timeout),
				Err:    context.DeadlineExceeded,
			}
		}
		if cause == nil {
			cause = err
		}
		return &RemoteRequestError{Detail: cause.Error(), Err: cause}
	}
	if err != nil {
		return &RemoteRequestError{Status: outcome.status, Detail: graphQLDetail(err), Err: err}
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return &RemoteRequestError{Status: outcome.status, Detail: "decode response: " + err.Error(), Err: err}
	}
	return nil
}

func graphQLDetail(err error) string {
	var gqlErrs graphql.Errors
	if !errors.As(err, &gqlErrs) || len(gqlErrs) == 0 {
		return truncate(err.Error())
	}

	messages := make([]string, 0, len(gqlErrs))
	for _, e := range gqlErrs {
		switch clientErrorCode(e) {
		case "":
			messages = append(messages, e.Message)
		case graphql.ErrJsonDecode:
			return truncate("decode response: " + e.Message)
		default:
			return truncate(e.Message)
		}
	}
	return truncate("api returned errors: " + strings.Join(messages, "; "))
}

// clientErrorCode reports the code the GraphQL client attaches to errors it
// raised itself, such as an unparseable response body. Server errors have none.
func clientErrorCode(e graphql.Error) string {
	code, _ := e.Extensions["code"].(string)
	switch code {
	case graphql.ErrRequestError, graphql.ErrJsonEncode, graphql.ErrJsonDecode,
		graphql.ErrGraphQLEncode, graphql.ErrGraphQLDecode, graphql.ErrGraphQLExtensionsDecode:
		return code
	}
	return ""
}

// bodyDetail prefers a compact JSON rendering of the response body and falls
// back to its raw text.
func bodyDetail(body []byte) string {
	body = bytes.TrimSpace(body)
	if len(body) == 0 {
		return ""
	}
	var compact bytes.Buffer
	if err := json.Compact(&compact, body); err == nil {
		return truncate(compact.String())
	}
	return truncate(string(body))
}

func truncate(s string) string {
	if len(s) <= maxDetailLength {
		return s
	}
	return s[:maxDetailLength] + "..."
}

type outcomeKey struct{}

// requestOutcome records what the transport saw for a single request, since
// the GraphQL client does not expose HTTP status codes on failure.
type requestOutcome struct {
	status int
	failed bool
	body   []byte
	err    error
}

func withOutcome(ctx context.Context, outcome *requestOutcome) context.Context {
	return context.WithValue(ctx, outcomeKey{}, outcome)
}

type authTransport struct {
	token      string
	userAgent  string
	apiVersion string
	base       http.RoundTripper
}

func (t *authTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	if t.token != "" {
		req.Header.Set("Authorization", "Bearer "+t.token)
	}
	if t.userAgent != "" {
		req.Header.Set("User-Agent", t.userAgent)
	}
	if t.apiVersion != "" {
		req.Header.Set("API-Version", t.apiVersion)
	}

	outcome, _ := req.Context().Value(outcomeKey{}).(*requestOutcome)
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	fields := []any{
		"method", req.Method,
		"host", req.URL.Host,
		"duration_ms", time.Since(start).Milliseconds(),
	}
	if err != nil {
		slog.Debug("request failed", append(fields, "error", err)...)
		if outcome != nil {
			outcome.err = err
		}
		return nil, err
	}
	fields = append(fields, "status", resp.StatusCode)
	if resp.StatusCode >= 500 {
		slog.Warn("request complete", fields...)
	} else {
		slog.Debug("request complete", fields...)
	}
	if outcome == nil {
		return resp, nil
	}

	outcome.status = resp.StatusCode
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		_ = resp.Body.Close()
		outcome.failed = true
		outcome.body = body
		resp.Body = io.NopCloser(bytes.NewReader(body))
	}
	return resp, nil
}

func (t *authTransport) CloseIdleConnections() {
	type idleCloser interface{ CloseIdleConnections() }
	if closer, ok := t.base.(idleCloser); ok {
		closer.CloseIdleConnections()
	}
}

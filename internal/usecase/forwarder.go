package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/vitos/faucet_gateway/internal/domain"
	"github.com/vitos/faucet_gateway/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

const (
	RouteAPI   = "api"
	RouteClaim = "claim"

	backendFailedMsg = "Backend connection failed"
	jsonContentType  = "application/json"
)

// Headers never copied to the backend. The hop-by-hop set follows RFC 7230 section 6.1;
// Accept-Encoding is dropped so the transport negotiates and decodes compression itself.
var droppedHeaders = []string{
	"Connection",
	"Proxy-Connection",
	"Keep-Alive",
	"Proxy-Authenticate",
	"Proxy-Authorization",
	"Te",
	"Trailer",
	"Transfer-Encoding",
	"Upgrade",
	"Host",
	"Content-Length",
	"Cookie",
	"Accept-Encoding",
}

// Forwarder relays /api/* requests to the faucet backend. It keeps no state
// between requests and never retries.
type Forwarder struct {
	backendURL      string
	claimBackendURL string
	client          *http.Client
	claims          domain.ClaimRepository
	metrics         *metrics.Metrics
	logger          *zap.Logger
	timeNow         func() time.Time // For testing
}

type ForwarderOption func(*Forwarder)

func WithHTTPClient(c *http.Client) ForwarderOption {
	return func(f *Forwarder) {
		if c != nil {
			f.client = c
		}
	}
}

func WithClaimRepository(repo domain.ClaimRepository) ForwarderOption {
	return func(f *Forwarder) {
		f.claims = repo
	}
}

func WithRelayMetrics(m *metrics.Metrics) ForwarderOption {
	return func(f *Forwarder) {
		f.metrics = m
	}
}

// NewForwarder builds a relay. The default client has no timeout; the inbound
// request context is the only bound on a backend call.
func NewForwarder(backendURL, claimBackendURL string, logger *zap.Logger, opts ...ForwarderOption) *Forwarder {
	f := &Forwarder{
		backendURL:      strings.TrimRight(backendURL, "/"),
		claimBackendURL: strings.TrimRight(claimBackendURL, "/"),
		client:          &http.Client{},
		logger:          logger,
		timeNow:         time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// TargetURL maps an inbound /api/ path and raw query onto the backend.
func (f *Forwarder) TargetURL(path, rawQuery string) string {
	target := f.backendURL + strings.Replace(path, "/api/", "/", 1)
	if rawQuery != "" {
		target += "?" + rawQuery
	}
	return target
}

func (f *Forwarder) ClaimURL(address string) string {
	return f.claimBackendURL + "/claim/" + url.PathEscape(address)
}

// Forward relays req to the backend with the /api/ prefix stripped.
func (f *Forwarder) Forward(ctx context.Context, req *domain.RelayRequest) *domain.RelayResponse {
	target := f.TargetURL(req.Path, req.RawQuery)
	start := f.timeNow()

	resp, err := f.send(ctx, req, target, filterHeaders(req.Header))
	if err != nil {
		f.logger.Error("Backend request failed",
			zap.String("request_id", req.ID),
			zap.String("method", req.Method),
			zap.String("target", target),
			zap.Error(err))
		resp = failureResponse(err, "")
	}
	f.metrics.ObserveRelay(RouteAPI, resp.StatusCode, f.timeNow().Sub(start))
	return resp
}

// ForwardClaim relays a claim for address. The backend always sees a JSON content
// type and the caller always gets one back.
func (f *Forwarder) ForwardClaim(ctx context.Context, req *domain.RelayRequest, address string) *domain.RelayResponse {
	target := f.ClaimURL(address)
	start := f.timeNow()

	header := filterHeaders(req.Header)
	header.Set("Content-Type", jsonContentType)

	resp, err := f.send(ctx, req, target, header)
	if err != nil {
		f.logger.Error("Claim backend request failed",
			zap.String("request_id", req.ID),
			zap.String("address", address),
			zap.String("backend", target),
			zap.Error(err))
		resp = failureResponse(err, target)
	} else {
		resp.ContentType = jsonContentType
		f.logger.Info("Claim relayed",
			zap.String("request_id", req.ID),
			zap.String("address", address),
			zap.Int("status", resp.StatusCode))
	}
	f.metrics.ObserveRelay(RouteClaim, resp.StatusCode, f.timeNow().Sub(start))
	f.recordClaim(ctx, address, target, resp.StatusCode, err)
	return resp
}

func (f *Forwarder) send(ctx context.Context, req *domain.RelayRequest, target string, header http.Header) (*domain.RelayResponse, error) {
	var body io.Reader
	if req.Method != http.MethodGet && req.Method != http.MethodHead {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method, target, body)
	if err != nil {
		return nil, err
	}
	httpReq.Header = header

	resp, err := f.client.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read backend response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = jsonContentType
	}

	return &domain.RelayResponse{
		StatusCode:  resp.StatusCode,
		StatusText:  statusText(resp),
		ContentType: contentType,
		Body:        respBody,
	}, nil
}

func (f *Forwarder) recordClaim(ctx context.Context, address, target string, status int, relayErr error) {
	if f.claims == nil {
		return
	}
	rec := &domain.ClaimRecord{
		Address:    address,
		Backend:    target,
		StatusCode: status,
		CreatedAt:  f.timeNow(),
	}
	if relayErr != nil {
		rec.Error = relayErr.Error()
	}
	// the caller may already be gone; the audit row is still wanted
	if err := f.claims.SaveClaim(context.WithoutCancel(ctx), rec); err != nil {
		f.logger.Error("Failed to save claim record", zap.String("address", address), zap.Error(err))
	}
}

func failureResponse(err error, backend string) *domain.RelayResponse {
	body, _ := json.Marshal(domain.RelayError{
		Error:   backendFailedMsg,
		Message: err.Error(),
		Backend: backend,
	})
	return &domain.RelayResponse{
		StatusCode:  http.StatusBadGateway,
		StatusText:  http.StatusText(http.StatusBadGateway),
		ContentType: jsonContentType,
		Body:        body,
	}
}

// statusText extracts the reason phrase from resp.Status ("200 OK" -> "OK").
func statusText(resp *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(resp.Status, strconv.Itoa(resp.StatusCode)))
	if text == "" {
		return http.StatusText(resp.StatusCode)
	}
	return text
}

func filterHeaders(in http.Header) http.Header {
	out := in.Clone()
	if out == nil {
		return make(http.Header)
	}
	for _, v := range in["Connection"] {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				out.Del(name)
			}
		}
	}
	for _, h := range droppedHeaders {
		out.Del(h)
	}
	return out
}

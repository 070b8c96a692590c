package gamefeed

import (
	"context"
	"log/slog"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"

	"github.com/matchdayhq/matchday/internal/domain/game"
	"github.com/matchdayhq/matchday/internal/platform/resilience"
)

var errWebhookTransient = crerr.New("webhook transient failure")

// WebhookConfig configures the outbound feed forwarder. A league site or
// live-score integration receives every envelope as a JSON POST.
type WebhookConfig struct {
	URL            string
	Secret         string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// WebhookForwarder pushes feed envelopes to an external endpoint. Delivery
// is best effort behind a circuit breaker: the feed must never stall a
// lineup mutation because an integration is down.
type WebhookForwarder struct {
	client         *fasthttp.Client
	url            string
	secret         string
	timeout        time.Duration
	logger         *slog.Logger
	breaker        *resilience.CircuitBreaker
	circuitEnabled bool
}

func NewWebhookForwarder(cfg WebhookConfig, logger *slog.Logger) *WebhookForwarder {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	breakerCfg := resilience.NormalizeCircuitBreakerConfig(cfg.CircuitBreaker)

	return &WebhookForwarder{
		client:         &fasthttp.Client{},
		url:            strings.TrimSpace(cfg.URL),
		secret:         strings.TrimSpace(cfg.Secret),
		timeout:        timeout,
		logger:         logger,
		breaker:        resilience.NewCircuitBreaker(breakerCfg.FailureThreshold, breakerCfg.OpenTimeout, breakerCfg.HalfOpenMaxReq),
		circuitEnabled: breakerCfg.Enabled,
	}
}

// Handle implements the broker Handler signature.
func (f *WebhookForwarder) Handle(ctx context.Context, env game.FeedEnvelope) {
	if f.url == "" {
		return
	}
	if err := f.forward(ctx, env); err != nil {
		f.logger.WarnContext(ctx, "webhook delivery failed",
			slog.String("gameID", env.GameID), slog.String("action", string(env.Action)),
			slog.Any("error", err))
	}
}

func (f *WebhookForwarder) forward(ctx context.Context, env game.FeedEnvelope) error {
	if f.circuitEnabled {
		if err := f.breaker.Allow(); err != nil {
			return crerr.Wrap(err, "webhook circuit open")
		}
	}

	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	body, err := sonic.Marshal(env)
	if err != nil {
		return crerr.Wrap(err, "marshal feed envelope")
	}
	_, _ = buf.Write(body)

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(f.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if f.secret != "" {
		req.Header.Set("X-Webhook-Secret", f.secret)
	}
	req.SetBody(buf.Bytes())

	if err := f.client.DoTimeout(req, resp, f.timeout); err != nil {
		callErr := crerr.Wrapf(errWebhookTransient, "post feed envelope url=%s: %v", f.url, err)
		f.recordCircuitResult(callErr)
		return callErr
	}

	status := resp.StatusCode()
	if status/100 != 2 {
		callErr := crerr.Wrapf(errWebhookTransient, "post feed envelope status=%d url=%s", status, f.url)
		f.recordCircuitResult(callErr)
		return callErr
	}

	f.recordCircuitResult(nil)
	return nil
}

func (f *WebhookForwarder) recordCircuitResult(err error) {
	if !f.circuitEnabled || f.breaker == nil {
		return
	}
	if err == nil {
		f.breaker.RecordSuccess()
		return
	}
	if crerr.Is(err, errWebhookTransient) {
		f.breaker.RecordFailure()
		return
	}
	f.breaker.RecordSuccess()
}

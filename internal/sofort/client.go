package sofort

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Transport executes one blocking POST against the gateway. Connection
// management, retries and TLS live behind this boundary, not in the core.
type Transport interface {
	Post(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error)
}

// HTTPTransport is the production Transport over net/http.
type HTTPTransport struct {
	client *http.Client
	logger *zap.Logger
}

func NewHTTPTransport(timeout time.Duration, logger *zap.Logger) *HTTPTransport {
	return &HTTPTransport{
		client: &http.Client{Timeout: timeout},
		logger: logger,
	}
}

// Post sends the request and returns the raw response body. Non-2xx responses
// still return their body: the gateway delivers structured errors with error
// status codes, and the parser decides what they mean.
func (t *HTTPTransport) Post(ctx context.Context, url string, headers map[string]string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	start := time.Now()
	res, err := t.client.Do(req)
	if err != nil {
		t.logger.Warn("gateway request failed",
			zap.String("url", url),
			zap.Duration("elapsed", time.Since(start)),
			zap.Error(err))
		return nil, err
	}
	defer res.Body.Close()

	out, err := io.ReadAll(res.Body)
	if err != nil {
		t.logger.Warn("gateway response read failed", zap.String("url", url), zap.Error(err))
		return nil, err
	}
	t.logger.Debug("gateway request done",
		zap.String("url", url),
		zap.Int("status", res.StatusCode),
		zap.Int("bytes", len(out)),
		zap.Duration("elapsed", time.Since(start)))
	return out, nil
}

package service

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"time"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
	"golang.org/x/time/rate"

	deliveryDomain "github.com/allisson/coursehook/internal/delivery/domain"
)

// Webhook request headers.
const (
	HeaderCourse    = "X-Coursehook-Course"
	HeaderDelivery  = "X-Coursehook-Delivery"
	HeaderTimestamp = "X-Coursehook-Timestamp"
	HeaderSignature = "X-Coursehook-Signature"
)

// maxDrainBytes bounds how much of a response body is read before closing it.
const maxDrainBytes = 64 << 10

// WebhookSenderConfig configures a WebhookSender.
type WebhookSenderConfig struct {
	// Timeout bounds the whole request, including reading response headers.
	Timeout time.Duration
	// Compress gzips request bodies and sets Content-Encoding.
	Compress bool
	// RateLimitPerSec limits outbound requests across all courses (0 disables).
	RateLimitPerSec float64
	// RateLimitBurst is the limiter burst size.
	RateLimitBurst int
	// UserAgent is sent with every request.
	UserAgent string
}

// WebhookSender posts delivery batches as JSON arrays over HTTP.
type WebhookSender struct {
	client    *http.Client
	signer    *Signer
	compress  bool
	limiter   *rate.Limiter
	userAgent string
	now       func() time.Time
}

// Send posts the delivery records to url. A non-2xx status, a network error or a
// timeout is returned as *DeliveryError.
func (w *WebhookSender) Send(ctx context.Context, url string, delivery *deliveryDomain.Delivery) error {
	body, err := json.Marshal(delivery.Records)
	if err != nil {
		return err
	}

	if w.limiter != nil {
		if err := w.limiter.Wait(ctx); err != nil {
			return &deliveryDomain.DeliveryError{Err: err}
		}
	}

	timestamp := w.now().Unix()

	payload := body
	if w.compress {
		payload, err = gzipBytes(body)
		if err != nil {
			return err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return &deliveryDomain.DeliveryError{Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", w.userAgent)
	req.Header.Set(HeaderCourse, delivery.CourseID)
	req.Header.Set(HeaderDelivery, delivery.ID.String())
	req.Header.Set(HeaderTimestamp, strconv.FormatInt(timestamp, 10))
	if w.compress {
		req.Header.Set("Content-Encoding", "gzip")
	}
	if w.signer != nil {
		// Signed over the uncompressed JSON body.
		signature, err := w.signer.Sign(delivery.CourseID, timestamp, body)
		if err != nil {
			return err
		}
		req.Header.Set(HeaderSignature, signature)
	}

	resp, err := w.client.Do(req)
	if err != nil {
		return &deliveryDomain.DeliveryError{Err: err}
	}
	defer func() {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxDrainBytes))
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &deliveryDomain.DeliveryError{StatusCode: resp.StatusCode}
	}
	return nil
}

func gzipBytes(data []byte) ([]byte, error) {
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	if _, err := gz.Write(data); err != nil {
		_ = gz.Close()
		return nil, err
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NewWebhookSender creates a WebhookSender. signer may be nil to send unsigned requests.
func NewWebhookSender(cfg WebhookSenderConfig, signer *Signer) *WebhookSender {
	var limiter *rate.Limiter
	if cfg.RateLimitPerSec > 0 {
		burst := cfg.RateLimitBurst
		if burst <= 0 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitPerSec), burst)
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = "coursehook"
	}

	return &WebhookSender{
		client:    &http.Client{Timeout: cfg.Timeout},
		signer:    signer,
		compress:  cfg.Compress,
		limiter:   limiter,
		userAgent: userAgent,
		now:       time.Now,
	}
}

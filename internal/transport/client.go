// Package transport submits a finished order to the upload endpoint as
// one multipart request and decodes the echoed summary.
package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"photo-print-orders/internal/common"
	"photo-print-orders/internal/models"
	"photo-print-orders/internal/pricing"
)

// Sender is the submission boundary the order engine depends on.
type Sender interface {
	Send(ctx context.Context, snapshot models.OrderSnapshot) (*models.OrderConfirmation, error)
}

type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

func NewClient(baseURL string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		logger: logger,
	}
}

// Send posts the snapshot to POST {base}/upload. Failures are reported as
// common.ErrNetwork (connectivity), common.ErrServer (non-2xx) or
// common.ErrMalformedResponse (undecodable body); the distinction matters
// only for logging, callers treat all three as "submission failed".
func (c *Client) Send(ctx context.Context, snapshot models.OrderSnapshot) (*models.OrderConfirmation, error) {
	body, contentType, err := buildPayload(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to build payload: %w", err)
	}

	url := strings.TrimSuffix(c.baseURL, "/") + "/upload"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("order submission failed", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("order submission failed reading response", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", common.ErrNetwork, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.logger.Warn("order submission rejected",
			zap.Int("status", resp.StatusCode),
			zap.ByteString("body", respBody))
		return nil, fmt.Errorf("%w: status %d", common.ErrServer, resp.StatusCode)
	}

	var confirmation models.OrderConfirmation
	if err := json.Unmarshal(respBody, &confirmation); err != nil {
		c.logger.Warn("order confirmation undecodable", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", common.ErrMalformedResponse, err)
	}

	return &confirmation, nil
}

// buildPayload serializes the snapshot into one multipart body: repeated
// "images" file parts, one photoMeta[i] JSON part per photo, then the
// customer fields and the grand total as text parts.
func buildPayload(snapshot models.OrderSnapshot) (*bytes.Buffer, string, error) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for i, line := range snapshot.Lines {
		part, err := writer.CreateFormFile("images", line.Name)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(snapshot.Content[line.ID]); err != nil {
			return nil, "", err
		}

		meta, err := json.Marshal(line)
		if err != nil {
			return nil, "", err
		}
		if err := writer.WriteField(fmt.Sprintf("photoMeta[%d]", i), string(meta)); err != nil {
			return nil, "", err
		}
	}

	if err := writer.WriteField("customerName", snapshot.Customer.Name); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("customerEmail", snapshot.Customer.Email); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("customerPhone", snapshot.Customer.Phone); err != nil {
		return nil, "", err
	}
	if err := writer.WriteField("totalPrice", pricing.FormatAmount(snapshot.TotalPrice)); err != nil {
		return nil, "", err
	}

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}

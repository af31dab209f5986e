package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/t77yq/reqsched/internal/model"
)

const defaultTimeout = 10 * time.Second

// HTTPRequestHandler issues the GET request for a fired task. It implements
// the dispatcher's Requester interface.
type HTTPRequestHandler struct {
	logger     *zap.Logger
	httpClient *http.Client
	userAgent  string
}

// NewHTTPRequestHandler creates a new HTTP request handler. The timeout bounds
// each request so a hung response never blocks sibling tasks. Some targets
// (ifconfig.co among them) refuse requests without a browser user agent, so
// userAgent is sent on every request when non-empty.
func NewHTTPRequestHandler(logger *zap.Logger, timeout time.Duration, userAgent string) *HTTPRequestHandler {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &HTTPRequestHandler{
		logger: logger,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		userAgent: userAgent,
	}
}

// Execute performs the HTTP GET request
func (h *HTTPRequestHandler) Execute(ctx context.Context, task *model.RequestTask) (*model.TaskResult, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, task.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if h.userAgent != "" {
		req.Header.Set("User-Agent", h.userAgent)
	}

	h.logger.Debug("Executing HTTP request",
		zap.String("task_id", task.ID),
		zap.String("url", task.URL))

	resp, err := h.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	result := &model.TaskResult{
		TaskID:      task.ID,
		Status:      model.TaskStatusCompleted,
		StatusCode:  resp.StatusCode,
		Body:        body,
		CompletedAt: time.Now(),
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		result.Status = model.TaskStatusFailed
		result.Error = fmt.Sprintf("HTTP request failed with status: %d", resp.StatusCode)
	}

	return result, nil
}

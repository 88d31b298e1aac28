package kitchen

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pos/backend/internal/domain/integration"
	"github.com/pos/backend/internal/infrastructure/config"
)

// HTTPDispatcher implements integration.KitchenDispatcher by posting the
// order to the kitchen display service. Callers guard at-most-once with
// the kitchen ticket table; this adapter fires exactly what it is told.
type HTTPDispatcher struct {
	dispatchURL string
	httpClient  *http.Client
	logger      *zap.Logger
}

// NewHTTPDispatcher creates a kitchen dispatch adapter
func NewHTTPDispatcher(cfg config.KitchenConfig, logger *zap.Logger) *HTTPDispatcher {
	return &HTTPDispatcher{
		dispatchURL: cfg.DispatchURL,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger.Named("kitchen"),
	}
}

type dispatchRequest struct {
	OrderID string `json:"order_id"`
}

// Dispatch sends the order to the kitchen display service
func (d *HTTPDispatcher) Dispatch(ctx context.Context, orderID uuid.UUID) error {
	payload, err := json.Marshal(dispatchRequest{OrderID: orderID.String()})
	if err != nil {
		return fmt.Errorf("encode dispatch request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, d.dispatchURL, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("build dispatch request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("dispatch order %s: %w", orderID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("dispatch order %s: status %d", orderID, resp.StatusCode)
	}

	d.logger.Info("order dispatched to kitchen", zap.String("order_id", orderID.String()))
	return nil
}

// Ensure HTTPDispatcher implements the dispatcher port
var _ integration.KitchenDispatcher = (*HTTPDispatcher)(nil)

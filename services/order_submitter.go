package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/utils"
)

// OrderSubmitter posts orders to the external form-ingestion endpoint.
//
// The endpoint gives no usable acknowledgement, so the response status and
// body are discarded unread and only a transport error counts as failure.
// This is a weak delivery guarantee: an order rejected by the endpoint still
// looks placed to the customer.
type OrderSubmitter struct {
	endpoint   string
	httpClient *http.Client
}

func NewOrderSubmitter(endpoint string, client *http.Client) *OrderSubmitter {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &OrderSubmitter{endpoint: endpoint, httpClient: client}
}

func (s *OrderSubmitter) Submit(ctx context.Context, order models.Order) error {
	body, err := json.Marshal(models.OrderEnvelope{
		FunctionName: models.ProcessOrderFunction,
		OrderData:    order,
	})
	if err != nil {
		return fmt.Errorf("error marshaling order: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("error creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("error making request: %w", err)
	}
	// Response is opaque; drain so the connection can be reused.
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	utils.Info().WithField("reference", order.Reference).Debugf("Order endpoint answered %d", resp.StatusCode)
	return nil
}

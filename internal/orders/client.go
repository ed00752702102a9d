package orders

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"example.com/storefront/internal/checkout"
)

// FunctionPath is where the order-placement function is served.
const FunctionPath = "/functions/place-order"

// FunctionClient calls a remote order-placement function over HTTP.
type FunctionClient struct {
	baseURL    string
	httpClient *http.Client
}

// NewFunctionClient targets baseURL, e.g. "http://orders.internal:8080".
func NewFunctionClient(baseURL string) *FunctionClient {
	return &FunctionClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// PlaceOrder posts req. Business rejections arrive as a 200 body with an
// error field; any other status is a transport failure.
func (c *FunctionClient) PlaceOrder(ctx context.Context, req checkout.OrderRequest) (checkout.OrderResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return checkout.OrderResult{}, fmt.Errorf("encode order request: %w", err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+FunctionPath, bytes.NewReader(body))
	if err != nil {
		return checkout.OrderResult{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return checkout.OrderResult{}, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return checkout.OrderResult{}, fmt.Errorf("place order: function returned %s", resp.Status)
	}
	var result checkout.OrderResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return checkout.OrderResult{}, fmt.Errorf("decode order result: %w", err)
	}
	return result, nil
}

package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/qmenu/selforder-api/internal/config"
	"github.com/qmenu/selforder-api/internal/domain/entity"
	domainRepo "github.com/qmenu/selforder-api/internal/domain/repository"
	"github.com/qmenu/selforder-api/pkg/apperror"
	"go.uber.org/zap"
)

// Client talks GraphQL-over-HTTP to the upstream ordering platform. It is
// the only component allowed to create committed orders; everything it
// returns is authoritative, including totals.
type Client struct {
	url        string
	apiKey     string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient creates an upstream client from config.
func NewClient(cfg *config.UpstreamConfig, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Client{
		url:        cfg.URL,
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     logger,
	}
}

type graphqlRequest struct {
	Query     string         `json:"query"`
	Variables map[string]any `json:"variables,omitempty"`
}

type graphqlError struct {
	Message string `json:"message"`
}

type graphqlResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []graphqlError  `json:"errors,omitempty"`
}

const createOrderMutation = `
mutation createOrder($participant: ID!, $input: CreateOrderInput!) {
  createOrder(participant: $participant, input: $input) {
    id number state paymentState
    totalAmount grandTotal paidAmount discountAmount taxAmount totalQuantity
    items { id uuid productId name price quantity comment options { id name price value } state }
  }
}`

const getOrderQuery = `
query getOrder($id: ID!) {
  getOrder(id: $id) {
    id number state paymentState
    totalAmount grandTotal paidAmount discountAmount taxAmount totalQuantity
    items { id uuid productId name price quantity comment options { id name price value } state }
    transactions { id type amount state }
  }
}`

const getOrdersQuery = `
query getOrders($customer: ID!) {
  getOrders(customer: $customer) {
    id number state paymentState
    totalAmount grandTotal paidAmount discountAmount taxAmount totalQuantity
    items { id uuid productId name price quantity comment options { id name price value } state }
  }
}`

// CreateOrder submits a prepared order. The caller keeps the draft cart
// intact until this returns successfully.
func (c *Client) CreateOrder(ctx context.Context, input *domainRepo.CreateOrderInput) (*entity.Order, error) {
	var out struct {
		CreateOrder *entity.Order `json:"createOrder"`
	}
	err := c.do(ctx, createOrderMutation, map[string]any{
		"participant": input.Participant,
		"input":       input,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.CreateOrder == nil {
		return nil, apperror.NewUpstreamError("Ordering platform returned no order")
	}
	return out.CreateOrder, nil
}

// GetOrder fetches one committed order by id.
func (c *Client) GetOrder(ctx context.Context, id string) (*entity.Order, error) {
	var out struct {
		GetOrder *entity.Order `json:"getOrder"`
	}
	if err := c.do(ctx, getOrderQuery, map[string]any{"id": id}, &out); err != nil {
		return nil, err
	}
	return out.GetOrder, nil
}

// ListOrders fetches the committed orders for a customer/session.
func (c *Client) ListOrders(ctx context.Context, customerID string) ([]entity.Order, error) {
	var out struct {
		GetOrders []entity.Order `json:"getOrders"`
	}
	if err := c.do(ctx, getOrdersQuery, map[string]any{"customer": customerID}, &out); err != nil {
		return nil, err
	}
	return out.GetOrders, nil
}

func (c *Client) do(ctx context.Context, query string, variables map[string]any, out any) error {
	body, err := json.Marshal(graphqlRequest{Query: query, Variables: variables})
	if err != nil {
		return fmt.Errorf("failed to encode upstream request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build upstream request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("upstream request failed", zap.Error(err))
		return apperror.NewUpstreamError("Ordering platform is unreachable")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("upstream returned non-200", zap.Int("status", resp.StatusCode))
		return apperror.NewUpstreamError(fmt.Sprintf("Ordering platform returned status %d", resp.StatusCode))
	}

	var gqlResp graphqlResponse
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return apperror.NewUpstreamError("Ordering platform returned an unreadable response")
	}
	if len(gqlResp.Errors) > 0 {
		return apperror.NewUpstreamError(gqlResp.Errors[0].Message)
	}

	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return apperror.NewUpstreamError("Ordering platform returned unexpected data")
	}
	return nil
}

var _ domainRepo.OrderSubmitter = (*Client)(nil)

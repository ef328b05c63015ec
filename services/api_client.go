package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/kendall-kelly/design-orders-panel/models"
)

// Remote endpoints, relative to the configured base URL
const (
	EndpointOrders  = "/orders"
	EndpointClients = "/clients"
	EndpointLogin   = "/auth/login"
)

const (
	ordersPageSize = 100
	maxOrderPages  = 50
)

// Envelope is the response wrapper used by every remote endpoint
type Envelope struct {
	Success    bool            `json:"success"`
	Data       json.RawMessage `json:"data,omitempty"`
	Message    string          `json:"message,omitempty"`
	Pagination *Pagination     `json:"pagination,omitempty"`
}

// Pagination is present on paged list responses
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// LoginResult is the data of a successful remote login
type LoginResult struct {
	Token string       `json:"token"`
	User  *models.User `json:"user"`
}

// APIClient speaks the remote order service contract on top of RemoteClient
type APIClient struct {
	remote *RemoteClient
}

// NewAPIClient wraps remote
func NewAPIClient(remote *RemoteClient) *APIClient {
	return &APIClient{remote: remote}
}

// ListOrders fetches every order, following pagination when the remote pages
func (a *APIClient) ListOrders(ctx context.Context) ([]models.Record, error) {
	var all []models.Record
	for page := 1; page <= maxOrderPages; page++ {
		q := url.Values{}
		q.Set("page", fmt.Sprint(page))
		q.Set("limit", fmt.Sprint(ordersPageSize))
		endpoint := EndpointOrders + "?" + q.Encode()

		env, err := a.do(ctx, endpoint, CallOptions{})
		if err != nil {
			return nil, err
		}
		records, err := decodeRecords(env.Data)
		if err != nil {
			return nil, &RemoteError{Code: CodeNetwork, Method: http.MethodGet, Endpoint: endpoint, Message: "orders payload is not an array", Err: err}
		}
		all = append(all, records...)

		if env.Pagination == nil || page >= env.Pagination.TotalPages || len(records) == 0 {
			break
		}
	}
	if all == nil {
		all = []models.Record{}
	}
	return all, nil
}

// ListClients fetches every client
func (a *APIClient) ListClients(ctx context.Context) ([]models.Record, error) {
	env, err := a.do(ctx, EndpointClients, CallOptions{})
	if err != nil {
		return nil, err
	}
	records, err := decodeRecords(env.Data)
	if err != nil {
		return nil, &RemoteError{Code: CodeNetwork, Method: http.MethodGet, Endpoint: EndpointClients, Message: "clients payload is not an array", Err: err}
	}
	return records, nil
}

// CreateOrder submits a new order. The returned record holds whatever the
// remote echoed back, at least the assigned id on a conforming service.
func (a *APIClient) CreateOrder(ctx context.Context, req models.OrderRequest) (models.Record, error) {
	env, err := a.do(ctx, EndpointOrders, CallOptions{Method: http.MethodPost, Body: req})
	if err != nil {
		return nil, err
	}
	return decodeRecord(env.Data), nil
}

// UpdateOrder patches the given fields of one order
func (a *APIClient) UpdateOrder(ctx context.Context, id string, patch map[string]any) (models.Record, error) {
	env, err := a.do(ctx, orderEndpoint(id), CallOptions{Method: http.MethodPatch, Body: patch})
	if err != nil {
		return nil, err
	}
	return decodeRecord(env.Data), nil
}

// DeleteOrder removes one order. Any 2xx counts as success, whatever the body.
func (a *APIClient) DeleteOrder(ctx context.Context, id string) error {
	_, err := a.remote.Call(ctx, orderEndpoint(id), CallOptions{Method: http.MethodDelete})
	return err
}

// Login authenticates against the remote service
func (a *APIClient) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	body := map[string]string{"username": username, "password": password}
	env, err := a.do(ctx, EndpointLogin, CallOptions{Method: http.MethodPost, Body: body})
	if err != nil {
		return nil, err
	}

	var result LoginResult
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &result); err != nil {
			return nil, &RemoteError{Code: CodeNetwork, Method: http.MethodPost, Endpoint: EndpointLogin, Message: "malformed login payload", Err: err}
		}
	}
	return &result, nil
}

// do performs a call and unwraps the envelope; success:false is a rejection
func (a *APIClient) do(ctx context.Context, endpoint string, opts CallOptions) (*Envelope, error) {
	raw, err := a.remote.Call(ctx, endpoint, opts)
	if err != nil {
		return nil, err
	}

	method := opts.Method
	if method == "" {
		method = http.MethodGet
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &RemoteError{Code: CodeNetwork, Method: method, Endpoint: endpoint, Message: "malformed response envelope", Err: err}
	}
	if !env.Success {
		msg := env.Message
		if msg == "" {
			msg = "request was not successful"
		}
		return nil, &RemoteError{Code: CodeRejected, Method: method, Endpoint: endpoint, Message: msg}
	}
	return &env, nil
}

func orderEndpoint(id string) string {
	return EndpointOrders + "/" + url.PathEscape(id)
}

// decodeRecords reads a JSON array of objects. Non-object elements are
// dropped; null or absent data is an empty list.
func decodeRecords(data json.RawMessage) ([]models.Record, error) {
	if len(bytes.TrimSpace(data)) == 0 || bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return []models.Record{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(data, &items); err != nil {
		return nil, err
	}
	records := make([]models.Record, 0, len(items))
	for _, item := range items {
		var rec models.Record
		if err := json.Unmarshal(item, &rec); err != nil || rec == nil {
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}

// decodeRecord reads a JSON object, or nil when data is anything else
func decodeRecord(data json.RawMessage) models.Record {
	var rec models.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil
	}
	return rec
}

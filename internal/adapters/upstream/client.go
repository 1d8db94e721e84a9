package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	authz "github.com/ferndale/console-edge/internal/authz/domain"
	"github.com/ferndale/console-edge/internal/authz/ports"
	notifications "github.com/ferndale/console-edge/internal/notifications/domain"
	"github.com/ferndale/console-edge/internal/platform/apperror"
	"github.com/ferndale/console-edge/internal/platform/logger"
)

const defaultTimeout = 15 * time.Second

// envelope is the backend's uniform response shape.
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Client talks to the authoritative console backend. Every call forwards
// the bearer token carried in the request context; the edge holds no
// credentials of its own.
type Client struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

func NewClient(baseURL string, logger logger.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: defaultTimeout},
		logger:  logger,
	}
}

// FetchCurrentUser implements ports.Upstream.
func (c *Client) FetchCurrentUser(ctx context.Context) (*authz.User, error) {
	var user authz.User
	if err := c.get(ctx, "/api/users/me", nil, &user); err != nil {
		return nil, fmt.Errorf("Client.FetchCurrentUser: %w", err)
	}
	return &user, nil
}

// FetchPermissions implements ports.Upstream. The backend answers either
// with an explicit has-all-permissions flag or a permission list.
func (c *Client) FetchPermissions(ctx context.Context) (*authz.PermissionSet, error) {
	var set authz.PermissionSet
	if err := c.get(ctx, "/api/permissions/me", nil, &set); err != nil {
		return nil, fmt.Errorf("Client.FetchPermissions: %w", err)
	}
	return &set, nil
}

// FetchResources implements ports.Upstream.
func (c *Client) FetchResources(ctx context.Context) ([]authz.Resource, error) {
	var resources []authz.Resource
	if err := c.get(ctx, "/api/resources", nil, &resources); err != nil {
		return nil, fmt.Errorf("Client.FetchResources: %w", err)
	}
	return resources, nil
}

// FetchMenuResources implements ports.Upstream.
func (c *Client) FetchMenuResources(ctx context.Context) ([]authz.Resource, error) {
	var resources []authz.Resource
	if err := c.get(ctx, "/api/resources/menu", nil, &resources); err != nil {
		return nil, fmt.Errorf("Client.FetchMenuResources: %w", err)
	}
	return resources, nil
}

// FetchRoles implements ports.Upstream.
func (c *Client) FetchRoles(ctx context.Context) ([]authz.Role, error) {
	var roles []authz.Role
	if err := c.get(ctx, "/api/roles", url.Values{"active": {"true"}}, &roles); err != nil {
		return nil, fmt.Errorf("Client.FetchRoles: %w", err)
	}
	return roles, nil
}

// CheckPermission implements ports.Upstream: the authoritative server-side
// evaluation of one (resource, action) pair.
func (c *Client) CheckPermission(ctx context.Context, resource string, action authz.Action) (bool, error) {
	body := map[string]string{
		"resource": resource,
		"action":   string(action),
	}
	var result struct {
		Allowed bool `json:"allowed"`
	}
	if err := c.post(ctx, "/api/permissions/check", body, &result); err != nil {
		return false, fmt.Errorf("Client.CheckPermission: %w", err)
	}
	return result.Allowed, nil
}

// FetchNotifications implements the notifications source port.
func (c *Client) FetchNotifications(ctx context.Context) ([]notifications.Notification, error) {
	var feed []notifications.Notification
	if err := c.get(ctx, "/api/notifications", nil, &feed); err != nil {
		return nil, fmt.Errorf("Client.FetchNotifications: %w", err)
	}
	return feed, nil
}

// Ping reports backend reachability for the readiness probe.
func (c *Client) Ping(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/health", nil)
	if err != nil {
		return fmt.Errorf("Client.Ping: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("Client.Ping: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("Client.Ping: backend returned %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if token, ok := ports.TokenFromContext(req.Context()); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperror.Wrap(
			err,
			apperror.CodeUnavailable,
			apperror.BusinessCodeUpstreamUnavailable,
			"backend request failed",
			http.StatusServiceUnavailable,
		)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}
	if resp.StatusCode >= http.StatusBadRequest || !env.Success {
		msg := env.Message
		if msg == "" {
			msg = fmt.Sprintf("backend returned %d", resp.StatusCode)
		}
		return apperror.New(
			apperror.CodeUnavailable,
			apperror.BusinessCodeUpstreamRejected,
			msg,
			resp.StatusCode,
		)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}

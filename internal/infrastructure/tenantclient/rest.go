package tenantclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/menulink/backend/internal/domain/registry"
	"github.com/menulink/backend/internal/domain/shared"
	"go.uber.org/zap"
)

const (
	restPathPrefix    = "/rest/v1/"
	storagePathPrefix = "/storage/v1/object/public/"

	defaultRequestTimeout = 10 * time.Second
)

// RESTClient reads a tenant's isolated backend over its REST data API.
// The anon-level credential is sent on every request; the first real
// query establishes the connection, construction never does.
type RESTClient struct {
	tenantID   uuid.UUID
	baseURL    *url.URL
	credential string
	httpClient *http.Client
	logger     *zap.Logger
	closed     atomic.Bool
}

// NewRESTClient builds a handle from a registry record. Malformed
// address or credential fails with registry.ErrInvalidTenantConfig;
// that is terminal for the tenant until its registry entry is fixed.
func NewRESTClient(record *registry.TenantRecord, timeout time.Duration, logger *zap.Logger) (*RESTClient, error) {
	if record == nil {
		return nil, shared.ErrInvalidInput
	}
	if err := record.ValidateBackend(); err != nil {
		return nil, err
	}
	base, err := url.Parse(record.BackendAddress)
	if err != nil {
		return nil, registry.ErrInvalidTenantConfig
	}
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RESTClient{
		tenantID:   record.ID,
		baseURL:    base,
		credential: record.BackendCredential,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With(zap.String("tenant_id", record.ID.String())),
	}, nil
}

// TenantID returns the bound tenant's identity
func (c *RESTClient) TenantID() uuid.UUID {
	return c.tenantID
}

// ReadCollection fetches rows from one collection into dest
func (c *RESTClient) ReadCollection(ctx context.Context, collection string, opts ReadOptions, dest any) error {
	body, err := c.get(ctx, collection, opts)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return fmt.Errorf("decoding %s rows: %w", collection, err)
	}
	return nil
}

// ReadSingle fetches at most one row into dest
func (c *RESTClient) ReadSingle(ctx context.Context, collection string, opts ReadOptions, dest any) error {
	opts.Limit = 1
	body, err := c.get(ctx, collection, opts)
	if err != nil {
		return err
	}
	var rows []json.RawMessage
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("decoding %s rows: %w", collection, err)
	}
	if len(rows) == 0 {
		return shared.ErrNotFound
	}
	if err := json.Unmarshal(rows[0], dest); err != nil {
		return fmt.Errorf("decoding %s row: %w", collection, err)
	}
	return nil
}

// StorageURL resolves a stored object to its public URL. The URL is
// returned as-is for the presentation layer; nothing is fetched.
func (c *RESTClient) StorageURL(bucket, path string) string {
	u := *c.baseURL
	u.Path = storagePathPrefix + bucket + "/" + path
	return u.String()
}

// Close invalidates the handle
func (c *RESTClient) Close() error {
	c.closed.Store(true)
	return nil
}

func (c *RESTClient) get(ctx context.Context, collection string, opts ReadOptions) ([]byte, error) {
	if c.closed.Load() {
		return nil, ErrClientClosed
	}

	u := *c.baseURL
	u.Path = restPathPrefix + collection

	q := url.Values{}
	q.Set("select", "*")
	// Deterministic filter order keeps request URLs stable for logs and tests
	keys := make([]string, 0, len(opts.Eq))
	for k := range opts.Eq {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		q.Set(k, "eq."+opts.Eq[k])
	}
	if order := opts.orderParam(); order != "" {
		q.Set("order", order)
	}
	if opts.Limit > 0 {
		q.Set("limit", strconv.Itoa(opts.Limit))
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", collection, err)
	}
	req.Header.Set("apikey", c.credential)
	req.Header.Set("Authorization", "Bearer "+c.credential)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", collection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s response: %w", collection, err)
	}

	c.logger.Debug("tenant backend read",
		zap.String("collection", collection),
		zap.Int("status", resp.StatusCode),
		zap.Duration("latency", time.Since(start)))

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("tenant backend returned status %d for %s", resp.StatusCode, collection)
	}
	return body, nil
}

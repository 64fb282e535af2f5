package hotelapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"

	"vacancy/internal/metrics"
	"vacancy/internal/models"
)

// Client is an HTTP client for the hotel booking API, the upstream source of
// per-room booking snapshots.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter

	redis    *redis.Client
	cacheTTL time.Duration
}

// NewClient constructs a client with baseURL and API key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		limiter:    rate.NewLimiter(rate.Inf, 0),
	}
}

// UseRedisCache configures optional Redis caching of snapshot responses.
func (c *Client) UseRedisCache(redisClient *redis.Client, ttl time.Duration) {
	c.redis = redisClient
	c.cacheTTL = ttl
}

// UseRateLimit caps the upstream request rate. Non-positive values leave the
// client unlimited.
func (c *Client) UseRateLimit(perSecond float64, burst int) {
	if perSecond <= 0 || burst <= 0 {
		return
	}
	c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
}

// RoomBookings fetches the room's current snapshot: calendar dates occupied
// by overnight bookings plus all time-based bookings.
// GET /api/rooms/{id}/bookings
func (c *Client) RoomBookings(ctx context.Context, roomID int64) (*models.RoomAvailability, error) {
	cacheKey := fmt.Sprintf("room_bookings:%d", roomID)
	var snap models.RoomAvailability

	if c.readCache(ctx, cacheKey, &snap) {
		metrics.IncSnapshotCacheHit()
		return &snap, nil
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("%s/api/rooms/%d/bookings", c.baseURL, roomID)
	if err := c.doGet(ctx, endpoint, &snap); err != nil {
		metrics.IncSnapshotFetch("error")
		return nil, err
	}
	metrics.IncSnapshotFetch("ok")

	c.writeCache(ctx, cacheKey, snap)
	return &snap, nil
}

// HealthCheck checks if the booking API is available.
func (c *Client) HealthCheck(ctx context.Context) error {
	endpoint := fmt.Sprintf("%s/healthz", c.baseURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("health check failed: %d", resp.StatusCode)
	}
	return nil
}

func (c *Client) readCache(ctx context.Context, key string, out any) bool {
	if c.redis == nil || c.cacheTTL <= 0 {
		return false
	}
	val, err := c.redis.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	if err := json.Unmarshal([]byte(val), out); err != nil {
		return false
	}
	return true
}

func (c *Client) writeCache(ctx context.Context, key string, val any) {
	if c.redis == nil || c.cacheTTL <= 0 {
		return
	}
	data, err := json.Marshal(val)
	if err != nil {
		return
	}
	_ = c.redis.Set(ctx, key, data, c.cacheTTL).Err()
}

func (c *Client) doGet(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, http.NoBody)
	if err != nil {
		return err
	}
	if c.apiKey != "" {
		req.Header.Set("x-api-key", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("http %d", resp.StatusCode)
	}
	dec := json.NewDecoder(resp.Body)
	return dec.Decode(out)
}

package cache

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	screeningsListKey = "screenings:list"
	issuedKeyPrefix   = "screening:issued:"
	authKeyPrefix     = "auth:"

	// The cached listing keeps serving screenings that started after it
	// was filled; the TTL bounds that staleness window.
	screeningsTTL = 30 * time.Second

	// Cached credentials go stale when a password or role changes; the
	// TTL bounds how long a revoked credential keeps authenticating.
	authTTL = 10 * time.Minute
)

type ValkeyClient struct {
	client *redis.Client
}

func NewValkeyClient() (*ValkeyClient, error) {
	addr := os.Getenv("VALKEY_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}

	password := os.Getenv("VALKEY_PASSWORD")

	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		DialTimeout:  5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Valkey: %w", err)
	}

	return &ValkeyClient{client: rdb}, nil
}

// GetAuth looks up a cached credential pair and returns the user id and
// role stored for it.
func (v *ValkeyClient) GetAuth(ctx context.Context, username, passwordHash string) (int64, string, error) {
	entry, err := v.client.Get(ctx, authCacheKey(username, passwordHash)).Result()
	if err != nil {
		if err == redis.Nil {
			return 0, "", fmt.Errorf("user not found in cache")
		}
		return 0, "", fmt.Errorf("cache lookup error: %w", err)
	}

	idStr, role, ok := strings.Cut(entry, ":")
	if !ok {
		return 0, "", fmt.Errorf("malformed auth cache entry")
	}

	userID, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("invalid user ID in cache: %w", err)
	}

	return userID, role, nil
}

// SetAuth stores a verified credential pair for later lookups. Entries
// expire so password and role changes take effect within authTTL.
func (v *ValkeyClient) SetAuth(ctx context.Context, username, passwordHash string, userID int64, role string) {
	entry := fmt.Sprintf("%d:%s", userID, role)
	v.client.Set(ctx, authCacheKey(username, passwordHash), entry, authTTL)
}

func authCacheKey(username, passwordHash string) string {
	return authKeyPrefix + base64.StdEncoding.EncodeToString([]byte(username+":"+passwordHash))
}

// GetScreeningsListRaw returns the cached screenings listing as raw JSON,
// avoiding an unmarshal/marshal round trip on the hot path.
func (v *ValkeyClient) GetScreeningsListRaw(ctx context.Context) ([]byte, error) {
	data, err := v.client.Get(ctx, screeningsListKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, fmt.Errorf("screenings list not in cache")
		}
		return nil, fmt.Errorf("cache lookup error: %w", err)
	}
	return data, nil
}

// SetScreeningsList caches the screenings listing with a short TTL.
func (v *ValkeyClient) SetScreeningsList(ctx context.Context, screenings interface{}) {
	payload, err := json.Marshal(screenings)
	if err != nil {
		return
	}
	v.client.Set(ctx, screeningsListKey, payload, screeningsTTL)
}

// InvalidateScreeningsList drops the cached listing after a write.
func (v *ValkeyClient) InvalidateScreeningsList(ctx context.Context) {
	v.client.Del(ctx, screeningsListKey)
}

// IncrIssued bumps the issued-ticket counter for a screening.
func (v *ValkeyClient) IncrIssued(ctx context.Context, screeningID int64) error {
	return v.client.Incr(ctx, issuedKey(screeningID)).Err()
}

// SetIssuedCount overwrites a counter; the reconciliation job uses it to
// realign counters with the database.
func (v *ValkeyClient) SetIssuedCount(ctx context.Context, screeningID int64, count int) error {
	return v.client.Set(ctx, issuedKey(screeningID), count, 0).Err()
}

// GetIssuedCount reads a counter; missing keys read as zero.
func (v *ValkeyClient) GetIssuedCount(ctx context.Context, screeningID int64) (int, error) {
	count, err := v.client.Get(ctx, issuedKey(screeningID)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	return count, err
}

func issuedKey(screeningID int64) string {
	return issuedKeyPrefix + strconv.FormatInt(screeningID, 10)
}

func (v *ValkeyClient) Close() error {
	return v.client.Close()
}

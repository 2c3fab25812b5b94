package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	autherrors "github.com/jrsteele09/homecare-session/internal/errors"
	"github.com/jrsteele09/homecare-session/sessions"
	"github.com/jrsteele09/homecare-session/users"
	"github.com/redis/go-redis/v9"
)

var _ sessions.Store = (*RedisStore)(nil)

const (
	fieldAccess    = "access"
	fieldRefresh   = "refresh"
	fieldUser      = "user"
	fieldRole      = "role"
	fieldCreatedAt = "created_at"
)

// replaceAccessScript swaps the access token only while the refresh token still matches,
// so a refresh finishing after a logout or a new login cannot touch the newer state.
var replaceAccessScript = redis.NewScript(`
if redis.call("HGET", KEYS[1], "refresh") == ARGV[1] then
	redis.call("HSET", KEYS[1], "access", ARGV[2])
	return 1
end
return 0
`)

// RedisStore keeps the session in a redis hash so it outlives a single process.
type RedisStore struct {
	client redis.UniversalClient
	key    string
	ttl    time.Duration
}

// New creates a store holding one session under key. A zero ttl keeps the session until cleared.
func New(client redis.UniversalClient, key string, ttl time.Duration) (*RedisStore, error) {
	if key == "" {
		return nil, errors.New("session key cannot be empty")
	}
	return &RedisStore{client: client, key: key, ttl: ttl}, nil
}

func (r *RedisStore) Load(ctx context.Context) (*sessions.Session, error) {
	fields, err := r.client.HGetAll(ctx, r.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hgetall: %w", err)
	}
	if fields[fieldAccess] == "" {
		return nil, autherrors.ErrNotAuthenticated
	}

	s := &sessions.Session{
		AccessToken:  fields[fieldAccess],
		RefreshToken: fields[fieldRefresh],
		Role:         users.Role(fields[fieldRole]),
	}
	if raw := fields[fieldUser]; raw != "" {
		if err := json.Unmarshal([]byte(raw), &s.User); err != nil {
			return nil, fmt.Errorf("decode cached user: %w", err)
		}
	}
	if raw := fields[fieldCreatedAt]; raw != "" {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			s.CreatedAt = t
		}
	}
	return s, nil
}

func (r *RedisStore) Save(ctx context.Context, session *sessions.Session) error {
	user, err := json.Marshal(session.User)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, r.key)
		pipe.HSet(ctx, r.key,
			fieldAccess, session.AccessToken,
			fieldRefresh, session.RefreshToken,
			fieldUser, string(user),
			fieldRole, string(session.Role),
			fieldCreatedAt, session.CreatedAt.UTC().Format(time.RFC3339Nano),
		)
		if r.ttl > 0 {
			pipe.Expire(ctx, r.key, r.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis save session: %w", err)
	}
	return nil
}

func (r *RedisStore) ReplaceAccessToken(ctx context.Context, refreshToken, accessToken string) error {
	if refreshToken == "" {
		return autherrors.ErrSessionReplaced
	}
	swapped, err := replaceAccessScript.Run(ctx, r.client, []string{r.key}, refreshToken, accessToken).Int()
	if err != nil {
		return fmt.Errorf("redis replace access token: %w", err)
	}
	if swapped == 0 {
		return autherrors.ErrSessionReplaced
	}
	return nil
}

func (r *RedisStore) Clear(ctx context.Context) error {
	if err := r.client.Del(ctx, r.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}

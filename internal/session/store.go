package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/canteencloud/console/internal/nav"
)

const keyPrefix = "console:session:"

// Store persists session records in Redis, one JSON document per session
// id. Writing the whole record in a single SET keeps login atomic: a
// concurrent restore sees either the previous session or the complete new
// one, never a partial mix of fields.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	menus  *nav.Store
}

// NewStore constructs a Store. menus may be nil; when present it is
// invalidated on every logout.
func NewStore(client *redis.Client, ttl time.Duration, menus *nav.Store) *Store {
	return &Store{client: client, ttl: ttl, menus: menus}
}

// Login persists a complete session under id. Incomplete sessions are
// rejected before anything is written, so a partial record can never be
// observed.
func (st *Store) Login(ctx context.Context, id string, sess Session) error {
	if id == "" {
		return errors.New("session: empty session id")
	}
	if !sess.Active() {
		return fmt.Errorf("session: incomplete session for user %q", sess.Profile.Username)
	}
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("session: marshal: %w", err)
	}
	if err := st.client.Set(ctx, keyPrefix+id, data, st.ttl).Err(); err != nil {
		return fmt.Errorf("session: persist: %w", err)
	}
	return nil
}

// Restore loads the session stored under id. Any failure along the way
// (missing key, unreadable payload, empty token, unknown role) yields the
// empty session. Restore never returns an error: a client that cannot
// prove a session simply has none.
func (st *Store) Restore(ctx context.Context, id string) Session {
	if id == "" {
		return Session{}
	}
	data, err := st.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		return Session{}
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return Session{}
	}
	if !sess.Active() {
		return Session{}
	}
	return sess
}

// Logout removes the record under id and invalidates the menu cache.
// Logging out an absent session is a no-op, so repeated logouts are safe.
func (st *Store) Logout(ctx context.Context, id string) error {
	if st.menus != nil {
		st.menus.Invalidate()
	}
	if id == "" {
		return nil
	}
	if err := st.client.Del(ctx, keyPrefix+id).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("session: purge: %w", err)
	}
	return nil
}

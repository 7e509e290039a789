// Package redistore is a Redis-backed session.Store for multi-node
// deployments: any node can complete a session another node began, and
// expiry is enforced by Redis key TTLs instead of an in-process sweep.
package redistore

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gomodule/redigo/redis"

	"geocam.dev/geocam/session"
)

const keyPrefix = "geocam:session:"

// takeScript is a GET+DEL in one round trip so concurrent Complete calls for
// the same session cannot both win.
var takeScript = redis.NewScript(1, `
local v = redis.call("GET", KEYS[1])
if v then
	redis.call("DEL", KEYS[1])
end
return v
`)

// Store implements session.Store on a redigo connection pool.
type Store struct {
	pool *redis.Pool
}

// New wraps an existing pool. The pool's lifecycle belongs to the caller's
// wiring; Close here only releases it.
func New(pool *redis.Pool) *Store {
	return &Store{pool: pool}
}

// NewPool builds a pool with the settings the signing service uses.
func NewPool(address string) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     8,
		MaxActive:   64,
		IdleTimeout: 240 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", address)
		},
		TestOnBorrow: func(c redis.Conn, t time.Time) error {
			if time.Since(t) < time.Minute {
				return nil
			}
			_, err := c.Do("PING")
			return err
		},
	}
}

func (s *Store) Put(ctx context.Context, sess *session.Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return err
	}
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return err
	}
	defer conn.Close()

	seconds := int(ttl / time.Second)
	if seconds < 1 {
		seconds = 1
	}
	_, err = conn.Do("SETEX", keyPrefix+sess.ID, seconds, data)
	return err
}

func (s *Store) Take(ctx context.Context, id string) (*session.Session, error) {
	conn, err := s.pool.GetContext(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	data, err := redis.Bytes(takeScript.Do(conn, keyPrefix+id))
	if err == redis.ErrNil {
		return nil, session.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var sess session.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

func (s *Store) Close() error {
	return s.pool.Close()
}

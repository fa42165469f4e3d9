package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/gomodule/redigo/redis"

	"github.com/wricardo/mcp-training/propertygame/game/service"
)

// NewRedisPool creates a connection pool for addr.
func NewRedisPool(addr, password string, db int) *redis.Pool {
	return &redis.Pool{
		MaxIdle:     10,
		IdleTimeout: 60 * time.Second,
		Dial: func() (redis.Conn, error) {
			return redis.Dial("tcp", addr,
				redis.DialPassword(password),
				redis.DialDatabase(db),
				redis.DialConnectTimeout(5*time.Second),
			)
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

// RedisPersistence stores each session as a JSON string under
// <prefix>session:<id> and keeps the ids in the set <prefix>sessions.
type RedisPersistence struct {
	pool   *redis.Pool
	prefix string
	ttl    time.Duration
}

// NewRedisPersistence uses pool for storage. A positive ttl expires idle
// sessions in Redis.
func NewRedisPersistence(pool *redis.Pool, prefix string, ttl time.Duration) *RedisPersistence {
	return &RedisPersistence{pool: pool, prefix: prefix, ttl: ttl}
}

func (rp *RedisPersistence) key(id string) string {
	return rp.prefix + "session:" + id
}

func (rp *RedisPersistence) setKey() string {
	return rp.prefix + "sessions"
}

func (rp *RedisPersistence) Save(snapshot *service.Snapshot) error {
	data, err := encodeSnapshot(snapshot, false)
	if err != nil {
		return err
	}

	conn := rp.pool.Get()
	defer conn.Close()

	args := redis.Args{}.Add(rp.key(snapshot.ID), data)
	if rp.ttl > 0 {
		args = args.Add("EX", int(rp.ttl.Seconds()))
	}
	if err := conn.Send("MULTI"); err != nil {
		return err
	}
	if err := conn.Send("SET", args...); err != nil {
		return err
	}
	if err := conn.Send("SADD", rp.setKey(), snapshot.ID); err != nil {
		return err
	}
	if _, err := conn.Do("EXEC"); err != nil {
		return fmt.Errorf("failed to save session %s: %w", snapshot.ID, err)
	}
	return nil
}

func (rp *RedisPersistence) Load(id string) (*service.Snapshot, error) {
	conn := rp.pool.Get()
	defer conn.Close()

	data, err := redis.Bytes(conn.Do("GET", rp.key(id)))
	if errors.Is(err, redis.ErrNil) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return decodeSnapshot(data)
}

func (rp *RedisPersistence) Delete(id string) error {
	conn := rp.pool.Get()
	defer conn.Close()

	removed, err := redis.Int(conn.Do("DEL", rp.key(id)))
	if err != nil {
		return err
	}
	if _, err := conn.Do("SREM", rp.setKey(), id); err != nil {
		return err
	}
	if removed == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	return nil
}

// ListAll returns the ids whose keys still exist, pruning expired ones from
// the index set.
func (rp *RedisPersistence) ListAll() ([]string, error) {
	conn := rp.pool.Get()
	defer conn.Close()

	ids, err := redis.Strings(conn.Do("SMEMBERS", rp.setKey()))
	if err != nil {
		return nil, err
	}
	live := ids[:0]
	for _, id := range ids {
		exists, err := redis.Bool(conn.Do("EXISTS", rp.key(id)))
		if err != nil {
			return nil, err
		}
		if !exists {
			_, _ = conn.Do("SREM", rp.setKey(), id)
			continue
		}
		live = append(live, id)
	}
	return live, nil
}

func (rp *RedisPersistence) Exists(id string) bool {
	conn := rp.pool.Get()
	defer conn.Close()

	exists, err := redis.Bool(conn.Do("EXISTS", rp.key(id)))
	return err == nil && exists
}

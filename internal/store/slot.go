package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"
)

type sqlSlotRepo struct {
	db      *sql.DB
	dialect dialect
}

func (r *sqlSlotRepo) Read(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := r.db.QueryRowContext(ctx,
		r.dialect.rebind(`SELECT value FROM kv_slots WHERE slot_key = ?`), key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read slot %q: %w", key, err)
	}
	return []byte(value), nil
}

func (r *sqlSlotRepo) Write(ctx context.Context, key string, data []byte) error {
	_, err := r.db.ExecContext(ctx, r.dialect.rebind(`
		INSERT INTO kv_slots (slot_key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (slot_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`),
		key, string(data), time.Now().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("write slot %q: %w", key, err)
	}
	return nil
}

func (r *sqlSlotRepo) Clear(ctx context.Context, key string) error {
	if _, err := r.db.ExecContext(ctx, r.dialect.rebind(`DELETE FROM kv_slots WHERE slot_key = ?`), key); err != nil {
		return fmt.Errorf("clear slot %q: %w", key, err)
	}
	return nil
}

// MemorySlotRepo is a process-local SlotRepo.
type MemorySlotRepo struct {
	mu    sync.Mutex
	slots map[string][]byte
}

// NewMemorySlotRepo creates an empty in-memory SlotRepo.
func NewMemorySlotRepo() *MemorySlotRepo {
	return &MemorySlotRepo{slots: make(map[string][]byte)}
}

func (m *MemorySlotRepo) Read(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.slots[key]
	if !ok {
		return nil, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, nil
}

func (m *MemorySlotRepo) Write(_ context.Context, key string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	v := make([]byte, len(data))
	copy(v, data)
	m.slots[key] = v
	return nil
}

func (m *MemorySlotRepo) Clear(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.slots, key)
	return nil
}

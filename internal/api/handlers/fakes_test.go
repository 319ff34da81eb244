package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/nicflores/user-manager-api/internal/domain/model"
	"github.com/nicflores/user-manager-api/internal/repository"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// memClients — клиенты в памяти. Клиент с SFTP-учёткой не удаляется.
type memClients struct {
	mu    sync.Mutex
	next  int64
	items map[int64]*model.Client
	sftp  *memSFTP
}

func (m *memClients) List(_ context.Context, f model.ClientFilter) ([]*model.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.Client
	for _, c := range m.items {
		if f.Name != nil && !strings.Contains(c.Name, *f.Name) {
			continue
		}
		if f.Email != nil && !strings.Contains(c.Email, *f.Email) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memClients) GetByID(_ context.Context, id int64) (*model.Client, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: клиент %d", repository.ErrNotFound, id)
	}
	cp := *c
	return &cp, nil
}

func (m *memClients) Exists(_ context.Context, id int64) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[id]
	return ok, nil
}

func (m *memClients) Create(_ context.Context, c *model.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	now := time.Now().UTC()
	c.ID, c.CreatedAt, c.UpdatedAt = m.next, now, now
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memClients) Update(_ context.Context, c *model.Client) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	old, ok := m.items[c.ID]
	if !ok {
		return fmt.Errorf("%w: клиент %d", repository.ErrNotFound, c.ID)
	}
	c.CreatedAt, c.UpdatedAt = old.CreatedAt, time.Now().UTC()
	cp := *c
	m.items[c.ID] = &cp
	return nil
}

func (m *memClients) Delete(ctx context.Context, id int64) error {
	if _, err := m.sftp.GetByClientID(ctx, id); err == nil {
		return fmt.Errorf("%w: у клиента %d есть SFTP-учётка", repository.ErrConflict, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("%w: клиент %d", repository.ErrNotFound, id)
	}
	delete(m.items, id)
	return nil
}

// memSFTP — SFTP-учётки в памяти, не более одной на клиента.
type memSFTP struct {
	mu      sync.Mutex
	next    int64
	items   map[int64]*model.SFTPCredential
	clients *memClients
}

func overview(c *model.SFTPCredential) *model.SFTPOverview {
	return &model.SFTPOverview{
		ID:          c.ID,
		ClientID:    c.ClientID,
		Username:    c.Username,
		BucketName:  c.BucketName,
		RoleARN:     c.RoleARN,
		Fingerprint: c.Fingerprint,
		KeyVersion:  c.KeyVersion,
		RotatedAt:   c.RotatedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func (m *memSFTP) List(_ context.Context, f model.SFTPFilter) ([]*model.SFTPOverview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*model.SFTPOverview
	for _, c := range m.items {
		if f.ClientID != nil && c.ClientID != *f.ClientID {
			continue
		}
		out = append(out, overview(c))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memSFTP) GetByID(_ context.Context, id int64) (*model.SFTPOverview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return nil, fmt.Errorf("%w: SFTP-учётка %d", repository.ErrNotFound, id)
	}
	return overview(c), nil
}

func (m *memSFTP) GetByClientID(_ context.Context, clientID int64) (*model.SFTPOverview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.ClientID == clientID {
			return overview(c), nil
		}
	}
	return nil, fmt.Errorf("%w: SFTP-учётка клиента %d", repository.ErrNotFound, clientID)
}

func (m *memSFTP) Create(ctx context.Context, clientID int64, cred *model.SFTPCredential) error {
	if ok, _ := m.clients.Exists(ctx, clientID); !ok {
		return fmt.Errorf("%w: клиент %d", repository.ErrNotFound, clientID)
	}
	if _, err := m.GetByClientID(ctx, clientID); err == nil {
		return fmt.Errorf("%w: у клиента %d уже есть SFTP-учётка", repository.ErrConflict, clientID)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next++
	now := time.Now().UTC()
	cred.ID, cred.ClientID, cred.KeyVersion = m.next, clientID, 1
	cred.CreatedAt, cred.UpdatedAt = now, now
	cp := *cred
	m.items[cred.ID] = &cp
	return nil
}

func (m *memSFTP) Update(_ context.Context, id int64, upd model.SFTPUpdate) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.items[id]
	if !ok {
		return fmt.Errorf("%w: SFTP-учётка %d", repository.ErrNotFound, id)
	}
	if upd.Username != nil {
		c.Username = *upd.Username
	}
	if upd.BucketName != nil {
		c.BucketName = *upd.BucketName
	}
	if upd.RoleARN != nil {
		c.RoleARN = *upd.RoleARN
	}
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (m *memSFTP) RotateKeys(_ context.Context, clientID int64, keys model.SFTPKeys) (*model.SFTPOverview, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, c := range m.items {
		if c.ClientID != clientID {
			continue
		}
		now := time.Now().UTC()
		c.PrivateKey, c.PublicKey, c.Fingerprint = keys.PrivateKey, keys.PublicKey, keys.Fingerprint
		c.KeyVersion++
		c.RotatedAt, c.UpdatedAt = &now, now
		return overview(c), nil
	}
	return nil, fmt.Errorf("%w: SFTP-учётка клиента %d", repository.ErrNotFound, clientID)
}

func (m *memSFTP) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.items[id]; !ok {
		return fmt.Errorf("%w: SFTP-учётка %d", repository.ErrNotFound, id)
	}
	delete(m.items, id)
	return nil
}

// brokenVendors и brokenAgents отвечают заданной ошибкой на любой вызов.
type brokenVendors struct {
	repository.VendorRepository
	err error
}

func (b brokenVendors) List(context.Context, model.VendorFilter) ([]*model.VendorOverview, error) {
	return nil, b.err
}

func (b brokenVendors) GetByID(context.Context, int64) (*model.VendorOverview, error) {
	return nil, b.err
}

type brokenAgents struct {
	repository.AgentRepository
	err error
}

func (b brokenAgents) List(context.Context, model.AgentFilter) ([]*model.Agent, error) {
	return nil, b.err
}

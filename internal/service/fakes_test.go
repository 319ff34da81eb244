// fakes_test.go — in-memory реализации репозиториев для тестов сервисов.
// Семантика совпадает с PostgreSQL-реализацией: проверка владельца до записи,
// ErrNotFound при нуле затронутых строк, одна SFTP-учётка на клиента.
package service

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/fernet/fernet-go"

	"github.com/nicflores/user-manager-api/internal/domain/model"
	"github.com/nicflores/user-manager-api/internal/repository"
	"github.com/nicflores/user-manager-api/internal/secrets"
	"github.com/nicflores/user-manager-api/internal/sshkey"
)

// memStore — общее хранилище для всех фейковых репозиториев.
type memStore struct {
	mu      sync.Mutex
	nextID  int64
	writes  int
	clients map[int64]*model.Client
	vendors map[int64]*model.Vendor
	sftp    map[int64]*model.SFTPCredential
	agents  map[int64]*model.Agent
	links   map[[2]int64]struct{}
}

func newMemStore() *memStore {
	return &memStore{
		clients: map[int64]*model.Client{},
		vendors: map[int64]*model.Vendor{},
		sftp:    map[int64]*model.SFTPCredential{},
		agents:  map[int64]*model.Agent{},
		links:   map[[2]int64]struct{}{},
	}
}

func (m *memStore) id() int64 {
	m.nextID++
	return m.nextID
}

func notFound(what string, id int64) error {
	return fmt.Errorf("%w: %s %d", repository.ErrNotFound, what, id)
}

func sortedKeys[V any](items map[int64]V) []int64 {
	keys := make([]int64, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// --- клиенты ---

type memClientRepo struct{ m *memStore }

func (r memClientRepo) List(_ context.Context, f model.ClientFilter) ([]*model.Client, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*model.Client, 0)
	for _, id := range sortedKeys(r.m.clients) {
		c := r.m.clients[id]
		if f.Name != nil && !strings.Contains(c.Name, *f.Name) {
			continue
		}
		if f.Email != nil && !strings.Contains(c.Email, *f.Email) {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (r memClientRepo) GetByID(_ context.Context, id int64) (*model.Client, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c, ok := r.m.clients[id]
	if !ok {
		return nil, notFound("клиент", id)
	}
	cp := *c
	return &cp, nil
}

func (r memClientRepo) Exists(_ context.Context, id int64) (bool, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	_, ok := r.m.clients[id]
	return ok, nil
}

func (r memClientRepo) Create(_ context.Context, c *model.Client) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	c.ID = r.m.id()
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	cp := *c
	r.m.clients[c.ID] = &cp
	r.m.writes++
	return nil
}

func (r memClientRepo) Update(_ context.Context, c *model.Client) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.clients[c.ID]; !ok {
		return notFound("клиент", c.ID)
	}
	cp := *c
	r.m.clients[c.ID] = &cp
	r.m.writes++
	return nil
}

func (r memClientRepo) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.clients[id]; !ok {
		return notFound("клиент", id)
	}
	for _, v := range r.m.vendors {
		if v.ClientID == id {
			return fmt.Errorf("%w: у клиента %d есть вендоры", repository.ErrConflict, id)
		}
	}
	for _, s := range r.m.sftp {
		if s.ClientID == id {
			return fmt.Errorf("%w: у клиента %d есть SFTP-учётка", repository.ErrConflict, id)
		}
	}
	delete(r.m.clients, id)
	for link := range r.m.links {
		if link[1] == id {
			delete(r.m.links, link)
		}
	}
	r.m.writes++
	return nil
}

// --- вендоры ---

type memVendorRepo struct{ m *memStore }

func vendorOverview(v *model.Vendor) *model.VendorOverview {
	return &model.VendorOverview{
		ID: v.ID, ClientID: v.ClientID, Name: v.Name, Host: v.Host, Port: v.Port,
		Username: v.Username, HasPassword: v.Password != nil, HasSSHKey: v.SSHKey != nil,
		CreatedAt: v.CreatedAt, UpdatedAt: v.UpdatedAt,
	}
}

func (r memVendorRepo) List(_ context.Context, f model.VendorFilter) ([]*model.VendorOverview, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*model.VendorOverview, 0)
	for _, id := range sortedKeys(r.m.vendors) {
		v := r.m.vendors[id]
		if f.ClientID != nil && v.ClientID != *f.ClientID {
			continue
		}
		if f.Name != nil && !strings.Contains(v.Name, *f.Name) {
			continue
		}
		out = append(out, vendorOverview(v))
	}
	return out, nil
}

func (r memVendorRepo) GetByID(_ context.Context, id int64) (*model.VendorOverview, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	v, ok := r.m.vendors[id]
	if !ok {
		return nil, notFound("вендор", id)
	}
	return vendorOverview(v), nil
}

func (r memVendorRepo) Create(_ context.Context, clientID int64, v *model.Vendor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.clients[clientID]; !ok {
		return notFound("клиент", clientID)
	}
	v.ID = r.m.id()
	v.ClientID = clientID
	cp := *v
	r.m.vendors[v.ID] = &cp
	r.m.writes++
	return nil
}

func (r memVendorRepo) Update(_ context.Context, clientID, vendorID int64, v *model.Vendor) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	cur, ok := r.m.vendors[vendorID]
	if !ok || cur.ClientID != clientID {
		return fmt.Errorf("%w: вендор %d клиента %d", repository.ErrNotFound, vendorID, clientID)
	}
	v.ID = vendorID
	v.ClientID = clientID
	cp := *v
	r.m.vendors[vendorID] = &cp
	r.m.writes++
	return nil
}

func (r memVendorRepo) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.vendors[id]; !ok {
		return notFound("вендор", id)
	}
	delete(r.m.vendors, id)
	r.m.writes++
	return nil
}

// --- SFTP ---

type memSFTPRepo struct{ m *memStore }

func sftpOverview(s *model.SFTPCredential) *model.SFTPOverview {
	return &model.SFTPOverview{
		ID: s.ID, ClientID: s.ClientID, Username: s.Username, BucketName: s.BucketName,
		RoleARN: s.RoleARN, Fingerprint: s.Fingerprint, KeyVersion: s.KeyVersion,
		RotatedAt: s.RotatedAt, CreatedAt: s.CreatedAt, UpdatedAt: s.UpdatedAt,
	}
}

func (r memSFTPRepo) List(_ context.Context, f model.SFTPFilter) ([]*model.SFTPOverview, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*model.SFTPOverview, 0)
	for _, id := range sortedKeys(r.m.sftp) {
		s := r.m.sftp[id]
		if f.ClientID != nil && s.ClientID != *f.ClientID {
			continue
		}
		out = append(out, sftpOverview(s))
	}
	return out, nil
}

func (r memSFTPRepo) GetByID(_ context.Context, id int64) (*model.SFTPOverview, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sftp[id]
	if !ok {
		return nil, notFound("SFTP-учётка", id)
	}
	return sftpOverview(s), nil
}

func (r memSFTPRepo) GetByClientID(_ context.Context, clientID int64) (*model.SFTPOverview, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.sftp {
		if s.ClientID == clientID {
			return sftpOverview(s), nil
		}
	}
	return nil, notFound("SFTP-учётка клиента", clientID)
}

func (r memSFTPRepo) Create(_ context.Context, clientID int64, cred *model.SFTPCredential) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.clients[clientID]; !ok {
		return notFound("клиент", clientID)
	}
	for _, s := range r.m.sftp {
		if s.ClientID == clientID {
			return fmt.Errorf("%w: у клиента %d уже есть SFTP-учётка", repository.ErrConflict, clientID)
		}
	}
	cred.ID = r.m.id()
	cred.ClientID = clientID
	cred.KeyVersion = 1
	cred.CreatedAt = time.Now()
	cred.UpdatedAt = cred.CreatedAt
	cp := *cred
	r.m.sftp[cred.ID] = &cp
	r.m.writes++
	return nil
}

func (r memSFTPRepo) Update(_ context.Context, id int64, upd model.SFTPUpdate) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	s, ok := r.m.sftp[id]
	if !ok {
		return notFound("SFTP-учётка", id)
	}
	if upd.Username != nil {
		s.Username = *upd.Username
	}
	if upd.BucketName != nil {
		s.BucketName = *upd.BucketName
	}
	if upd.RoleARN != nil {
		s.RoleARN = *upd.RoleARN
	}
	r.m.writes++
	return nil
}

func (r memSFTPRepo) RotateKeys(_ context.Context, clientID int64, keys model.SFTPKeys) (*model.SFTPOverview, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	for _, s := range r.m.sftp {
		if s.ClientID != clientID {
			continue
		}
		now := time.Now()
		s.PrivateKey = keys.PrivateKey
		s.PublicKey = keys.PublicKey
		s.Fingerprint = keys.Fingerprint
		s.KeyVersion++
		s.RotatedAt = &now
		s.UpdatedAt = now
		r.m.writes++
		return sftpOverview(s), nil
	}
	return nil, notFound("SFTP-учётка клиента", clientID)
}

func (r memSFTPRepo) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.sftp[id]; !ok {
		return notFound("SFTP-учётка", id)
	}
	delete(r.m.sftp, id)
	r.m.writes++
	return nil
}

// --- агенты ---

type memAgentRepo struct{ m *memStore }

func (r memAgentRepo) List(_ context.Context, f model.AgentFilter) ([]*model.Agent, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	out := make([]*model.Agent, 0)
	for _, id := range sortedKeys(r.m.agents) {
		a := r.m.agents[id]
		if f.Name != nil && !strings.Contains(a.Name, *f.Name) {
			continue
		}
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

func (r memAgentRepo) GetByID(_ context.Context, id int64) (*model.Agent, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a, ok := r.m.agents[id]
	if !ok {
		return nil, notFound("агент", id)
	}
	cp := *a
	return &cp, nil
}

func (r memAgentRepo) Create(_ context.Context, a *model.Agent) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	a.ID = r.m.id()
	cp := *a
	r.m.agents[a.ID] = &cp
	r.m.writes++
	return nil
}

func (r memAgentRepo) Update(_ context.Context, a *model.Agent) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.agents[a.ID]; !ok {
		return notFound("агент", a.ID)
	}
	cp := *a
	r.m.agents[a.ID] = &cp
	r.m.writes++
	return nil
}

func (r memAgentRepo) Delete(_ context.Context, id int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.agents[id]; !ok {
		return notFound("агент", id)
	}
	delete(r.m.agents, id)
	for link := range r.m.links {
		if link[0] == id {
			delete(r.m.links, link)
		}
	}
	r.m.writes++
	return nil
}

func (r memAgentRepo) ListClients(_ context.Context, agentID int64) ([]*model.Client, error) {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.agents[agentID]; !ok {
		return nil, notFound("агент", agentID)
	}
	out := make([]*model.Client, 0)
	for _, id := range sortedKeys(r.m.clients) {
		if _, ok := r.m.links[[2]int64{agentID, id}]; ok {
			cp := *r.m.clients[id]
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r memAgentRepo) AddClient(_ context.Context, agentID, clientID int64) error {
	r.m.mu.Lock()
	defer r.m.mu.Unlock()
	if _, ok := r.m.agents[agentID]; !ok {
		return notFound("агент", agentID)
	}
	if _, ok := r.m.clients[clientID]; !ok {
		return notFound("клиент", clientID)
	}
	r.m.links[[2]int64{agentID, clientID}] = struct{}{}
	r.m.writes++
	return nil
}

// --- генераторы ключей ---

// failingGenerator имитирует сломанный источник случайности.
type failingGenerator struct{ calls int }

func (g *failingGenerator) Generate(context.Context) (*sshkey.KeyPair, error) {
	g.calls++
	return nil, fmt.Errorf("%w: entropy exhausted", sshkey.ErrKeyGeneration)
}

// countingGenerator считает вызовы реального генератора.
type countingGenerator struct {
	inner sshkey.KeyGenerator
	calls int
}

func (g *countingGenerator) Generate(ctx context.Context) (*sshkey.KeyPair, error) {
	g.calls++
	return g.inner.Generate(ctx)
}

// --- окружение тестов ---

type testEnv struct {
	store        *memStore
	secretsKey   *fernet.Key
	keys         *countingGenerator
	clients      *ClientService
	vendors      *VendorService
	agents       *AgentService
	provisioning *ProvisioningService
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestEnv(t testing.TB) *testEnv {
	t.Helper()
	store := newMemStore()
	var key fernet.Key
	if err := key.Generate(); err != nil {
		t.Fatalf("fernet: %v", err)
	}
	sealer, err := secrets.NewSealer(key.Encode())
	if err != nil {
		t.Fatalf("NewSealer: %v", err)
	}
	keys := &countingGenerator{inner: sshkey.NewGenerator(2)}
	logger := testLogger()

	return &testEnv{
		store:        store,
		secretsKey:   &key,
		keys:         keys,
		clients:      NewClientService(memClientRepo{store}, logger),
		vendors:      NewVendorService(memVendorRepo{store}, sealer, logger),
		agents:       NewAgentService(memAgentRepo{store}, logger),
		provisioning: NewProvisioningService(memClientRepo{store}, memSFTPRepo{store}, keys, sealer, logger),
	}
}

// open расшифровывает секрет, записанный сервисом в хранилище.
func (e *testEnv) open(t testing.TB, token string) string {
	t.Helper()
	msg := fernet.VerifyAndDecrypt([]byte(token), 0, []*fernet.Key{e.secretsKey})
	if msg == nil {
		t.Fatalf("секрет не расшифровывается ключом окружения: %q", token)
	}
	return string(msg)
}

func (e *testEnv) writes() int {
	e.store.mu.Lock()
	defer e.store.mu.Unlock()
	return e.store.writes
}

func strPtr(s string) *string { return &s }

package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/sixthdegree/contactsearch/internal/db"
	"github.com/sixthdegree/contactsearch/internal/domain"
	"github.com/sixthdegree/contactsearch/internal/metrics"
	"github.com/sixthdegree/contactsearch/internal/repository/lexical"
	"github.com/sixthdegree/contactsearch/internal/repository/semantic"
)

// Manager builds, persists, and serves per-tenant snapshots. The active
// snapshot is held behind an atomic pointer so in-flight searches keep the
// build they started on while a rebuild swaps in the next one.
type Manager struct {
	store    db.Store
	embedder domain.Embedder // nil disables the semantic tier
	prefix   string
	logger   *zap.Logger

	mu      sync.Mutex // serializes builds and tenant map writes
	tenants map[string]*atomic.Pointer[Snapshot]
}

// NewManager creates a snapshot manager. Pass a nil embedder to run
// lexical-only.
func NewManager(store db.Store, embedder domain.Embedder, keyPrefix string, log *zap.Logger) *Manager {
	return &Manager{
		store:    store,
		embedder: embedder,
		prefix:   keyPrefix,
		logger:   log,
		tenants:  make(map[string]*atomic.Pointer[Snapshot]),
	}
}

// Build indexes the contacts for a tenant and atomically swaps the result in
// as the active snapshot. The previous snapshot stays valid for readers that
// already hold it.
func (m *Manager) Build(ctx context.Context, tenant string, contacts []domain.Contact) (*Snapshot, error) {
	if tenant == "" {
		return nil, domain.ErrTenantRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	start := time.Now()

	lex, err := lexical.Build(contacts)
	if err != nil {
		return nil, fmt.Errorf("build lexical index: %w", err)
	}

	var sem *semantic.Index
	if m.embedder != nil {
		sem, err = semantic.Build(ctx, contacts, m.embedder)
		if err != nil {
			_ = lex.Close()
			return nil, fmt.Errorf("build semantic index: %w", err)
		}
	}

	version, err := m.nextVersion(ctx, tenant)
	if err != nil {
		_ = lex.Close()
		return nil, err
	}

	snap := &Snapshot{
		tenant:   tenant,
		version:  version,
		contacts: contacts,
		lexical:  lex,
		semantic: sem,
		builtAt:  time.Now(),
	}

	if err := m.persist(ctx, snap); err != nil {
		// Persistence only feeds restart recovery; the in-memory snapshot
		// is still good.
		m.logger.Warn("snapshot persist failed",
			zap.String("tenant", tenant),
			zap.Int64("version", version),
			zap.Error(err))
	}

	m.slot(tenant).Store(snap)

	metrics.IndexBuildsTotal.Inc()
	metrics.IndexBuildDuration.Observe(time.Since(start).Seconds())
	metrics.IndexedContacts.WithLabelValues(tenant).Set(float64(len(contacts)))

	m.logger.Info("snapshot built",
		zap.String("tenant", tenant),
		zap.Int64("version", version),
		zap.Int("contacts", len(contacts)),
		zap.Bool("semantic", sem != nil),
		zap.Duration("took", time.Since(start)))

	return snap, nil
}

// Active returns the tenant's current snapshot, or ErrIndexNotBuilt when no
// build has happened this process and none could be loaded.
func (m *Manager) Active(tenant string) (*Snapshot, error) {
	m.mu.Lock()
	slot, ok := m.tenants[tenant]
	m.mu.Unlock()
	if !ok {
		return nil, domain.ErrIndexNotBuilt
	}
	snap := slot.Load()
	if snap == nil {
		return nil, domain.ErrIndexNotBuilt
	}
	return snap, nil
}

// Exists reports whether a snapshot is available for the tenant, in memory
// or persisted.
func (m *Manager) Exists(ctx context.Context, tenant string) (bool, error) {
	if _, err := m.Active(tenant); err == nil {
		return true, nil
	}
	return m.store.Exists(ctx, m.contactsKey(tenant))
}

// Load restores a tenant's snapshot from the store after a restart. The
// lexical index is rebuilt from the persisted contacts; semantic vectors are
// decoded from their persisted form. Corrupt or missing vectors degrade the
// snapshot to lexical-only rather than failing the load.
func (m *Manager) Load(ctx context.Context, tenant string) (*Snapshot, error) {
	if tenant == "" {
		return nil, domain.ErrTenantRequired
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	raw, err := m.store.Get(ctx, m.contactsKey(tenant))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return nil, domain.ErrIndexNotBuilt
		}
		return nil, fmt.Errorf("load contacts: %w", err)
	}

	var contacts []domain.Contact
	if err := json.Unmarshal(raw, &contacts); err != nil {
		return nil, fmt.Errorf("decode contacts: %w", err)
	}

	version, err := m.currentVersion(ctx, tenant)
	if err != nil {
		return nil, err
	}

	lex, err := lexical.Build(contacts)
	if err != nil {
		return nil, fmt.Errorf("rebuild lexical index: %w", err)
	}

	snap := &Snapshot{
		tenant:   tenant,
		version:  version,
		contacts: contacts,
		lexical:  lex,
		builtAt:  time.Now(),
	}

	if m.embedder != nil {
		sem, err := m.loadSemantic(ctx, tenant, contacts)
		if err != nil {
			m.logger.Warn("semantic vectors unavailable, loading lexical-only",
				zap.String("tenant", tenant), zap.Error(err))
		} else {
			snap.semantic = sem
		}
	}

	m.slot(tenant).Store(snap)
	metrics.IndexedContacts.WithLabelValues(tenant).Set(float64(len(contacts)))

	m.logger.Info("snapshot loaded",
		zap.String("tenant", tenant),
		zap.Int64("version", version),
		zap.Int("contacts", len(contacts)),
		zap.Bool("semantic", snap.semantic != nil))

	return snap, nil
}

func (m *Manager) loadSemantic(ctx context.Context, tenant string, contacts []domain.Contact) (*semantic.Index, error) {
	raw, err := m.store.Get(ctx, m.vectorsKey(tenant))
	if err != nil {
		return nil, fmt.Errorf("load vectors: %w", err)
	}
	vectors, err := semantic.DecodeVectors(raw)
	if err != nil {
		return nil, fmt.Errorf("decode vectors: %w", err)
	}
	return semantic.Restore(contacts, vectors, m.embedder)
}

// slot returns the tenant's pointer cell, creating it under m.mu.
// Callers must hold m.mu or tolerate a racing create, so Build and Load call
// it locked; Active reads the map under the same lock.
func (m *Manager) slot(tenant string) *atomic.Pointer[Snapshot] {
	if p, ok := m.tenants[tenant]; ok {
		return p
	}
	p := &atomic.Pointer[Snapshot]{}
	m.tenants[tenant] = p
	return p
}

func (m *Manager) persist(ctx context.Context, snap *Snapshot) error {
	raw, err := json.Marshal(snap.contacts)
	if err != nil {
		return fmt.Errorf("encode contacts: %w", err)
	}
	if err := m.store.Set(ctx, m.contactsKey(snap.tenant), raw); err != nil {
		return fmt.Errorf("persist contacts: %w", err)
	}
	if snap.semantic != nil {
		if err := m.store.Set(ctx, m.vectorsKey(snap.tenant), semantic.EncodeVectors(snap.semantic.Vectors())); err != nil {
			return fmt.Errorf("persist vectors: %w", err)
		}
	} else if err := m.store.Del(ctx, m.vectorsKey(snap.tenant)); err != nil {
		return fmt.Errorf("drop stale vectors: %w", err)
	}
	if err := m.store.Set(ctx, m.versionKey(snap.tenant), []byte(strconv.FormatInt(snap.version, 10))); err != nil {
		return fmt.Errorf("persist version: %w", err)
	}
	return nil
}

// nextVersion increments the persisted version counter. Versions survive
// restarts so stale cache entries keyed on an older version never resurface.
func (m *Manager) nextVersion(ctx context.Context, tenant string) (int64, error) {
	current, err := m.currentVersion(ctx, tenant)
	if err != nil {
		return 0, err
	}
	return current + 1, nil
}

func (m *Manager) currentVersion(ctx context.Context, tenant string) (int64, error) {
	raw, err := m.store.Get(ctx, m.versionKey(tenant))
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return 0, nil
		}
		return 0, fmt.Errorf("load version: %w", err)
	}
	v, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse version %q: %w", raw, err)
	}
	return v, nil
}

func (m *Manager) contactsKey(tenant string) string {
	return m.prefix + "snapshot:" + tenant + ":contacts"
}

func (m *Manager) vectorsKey(tenant string) string {
	return m.prefix + "snapshot:" + tenant + ":vectors"
}

func (m *Manager) versionKey(tenant string) string {
	return m.prefix + "snapshot:" + tenant + ":version"
}

package session

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/expensekeeper/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/expensekeeper/internal/common"
	"github.com/dmitrijs2005/expensekeeper/internal/dbx"
)

// Credential is the stored session token and when it was saved. A zero
// Token means no session.
type Credential struct {
	Token   string
	SavedAt time.Time
}

// Store persists a single Credential.
type Store interface {
	Load(ctx context.Context) (Credential, error)
	Save(ctx context.Context, c Credential) error
	Clear(ctx context.Context) error
}

// SQLStore keeps the credential in the metadata table.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) Load(ctx context.Context) (Credential, error) {
	repo := metadata.NewSQLiteRepository(s.db)

	tok, err := repo.Get(ctx, common.TokenKey)
	if err != nil {
		return Credential{}, err
	}
	if len(tok) == 0 {
		return Credential{}, nil
	}

	c := Credential{Token: string(tok)}
	at, err := repo.Get(ctx, common.TokenSavedAtKey)
	if err != nil {
		return Credential{}, err
	}
	if len(at) > 0 {
		if t, err := time.Parse(time.RFC3339, string(at)); err == nil {
			c.SavedAt = t
		}
	}
	return c, nil
}

// Save writes the token and its timestamp in one transaction.
func (s *SQLStore) Save(ctx context.Context, c Credential) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Set(ctx, common.TokenKey, []byte(c.Token)); err != nil {
			return err
		}
		if err := repo.Set(ctx, common.TokenSavedAtKey, []byte(c.SavedAt.UTC().Format(time.RFC3339))); err != nil {
			return err
		}
		return nil
	})
}

func (s *SQLStore) Clear(ctx context.Context) error {
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if err := repo.Delete(ctx, common.TokenKey); err != nil {
			return err
		}
		return repo.Delete(ctx, common.TokenSavedAtKey)
	})
	if err != nil {
		return fmt.Errorf("clear credential: %w", err)
	}
	return nil
}

// MemoryStore is a process-local Store.
type MemoryStore struct {
	mu sync.Mutex
	c  Credential
}

func (m *MemoryStore) Load(context.Context) (Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.c, nil
}

func (m *MemoryStore) Save(_ context.Context, c Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c = c
	return nil
}

func (m *MemoryStore) Clear(context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.c = Credential{}
	return nil
}

package store

import (
	"sort"
	"sync"
	"time"

	"github.com/dropDatabas3/zoombroker/internal/domain/repository"
	"github.com/dropDatabas3/zoombroker/internal/domain/types"
)

// CredentialStore es el CredentialRepository en memoria del proceso.
// Un único RWMutex cubre todo el map: la contención es baja y cada operación es O(1).
type CredentialStore struct {
	mu      sync.RWMutex
	records map[string]types.CredentialRecord
	now     func() time.Time
}

var _ repository.CredentialRepository = (*CredentialStore)(nil)

// NewCredentialStore crea un store vacío.
func NewCredentialStore() *CredentialStore {
	return &CredentialStore{
		records: make(map[string]types.CredentialRecord),
		now:     time.Now,
	}
}

func (s *CredentialStore) Put(userID string, tokens types.TokenSet, identity types.Identity) error {
	if userID == "" {
		return repository.ErrInvalidInput
	}
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[userID] = types.CredentialRecord{
		UserID:    userID,
		Tokens:    tokens,
		Identity:  cloneIdentity(identity),
		CreatedAt: now,
		UpdatedAt: now,
	}
	return nil
}

func (s *CredentialStore) Get(userID string) (types.CredentialRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.records[userID]
	if !ok {
		return types.CredentialRecord{}, false
	}
	rec.Identity = cloneIdentity(rec.Identity)
	return rec, true
}

func (s *CredentialStore) UpdateTokenSet(userID string, tokens types.TokenSet) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.records[userID]
	if !ok {
		return repository.ErrNotFound
	}
	rec.Tokens = tokens
	rec.UpdatedAt = s.now()
	s.records[userID] = rec
	return nil
}

func (s *CredentialStore) Delete(userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.records[userID]; !ok {
		return repository.ErrNotFound
	}
	delete(s.records, userID)
	return nil
}

func (s *CredentialStore) List() []string {
	s.mu.RLock()
	ids := make([]string, 0, len(s.records))
	for id := range s.records {
		ids = append(ids, id)
	}
	s.mu.RUnlock()

	sort.Strings(ids)
	return ids
}

// Len devuelve la cantidad de credenciales (gauge de métricas).
func (s *CredentialStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// el Raw es un slice: sin copia, quien recibe el record podría mutar el estado interno
func cloneIdentity(id types.Identity) types.Identity {
	if id.Raw != nil {
		id.Raw = append([]byte(nil), id.Raw...)
	}
	return id
}

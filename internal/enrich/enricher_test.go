package enrich

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/CJPJ007/ar-properties-identity/internal/domain"
	"github.com/CJPJ007/ar-properties-identity/internal/resolver"
)

type fakeCustomerClient struct {
	mu          sync.Mutex
	records     map[string]*domain.CustomerRecord
	lookupDelay time.Duration
	upsertErr   error
	upserts     []domain.CustomerUpsert
	lookups     []string
}

func (f *fakeCustomerClient) Upsert(_ context.Context, in domain.CustomerUpsert) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts = append(f.upserts, in)
	return f.upsertErr
}

func (f *fakeCustomerClient) Lookup(_ context.Context, identifier string) (*domain.CustomerRecord, error) {
	f.mu.Lock()
	f.lookups = append(f.lookups, identifier)
	record, ok := f.records[identifier]
	delay := f.lookupDelay
	f.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}
	if !ok {
		return nil, fmt.Errorf("lookup failed: status=404")
	}
	copied := *record
	return &copied, nil
}

func newEnricher(customers *fakeCustomerClient) *Enricher {
	return New(customers, resolver.New(customers, nil, zap.NewNop()), zap.NewNop())
}

func TestRefresh_BackendWins(t *testing.T) {
	customers := &fakeCustomerClient{records: map[string]*domain.CustomerRecord{
		"999": {ID: "c1", Name: "Backend Name", Email: "backend@b.com", Mobile: "999", ReferralCode: "R9"},
	}}
	e := newEnricher(customers)

	token, err := e.Refresh(context.Background(), domain.SessionToken{
		Mobile: "999",
		Name:   "Provider Name",
		Email:  "provider@b.com",
		Avatar: "https://img",
	})
	require.NoError(t, err)
	require.Equal(t, "Backend Name", token.Name)
	require.Equal(t, "backend@b.com", token.Email)
	require.Equal(t, "R9", token.ReferralCode)
	// Avatar is not backend-resolved; provider value survives.
	require.Equal(t, "https://img", token.Avatar)
}

func TestRefresh_EmailFallbackPopulatesReferralCode(t *testing.T) {
	customers := &fakeCustomerClient{records: map[string]*domain.CustomerRecord{
		"a@b.com": {ID: "c1", Name: "A", Email: "a@b.com", Mobile: "777", ReferralCode: "R1"},
	}}
	e := newEnricher(customers)

	token, err := e.Refresh(context.Background(), domain.SessionToken{Mobile: "", Email: "a@b.com"})
	require.NoError(t, err)
	require.Equal(t, "R1", token.ReferralCode)
	require.Equal(t, "777", token.Mobile)
	require.Equal(t, []string{"", "a@b.com"}, customers.lookups)
}

func TestRefresh_BothLookupsFailLeavesTokenUnchanged(t *testing.T) {
	customers := &fakeCustomerClient{}
	e := newEnricher(customers)

	before := domain.SessionToken{
		Subject:      "sub-1",
		Mobile:       "999",
		Name:         "X",
		Email:        "x@y.com",
		ReferralCode: "R1",
		Avatar:       "img",
	}
	after, err := e.Refresh(context.Background(), before)

	var enrichErr *domain.EnrichmentError
	require.ErrorAs(t, err, &enrichErr)
	require.Equal(t, "resolve", enrichErr.Step)
	require.Equal(t, before, after)
}

func TestLogin_UpsertFailureDoesNotBlock(t *testing.T) {
	customers := &fakeCustomerClient{
		upsertErr: fmt.Errorf("upsert failed: status=500"),
		records: map[string]*domain.CustomerRecord{
			"111": {ID: "c1", Name: "Canonical", Email: "c@b.com", Mobile: "111", ReferralCode: "R2"},
		},
	}
	e := newEnricher(customers)

	token := e.Login(context.Background(), domain.IdentityClaims{
		SubjectID:   "sub-1",
		PhoneNumber: "111",
		DisplayName: "Provider",
		Email:       "p@b.com",
	})

	require.Len(t, customers.upserts, 1)
	require.Equal(t, "111", customers.upserts[0].Mobile)
	require.Equal(t, "Canonical", token.Name)
	require.Equal(t, "R2", token.ReferralCode)
	require.Equal(t, "sub-1", token.Subject)
}

func TestLogin_NoBackendRecordKeepsProviderValues(t *testing.T) {
	customers := &fakeCustomerClient{}
	e := newEnricher(customers)

	token := e.Login(context.Background(), domain.IdentityClaims{
		SubjectID:   "sub-1",
		Email:       "p@b.com",
		DisplayName: "Provider",
		PhotoURL:    "img",
	})

	require.Equal(t, "Provider", token.Name)
	require.Equal(t, "p@b.com", token.Email)
	require.Empty(t, token.ReferralCode)
}

type memoryTokenStore struct {
	mu    sync.Mutex
	token domain.SessionToken
}

func (m *memoryTokenStore) save(token domain.SessionToken) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
}

func (m *memoryTokenStore) load() domain.SessionToken {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func TestRefresh_ConcurrentLastWriteWins(t *testing.T) {
	// Two refreshes for the same identity resolve to different mobile
	// numbers; the store ends up holding whichever write completed last.
	slow := &fakeCustomerClient{
		lookupDelay: 50 * time.Millisecond,
		records: map[string]*domain.CustomerRecord{
			"base": {ID: "c1", Name: "A", Email: "a@b.com", Mobile: "111"},
		},
	}
	fast := &fakeCustomerClient{records: map[string]*domain.CustomerRecord{
		"base": {ID: "c1", Name: "A", Email: "a@b.com", Mobile: "222"},
	}}

	store := &memoryTokenStore{}
	seed := domain.SessionToken{Mobile: "base", Email: "a@b.com"}
	store.save(seed)

	var wg sync.WaitGroup
	for _, e := range []*Enricher{newEnricher(slow), newEnricher(fast)} {
		wg.Add(1)
		go func(e *Enricher) {
			defer wg.Done()
			token, _ := e.Refresh(context.Background(), seed)
			store.save(token)
		}(e)
	}
	wg.Wait()

	// The delayed resolution finishes, and therefore writes, last.
	require.Equal(t, "111", store.load().Mobile)
}

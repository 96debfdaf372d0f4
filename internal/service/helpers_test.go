package service

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MKhiriev/go-secret-vault/internal/clock"
	"github.com/MKhiriev/go-secret-vault/internal/config"
	"github.com/MKhiriev/go-secret-vault/internal/crypto"
	"github.com/MKhiriev/go-secret-vault/internal/logger"
	"github.com/MKhiriev/go-secret-vault/internal/store"
	"github.com/MKhiriev/go-secret-vault/internal/totp"
	"github.com/MKhiriev/go-secret-vault/models"
	"github.com/stretchr/testify/require"
)

const rfcSecret = "GEZDGNBVGY3TQOJQGEZDGNBVGY3TQOJQ" // base32 of "12345678901234567890"

var testStart = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// sequentialIDs issues "id-1", "id-2", ... and is safe for concurrent use.
type sequentialIDs struct {
	n atomic.Int64
}

func (s *sequentialIDs) Generate() string {
	return fmt.Sprintf("id-%d", s.n.Add(1))
}

// countingKeyChain records how many keys were generated.
type countingKeyChain struct {
	crypto.KeyChainService
	generated atomic.Int64
}

func (c *countingKeyChain) GenerateKey() (crypto.Key, error) {
	c.generated.Add(1)
	return c.KeyChainService.GenerateKey()
}

type testEnv struct {
	docs     store.DocumentStore
	keyChain *countingKeyChain
	clock    *clock.Manual
	vaults   Vaults
}

func newTestEnv(t *testing.T, masterKey crypto.Key) *testEnv {
	t.Helper()

	kc, err := crypto.NewKeyChainService(masterKey)
	require.NoError(t, err)

	env := &testEnv{
		docs:     store.NewDocumentStore(store.NewMemoryBackend(), logger.Nop()),
		keyChain: &countingKeyChain{KeyChainService: kc},
		clock:    clock.NewManual(testStart),
	}
	env.vaults = NewVaults(VaultDeps{
		Documents: env.docs,
		KeyChain:  env.keyChain,
		Engine:    totp.NewEngine(env.clock),
		IDs:       &sequentialIDs{},
		Clock:     env.clock,
	}, config.App{TotpIssuer: "go-secret-vault", TotpSkew: new(1)}, logger.Nop())

	return env
}

func (e *testEnv) vault(t *testing.T, userID string) Vault {
	t.Helper()
	v, err := e.vaults.ForUser(userID)
	require.NoError(t, err)
	return v
}

// record returns a copy of the persisted record of userID.
func (e *testEnv) record(t *testing.T, userID string) *models.UserRecord {
	t.Helper()
	var rec *models.UserRecord
	require.NoError(t, e.docs.View(context.Background(), func(doc *models.Document) error {
		rec, _ = doc.User(userID)
		return nil
	}))
	require.NotNil(t, rec, "user %s has no record", userID)
	return rec
}

func parallel(n int, fn func(i int)) {
	var wg sync.WaitGroup
	wg.Add(n)
	for i := range n {
		go func() {
			defer wg.Done()
			fn(i)
		}()
	}
	wg.Wait()
}

func strPtr(s string) *string { return &s }

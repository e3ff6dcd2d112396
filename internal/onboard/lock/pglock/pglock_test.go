package pglock_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/aussiebroadwan/onboard/internal/onboard/lock/pglock"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// postgresDSN returns ONBOARD_TEST_POSTGRES_DSN or starts a throwaway
// Postgres container. The test is skipped when neither is possible.
func postgresDSN(t *testing.T) string {
	t.Helper()
	if dsn := os.Getenv("ONBOARD_TEST_POSTGRES_DSN"); dsn != "" {
		return dsn
	}
	if testing.Short() {
		t.Skip("postgres container skipped in -short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	ctx := context.Background()
	ctr, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "postgres:16-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "onboard",
				"POSTGRES_PASSWORD": "onboard",
				"POSTGRES_DB":       "onboard",
			},
			WaitingFor: wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = ctr.Terminate(context.Background()) })

	host, err := ctr.Host(ctx)
	require.NoError(t, err)
	port, err := ctr.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	return fmt.Sprintf("postgres://onboard:onboard@%s:%s/onboard?sslmode=disable", host, port.Port())
}

func TestAdvisoryLockSerialises(t *testing.T) {
	ctx := context.Background()
	l, err := pglock.New(ctx, postgresDSN(t))
	require.NoError(t, err)
	t.Cleanup(l.Close)

	release, err := l.Acquire(ctx, "signup:alice@example.com")
	require.NoError(t, err)

	blocked := make(chan struct{})
	go func() {
		defer close(blocked)
		again, err := l.Acquire(ctx, "signup:alice@example.com")
		if err == nil {
			again()
		}
	}()

	select {
	case <-blocked:
		t.Fatal("held lock was granted to another session")
	case <-time.After(200 * time.Millisecond):
	}

	other, err := l.Acquire(ctx, "signup:bob@example.com")
	require.NoError(t, err, "different keys do not contend")
	other()

	release()

	select {
	case <-blocked:
	case <-time.After(5 * time.Second):
		t.Fatal("waiter not granted the lock after release")
	}
}

func TestAcquireHonoursContext(t *testing.T) {
	ctx := context.Background()
	l, err := pglock.New(ctx, postgresDSN(t))
	require.NoError(t, err)
	t.Cleanup(l.Close)

	release, err := l.Acquire(ctx, "signup:carol@example.com")
	require.NoError(t, err)
	defer release()

	short, cancel := context.WithTimeout(ctx, 200*time.Millisecond)
	defer cancel()
	_, err = l.Acquire(short, "signup:carol@example.com")
	require.Error(t, err)
}

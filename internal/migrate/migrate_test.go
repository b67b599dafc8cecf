package migrate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigure_SetsPostgresDialect(t *testing.T) {
	require.NoError(t, configure())
}

func TestUp_UnreachableDatabase(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	// port 1 is never a postgres listener; the first query must fail
	_, err := Up(ctx, "postgres://u:p@127.0.0.1:1/none?sslmode=disable&connect_timeout=1")
	require.Error(t, err)
}

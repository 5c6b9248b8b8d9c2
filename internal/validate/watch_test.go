package validate

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/nesso/internal/testutil"
)

func TestWatch(t *testing.T) {
	root := t.TempDir()
	models := filepath.Join(root, "models")
	require.NoError(t, os.MkdirAll(filepath.Join(models, "marts"), 0750))

	var (
		mu      sync.Mutex
		changed []string
	)
	seen := func(name string) bool {
		mu.Lock()
		defer mu.Unlock()
		for _, c := range changed {
			if filepath.Base(c) == name {
				return true
			}
		}
		return false
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, []string{models, filepath.Join(root, "missing")}, 20*time.Millisecond, testutil.NewTestLogger(t), func(path string) {
			mu.Lock()
			changed = append(changed, path)
			mu.Unlock()
		})
	}()

	// The watcher registers asynchronously, so keep touching the file until
	// the change is observed.
	yamlPath := filepath.Join(models, "marts", "orders.yml")
	assert.Eventually(t, func() bool {
		_ = os.WriteFile(yamlPath, []byte("version: 2\nmodels: []\n"), 0600)
		return seen("orders.yml")
	}, 5*time.Second, 50*time.Millisecond)

	sqlPath := filepath.Join(models, "marts", "orders.sql")
	require.NoError(t, os.WriteFile(sqlPath, []byte("select 1"), 0600))
	time.Sleep(100 * time.Millisecond)
	assert.False(t, seen("orders.sql"), "non-YAML files are ignored")

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}

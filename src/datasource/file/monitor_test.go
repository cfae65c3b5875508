package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsSourceFile(t *testing.T) {
	assert.True(t, IsSourceFile("/data/110.01.csv"))
	assert.True(t, IsSourceFile("Ocean2021.XLSX"))
	assert.False(t, IsSourceFile("notes.txt"))
	assert.False(t, IsSourceFile(".110.01.csv.swp"))
	assert.False(t, IsSourceFile("~$Ocean2021.xlsx"))
}

func TestWatchDebouncesEvents(t *testing.T) {
	dir := t.TempDir()
	monitor, err := NewFileMonitor(dir, 100*time.Millisecond)
	require.NoError(t, err)
	defer monitor.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	got := make(chan []string, 4)
	done := make(chan error, 1)
	go func() {
		done <- monitor.Watch(ctx, func(changed []string) {
			got <- changed
			cancel()
		})
	}()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "readme.txt"), []byte("x"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "110.01.csv"), []byte("縣市別\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Ocean2021.csv"), []byte("縣市別\n"), 0644))

	select {
	case changed := <-got:
		assert.Equal(t, []string{"110.01.csv", "Ocean2021.csv"}, changed)
	case <-time.After(5 * time.Second):
		t.Fatal("handler was not called")
	}
	assert.NoError(t, <-done)
}

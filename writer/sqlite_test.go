package writer

import (
	"context"
	"database/sql"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/mevdschee/tqdbkit/batch"
	"github.com/mevdschee/tqdbkit/translator"
)

func setupTestDB(t *testing.T) *sql.DB {
	return setupDriverDB(t, "sqlite3")
}

func setupDriverDB(t *testing.T, driver string) *sql.DB {
	db, err := sql.Open(driver, ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	// Every connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	_, err = db.Exec(`CREATE TABLE events (
		id INTEGER PRIMARY KEY,
		name TEXT NOT NULL
	)`)
	if err != nil {
		t.Fatal(err)
	}
	return db
}

func countRows(t *testing.T, db *sql.DB) int {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM events").Scan(&count); err != nil {
		t.Fatal(err)
	}
	return count
}

func TestBatchToSQLite(t *testing.T) {
	// mattn/go-sqlite3 registers "sqlite3", the pure Go modernc.org/sqlite "sqlite".
	for _, driver := range []string{"sqlite3", "sqlite"} {
		t.Run(driver, func(t *testing.T) {
			testBatchToSQLite(t, driver)
		})
	}
}

func testBatchToSQLite(t *testing.T, driver string) {
	db := setupDriverDB(t, driver)
	defer db.Close()

	w := New(db, driver, "", newTranslator(t, translator.SQLite()))
	cfg := batch.DefaultConfig()
	cfg.Name = "sqlite"
	cfg.BatchSize = 3
	b, err := batch.New(w, cfg)
	require.NoError(t, err)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		require.NoError(t, b.AddRow(ctx, "events", batch.Row{"id": i, "name": "event"}))
	}
	assert.Equal(t, 3, countRows(t, db), "first three rows flushed by size")

	require.NoError(t, b.Destroy(ctx))
	assert.Equal(t, 4, countRows(t, db), "remaining row flushed on destroy")
}

func TestBatchToSQLite_ConstraintViolation(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	var mu sync.Mutex
	var failed []batch.Entry
	handler := batch.FailureHandlerFunc(func(entries []batch.Entry) {
		mu.Lock()
		defer mu.Unlock()
		failed = append(failed, entries...)
	})

	w := New(db, "sqlite3", "", newTranslator(t, translator.SQLite()))
	cfg := batch.DefaultConfig()
	cfg.BatchSize = 10
	b, err := batch.New(w, cfg, batch.WithFailureHandler(handler))
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, b.AddRow(ctx, "events", batch.Row{"id": 1, "name": "a"}))
	require.NoError(t, b.AddRow(ctx, "events", batch.Row{"id": 1, "name": "b"}))
	require.NoError(t, b.AddRow(ctx, "events", batch.Row{"id": 2, "name": "c"}))

	err = b.Flush(ctx)
	var storeErr *StoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, KindOther, storeErr.Kind(), "sqlite errors are not classified")

	assert.Len(t, failed, 3)
	assert.Equal(t, 0, countRows(t, db), "failed window is rolled back")
	assert.False(t, w.IsTransactionActive())

	// The writer is usable again after the rollback.
	require.NoError(t, b.AddRow(ctx, "events", batch.Row{"id": 3, "name": "d"}))
	require.NoError(t, b.Flush(ctx))
	assert.Equal(t, 1, countRows(t, db))
}

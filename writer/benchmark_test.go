package writer

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mevdschee/tqdbkit/batch"
	"github.com/mevdschee/tqdbkit/translator"
)

func benchmarkDB(b *testing.B) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		b.Fatal(err)
	}
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("CREATE TABLE test (id INTEGER PRIMARY KEY, value TEXT)"); err != nil {
		b.Fatal(err)
	}
	return db
}

// Benchmark comparing one statement per row with batched transactions
func BenchmarkWriteBatching(b *testing.B) {
	b.Run("Unbatched", func(b *testing.B) {
		db := benchmarkDB(b)
		defer db.Close()

		b.ResetTimer()
		for i := 0; i < b.N; i++ {
			if _, err := db.Exec("INSERT INTO test (value) VALUES (?)", fmt.Sprintf("test%d", i)); err != nil {
				b.Fatal(err)
			}
		}
	})

	for _, size := range []int{10, 100, 1000} {
		b.Run(fmt.Sprintf("Batched_%d", size), func(b *testing.B) {
			benchmarkBatchedInserts(b, size, 1)
		})
	}
}

// Benchmark throughput with concurrent producers
func BenchmarkConcurrentProducers(b *testing.B) {
	for _, producers := range []int{1, 4, 16} {
		b.Run(fmt.Sprintf("Producers_%d", producers), func(b *testing.B) {
			benchmarkBatchedInserts(b, 100, producers)
		})
	}
}

func benchmarkBatchedInserts(b *testing.B, batchSize, producers int) {
	db := benchmarkDB(b)
	defer db.Close()

	tr, err := translator.New(translator.SQLite())
	if err != nil {
		b.Fatal(err)
	}
	cfg := batch.DefaultConfig()
	cfg.Name = "bench"
	cfg.BatchSize = batchSize
	bt, err := batch.New(New(db, "sqlite3", "", tr), cfg)
	if err != nil {
		b.Fatal(err)
	}
	ctx := context.Background()

	b.ResetTimer()
	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := p; i < b.N; i += producers {
				if err := bt.AddRow(ctx, "test", batch.Row{"value": fmt.Sprintf("test%d", i)}); err != nil {
					b.Error(err)
					return
				}
			}
		}(p)
	}
	wg.Wait()
	if err := bt.Destroy(ctx); err != nil {
		b.Fatal(err)
	}
}

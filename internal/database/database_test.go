package database

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestOpen_MigratesAndReopens(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ootp.db")

	for i := 0; i < 2; i++ {
		db, err := Open(path, zerolog.Nop())
		if err != nil {
			t.Fatalf("Open #%d: %v", i, err)
		}
		var n int
		if err := db.QueryRow(`SELECT COUNT(*) FROM best_scores`).Scan(&n); err != nil {
			t.Errorf("best_scores missing after open #%d: %v", i, err)
		}
		db.Close()
	}
}

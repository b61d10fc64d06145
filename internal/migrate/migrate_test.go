package migrate

import (
	"strings"
	"testing"
)

func TestFiles_SortedAndEmbedded(t *testing.T) {
	files, err := Files()
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(files) == 0 || files[0] != "0001_bookings.sql" {
		t.Fatalf("expected 0001_bookings.sql first, got %v", files)
	}
	b, err := fs.ReadFile(files[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(b), "CREATE TABLE IF NOT EXISTS bookings") {
		t.Fatalf("expected bookings table in first migration")
	}
}

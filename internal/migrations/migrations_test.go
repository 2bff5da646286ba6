package migrations_test

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/JaimeStill/agent-console/internal/migrations"
)

func TestFS_PairedMigrations(t *testing.T) {
	entries, err := fs.ReadDir(migrations.FS, migrations.Dir)
	if err != nil {
		t.Fatalf("read dir: %v", err)
	}

	ups, downs := map[string]bool{}, map[string]bool{}
	for _, e := range entries {
		name := e.Name()
		switch {
		case strings.HasSuffix(name, ".up.sql"):
			ups[strings.TrimSuffix(name, ".up.sql")] = true
		case strings.HasSuffix(name, ".down.sql"):
			downs[strings.TrimSuffix(name, ".down.sql")] = true
		default:
			t.Errorf("unexpected file %s", name)
		}
	}

	if len(ups) == 0 {
		t.Fatal("no migrations embedded")
	}
	for v := range ups {
		if !downs[v] {
			t.Errorf("migration %s has no down file", v)
		}
	}
}

func TestFS_MessagesImmutable(t *testing.T) {
	data, err := fs.ReadFile(migrations.FS, migrations.Dir+"/000001_init.up.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), "BEFORE UPDATE ON messages") {
		t.Error("messages table lacks the update trigger")
	}
}

func TestFS_ConversationStatus(t *testing.T) {
	data, err := fs.ReadFile(migrations.FS, migrations.Dir+"/000002_conversation_status.up.sql")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{"ADD COLUMN status", "'active', 'completed', 'canceled'", "ADD COLUMN completed_at"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("conversation status migration lacks %q", want)
		}
	}
	if strings.Count(string(data), "ADD COLUMN metadata") != 2 {
		t.Error("conversations and messages both need a metadata column")
	}
}

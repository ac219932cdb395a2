package orgledger

import (
	"flag"
	"testing"
	"time"
)

func TestParseConfig_ParsesDefaultsAndFlags(t *testing.T) {
	fs := flag.NewFlagSet("orgledger", flag.ContinueOnError)
	t.Setenv("ORGLEDGER_PORT", "9090")
	t.Setenv("ORGLEDGER_JOURNAL_DB_PATH", "/tmp/j.db")

	cfg, err := ParseConfig(fs, []string{"-batch-size", "25", "-poll-interval", "250ms"})
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 9090 {
		t.Fatalf("port = %d, want 9090", cfg.Port)
	}
	if cfg.JournalDBPath != "/tmp/j.db" {
		t.Fatalf("journal db path = %q, want %q", cfg.JournalDBPath, "/tmp/j.db")
	}
	if cfg.BatchSize != 25 {
		t.Fatalf("batch size = %d, want 25", cfg.BatchSize)
	}
	if cfg.PollInterval != 250*time.Millisecond {
		t.Fatalf("poll interval = %v, want 250ms", cfg.PollInterval)
	}
}

func TestParseConfig_Defaults(t *testing.T) {
	fs := flag.NewFlagSet("orgledger", flag.ContinueOnError)

	cfg, err := ParseConfig(fs, nil)
	if err != nil {
		t.Fatalf("parse config: %v", err)
	}
	if cfg.Port != 8080 {
		t.Fatalf("port = %d, want 8080", cfg.Port)
	}
	if cfg.MaxAttempts != 5 {
		t.Fatalf("max attempts = %d, want 5", cfg.MaxAttempts)
	}
	if cfg.ReadDBPath != "data/readmodel.db" {
		t.Fatalf("read db path = %q, want %q", cfg.ReadDBPath, "data/readmodel.db")
	}
}

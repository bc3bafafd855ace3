package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	_ "github.com/pgEdge/pgedge-olist-etl/internal/marts"
	_ "github.com/pgEdge/pgedge-olist-etl/internal/raw"
	_ "github.com/pgEdge/pgedge-olist-etl/internal/staging"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv("DATABASE_URL", "")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() { rootCmd.SetArgs(nil) })

	err := rootCmd.Execute()
	return out.String(), err
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"init", "load", "staging", "marts", "run", "verify",
		"generate", "status", "ping", "stages", "version",
	}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("Command '%s' not registered", name)
		}
	}
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if !strings.Contains(out, "pgedge-olist-etl") {
		t.Errorf("Expected program name in output, got: %s", out)
	}
}

func TestStagesCommand(t *testing.T) {
	out, err := execute(t, "stages")
	if err != nil {
		t.Fatalf("stages failed: %v", err)
	}
	for _, table := range []string{"customers", "stg_geolocation", "dim_date"} {
		if !strings.Contains(out, table) {
			t.Errorf("Expected '%s' in output, got: %s", table, out)
		}
	}
}

func TestFlagsOverrideConfig(t *testing.T) {
	_, err := execute(t, "version", "--connection", "postgres://flag@localhost/olist",
		"--data-dir", "/tmp/extracts", "--log-level", "debug")
	if err != nil {
		t.Fatalf("version failed: %v", err)
	}
	if cfg.DatabaseURL != "postgres://flag@localhost/olist" {
		t.Errorf("Expected connection from flag, got '%s'", cfg.DatabaseURL)
	}
	if cfg.DataDir != "/tmp/extracts" {
		t.Errorf("Expected data dir from flag, got '%s'", cfg.DataDir)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("Expected log level from flag, got '%s'", cfg.LogLevel)
	}
}

func TestPingRequiresDatabaseURL(t *testing.T) {
	connection = ""
	_, err := execute(t, "ping")
	if err == nil {
		t.Fatal("Expected error without DATABASE_URL, got nil")
	}
	if !strings.Contains(err.Error(), "DATABASE_URL") {
		t.Errorf("Expected DATABASE_URL error, got: %v", err)
	}
}

func TestGenerateCommand(t *testing.T) {
	generateForce = false
	dir := t.TempDir()
	out, err := execute(t, "generate", "--orders", "10", "--seed", "3", "--out", dir)
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if !strings.Contains(out, "olist_orders_dataset.csv") {
		t.Errorf("Expected written files in output, got: %s", out)
	}
}

func TestGenerateKeepsExistingExtracts(t *testing.T) {
	generateForce = false
	t.Cleanup(func() { generateForce = false })
	dir := t.TempDir()
	existing := filepath.Join(dir, "olist_customers_dataset.csv")
	original := []byte("customer_id\nreal-customer\n")
	if err := os.WriteFile(existing, original, 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := execute(t, "generate", "--orders", "10", "--out", dir)
	if err == nil {
		t.Fatal("Expected error when extracts already exist, got nil")
	}
	if !strings.Contains(err.Error(), "--force") {
		t.Errorf("Expected a hint about --force, got: %v", err)
	}

	data, err := os.ReadFile(existing)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(data, original) {
		t.Errorf("Existing extract was modified: %q", data)
	}

	if _, err := execute(t, "generate", "--orders", "10", "--out", dir, "--force"); err != nil {
		t.Fatalf("generate --force failed: %v", err)
	}
	if data, _ := os.ReadFile(existing); bytes.Equal(data, original) {
		t.Error("Expected --force to replace the extract")
	}
}

func TestGenerateDefaultsToDataDir(t *testing.T) {
	generateForce = false
	generateOut = ""
	dataDir = ""
	t.Setenv("OLIST_DATA_DIR", "")

	// execute switches to a fresh working directory, so the default
	// data/raw resolves inside it.
	_, err := execute(t, "generate", "--orders", "5")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join("data", "raw", "olist_orders_dataset.csv")); err != nil {
		t.Errorf("Expected extracts under data/raw of the working directory: %v", err)
	}
}

func TestLoadHelpNamesWorkingDirectory(t *testing.T) {
	if !strings.Contains(loadCmd.Long, "working directory") {
		t.Errorf("Expected load help to say how relative paths resolve, got: %s", loadCmd.Long)
	}
}

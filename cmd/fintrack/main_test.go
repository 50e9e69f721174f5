package main

import (
	"bytes"
	"context"
	"crypto/tls"
	"io"
	"log/slog"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Veraticus/fintrack/internal/certs"
	"github.com/Veraticus/fintrack/internal/model"
	"github.com/Veraticus/fintrack/internal/server"
	"github.com/Veraticus/fintrack/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

const statementOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240615120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>555000111
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240601120000[0:GMT]
<DTEND>20240630120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240603120000[0:GMT]
<TRNAMT>-42.10
<FITID>2024060301
<NAME>Corner Pharmacy
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20240605120000[0:GMT]
<TRNAMT>3200.00
<FITID>2024060501
<NAME>ACME PAYROLL
<MEMO>June salary
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>3157.90
<DTASOF>20240630120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

type testEnv struct {
	store  *storage.SQLiteStorage
	config string
	dir    string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	store, err := storage.Open(ctx, storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Seed(ctx))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewServer(server.New(store, server.WithLogger(logger)).Handler())
	t.Cleanup(ts.Close)

	dir := t.TempDir()
	cfg := filepath.Join(dir, "config.yaml")
	content := "api:\n  base_url: " + ts.URL + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o600))

	return &testEnv{store: store, config: cfg, dir: dir}
}

// run executes the CLI with stdin as input and returns stdout.
func (e *testEnv) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &out, &errOut)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func (e *testEnv) categories(t *testing.T) []model.Category {
	t.Helper()
	cats, err := e.store.ListCategories(context.Background())
	require.NoError(t, err)
	return cats
}

func (e *testEnv) entries(t *testing.T) []model.Entry {
	t.Helper()
	entries, err := e.store.ListEntries(context.Background())
	require.NoError(t, err)
	return entries
}

func TestVersionCmd(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "version")
	require.NoError(t, err)
	assert.Equal(t, "fintrack dev\n", out)
}

func TestRootCmdHasSubcommands(t *testing.T) {
	cmd := newRootCmd(strings.NewReader(""), io.Discard, io.Discard)

	for _, name := range []string{"categories", "entries", "serve", "ui", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	importCmd, _, err := cmd.Find([]string{"entries", "import"})
	require.NoError(t, err)
	assert.NotNil(t, importCmd.Flag("category-id"))
	assert.NotNil(t, importCmd.Flag("dry-run"))
}

func TestInvalidConfig(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "--log-format", "xml", "categories", "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "logging.format")
}

func TestCategoriesListOverTLS(t *testing.T) {
	ctx := context.Background()
	store, err := storage.Open(ctx, storage.MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Seed(ctx))

	dir := t.TempDir()
	certStore := certs.NewStore(filepath.Join(dir, "certs"))
	cert, err := certStore.Certificate()
	require.NoError(t, err)

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	ts := httptest.NewUnstartedServer(server.New(store, server.WithLogger(logger)).Handler())
	ts.TLS = &tls.Config{Certificates: []tls.Certificate{cert}, MinVersion: tls.VersionTLS12}
	ts.StartTLS()
	t.Cleanup(ts.Close)

	cfg := filepath.Join(dir, "config.yaml")
	content := "api:\n  base_url: " + ts.URL + "\n  ca_file: " + certStore.CertFile() + "\nlogging:\n  level: error\n"
	require.NoError(t, os.WriteFile(cfg, []byte(content), 0o600))

	env := &testEnv{store: store, config: cfg, dir: dir}
	out, err := env.run(t, "", "categories", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Housing")
}

func TestCategoriesList(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "categories", "list")
	require.NoError(t, err)
	for _, name := range []string{"Housing", "Health", "Leisure", "Salary", "Freelance"} {
		assert.Contains(t, out, name)
	}
	// Newest first.
	assert.Less(t, strings.Index(out, "Freelance"), strings.Index(out, "Housing"))
}

func TestCategoriesAdd(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "categories", "add", "Groceries", "--description", "Supermarket runs")
	require.NoError(t, err)
	assert.Contains(t, out, "Request processed successfully")
	assert.Contains(t, out, "Groceries")

	cats := env.categories(t)
	require.Len(t, cats, 6)
	var found *model.Category
	for i := range cats {
		if cats[i].Name == "Groceries" {
			found = &cats[i]
		}
	}
	require.NotNil(t, found)
	require.NotNil(t, found.Description)
	assert.Equal(t, "Supermarket runs", *found.Description)
}

func TestCategoriesAddRejectsShortName(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "categories", "add", "X")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "name must be at least 2 characters")
	assert.Len(t, env.categories(t), 5)
}

func TestCategoriesEdit(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "categories", "edit", "1", "--name", "Home")
	require.NoError(t, err)

	cat, err := env.store.GetCategory(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Home", cat.Name)
	require.NotNil(t, cat.Description)
	assert.Equal(t, "Rent, utilities and repairs", *cat.Description)
}

func TestCategoriesEditErrors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{name: "missing record", args: []string{"categories", "edit", "99", "--name", "Ghost"}, wantErr: "/categories/99/edit is not available"},
		{name: "bad id", args: []string{"categories", "edit", "abc", "--name", "Ghost"}, wantErr: `invalid id "abc"`},
		{name: "no flags", args: []string{"categories", "edit", "1"}, wantErr: "nothing to change"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, err := env.run(t, "", tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCategoriesDeleteInUse(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "categories", "delete", "1", "--yes")
	require.Error(t, err)
	assert.Contains(t, out, "Error while trying to delete")
	assert.Len(t, env.categories(t), 5)
}

func TestCategoriesDeleteUnused(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "categories", "add", "Travel")
	require.NoError(t, err)

	out, err := env.run(t, "y\n", "categories", "delete", "6")
	require.NoError(t, err)
	assert.Contains(t, out, "Do you really want to delete this item?")
	assert.Contains(t, out, "Deleted category 6")
	assert.Len(t, env.categories(t), 5)
}

func TestEntriesList(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "entries", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "Paycheck")
	assert.Contains(t, out, "-1200.00")
	assert.Contains(t, out, "Housing")
}

func TestEntriesAdd(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "entries", "add", "Groceries",
		"--amount", "54.20", "--category-id", "3", "--date", "2024-06-02", "--paid=false")
	require.NoError(t, err)
	assert.Contains(t, out, "Leisure")

	entries := env.entries(t)
	require.Len(t, entries, 7)
	var found *model.Entry
	for i := range entries {
		if entries[i].Name == "Groceries" {
			found = &entries[i]
		}
	}
	require.NotNil(t, found)
	assert.Equal(t, model.EntryTypeExpense, found.Type)
	assert.Equal(t, "54.2", found.Amount.String())
	assert.Equal(t, "2024-06-02", found.Date.String())
	assert.False(t, found.Paid)
	assert.Equal(t, 3, found.CategoryID)
	assert.Nil(t, found.Description)
}

func TestEntriesAddUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	out, err := env.run(t, "", "entries", "add", "Rent", "--amount", "10", "--category-id", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "categoryId: does not exist")
	assert.Contains(t, out, "An error occurred while processing your request!")
	assert.Len(t, env.entries(t), 6)
}

func TestEntriesEdit(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "entries", "edit", "1", "--amount", "1250", "--description", "New lease")
	require.NoError(t, err)

	entry, err := env.store.GetEntry(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Rent", entry.Name)
	assert.Equal(t, "1250", entry.Amount.String())
	require.NotNil(t, entry.Description)
	assert.Equal(t, "New lease", *entry.Description)
	assert.Equal(t, "2024-03-01", entry.Date.String())
}

func TestEntriesDelete(t *testing.T) {
	tests := []struct {
		name      string
		stdin     string
		args      []string
		wantOut   string
		remaining int
	}{
		{name: "declined", stdin: "n\n", args: []string{"entries", "delete", "2"}, wantOut: "Nothing deleted", remaining: 6},
		{name: "confirmed", stdin: "yes\n", args: []string{"entries", "delete", "2"}, wantOut: "Deleted entry 2", remaining: 5},
		{name: "assume yes", args: []string{"entries", "delete", "2", "--yes"}, wantOut: "Deleted entry 2", remaining: 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			out, err := env.run(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
			assert.Len(t, env.entries(t), tt.remaining)
		})
	}
}

func TestEntriesDeleteMissing(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "entries", "delete", "42", "--yes")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no record with id 42")
}

func writeStatement(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(statementOFX), 0o600))
	return path
}

func TestEntriesImport(t *testing.T) {
	env := newTestEnv(t)
	writeStatement(t, env.dir, "june.ofx")
	// The same statement twice only imports each transaction once.
	writeStatement(t, env.dir, "june-copy.ofx")

	out, err := env.run(t, "", "entries", "import", filepath.Join(env.dir, "*.ofx"), "--category-id", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 entries from 2 files")
	assert.Contains(t, out, "Skipped 2 duplicate transactions")

	entries := env.entries(t)
	require.Len(t, entries, 8)
	byName := map[string]model.Entry{}
	for _, e := range entries {
		byName[e.Name] = e
	}

	pharmacy := byName["Corner Pharmacy"]
	assert.Equal(t, model.EntryTypeExpense, pharmacy.Type)
	assert.Equal(t, "42.1", pharmacy.Amount.String())
	assert.Equal(t, "2024-06-03", pharmacy.Date.String())
	assert.True(t, pharmacy.Paid)
	assert.Equal(t, 4, pharmacy.CategoryID)

	salary := byName["ACME PAYROLL"]
	assert.Equal(t, model.EntryTypeRevenue, salary.Type)
	require.NotNil(t, salary.Description)
	assert.Equal(t, "June salary", *salary.Description)
}

func TestEntriesImportDryRun(t *testing.T) {
	env := newTestEnv(t)
	path := writeStatement(t, env.dir, "june.ofx")

	out, err := env.run(t, "", "entries", "import", path, "--category-id", "4", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Corner Pharmacy")
	assert.Contains(t, out, "Dry run: 2 entries would be imported")
	assert.Len(t, env.entries(t), 6)
}

func TestEntriesImportUnknownCategory(t *testing.T) {
	env := newTestEnv(t)
	path := writeStatement(t, env.dir, "june.ofx")

	out, err := env.run(t, "", "entries", "import", path, "--category-id", "99")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "0 of 2 entries saved, 2 failed")
	assert.Contains(t, out, "categoryId: does not exist")
	assert.Len(t, env.entries(t), 6)
}

func TestEntriesImportNoFiles(t *testing.T) {
	env := newTestEnv(t)
	_, err := env.run(t, "", "entries", "import", filepath.Join(env.dir, "*.qfx"), "--category-id", "4")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no files found to import")
}

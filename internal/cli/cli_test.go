package cli

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"incometracker/internal/core"
)

func TestCredits(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"999", "999"},
		{"1000", "1,000"},
		{"12345678", "12,345,678"},
		{"-4500", "-4,500"},
		{"1499.6", "1,500"},
		{"-0.4", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, credits(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestPrintSummaryText(t *testing.T) {
	cr := int64(2500000)
	s := core.Summary{
		HourlyRate:   decimal.NewFromInt(120000),
		Income:       decimal.NewFromInt(90000),
		Maintenance:  decimal.NewFromInt(-1500),
		Credits:      &cr,
		Transactions: 3,
		ByCategory: []core.CategoryAmount{
			{Category: core.CategoryTrading, Amount: decimal.NewFromInt(90000)},
		},
		Visible: core.Visibility{Maintenance: true, TotalCredits: true, Breakdown: true},
	}

	var buf bytes.Buffer
	require.NoError(t, printSummary(&buf, "text", s))

	out := buf.String()
	assert.Contains(t, out, "120,000 Cr/h")
	assert.Contains(t, out, "90,000 Cr")
	assert.Contains(t, out, "-1,500 Cr")
	assert.Contains(t, out, "2,500,000 Cr")
	assert.Contains(t, out, "trading")
	assert.NotContains(t, out, "No income sources")
}

func TestRootRejectsUnknownFormat(t *testing.T) {
	cmd := NewRootCommand()
	cmd.SetArgs([]string{"--format", "xml", "summary"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid format")
}

func TestPrefsAndSummaryCommands(t *testing.T) {
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "income.db"))
	t.Setenv("AMQP_URL", "")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("RULES_FILE", "")

	run := func(args ...string) string {
		var out bytes.Buffer
		cmd := NewRootCommand()
		cmd.SetArgs(args)
		cmd.SetOut(&out)
		cmd.SetErr(&bytes.Buffer{})
		require.NoError(t, cmd.Execute())
		return out.String()
	}

	out := run("prefs", "--track-combat=false", "--view-mode", "compact")
	assert.Contains(t, out, "track_combat")
	assert.Regexp(t, `track_combat\s+false`, out)
	assert.Regexp(t, `view_mode\s+compact`, out)

	out = run("--format", "json", "prefs")
	assert.Contains(t, out, `"track_combat": false`)
	assert.Contains(t, out, `"view_mode": "compact"`)

	out = run("summary")
	assert.True(t, strings.Contains(out, "Transactions"), out)
}

func sqliteEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATA_BACKEND", "sqlite")
	t.Setenv("SQLITE_DB_PATH", filepath.Join(t.TempDir(), "income.db"))
	t.Setenv("AMQP_URL", "")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("RULES_FILE", "")
}

func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	var out bytes.Buffer
	cmd := NewRootCommand()
	cmd.SetArgs(args)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	require.NoError(t, cmd.Execute())
	return out.String()
}

func TestSummaryLegacy(t *testing.T) {
	sqliteEnv(t)

	out := runCLI(t, "summary", "--legacy")
	assert.Contains(t, out, "Legacy earnings: 0 Cr")

	out = runCLI(t, "--format", "json", "summary", "--legacy")
	assert.Contains(t, out, `"legacy_earnings"`)
}

func TestResetPurge(t *testing.T) {
	sqliteEnv(t)

	runCLI(t, "prefs", "--track-combat=false")
	out := runCLI(t, "reset", "--purge")
	assert.Regexp(t, `Store purged \(\d+ keys\)`, out)
	assert.NotContains(t, out, "(0 keys)")

	out = runCLI(t, "--format", "json", "reset", "--purge")
	assert.Contains(t, out, `"keys": 0`)

	out = runCLI(t, "prefs")
	assert.Regexp(t, `track_combat\s+true`, out, "preferences are back to defaults")
}

func TestRulesCommand(t *testing.T) {
	sqliteEnv(t)

	out := runCLI(t, "rules")
	assert.Regexp(t, `missions\s+MissionCompleted\s+-donation \+reward`, out)

	out = runCLI(t, "rules", "--category", "exploration")
	assert.Equal(t, "SellExplorationData\nMultiSellExplorationData\nBuyExplorationData\n", out)
}

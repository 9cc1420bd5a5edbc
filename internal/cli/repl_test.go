package cli_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepl(t *testing.T) {
	ds := setupCLITest(t)

	input := strings.Join([]string{
		balancePrompt,
		"",
		"  " + balancePrompt + "  ",
		"stats",
		"EXIT",
		"this line is never read",
	}, "\n")

	out, err := executeCmd(t, strings.NewReader(input), "repl", "--dataset", ds)
	require.NoError(t, err)

	want := strings.Join([]string{
		"Account Balance for Acme Corp in 2023: $15,000.75",
		"[Cache Hit] Account Balance for Acme Corp in 2023: $15,000.75",
		"Cache: 1/5 entries, 1 hits, 1 misses, 0 evictions (50.0% hit ratio)",
	}, "\n") + "\n"
	assert.Equal(t, want, out)
	assert.NotContains(t, out, "Ask me a question", "prompt is only shown on a terminal")
}

func TestRepl_EndOfInput(t *testing.T) {
	ds := setupCLITest(t)

	out, err := executeCmd(t, strings.NewReader("average transaction"), "repl", "--dataset", ds)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Average transaction amount by description:\n"))
}

func TestRepl_Eviction(t *testing.T) {
	ds := setupCLITest(t)

	input := strings.Join([]string{
		"balance for client C001 in year 2023",
		"balance for client C002 in year 2023",
		"balance for client C001 in year 2023",
		"balance for client C001 in year 2023",
	}, "\n")

	out, err := executeCmd(t, strings.NewReader(input), "repl", "--dataset", ds, "--cache-size", "1")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.False(t, strings.HasPrefix(lines[2], "[Cache Hit]"), "C001 was evicted by C002")
	assert.True(t, strings.HasPrefix(lines[3], "[Cache Hit]"))
}

func TestRepl_CategoryMissIsCached(t *testing.T) {
	ds := setupCLITest(t)

	input := "client reports for yachts\nclient reports for YACHTS\n"
	out, err := executeCmd(t, strings.NewReader(input), "repl", "--dataset", ds)
	require.NoError(t, err)
	assert.Equal(t,
		"No transactions found for yachts.\n[Cache Hit] No transactions found for yachts.\n", out)
}

func TestReplay(t *testing.T) {
	ds := setupCLITest(t)

	out, err := executeCmd(t, nil, "replay", filepath.Join("testdata", "questions.txt"),
		"--dataset", ds, "--stats", "--batch-size", "2")
	require.NoError(t, err)

	want := strings.Join([]string{
		"Account Balance for Acme Corp in 2023: $15,000.75",
		"Transactions related to rent:",
		"  - Rent: $3,000.00",
		"  - Rent: $2,000.00",
		"[Cache Hit] Account Balance for Acme Corp in 2023: $15,000.75",
		"Cache: 2/5 entries, 1 hits, 2 misses, 0 evictions (33.3% hit ratio)",
	}, "\n") + "\n"
	assert.Equal(t, want, out)
}

func TestReplay_Stdin(t *testing.T) {
	ds := setupCLITest(t)

	out, err := executeCmd(t, strings.NewReader("# only a comment\nmean transaction amount\n"),
		"replay", "-", "--dataset", ds)
	require.NoError(t, err)
	assert.Contains(t, out, "  - Travel: -$120.50")
}

func TestReplay_Errors(t *testing.T) {
	ds := setupCLITest(t)

	_, err := executeCmd(t, nil, "replay", filepath.Join(t.TempDir(), "missing.txt"), "--dataset", ds)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "opening replay file")

	file := filepath.Join(t.TempDir(), "q.txt")
	require.NoError(t, os.WriteFile(file, []byte(balancePrompt+"\n"), 0o600))
	_, err = executeCmd(t, nil, "replay", file, "--dataset", ds, "--batch-size", "0")
	require.Error(t, err)

	empty := filepath.Join(t.TempDir(), "empty.txt")
	require.NoError(t, os.WriteFile(empty, []byte("\n# nothing\n"), 0o600))
	out, err := executeCmd(t, nil, "replay", empty, "--dataset", ds)
	require.NoError(t, err)
	assert.Empty(t, out)
}

package e2e_test

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// cliRunner manages CLI binary execution
type cliRunner struct {
	binaryPath string
	dataDir    string
	imagesDir  string
}

func newCLIRunner(t *testing.T) *cliRunner {
	t.Helper()

	// Find project root (where go.mod is)
	projectRoot := findProjectRoot(t)

	// Build the CLI binary
	binaryPath := filepath.Join(t.TempDir(), "memgame-test")
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/memgame")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	require.NoError(t, err, "failed to build CLI: %s", string(output))

	// One image so that every pair of cards matches
	imagesDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(imagesDir, "moon.png"), []byte{0}, 0o600))

	return &cliRunner{
		binaryPath: binaryPath,
		dataDir:    filepath.Join(t.TempDir(), "data"),
		imagesDir:  imagesDir,
	}
}

func (r *cliRunner) run(stdin string, args ...string) (string, error) {
	fullArgs := append([]string{
		"--data-dir", r.dataDir,
		"--images-dir", r.imagesDir,
		"--output", "json",
	}, args...)

	cmd := exec.Command(r.binaryPath, fullArgs...)
	cmd.Stdin = strings.NewReader(stdin)
	cmd.Env = append(os.Environ(), "MEMGAME_LOG_LEVEL=ERROR")
	output, err := cmd.Output()
	return string(output), err
}

func findProjectRoot(t *testing.T) string {
	t.Helper()

	dir, err := os.Getwd()
	require.NoError(t, err)

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("could not find project root (go.mod)")
		}
		dir = parent
	}
}

type profileView struct {
	Username     string  `json:"username"`
	GamesPlayed  int     `json:"games_played"`
	GamesWon     int     `json:"games_won"`
	WinRate      float64 `json:"win_rate"`
	HasSavedGame bool    `json:"has_saved_game"`
}

func TestCLI_UserCommands(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	cli := newCLIRunner(t)

	out, err := cli.run("", "user", "new", "Alice")
	require.NoError(t, err, out)

	var created profileView
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "Alice", created.Username)

	out, err = cli.run("", "user", "list")
	require.NoError(t, err, out)
	var profiles []profileView
	require.NoError(t, json.Unmarshal([]byte(out), &profiles))
	require.Len(t, profiles, 1)

	// The users file is the documented layout
	data, err := os.ReadFile(filepath.Join(cli.dataDir, "users.json"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"Username": "Alice"`)
	assert.Contains(t, string(data), `"GamesPlayed": 0`)
}

func TestCLI_FullGameFlow(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	cli := newCLIRunner(t)

	_, err := cli.run("", "user", "new", "Bob")
	require.NoError(t, err)
	_, err = cli.run("", "settings", "set", "--rows", "2", "--cols", "4")
	require.NoError(t, err)

	// Save after one match, then resume and finish
	out, err := cli.run("1\n2\nsave\nquit\n", "play", "bob")
	require.NoError(t, err, out)

	out, err = cli.run("", "user", "list")
	require.NoError(t, err)
	var profiles []profileView
	require.NoError(t, json.Unmarshal([]byte(out), &profiles))
	require.Len(t, profiles, 1)
	assert.True(t, profiles[0].HasSavedGame)

	out, err = cli.run("3\n4\n5\n6\n7\n8\n", "play", "bob", "--resume")
	require.NoError(t, err, out)
	assert.Contains(t, out, `"result": "won"`)

	out, err = cli.run("", "stats", "Bob")
	require.NoError(t, err)
	var stats profileView
	require.NoError(t, json.Unmarshal([]byte(out), &stats))
	assert.Equal(t, 1, stats.GamesPlayed)
	assert.Equal(t, 1, stats.GamesWon)
	assert.InDelta(t, 100.0, stats.WinRate, 0.001)
}

func TestCLI_ErrorHandling(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping e2e test in short mode")
	}
	cli := newCLIRunner(t)

	_, err := cli.run("", "play", "nobody")
	assert.Error(t, err)

	_, err = cli.run("", "settings", "set", "--rows", "3", "--cols", "5")
	assert.Error(t, err)

	_, err = cli.run("", "--storage", "tape", "user", "list")
	assert.Error(t, err)
}

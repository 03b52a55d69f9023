package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/suite"
)

type CommandSuite struct {
	suite.Suite
	dataDir   string
	imagesDir string
}

func TestCommandSuite(t *testing.T) {
	suite.Run(t, new(CommandSuite))
}

func (s *CommandSuite) SetupTest() {
	s.dataDir = s.T().TempDir()

	// A single image means every card matches every other
	s.imagesDir = s.T().TempDir()
	s.Require().NoError(os.WriteFile(filepath.Join(s.imagesDir, "star.png"), []byte{0}, 0o600))
}

// run executes the CLI against the suite's data directory
func (s *CommandSuite) run(input string, args ...string) (string, string, error) {
	cmd := NewRootCmd()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(input))
	cmd.SetArgs(append([]string{"--data-dir", s.dataDir, "--storage", "file", "--images-dir", s.imagesDir}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (s *CommandSuite) mustRun(args ...string) string {
	out, _, err := s.run("", args...)
	s.Require().NoError(err)
	return out
}

// User commands

func (s *CommandSuite) TestUserListEmpty() {
	out := s.mustRun("user", "list")
	s.Contains(out, "No users yet")
}

func (s *CommandSuite) TestUserNewAndList() {
	out := s.mustRun("user", "new", "Alice")
	s.Contains(out, "Alice (avatar: cat)")

	s.mustRun("user", "new", "Bob", "--avatar", "avatars/owl.png")

	out = s.mustRun("user", "list")
	s.Contains(out, "Alice")
	s.Contains(out, "Bob (avatar: owl)")
	s.Less(strings.Index(out, "Alice"), strings.Index(out, "Bob"))
}

func (s *CommandSuite) TestUserNewDuplicate() {
	s.mustRun("user", "new", "Alice")

	_, stderr, err := s.run("", "user", "new", "alice")
	s.Error(err)
	s.Contains(stderr, "already exists")
}

func (s *CommandSuite) TestUserListJSON() {
	s.mustRun("user", "new", "Alice")

	out := s.mustRun("-o", "json", "user", "list")
	var profiles []Profile
	s.Require().NoError(json.Unmarshal([]byte(out), &profiles))
	s.Require().Len(profiles, 1)
	s.Equal("Alice", profiles[0].Username)
	s.Equal("avatars/cat.png", profiles[0].AvatarPath)
}

func (s *CommandSuite) TestUserDelete() {
	s.mustRun("user", "new", "Alice")
	out := s.mustRun("user", "delete", "ALICE")
	s.Contains(out, "Deleted user")

	out = s.mustRun("user", "list")
	s.Contains(out, "No users yet")

	_, _, err := s.run("", "user", "delete", "Alice")
	s.Error(err)
}

func (s *CommandSuite) TestUserAvatarBrowsing() {
	s.mustRun("user", "new", "Alice")

	out := s.mustRun("user", "avatar", "Alice", "--next")
	s.Contains(out, "avatar: dog")

	out = s.mustRun("user", "avatar", "Alice", "--prev")
	s.Contains(out, "avatar: cat")

	// Wraps to the last avatar
	out = s.mustRun("user", "avatar", "Alice", "--prev")
	s.Contains(out, "avatar: turtle")

	out = s.mustRun("user", "avatar", "Alice", "--set", "/pics/Grumpy Cat.JPG")
	s.Contains(out, "avatar: grumpy-cat")

	_, _, err := s.run("", "user", "avatar", "Alice", "--set", "notes.txt")
	s.Error(err)
}

// Settings commands

func (s *CommandSuite) TestSettingsDefaults() {
	out := s.mustRun("settings", "show")
	s.Contains(out, "Time limit: 60s")
	s.Contains(out, "Grid: 4 x 4")
}

func (s *CommandSuite) TestSettingsSetPersistsAndClamps() {
	out := s.mustRun("settings", "set", "--time", "5", "--rows", "2")
	s.Contains(out, "Time limit: 10s")
	s.Contains(out, "Grid: 2 x 4")

	out = s.mustRun("settings", "show")
	s.Contains(out, "Time limit: 10s")
	s.Contains(out, "Grid: 2 x 4")
}

func (s *CommandSuite) TestSettingsSetRejectsOddGrid() {
	_, _, err := s.run("", "settings", "set", "--rows", "3", "--cols", "3")
	s.Error(err)

	out := s.mustRun("settings", "show")
	s.Contains(out, "Grid: 4 x 4")
}

// Play, stats and about

func (s *CommandSuite) TestPlayToWin() {
	s.mustRun("user", "new", "Alice")
	s.mustRun("settings", "set", "--rows", "2", "--cols", "2")

	out, _, err := s.run("1\n2\n3\n4\n", "play", "alice")
	s.Require().NoError(err)
	s.Contains(out, "Warning:")
	s.Contains(out, "Match!")
	s.Contains(out, "You won in 2 moves")
	s.Contains(out, "Games played: 1, won: 1")

	out = s.mustRun("stats", "Alice")
	s.Contains(out, "Alice: 1 played, 1 won (100.0%)")
}

func (s *CommandSuite) TestPlaySaveAndResume() {
	s.mustRun("user", "new", "Alice")
	s.mustRun("settings", "set", "--rows", "2", "--cols", "2")

	out, _, err := s.run("1\nsave\n2\nmenu\n", "play", "Alice")
	s.Require().NoError(err)
	s.Contains(out, "Game saved")
	s.Contains(out, "The round is paused")
	s.Contains(out, "Left the round.")

	out = s.mustRun("user", "list")
	s.Contains(out, "[saved game]")

	out, _, err = s.run("2\n3\n4\n", "play", "Alice", "--resume")
	s.Require().NoError(err)
	s.Contains(out, "Resuming saved game for Alice.")
	s.Contains(out, "You won in 2 moves")

	out = s.mustRun("user", "list")
	s.NotContains(out, "[saved game]")
}

func (s *CommandSuite) TestPlayCommands() {
	s.mustRun("user", "new", "Alice")

	out, stderr, err := s.run("help\nflip\nflip x\n99\ndance\nquit\n", "play", "Alice")
	s.Require().NoError(err)
	s.Contains(out, "turn over the card at position n")
	s.Contains(out, "Left the round.")
	s.Contains(stderr, "flip needs a card number")
	s.Contains(stderr, `"x" is not a card number`)
	s.Contains(stderr, "no card at position 99")
	s.Contains(stderr, `unknown command "dance"`)
}

func (s *CommandSuite) TestPlayUnknownUser() {
	_, _, err := s.run("", "play", "nobody")
	s.Error(err)
}

func (s *CommandSuite) TestStatsAll() {
	s.mustRun("user", "new", "Alice")
	s.mustRun("user", "new", "Bob")

	out := s.mustRun("stats")
	s.Contains(out, "Alice: 0 played, 0 won (0.0%)")
	s.Contains(out, "Bob: 0 played, 0 won (0.0%)")
}

func (s *CommandSuite) TestAbout() {
	out := s.mustRun("about")
	s.Contains(out, "memgame")
	s.Contains(out, "find every pair")
}

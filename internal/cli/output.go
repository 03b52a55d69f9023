package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/mcoot/memgame-go/internal/model"
	"github.com/mcoot/memgame-go/internal/services/assets"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	out    io.Writer
	errOut io.Writer
}

// NewOutput creates a new Output formatter
func NewOutput(format string, out, errOut io.Writer) *Output {
	return &Output{format: format, out: out, errOut: errOut}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(o.errOut, string(data))
	} else {
		fmt.Fprintf(o.errOut, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Fprintln(o.out, string(data))
	} else {
		fmt.Fprintln(o.out, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.out)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Profile:
		o.printProfile(v)
	case []Profile:
		o.printProfiles(v)
	case Stats:
		o.printStats(v)
	case []Stats:
		for _, s := range v {
			o.printStats(s)
		}
	case Settings:
		o.printSettings(v)
	case About:
		o.printAbout(v)
	case Board:
		o.printBoard(v)
	case Outcome:
		o.printOutcome(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Profile view type
type Profile struct {
	Username     string  `json:"username"`
	Avatar       string  `json:"avatar"`
	AvatarPath   string  `json:"avatar_path"`
	GamesPlayed  int     `json:"games_played"`
	GamesWon     int     `json:"games_won"`
	WinRate      float64 `json:"win_rate"`
	HasSavedGame bool    `json:"has_saved_game"`
}

// Stats view type
type Stats struct {
	Username    string  `json:"username"`
	GamesPlayed int     `json:"games_played"`
	GamesWon    int     `json:"games_won"`
	WinRate     float64 `json:"win_rate"`
}

// Settings view type
type Settings struct {
	TimeLimit int `json:"time_limit"`
	Rows      int `json:"rows"`
	Columns   int `json:"columns"`
}

// About view type
type About struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	HowToPlay   string `json:"how_to_play"`
}

// Board view type
type Board struct {
	RoundID       string   `json:"round_id"`
	State         string   `json:"state"`
	Rows          int      `json:"rows"`
	Columns       int      `json:"columns"`
	Moves         int      `json:"moves"`
	TimeRemaining int      `json:"time_remaining"`
	Matched       int      `json:"matched"`
	Total         int      `json:"total"`
	Paused        bool     `json:"paused"`
	Cells         []string `json:"cells"`
}

// Outcome view type
type Outcome struct {
	Result        string `json:"result"`
	Moves         int    `json:"moves"`
	TimeRemaining int    `json:"time_remaining"`
	GamesPlayed   int    `json:"games_played"`
	GamesWon      int    `json:"games_won"`
}

func toProfile(p *model.Profile) Profile {
	return Profile{
		Username:     p.Username,
		Avatar:       assets.Label(p.AvatarPath),
		AvatarPath:   p.AvatarPath,
		GamesPlayed:  p.GamesPlayed,
		GamesWon:     p.GamesWon,
		WinRate:      p.WinRate(),
		HasSavedGame: p.HasSavedGame(),
	}
}

func toStats(p *model.Profile) Stats {
	return Stats{
		Username:    p.Username,
		GamesPlayed: p.GamesPlayed,
		GamesWon:    p.GamesWon,
		WinRate:     p.WinRate(),
	}
}

func toSettings(s model.Settings) Settings {
	return Settings{
		TimeLimit: s.TimeLimit,
		Rows:      s.Rows,
		Columns:   s.Columns,
	}
}

// toBoard renders face-down cards as their 1-based position, face-up cards
// by image label and matched cards by label in brackets
func toBoard(r *model.Round, paused bool) Board {
	cells := make([]string, len(r.Cards))
	for i, c := range r.Cards {
		switch {
		case c.IsMatched:
			cells[i] = "[" + assets.Label(c.ImagePath) + "]"
		case c.IsFlipped:
			cells[i] = assets.Label(c.ImagePath)
		default:
			cells[i] = fmt.Sprintf("%d", i+1)
		}
	}
	return Board{
		RoundID:       string(r.ID),
		State:         string(r.State),
		Rows:          r.GridRows,
		Columns:       r.GridColumns,
		Moves:         r.Moves,
		TimeRemaining: r.TimeRemaining,
		Matched:       r.MatchedCount() / 2,
		Total:         len(r.Cards) / 2,
		Paused:        paused,
		Cells:         cells,
	}
}

func (o *Output) printProfile(p Profile) {
	saved := ""
	if p.HasSavedGame {
		saved = " [saved game]"
	}
	fmt.Fprintf(o.out, "%s (avatar: %s) played %d, won %d, %.0f%%%s\n",
		p.Username, p.Avatar, p.GamesPlayed, p.GamesWon, p.WinRate, saved)
}

func (o *Output) printProfiles(ps []Profile) {
	if len(ps) == 0 {
		fmt.Fprintln(o.out, "No users yet. Create one with 'memgame user new NAME'.")
		return
	}
	for _, p := range ps {
		fmt.Fprint(o.out, "  - ")
		o.printProfile(p)
	}
}

func (o *Output) printStats(s Stats) {
	fmt.Fprintf(o.out, "%s: %d played, %d won (%.1f%%)\n", s.Username, s.GamesPlayed, s.GamesWon, s.WinRate)
}

func (o *Output) printSettings(s Settings) {
	fmt.Fprintf(o.out, "Time limit: %ds\n", s.TimeLimit)
	fmt.Fprintf(o.out, "Grid: %d x %d\n", s.Rows, s.Columns)
}

func (o *Output) printAbout(a About) {
	fmt.Fprintln(o.out, a.Name)
	fmt.Fprintln(o.out, a.Description)
	fmt.Fprintln(o.out)
	fmt.Fprintln(o.out, a.HowToPlay)
}

func (o *Output) printBoard(b Board) {
	status := fmt.Sprintf("Time: %s  Moves: %d  Pairs: %d/%d",
		formatSeconds(b.TimeRemaining), b.Moves, b.Matched, b.Total)
	if b.Paused {
		status += "  (paused)"
	}
	fmt.Fprintln(o.out, status)

	width := 0
	for _, c := range b.Cells {
		width = max(width, len(c))
	}

	border := "+" + strings.Repeat(strings.Repeat("-", width+2), b.Columns) + "+"
	fmt.Fprintln(o.out, border)
	for row := 0; row < b.Rows; row++ {
		fmt.Fprint(o.out, "|")
		for col := 0; col < b.Columns; col++ {
			idx := row*b.Columns + col
			cell := ""
			if idx < len(b.Cells) {
				cell = b.Cells[idx]
			}
			fmt.Fprintf(o.out, " %-*s ", width, cell)
		}
		fmt.Fprintln(o.out, "|")
	}
	fmt.Fprintln(o.out, border)
}

func (o *Output) printOutcome(r Outcome) {
	switch r.Result {
	case string(model.RoundStateWon):
		fmt.Fprintf(o.out, "You won in %d moves with %s left!\n", r.Moves, formatSeconds(r.TimeRemaining))
	case string(model.RoundStateLost):
		fmt.Fprintf(o.out, "Time's up! You made %d moves.\n", r.Moves)
	default:
		fmt.Fprintf(o.out, "Round %s after %d moves.\n", r.Result, r.Moves)
	}
	fmt.Fprintf(o.out, "Games played: %d, won: %d\n", r.GamesPlayed, r.GamesWon)
}

func formatSeconds(s int) string {
	return (time.Duration(s) * time.Second).String()
}

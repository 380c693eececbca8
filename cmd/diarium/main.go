// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/poiesic/diarium"
	"github.com/poiesic/diarium/config"
	"github.com/poiesic/diarium/ingestion"
	"github.com/poiesic/diarium/render"
	"github.com/poiesic/diarium/search"
	"github.com/poiesic/diarium/stats"
	"github.com/urfave/cli/v2"
)

var (
	errWordRequired    = errors.New("a word argument is required")
	errLabelRequired   = errors.New("a date argument (DD.MM.YYYY) is required")
	errNothingToImport = errors.New("nothing to import: set --diary-db or --dir")
	errJournalEmpty    = errors.New("journal is empty, run import first")
	errConfigExists    = errors.New("config file already exists, use --force to overwrite")
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// app holds the configuration resolved by the Before hook for all commands.
type app struct {
	cfg *config.Config
}

func newApp() *cli.App {
	a := &app{}
	return &cli.App{
		Name:  "diarium",
		Usage: "Search and statistics for a personal diary",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to a TOML config file",
			},
			&cli.StringFlag{
				Name:    "db",
				Aliases: []string{"d"},
				Usage:   "Path to the journal database directory",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
			&cli.IntFlag{
				Name:  "pool-size",
				Usage: "Number of workers for searching and counting (0 = one per CPU)",
			},
			&cli.BoolFlag{
				Name:  "plain",
				Usage: "Disable colors and styling",
			},
		},
		Before: a.setup,
		Commands: []*cli.Command{
			{
				Name:   "import",
				Usage:  "Import entries from a diary database or a directory of text files",
				Action: a.importCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "diary-db",
						Usage: "Path to the diary application's SQLite database",
					},
					&cli.StringFlag{
						Name:  "dir",
						Usage: "Directory of Diarium_YYYY-MM-DD.txt files",
					},
					&cli.StringFlag{
						Name:  "glob",
						Usage: "Pattern selecting entry files under --dir",
					},
				},
			},
			{
				Name:      "find",
				Usage:     "Show every sentence containing a word",
				ArgsUsage: "<word>",
				Action:    a.findCommand,
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:    "exact",
						Aliases: []string{"e"},
						Usage:   "Match the whole word only",
					},
				},
			},
			{
				Name:      "count",
				Usage:     "Count exact and fuzzy occurrences of a word",
				ArgsUsage: "<word>",
				Action:    a.countCommand,
			},
			{
				Name:   "stats",
				Usage:  "Show word statistics",
				Action: a.statsCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "top",
						Aliases: []string{"n"},
						Usage:   "Number of most frequent words to show",
						Value:   10,
					},
				},
			},
			{
				Name:      "show",
				Usage:     "Show the entry for a day, or every entry in a range of days",
				ArgsUsage: "[<DD.MM.YYYY>]",
				Action:    a.showCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "from",
						Usage: "First day of the range (DD.MM.YYYY)",
					},
					&cli.StringFlag{
						Name:  "to",
						Usage: "Last day of the range, inclusive (DD.MM.YYYY); defaults to --from",
					},
				},
			},
			{
				Name:      "delete",
				Usage:     "Delete the entries for one or more days",
				ArgsUsage: "<DD.MM.YYYY>...",
				Action:    a.deleteCommand,
			},
			{
				Name:   "random",
				Usage:  "Show a random entry",
				Action: a.randomCommand,
			},
			{
				Name:   "longest",
				Usage:  "Show the longest entry",
				Action: a.longestCommand,
			},
			{
				Name:   "check",
				Usage:  "Check the diary database for entries not imported yet",
				Action: a.checkCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "diary-db",
						Usage: "Path to the diary application's SQLite database",
					},
				},
			},
			{
				Name:  "config",
				Usage: "Manage the config file",
				Subcommands: []*cli.Command{
					{
						Name:   "init",
						Usage:  "Write the current settings to a TOML config file",
						Action: a.configInitCommand,
						Flags: []cli.Flag{
							&cli.StringFlag{
								Name:    "out",
								Aliases: []string{"o"},
								Usage:   "Path of the config file to write",
								Value:   "diarium.toml",
							},
							&cli.StringFlag{
								Name:  "diary-db",
								Usage: "Diary database to import from",
							},
							&cli.StringFlag{
								Name:  "dir",
								Usage: "Directory of entry files to import from",
							},
							&cli.BoolFlag{
								Name:  "force",
								Usage: "Overwrite an existing file",
							},
						},
					},
				},
			},
			{
				Name:   "export",
				Usage:  "Write every entry to <out>/<year>/<month>/<day>.txt",
				Action: a.exportCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "out",
						Aliases:  []string{"o"},
						Usage:    "Output directory",
						Required: true,
					},
				},
			},
		},
	}
}

// setup resolves the configuration (defaults, then file, then flags) and installs the logger.
func (a *app) setup(c *cli.Context) error {
	cfg := config.DefaultConfig()
	if path := c.String("config"); path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return err
		}
		cfg = loaded
	}

	if c.IsSet("db") {
		cfg.DBPath = c.String("db")
	}
	if c.IsSet("log-level") {
		cfg.LogLevel = c.String("log-level")
	}
	if c.IsSet("pool-size") {
		cfg.PoolSize = c.Int("pool-size")
	}
	if c.IsSet("plain") {
		cfg.Plain = c.Bool("plain")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	return setupLogger(c.App.ErrWriter, cfg.LogLevel)
}

func (a *app) openJournal() (*diarium.Journal, error) {
	j, err := diarium.NewJournal(a.cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open journal: %w", err)
	}
	return j, nil
}

func (a *app) finderOptions() []search.Option {
	if a.cfg.PoolSize > 0 {
		return []search.Option{search.WithPoolSize(a.cfg.PoolSize)}
	}
	return nil
}

func (a *app) renderer(w io.Writer) *render.Renderer {
	return render.NewRenderer(w, render.WithPlain(a.cfg.Plain))
}

func (a *app) importCommand(c *cli.Context) error {
	w := c.App.Writer

	var sources []ingestion.Source
	if path := firstNonEmpty(c.String("diary-db"), a.cfg.DiaryDBPath); path != "" {
		sources = append(sources, ingestion.NewSQLiteSource(path))
	}
	if dir := firstNonEmpty(c.String("dir"), a.cfg.EntriesDir); dir != "" {
		opts := []ingestion.DirectoryOption{ingestion.WithGlob(firstNonEmpty(c.String("glob"), a.cfg.EntriesGlob))}
		if a.cfg.PoolSize > 0 {
			opts = append(opts, ingestion.WithReadLimit(a.cfg.PoolSize))
		}
		sources = append(sources, ingestion.NewDirectorySource(dir, opts...))
	}
	if len(sources) == 0 {
		return errNothingToImport
	}

	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	pipelineOpts := []ingestion.Option{ingestion.WithProgress(c.App.ErrWriter)}
	if a.cfg.PoolSize > 0 {
		pipelineOpts = append(pipelineOpts, ingestion.WithPoolSize(a.cfg.PoolSize))
	}

	for _, src := range sources {
		report, err := j.Import(c.Context, src, pipelineOpts...)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		fmt.Fprintf(w, "Imported %d entries from %s (%d new or changed, %d skipped)\n",
			report.Read, report.Source, report.Changed, report.Skipped)
		fmt.Fprintf(w, "Journal holds %d entries and %d words in %dms\n",
			report.Stored, report.Words, report.Elapsed.Milliseconds())
	}
	return nil
}

func (a *app) findCommand(c *cli.Context) error {
	word := c.Args().First()
	if word == "" {
		return errWordRequired
	}

	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	result, err := j.Find(c.Context, search.Query{Pattern: word, Exact: c.Bool("exact")}, a.finderOptions()...)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	w := c.App.Writer
	r := a.renderer(w)
	fmt.Fprint(w, r.Render(result.RenderedText))
	fmt.Fprintf(w, "The word %s was found %d times\n", r.Match(word), result.Count)
	fmt.Fprintln(w, r.Muted(fmt.Sprintf("Searched through %d words in %.2fs",
		result.WordsSearched, result.Elapsed.Seconds())))
	return nil
}

func (a *app) countCommand(c *cli.Context) error {
	word := c.Args().First()
	if word == "" {
		return errWordRequired
	}

	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	exact, err := j.Occurrences(c.Context, word)
	if err != nil {
		return err
	}
	corpus, err := j.Corpus(c.Context)
	if err != nil {
		return err
	}

	finder, err := j.NewFinder(a.finderOptions()...)
	if err != nil {
		return err
	}
	defer finder.Release()

	all, err := finder.Count(c.Context, corpus, word, false)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "Exact matches: %d\nAll matches: %d\n", exact, all)
	return nil
}

func (a *app) statsCommand(c *cli.Context) error {
	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	table, err := j.Stats(c.Context)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintf(w, "Total words: %d\n", table.Total())
	fmt.Fprintf(w, "Unique words: %d\n", table.Unique())

	top := table.MostFrequent(c.Int("top"))
	if len(top) == 0 {
		return nil
	}
	width := 0
	for _, wc := range top {
		width = max(width, len([]rune(wc.Word)))
	}
	fmt.Fprintf(w, "Top %d words:\n", len(top))
	for i, wc := range top {
		pad := strings.Repeat(" ", width-len([]rune(wc.Word)))
		fmt.Fprintf(w, "%3d. %s%s  %d\n", i+1, wc.Word, pad, wc.Count)
	}
	return nil
}

func (a *app) showCommand(c *cli.Context) error {
	if c.IsSet("from") || c.IsSet("to") {
		return a.showRange(c)
	}

	label := c.Args().First()
	if label == "" {
		return errLabelRequired
	}

	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	entry, err := j.Entry(c.Context, label)
	if err != nil {
		return err
	}

	w := c.App.Writer
	fmt.Fprintln(w, a.renderer(w).Label(entry.Label))
	fmt.Fprintln(w, entry.Text)
	return nil
}

func (a *app) showRange(c *cli.Context) error {
	from := c.String("from")
	if from == "" {
		return errLabelRequired
	}
	to := firstNonEmpty(c.String("to"), from)

	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	entries, err := j.Range(c.Context, from, to)
	if err != nil {
		return err
	}

	w := c.App.Writer
	if len(entries) == 0 {
		fmt.Fprintf(w, "No entries from %s to %s\n", from, to)
		return nil
	}
	r := a.renderer(w)
	for i, entry := range entries {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, r.Label(entry.Label))
		fmt.Fprintln(w, entry.Text)
	}
	return nil
}

func (a *app) deleteCommand(c *cli.Context) error {
	labels := c.Args().Slice()
	if len(labels) == 0 {
		return errLabelRequired
	}

	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	if err := j.Delete(c.Context, labels...); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Deleted %d entries\n", len(labels))
	return nil
}

func (a *app) randomCommand(c *cli.Context) error {
	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	corpus, err := j.Corpus(c.Context)
	if err != nil {
		return err
	}
	entry, ok := stats.RandomEntry(corpus, nil)
	if !ok {
		return errJournalEmpty
	}

	w := c.App.Writer
	fmt.Fprintln(w, a.renderer(w).Label(entry.Label))
	fmt.Fprintln(w, entry.Text)
	return nil
}

func (a *app) longestCommand(c *cli.Context) error {
	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	corpus, err := j.Corpus(c.Context)
	if err != nil {
		return err
	}
	entry, words, ok := stats.LongestEntry(corpus)
	if !ok {
		return errJournalEmpty
	}

	w := c.App.Writer
	fmt.Fprintln(w, a.renderer(w).Label(entry.Label))
	fmt.Fprintln(w, entry.Text)
	fmt.Fprintf(w, "Word count: %d\n", words)
	return nil
}

func (a *app) checkCommand(c *cli.Context) error {
	path := firstNonEmpty(c.String("diary-db"), a.cfg.DiaryDBPath)
	if path == "" {
		return errNothingToImport
	}

	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	n, err := j.NewEntries(c.Context, ingestion.NewSQLiteSource(path))
	if err != nil {
		return err
	}

	if n > 0 {
		fmt.Fprintf(c.App.Writer, "%d new entries available, run import to add them\n", n)
	} else {
		fmt.Fprintln(c.App.Writer, "Journal is up to date")
	}
	return nil
}

func (a *app) exportCommand(c *cli.Context) error {
	j, err := a.openJournal()
	if err != nil {
		return err
	}
	defer j.Close()

	n, err := j.Export(c.Context, c.String("out"))
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Exported %d entries to %s\n", n, c.String("out"))
	return nil
}

func (a *app) configInitCommand(c *cli.Context) error {
	path := c.String("out")
	if _, err := os.Stat(path); err == nil && !c.Bool("force") {
		return fmt.Errorf("%w: %s", errConfigExists, path)
	}

	cfg := config.NewConfig(
		config.WithDBPath(a.cfg.DBPath),
		config.WithDiaryDBPath(firstNonEmpty(c.String("diary-db"), a.cfg.DiaryDBPath)),
		config.WithEntriesDir(firstNonEmpty(c.String("dir"), a.cfg.EntriesDir)),
		config.WithPoolSize(a.cfg.PoolSize),
		config.WithLogLevel(a.cfg.LogLevel),
	)
	cfg.EntriesGlob = a.cfg.EntriesGlob
	cfg.Plain = a.cfg.Plain
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := cfg.Save(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Wrote config to %s\n", path)
	return nil
}

func setupLogger(w io.Writer, levelStr string) error {
	levelStr = strings.ToLower(levelStr)

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	if w == nil {
		w = os.Stderr
	}
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

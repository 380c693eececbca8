package main

import (
	"bufio"
	"context"
	"flag"
	"iter"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/poiesic/diarium"
	"github.com/poiesic/diarium/core"
	"github.com/poiesic/diarium/ingestion"
)

var sentences = []string{
	"Woke up early and went for a run along the river.",
	"Rain all day, so I stayed in and read.",
	"Coffee with Marta at the corner cafe.",
	"The train was late again!",
	"Finished the book about the lighthouse keeper.",
	"Long walk in the park after work.",
	"Cooked soup from the last of the autumn vegetables.",
	"Felt tired, went to bed before ten.",
	"Snow on the hills this morning.",
	"Called my grandmother, she sounded well.",
	"Ran five kilometres without stopping for the first time.",
	"Is it normal to miss the sea this much?",
	"Bought new running shoes.",
	"The meeting ran over by an hour.",
	"Planted tomatoes on the balcony.",
	"Quiet evening, some music and tea.",
	"Visited the old town market with friends.",
	"Couldn't sleep, the storm was too loud.",
	"Wrote three pages of the story.",
	"A small bird kept tapping on the window.",
	"Sunny and warm, lunch outside.",
	"Cleaned the whole flat.",
	"Argued about nothing, made up over dinner.",
	"The library was closed, so I walked home the long way.",
	"Learned a new song on the guitar.",
}

var (
	dbPath        = flag.String("db", "./diarium_db", "journal database directory")
	seedFileName  = flag.String("src", "", "file of seed sentences, one per line")
	startDate     = flag.String("start", "01.01.2020", "date of the first entry (DD.MM.YYYY)")
	sentencesEach = flag.Int("per-day", 3, "sentences per entry")
)

func init() {
	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	slog.SetDefault(slog.New(handler))
}

// linesFromFile returns an iterator over lines in a file.
func linesFromFile(filename string) (iter.Seq[string], error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}

	return func(yield func(string) bool) {
		defer f.Close()
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			if !yield(scanner.Text()) {
				return
			}
		}
	}, nil
}

// linesFromSlice returns an iterator over a slice of strings.
func linesFromSlice(lines []string) iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, line := range lines {
			if !yield(line) {
				return
			}
		}
	}
}

// entriesFromLines groups lines into one entry per day, starting at start.
// Blank lines are skipped.
func entriesFromLines(source iter.Seq[string], start time.Time, perDay int) []*core.Entry {
	perDay = max(perDay, 1)

	var (
		entries []*core.Entry
		day     []string
	)
	flush := func() {
		date := start.AddDate(0, 0, len(entries))
		entries = append(entries, core.NewEntry(date, strings.Join(day, " ")))
		day = day[:0]
	}

	for line := range source {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		day = append(day, line)
		if len(day) == perDay {
			flush()
		}
	}
	if len(day) > 0 {
		flush()
	}

	return entries
}

func main() {
	flag.Parse()

	start, err := core.ParseLabel(*startDate)
	if err != nil {
		panic(err)
	}

	journal, err := diarium.NewJournal(*dbPath)
	if err != nil {
		panic(err)
	}
	defer journal.Close()

	var source iter.Seq[string]
	if *seedFileName != "" {
		source, err = linesFromFile(*seedFileName)
		if err != nil {
			panic(err)
		}
	} else {
		source = linesFromSlice(sentences)
	}

	entries := entriesFromLines(source, start, *sentencesEach)
	report, err := journal.Import(context.Background(), ingestion.NewSliceSource("seed", entries...))
	if err != nil {
		panic(err)
	}

	slog.Info("seeded journal", "db", *dbPath, "entries", report.Stored, "words", report.Words)
}

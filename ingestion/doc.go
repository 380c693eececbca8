// Package ingestion imports journal entries into storage.
//
// A Source produces entries: SQLiteSource reads a diary application's SQLite
// database, DirectorySource reads one text file per day, and SliceSource wraps
// entries already in memory. Pipeline stores what a source produces and then
// rebuilds the cached word-frequency table, counting words on a worker pool.
//
// # Usage
//
//	pipeline, err := ingestion.NewPipeline(entryRepo, frequencyRepo,
//	    ingestion.WithPoolSize(4),
//	    ingestion.WithProgress(os.Stderr),
//	)
//	if err != nil {
//	    return err
//	}
//	defer pipeline.Release()
//
//	report, err := pipeline.Import(ctx, ingestion.NewSQLiteSource("diary.db"))
package ingestion

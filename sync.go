package gravelpress

import (
	"github.com/eringen/gravelpress/content"
)

// SyncReport summarizes a content ingest run.
type SyncReport struct {
	Areas    int
	Routes   int
	Warnings []string
}

// SyncContent loads every route document under contentDir and upserts it
// into the store. Documents are the source of truth: the database is a
// derived serving index, so ingest is a plain upsert per slug. Routes
// previously saved through the admin dashboard keep their rows unless a
// document claims the same slug.
func SyncContent(store *Store, contentDir string) (SyncReport, error) {
	col, err := content.LoadAreas(contentDir)
	if err != nil {
		return SyncReport{}, err
	}
	for _, r := range col.Routes {
		if err := store.SaveRoute(r); err != nil {
			return SyncReport{}, err
		}
	}
	return SyncReport{
		Areas:    len(col.Areas),
		Routes:   len(col.Routes),
		Warnings: col.Warnings,
	}, nil
}

package exporters

import (
	"fmt"
	"log"

	"github.com/mrlokans/hadith/internal/database"
	"github.com/mrlokans/hadith/internal/database/collections"
	"github.com/mrlokans/hadith/internal/database/hadith"
	"github.com/mrlokans/hadith/internal/entities"
)

// DatabaseMarkdownExporter reads collections from the store and hands them
// to a MarkdownExporter. It never writes to the store.
type DatabaseMarkdownExporter struct {
	collections      *collections.Repository
	hadith           *hadith.Repository
	markdownExporter *MarkdownExporter
}

func NewDatabaseMarkdownExporter(db *database.Database, exportDir string) *DatabaseMarkdownExporter {
	return &DatabaseMarkdownExporter{
		collections:      collections.NewRepository(db),
		hadith:           hadith.NewRepository(db),
		markdownExporter: NewMarkdownExporter(exportDir),
	}
}

// ExportAll exports every collection in the store.
func (exporter *DatabaseMarkdownExporter) ExportAll() (ExportResult, error) {
	return exporter.ExportCollections(nil)
}

// ExportCollections exports the given collection ids. An empty list exports
// every collection. Unknown ids are ignored.
func (exporter *DatabaseMarkdownExporter) ExportCollections(ids []string) (ExportResult, error) {
	all, err := exporter.collections.ListCollections()
	if err != nil {
		return ExportResult{}, fmt.Errorf("failed to list collections: %w", err)
	}

	selected := all
	if len(ids) > 0 {
		wanted := make(map[string]bool, len(ids))
		for _, id := range ids {
			wanted[id] = true
		}
		selected = make([]entities.Collection, 0, len(ids))
		for _, c := range all {
			if wanted[c.ID] {
				selected = append(selected, c)
			}
		}
	}

	byCollection := make(map[string][]entities.Hadith, len(selected))
	for _, c := range selected {
		rows, err := exporter.hadith.ListByCollection(c.ID)
		if err != nil {
			return ExportResult{}, fmt.Errorf("failed to list hadith of %s: %w", c.ID, err)
		}
		byCollection[c.ID] = rows
	}

	result, err := exporter.markdownExporter.Export(selected, byCollection)
	if err != nil {
		return result, fmt.Errorf("failed to export to markdown: %w", err)
	}

	log.Printf("Export completed: %d collections processed, %d hadith processed, %d collections failed",
		result.CollectionsProcessed, result.HadithProcessed, result.CollectionsFailed)

	return result, nil
}

package exporters

import "github.com/mrlokans/hadith/internal/entities"

// CollectionExporter writes collections and their hadith somewhere outside
// the store. byCollection is keyed by collection id.
type CollectionExporter interface {
	Export(collections []entities.Collection, byCollection map[string][]entities.Hadith) (ExportResult, error)
}

type ExportResult struct {
	CollectionsProcessed int `json:"collections_processed"`
	HadithProcessed      int `json:"hadith_processed"`
	CollectionsFailed    int `json:"collections_failed"`
}

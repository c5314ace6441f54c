package exporters

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mrlokans/hadith/internal/entities"
	"github.com/mrlokans/hadith/internal/utils"
)

// MarkdownExporter writes one markdown file per collection into ExportDir.
type MarkdownExporter struct {
	ExportDir string
	Result    ExportResult
	now       func() time.Time
}

func NewMarkdownExporter(exportDir string) *MarkdownExporter {
	return &MarkdownExporter{
		ExportDir: exportDir,
		Result:    ExportResult{},
		now:       time.Now,
	}
}

// FileName returns the markdown file name used for a collection.
func FileName(collection entities.Collection) string {
	return utils.SanitizeFilename(collection.ID) + ".md"
}

func yamlQuote(s string) string {
	return "\"" + strings.ReplaceAll(s, "\"", "\\\"") + "\""
}

// GenerateMarkdown renders a collection with front matter followed by each
// hadith under its id.
func GenerateMarkdown(collection entities.Collection, hadith []entities.Hadith, createdAt time.Time) string {
	var builder strings.Builder

	fmt.Fprintf(&builder, "---\n")
	fmt.Fprintf(&builder, "collection: %s\n", collection.ID)
	fmt.Fprintf(&builder, "title: %s\n", yamlQuote(collection.Name))
	if collection.Version != nil && *collection.Version != "" {
		fmt.Fprintf(&builder, "version: %s\n", yamlQuote(*collection.Version))
	}
	fmt.Fprintf(&builder, "content_type: hadith_collection\n")
	fmt.Fprintf(&builder, "created_at: %s\n", createdAt.Format("2006-01-02"))
	fmt.Fprintf(&builder, "hadith_count: %d\n", len(hadith))
	fmt.Fprintf(&builder, "tags: [hadith, %s]\n", collection.ID)
	fmt.Fprintf(&builder, "---\n\n")
	fmt.Fprintf(&builder, "# %s\n\n", collection.Name)

	if collection.Description != nil && *collection.Description != "" {
		fmt.Fprintf(&builder, "%s\n\n", *collection.Description)
	}

	for _, h := range hadith {
		fmt.Fprintf(&builder, "## %s\n\n", h.ID)
		fmt.Fprintf(&builder, "> %s\n\n", strings.ReplaceAll(h.TextAr, "\n", "\n> "))
	}

	return builder.String()
}

func (exporter *MarkdownExporter) exportCollection(collection entities.Collection, hadith []entities.Hadith) (string, error) {
	outputPath := filepath.Join(exporter.ExportDir, FileName(collection))
	content := GenerateMarkdown(collection, hadith, exporter.now())
	if err := os.WriteFile(outputPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", outputPath, err)
	}
	return outputPath, nil
}

// Export writes every collection. A collection that fails to write is logged
// and counted; the rest are still exported.
func (exporter *MarkdownExporter) Export(collections []entities.Collection, byCollection map[string][]entities.Hadith) (ExportResult, error) {
	// Reset result state for each export
	exporter.Result = ExportResult{}

	if err := os.MkdirAll(exporter.ExportDir, 0755); err != nil {
		return ExportResult{}, fmt.Errorf("failed to create export directory: %w", err)
	}

	for _, collection := range collections {
		hadith := byCollection[collection.ID]
		outputPath, err := exporter.exportCollection(collection, hadith)
		if err != nil {
			log.Printf("Export: failed to export collection %s: %v", collection.ID, err)
			exporter.Result.CollectionsFailed++
			continue
		}
		log.Printf("Export: wrote %d hadith of %s to %s", len(hadith), collection.ID, outputPath)
		exporter.Result.CollectionsProcessed++
		exporter.Result.HadithProcessed += len(hadith)
	}

	return exporter.Result, nil
}

var _ CollectionExporter = (*MarkdownExporter)(nil)

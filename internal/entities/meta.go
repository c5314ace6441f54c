package entities

type Meta struct {
	Key   string `gorm:"column:key;primaryKey" json:"key"`
	Value string `gorm:"column:value" json:"value"`
}

func (Meta) TableName() string {
	return "meta"
}

// Known meta keys
const (
	// MetaKeySeeded is "1" once the bundled dataset has been imported
	MetaKeySeeded = "seeded"

	// MetaKeySchemaVersion records the highest applied migration
	MetaKeySchemaVersion = "schema_version"

	// Outcome of the most recent markdown export
	MetaKeyLastExportStatus  = "last_export_status"
	MetaKeyLastExportMessage = "last_export_message"
	MetaKeyLastExportAt      = "last_export_at"
)

// Values of MetaKeyLastExportStatus
const (
	ExportStatusSuccess = "success"
	ExportStatusFailed  = "failed"
)

// MetaValueTrue is the value stored for boolean flags.
const MetaValueTrue = "1"

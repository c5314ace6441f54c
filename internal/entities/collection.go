package entities

// Collection is a named group of hadith records, e.g. a single book.
type Collection struct {
	ID          string  `gorm:"column:id;primaryKey" json:"id"`
	Name        string  `gorm:"column:name" json:"name"`
	Version     *string `gorm:"column:version" json:"version,omitempty"`
	Description *string `gorm:"column:description" json:"description,omitempty"`
}

func (Collection) TableName() string {
	return "collections"
}

// UserSelectedCollection is one entry of the user's active collection filter.
type UserSelectedCollection struct {
	ID string `gorm:"column:id;primaryKey" json:"id"`
}

func (UserSelectedCollection) TableName() string {
	return "user_selected_collections"
}

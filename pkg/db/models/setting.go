package models

// Setting is a single key/value row. Values are stored as strings; callers own
// the encoding (JSON for the column map, plain text for the rest).
type Setting struct {
	Key   string `gorm:"column:key;primaryKey"`
	Value string `gorm:"column:value;not null"`
}

func (Setting) TableName() string {
	return "settings"
}

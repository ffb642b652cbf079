package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Class represents one sellable catalog entry. Price and weight are nil when
// unknown, never zero.
type Class struct {
	ID            int64            `gorm:"column:id;primaryKey;autoIncrement"`
	SpecialID     string           `gorm:"column:special_id;uniqueIndex;not null"`
	MainCategory  string           `gorm:"column:main_category;not null;index"`
	Quality       string           `gorm:"column:quality;not null;index"`
	ClassName     string           `gorm:"column:class_name;not null"`
	ClassNameAr   *string          `gorm:"column:class_name_ar"`
	ClassNameEn   *string          `gorm:"column:class_name_en"`
	ClassFeatures *string          `gorm:"column:class_features"`
	ClassPrice    *decimal.Decimal `gorm:"column:class_price;type:numeric"`
	ClassWeight   *decimal.Decimal `gorm:"column:class_weight;type:numeric"`
	ClassQuantity *int64           `gorm:"column:class_quantity"`
	ClassVideo    *string          `gorm:"column:class_video"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (Class) TableName() string {
	return "classes"
}

package classes

import (
	"time"

	"github.com/cillii/catalog-backend/pkg/db/models"
	"github.com/cillii/catalog-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// Payload is the untyped class input as it arrives from a JSON body, a
// multipart form, or a spreadsheet row. Every field is tri-state so the
// normalizer can tell absent, explicit null, and value apart.
type Payload struct {
	SpecialID        types.NullString `json:"specialId"`
	MainCategory     types.NullString `json:"mainCategory"`
	Quality          types.NullString `json:"quality"`
	ClassName        types.NullString `json:"className"`
	ClassNameArabic  types.NullString `json:"classNameArabic"`
	ClassNameEnglish types.NullString `json:"classNameEnglish"`
	ClassFeatures    types.NullString `json:"classFeatures"`
	ClassPrice       types.NullString `json:"classPrice"`
	ClassWeight      types.NullString `json:"classWeight"`
	ClassQuantity    types.NullString `json:"classQuantity"`
	ClassVideoURL    types.NullString `json:"classVideoUrl"`
}

// PayloadFromForm builds a Payload from multipart/urlencoded form values.
// Forms cannot express an explicit null; absent keys stay unset.
func PayloadFromForm(values map[string][]string) Payload {
	pick := func(key string) types.NullString {
		vals, ok := values[key]
		if !ok || len(vals) == 0 {
			return types.NullString{}
		}
		return types.String(vals[0])
	}
	return Payload{
		SpecialID:        pick("specialId"),
		MainCategory:     pick("mainCategory"),
		Quality:          pick("quality"),
		ClassName:        pick("className"),
		ClassNameArabic:  pick("classNameArabic"),
		ClassNameEnglish: pick("classNameEnglish"),
		ClassFeatures:    pick("classFeatures"),
		ClassPrice:       pick("classPrice"),
		ClassWeight:      pick("classWeight"),
		ClassQuantity:    pick("classQuantity"),
		ClassVideoURL:    pick("classVideoUrl"),
	}
}

// VideoAction describes what a patch does to the stored video reference.
type VideoAction int

const (
	VideoKeep VideoAction = iota
	VideoRemove
	VideoReplace
)

// Patch is the well-typed result of normalizing a Payload. Pointer string
// fields are nil when unspecified; numeric fields are always determined, with
// nil meaning "unknown". Nullable text fields keep the full tri-state.
type Patch struct {
	SpecialID        *string
	MainCategory     *string
	Quality          *string
	ClassName        *string
	ClassNameArabic  types.NullString
	ClassNameEnglish types.NullString
	ClassFeatures    types.NullString
	ClassPrice       *decimal.Decimal
	ClassWeight      *decimal.Decimal
	ClassQuantity    *int64
	VideoAction      VideoAction
	VideoURL         string
}

// ClassDTO is the class payload returned to clients.
type ClassDTO struct {
	ID               int64            `json:"id"`
	SpecialID        string           `json:"specialId"`
	MainCategory     string           `json:"mainCategory"`
	Quality          string           `json:"quality"`
	ClassName        string           `json:"className"`
	ClassNameArabic  *string          `json:"classNameArabic"`
	ClassNameEnglish *string          `json:"classNameEnglish"`
	ClassFeatures    *string          `json:"classFeatures"`
	ClassPrice       *decimal.Decimal `json:"classPrice"`
	ClassWeight      *decimal.Decimal `json:"classWeight"`
	ClassQuantity    *int64           `json:"classQuantity"`
	ClassVideo       *string          `json:"classVideo"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// NewClassDTO builds a DTO from the persisted model.
func NewClassDTO(class *models.Class) ClassDTO {
	return ClassDTO{
		ID:               class.ID,
		SpecialID:        class.SpecialID,
		MainCategory:     class.MainCategory,
		Quality:          class.Quality,
		ClassName:        class.ClassName,
		ClassNameArabic:  class.ClassNameAr,
		ClassNameEnglish: class.ClassNameEn,
		ClassFeatures:    class.ClassFeatures,
		ClassPrice:       class.ClassPrice,
		ClassWeight:      class.ClassWeight,
		ClassQuantity:    class.ClassQuantity,
		ClassVideo:       class.ClassVideo,
		CreatedAt:        class.CreatedAt,
		UpdatedAt:        class.UpdatedAt,
	}
}

// NewClassDTOs maps a model slice into DTOs preserving order.
func NewClassDTOs(rows []models.Class) []ClassDTO {
	out := make([]ClassDTO, len(rows))
	for i := range rows {
		out[i] = NewClassDTO(&rows[i])
	}
	return out
}

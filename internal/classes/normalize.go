package classes

import (
	"strings"

	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
	"github.com/cillii/catalog-backend/pkg/types"
	"github.com/shopspring/decimal"
)

// VideoDeleteSentinel marks an update that removes the stored video.
const VideoDeleteSentinel = "__DELETE__"

// Normalize validates and coerces a Payload into a Patch. It is the single
// point that guarantees numeric and nullability handling for the admin CRUD
// path and every bulk row alike.
func Normalize(payload Payload) (Patch, error) {
	patch := Patch{}

	patch.SpecialID = plainString(payload.SpecialID)
	if patch.SpecialID != nil {
		upper := strings.ToUpper(*patch.SpecialID)
		patch.SpecialID = &upper
	}
	patch.MainCategory = plainString(payload.MainCategory)
	patch.Quality = plainString(payload.Quality)
	patch.ClassName = plainString(payload.ClassName)

	patch.ClassNameArabic = nullableText(payload.ClassNameArabic)
	patch.ClassNameEnglish = nullableText(payload.ClassNameEnglish)
	patch.ClassFeatures = nullableText(payload.ClassFeatures)

	price, err := parseDecimal(payload.ClassPrice, "classPrice")
	if err != nil {
		return Patch{}, err
	}
	patch.ClassPrice = price

	weight, err := parseDecimal(payload.ClassWeight, "classWeight")
	if err != nil {
		return Patch{}, err
	}
	patch.ClassWeight = weight

	quantity, err := parseInteger(payload.ClassQuantity, "classQuantity")
	if err != nil {
		return Patch{}, err
	}
	patch.ClassQuantity = quantity

	patch.VideoAction, patch.VideoURL = videoDirective(payload.ClassVideoURL)

	return patch, nil
}

// plainString treats absent, null and empty-after-trim all as "unspecified".
func plainString(field types.NullString) *string {
	if !field.Set || !field.Valid {
		return nil
	}
	trimmed := strings.TrimSpace(field.Value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// nullableText keeps the tri-state: explicit null stays null, empty string
// collapses to "unspecified", values are trimmed.
func nullableText(field types.NullString) types.NullString {
	if !field.Set {
		return types.NullString{}
	}
	if !field.Valid {
		return types.Null()
	}
	trimmed := strings.TrimSpace(field.Value)
	if trimmed == "" {
		return types.NullString{}
	}
	return types.String(trimmed)
}

func parseDecimal(field types.NullString, name string) (*decimal.Decimal, error) {
	if !field.Set || !field.Valid {
		return nil, nil
	}
	trimmed := strings.TrimSpace(field.Value)
	if trimmed == "" {
		return nil, nil
	}
	parsed, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid numeric value").
			WithDetails(map[string]string{"field": name, "value": trimmed})
	}
	return &parsed, nil
}

func parseInteger(field types.NullString, name string) (*int64, error) {
	parsed, err := parseDecimal(field, name)
	if err != nil || parsed == nil {
		return nil, err
	}
	// Fractional quantities are truncated, matching how spreadsheet tools
	// hand over integer columns.
	value := parsed.IntPart()
	return &value, nil
}

func videoDirective(field types.NullString) (VideoAction, string) {
	if !field.Set || !field.Valid {
		return VideoKeep, ""
	}
	trimmed := strings.TrimSpace(field.Value)
	switch trimmed {
	case "":
		return VideoKeep, ""
	case VideoDeleteSentinel:
		return VideoRemove, ""
	default:
		return VideoReplace, trimmed
	}
}

package bulk

import (
	"strings"

	"github.com/cillii/catalog-backend/internal/classes"
	"github.com/cillii/catalog-backend/pkg/types"
)

// Sheet is the source-agnostic shape both import entry points (uploaded
// spreadsheet, Google Sheets CSV) reduce to: a header row plus data rows of
// raw cell text.
type Sheet struct {
	Header []string
	Rows   [][]string
}

// Canonical payload field names, matching the JSON contract of the single
// record endpoints.
const (
	fieldSpecialID        = "specialId"
	fieldMainCategory     = "mainCategory"
	fieldQuality          = "quality"
	fieldClassName        = "className"
	fieldClassNameArabic  = "classNameArabic"
	fieldClassNameEnglish = "classNameEnglish"
	fieldClassFeatures    = "classFeatures"
	fieldClassPrice       = "classPrice"
	fieldClassWeight      = "classWeight"
	fieldClassQuantity    = "classQuantity"
	fieldClassVideo       = "classVideoUrl"
)

// headerAliases maps spreadsheet column captions onto canonical fields.
// Admins hand over sheets with either human captions or raw field names, and
// a couple of legacy spellings survive in old exports. First alias present in
// the header wins.
var headerAliases = []struct {
	field   string
	aliases []string
}{
	{fieldSpecialID, []string{"Special ID", "specialId"}},
	{fieldMainCategory, []string{"Main Category", "mainCategory"}},
	{fieldQuality, []string{"Group", "group", "Quality", "quality"}},
	{fieldClassName, []string{"Class Name", "className"}},
	{fieldClassNameArabic, []string{"Class Name Arabic", "classNameArabic"}},
	{fieldClassNameEnglish, []string{"Class Name English", "classNameEnglish"}},
	{fieldClassFeatures, []string{"Class Features", "classFeatures"}},
	{fieldClassPrice, []string{"Class Price", "classPrice"}},
	{fieldClassWeight, []string{"Class KG", "class_weight", "Class Weight", "classWeight"}},
	{fieldClassQuantity, []string{"Class Quantity", "classQuantity", "Quantity", "quantity"}},
	{fieldClassVideo, []string{"Class Video", "classVideo"}},
}

type columnMap map[string]int

// resolveColumns matches the header row against the alias table and returns
// the column index per canonical field. Unmapped fields are simply absent.
func resolveColumns(header []string) columnMap {
	positions := make(map[string]int, len(header))
	for i, caption := range header {
		caption = strings.TrimSpace(caption)
		if _, seen := positions[caption]; !seen {
			positions[caption] = i
		}
	}

	cols := make(columnMap, len(headerAliases))
	for _, entry := range headerAliases {
		for _, alias := range entry.aliases {
			if idx, ok := positions[alias]; ok {
				cols[entry.field] = idx
				break
			}
		}
	}
	return cols
}

// rowPayload lifts one data row into the shared payload shape. Cells in
// mapped columns are always set, so the normalizer sees empty cells the same
// way it sees empty form fields; missing columns stay unset. Unset text
// fields are left out of the patch, but the normalizer resolves the numeric
// fields (price, weight, quantity) on every row, so a column absent from the
// header clears stored numbers on the rows it updates.
func rowPayload(cells []string, cols columnMap) classes.Payload {
	pick := func(field string) types.NullString {
		idx, ok := cols[field]
		if !ok || idx >= len(cells) {
			return types.NullString{}
		}
		return types.String(cells[idx])
	}
	return classes.Payload{
		SpecialID:        pick(fieldSpecialID),
		MainCategory:     pick(fieldMainCategory),
		Quality:          pick(fieldQuality),
		ClassName:        pick(fieldClassName),
		ClassNameArabic:  pick(fieldClassNameArabic),
		ClassNameEnglish: pick(fieldClassNameEnglish),
		ClassFeatures:    pick(fieldClassFeatures),
		ClassPrice:       pick(fieldClassPrice),
		ClassWeight:      pick(fieldClassWeight),
		ClassQuantity:    pick(fieldClassQuantity),
		ClassVideoURL:    pick(fieldClassVideo),
	}
}

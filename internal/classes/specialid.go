package classes

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
)

// DefaultSpecialIDPrefix is used when the admin does not supply one.
const DefaultSpecialIDPrefix = "CR"

const defaultSuffixWidth = 2

// NextSpecialID returns the next sequential code for the prefix: the numeric
// suffixes of all existing codes are scanned, and the result is max+1 padded
// to the width of the current maximum (width 2 when the prefix is unused).
// A non-numeric suffix contributes 0 rather than failing the scan.
//
// This is not transactional; two racing callers can receive the same code.
// The unique constraint on special_id is the real guard and a collision
// surfaces as a conflict on insert.
func (s *Service) NextSpecialID(ctx context.Context, prefix string) (string, error) {
	sanitized := strings.ToUpper(strings.TrimSpace(prefix))
	if sanitized == "" {
		sanitized = DefaultSpecialIDPrefix
	}

	codes, err := s.repo.ListSpecialIDs(ctx, sanitized)
	if err != nil {
		return "", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "scanning special ids")
	}

	maxSuffix := -1
	width := defaultSuffixWidth
	for _, code := range codes {
		suffix := code[len(sanitized):]
		value, convErr := strconv.Atoi(suffix)
		if convErr != nil {
			value = 0
		}
		if value > maxSuffix {
			maxSuffix = value
			if len(suffix) > 0 {
				width = len(suffix)
			} else {
				width = defaultSuffixWidth
			}
		}
	}

	if maxSuffix < 0 {
		return fmt.Sprintf("%s%0*d", sanitized, defaultSuffixWidth, 1), nil
	}
	return fmt.Sprintf("%s%0*d", sanitized, width, maxSuffix+1), nil
}

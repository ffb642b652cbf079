package bulk

import (
	"context"
	"encoding/csv"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"github.com/cillii/catalog-backend/pkg/config"
	pkgerrors "github.com/cillii/catalog-backend/pkg/errors"
)

var (
	sheetDocIDPattern = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9-_]+)`)
	sheetGidPattern   = regexp.MustCompile(`[#&]gid=(\d+)`)
)

// CSVExportURL translates a shareable Google Sheets link into its CSV export
// form. A URL that already points at a CSV export passes through unchanged;
// anything else is rejected as an unrecognizable source.
func CSVExportURL(rawURL string) (string, error) {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return "", pkgerrors.New(pkgerrors.CodeInvalidSource, "sheet url is empty")
	}

	if match := sheetDocIDPattern.FindStringSubmatch(rawURL); match != nil {
		gid := "0"
		if gidMatch := sheetGidPattern.FindStringSubmatch(rawURL); gidMatch != nil {
			gid = gidMatch[1]
		}
		return fmt.Sprintf("https://docs.google.com/spreadsheets/d/%s/export?format=csv&gid=%s", match[1], gid), nil
	}

	if strings.Contains(rawURL, "/export?format=csv") {
		return rawURL, nil
	}
	return "", pkgerrors.New(pkgerrors.CodeInvalidSource, "url is not a recognizable google sheets link").
		WithDetails(map[string]string{"url": rawURL})
}

// SheetFetcher downloads a published Google Sheet as CSV.
type SheetFetcher struct {
	client *http.Client
}

func NewSheetFetcher(cfg config.SheetsConfig) *SheetFetcher {
	return &SheetFetcher{client: &http.Client{Timeout: cfg.FetchTimeout}}
}

// NewSheetFetcherWithClient is for tests that stub the transport.
func NewSheetFetcherWithClient(client *http.Client) *SheetFetcher {
	return &SheetFetcher{client: client}
}

// Fetch resolves the shareable URL, downloads the CSV export and parses it
// into the shared Sheet shape.
func (f *SheetFetcher) Fetch(ctx context.Context, rawURL string) (Sheet, error) {
	exportURL, err := CSVExportURL(rawURL)
	if err != nil {
		return Sheet{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, exportURL, nil)
	if err != nil {
		return Sheet{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building sheet request")
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Sheet{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "fetching sheet csv")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Sheet{}, pkgerrors.New(pkgerrors.CodeDependency, "sheet csv fetch returned non-200").
			WithDetails(map[string]string{"status": resp.Status})
	}

	reader := csv.NewReader(resp.Body)
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return Sheet{}, pkgerrors.Wrap(pkgerrors.CodeInvalidSource, err, "parsing sheet csv")
	}
	if len(records) == 0 {
		return Sheet{}, pkgerrors.New(pkgerrors.CodeInvalidSource, "sheet csv is empty")
	}
	return Sheet{Header: records[0], Rows: records[1:]}, nil
}

package sheets

import (
	"context"
	"fmt"
	"log"
	"os"
	"sort"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/polydesk/polydesk/internal/models"
)

// Client wraps the Google Sheets API for one spreadsheet tab. Row numbers
// returned by List are only valid until the sheet changes; callers must
// re-list immediately before any targeted write.
type Client struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetName     string
	sheetID       int64
	sheetIDLoaded bool
}

// NewClient authenticates with a service account credentials file and binds
// to one named sheet in the given spreadsheet.
func NewClient(ctx context.Context, credentialsFile, spreadsheetID, sheetName string) (*Client, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read credentials file: %w", err)
	}

	jwtConfig, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse service account credentials: %w", err)
	}

	svc, err := sheets.NewService(ctx, option.WithTokenSource(jwtConfig.TokenSource(ctx)))
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return &Client{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
	}, nil
}

// List reads every data row of the sheet. The header row is skipped and rows
// without a deal ID are discarded.
func (c *Client) List(ctx context.Context) ([]models.SheetDeal, error) {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.rangeRef(readRange)).
		Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet: %w", err)
	}

	deals := make([]models.SheetDeal, 0, len(resp.Values))
	for i, row := range resp.Values {
		if i < headerRows {
			continue
		}
		deal, ok := rowToDeal(row, i+1) // 1-based row numbers
		if !ok {
			continue
		}
		deals = append(deals, deal)
	}
	return deals, nil
}

// Append adds one deal as a new row at the bottom of the sheet.
func (c *Client) Append(ctx context.Context, deal models.SheetDeal) error {
	return c.AppendRows(ctx, []models.SheetDeal{deal})
}

// AppendRows adds the given deals as new rows in one write.
func (c *Client) AppendRows(ctx context.Context, deals []models.SheetDeal) error {
	if len(deals) == 0 {
		return nil
	}
	values := make([][]interface{}, 0, len(deals))
	for _, d := range deals {
		values = append(values, dealToRow(d))
	}

	_, err := c.svc.Spreadsheets.Values.
		Append(c.spreadsheetID, c.rangeRef(readRange), &sheets.ValueRange{Values: values}).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to append rows: %w", err)
	}
	return nil
}

// UpdateRow overwrites the full column range of one row. The row number must
// come from a fresh List call.
func (c *Client) UpdateRow(ctx context.Context, deal models.SheetDeal, rowNumber int) error {
	if rowNumber <= headerRows {
		return fmt.Errorf("invalid row number %d", rowNumber)
	}

	rangeRef := c.rangeRef(fmt.Sprintf("A%d:R%d", rowNumber, rowNumber))
	_, err := c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, rangeRef, &sheets.ValueRange{Values: [][]interface{}{dealToRow(deal)}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to update row %d: %w", rowNumber, err)
	}
	return nil
}

// Delete removes the row holding the given deal ID. The row is resolved by a
// fresh List so a stale position is never deleted.
func (c *Client) Delete(ctx context.Context, dealID string) error {
	deals, err := c.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to locate deal %s: %w", dealID, err)
	}

	rowNumber := 0
	for _, d := range deals {
		if d.DealID == dealID {
			rowNumber = d.RowNumber
			break
		}
	}
	if rowNumber == 0 {
		return fmt.Errorf("deal %s not found in sheet", dealID)
	}

	return c.DeleteRows(ctx, []int{rowNumber})
}

// DeleteRows removes the given rows in one batch request. Rows are deleted
// bottom-up so earlier deletions do not shift later targets.
func (c *Client) DeleteRows(ctx context.Context, rowNumbers []int) error {
	if len(rowNumbers) == 0 {
		return nil
	}

	sheetID, err := c.resolveSheetID(ctx)
	if err != nil {
		return err
	}

	sorted := make([]int, len(rowNumbers))
	copy(sorted, rowNumbers)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))

	requests := make([]*sheets.Request, 0, len(sorted))
	for _, row := range sorted {
		requests = append(requests, &sheets.Request{
			DeleteDimension: &sheets.DeleteDimensionRequest{
				Range: &sheets.DimensionRange{
					SheetId:    sheetID,
					Dimension:  "ROWS",
					StartIndex: int64(row - 1), // 0-based, inclusive
					EndIndex:   int64(row),     // exclusive
				},
			},
		})
	}

	_, err = c.svc.Spreadsheets.
		BatchUpdate(c.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{Requests: requests}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to delete rows: %w", err)
	}
	return nil
}

// Clear wipes all data rows, keeping the header.
func (c *Client) Clear(ctx context.Context) error {
	_, err := c.svc.Spreadsheets.Values.
		Clear(c.spreadsheetID, c.rangeRef(fmt.Sprintf("A%d:R", headerRows+1)), &sheets.ClearValuesRequest{}).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to clear sheet: %w", err)
	}
	return nil
}

// Replace wipes the sheet and appends all given deals. Destructive: remote
// rows absent from deals are lost, and a failed append after a successful
// clear leaves the sheet empty.
func (c *Client) Replace(ctx context.Context, deals []models.SheetDeal) error {
	if err := c.Clear(ctx); err != nil {
		return err
	}
	if err := c.AppendRows(ctx, deals); err != nil {
		return fmt.Errorf("failed to write replacement rows: %w", err)
	}
	return nil
}

// EnsureHeader writes the header row if the sheet is empty.
func (c *Client) EnsureHeader(ctx context.Context) error {
	resp, err := c.svc.Spreadsheets.Values.
		Get(c.spreadsheetID, c.rangeRef("A1:R1")).
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	if len(resp.Values) > 0 {
		return nil
	}

	_, err = c.svc.Spreadsheets.Values.
		Update(c.spreadsheetID, c.rangeRef("A1:R1"), &sheets.ValueRange{Values: [][]interface{}{headerRow}}).
		ValueInputOption("RAW").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	log.Printf("Wrote header row to sheet %s", c.sheetName)
	return nil
}

func (c *Client) rangeRef(cells string) string {
	return fmt.Sprintf("%s!%s", c.sheetName, cells)
}

// resolveSheetID looks up the numeric sheet ID for the configured tab name,
// caching the result.
func (c *Client) resolveSheetID(ctx context.Context) (int64, error) {
	if c.sheetIDLoaded {
		return c.sheetID, nil
	}

	spreadsheet, err := c.svc.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("failed to get spreadsheet metadata: %w", err)
	}

	for _, sheet := range spreadsheet.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == c.sheetName {
			c.sheetID = sheet.Properties.SheetId
			c.sheetIDLoaded = true
			return c.sheetID, nil
		}
	}
	return 0, fmt.Errorf("sheet %q not found in spreadsheet", c.sheetName)
}

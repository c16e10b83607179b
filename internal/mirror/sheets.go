package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const sheetTimeLayout = "2006-01-02 15:04:05"

// Columns A..I of the review spreadsheet.
var headerRow = []string{
	"User ID", "First Name", "Username", "Phone", "Date",
	"Quiz Score", "Quiz Date", "Academy Interest", "Count",
}

// Sheets mirrors funnel data into a Google Spreadsheet.
type Sheets struct {
	svc           *sheets.Service
	spreadsheetID string
	sheetID       int64
}

// NewSheets connects to the configured spreadsheet using a service account.
// Inline credentials JSON takes precedence over the credentials file.
func NewSheets(ctx context.Context, spreadsheetID, credentialsFile, credentialsJSON string) (*Sheets, error) {
	opts := []option.ClientOption{option.WithScopes(sheets.SpreadsheetsScope)}
	if credentialsJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(credentialsJSON)))
	} else {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}

	spreadsheet, err := svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.sheetId").Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	if len(spreadsheet.Sheets) == 0 {
		return nil, fmt.Errorf("spreadsheet %s has no sheets", spreadsheetID)
	}

	return &Sheets{
		svc:           svc,
		spreadsheetID: spreadsheetID,
		sheetID:       spreadsheet.Sheets[0].Properties.SheetId,
	}, nil
}

// EnsureHeaders creates the header row if it is missing.
func (s *Sheets) EnsureHeaders(ctx context.Context) error {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, "A1:I1").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read header row: %w", err)
	}
	if len(resp.Values) > 0 && len(resp.Values[0]) >= len(headerRow) {
		return nil
	}

	// Push any existing data down before writing headers into row 1.
	if len(resp.Values) > 0 {
		insert := &sheets.BatchUpdateSpreadsheetRequest{
			Requests: []*sheets.Request{{
				InsertDimension: &sheets.InsertDimensionRequest{
					Range: &sheets.DimensionRange{
						SheetId:    s.sheetID,
						Dimension:  "ROWS",
						StartIndex: 0,
						EndIndex:   1,
					},
				},
			}},
		}
		if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, insert).Context(ctx).Do(); err != nil {
			return fmt.Errorf("insert header row: %w", err)
		}
	}

	row := make([]interface{}, len(headerRow))
	for i, h := range headerRow {
		row[i] = h
	}
	if err := s.updateRange(ctx, "A1:I1", row); err != nil {
		return fmt.Errorf("write header row: %w", err)
	}
	return nil
}

// AppendProfile adds a row for a newly shared contact.
func (s *Sheets) AppendProfile(ctx context.Context, userID int64, firstName, username, phone string, at time.Time) error {
	vr := &sheets.ValueRange{
		Values: [][]interface{}{{
			strconv.FormatInt(userID, 10), firstName, username, phone, at.Format(sheetTimeLayout),
		}},
	}
	_, err := s.svc.Spreadsheets.Values.Append(s.spreadsheetID, "A:E", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("append profile row: %w", err)
	}
	return nil
}

// RecordScore writes the quiz score and date next to the user's row.
func (s *Sheets) RecordScore(ctx context.Context, userID int64, score int, at time.Time) error {
	row, err := s.findRow(ctx, userID)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("F%d:G%d", row, row)
	if err := s.updateRange(ctx, rng, []interface{}{score, at.Format(sheetTimeLayout)}); err != nil {
		return fmt.Errorf("write score for user %d: %w", userID, err)
	}
	return nil
}

// MarkInterest flags the user's row as interested in the academy and, best
// effort, highlights the mark in green.
func (s *Sheets) MarkInterest(ctx context.Context, userID int64) error {
	row, err := s.findRow(ctx, userID)
	if err != nil {
		return err
	}

	rng := fmt.Sprintf("H%d:I%d", row, row)
	if err := s.updateRange(ctx, rng, []interface{}{"цікаво", 1}); err != nil {
		return fmt.Errorf("write interest mark for user %d: %w", userID, err)
	}

	if err := s.highlightInterestCell(ctx, row); err != nil {
		// The mark itself is already written; formatting is cosmetic.
		slog.Warn("interest cell formatting failed", "user_id", userID, "error", err)
	}
	return nil
}

func (s *Sheets) highlightInterestCell(ctx context.Context, row int) error {
	req := &sheets.BatchUpdateSpreadsheetRequest{
		Requests: []*sheets.Request{{
			RepeatCell: &sheets.RepeatCellRequest{
				Range: &sheets.GridRange{
					SheetId:          s.sheetID,
					StartRowIndex:    int64(row - 1),
					EndRowIndex:      int64(row),
					StartColumnIndex: 7, // column H
					EndColumnIndex:   8,
				},
				Cell: &sheets.CellData{
					UserEnteredFormat: &sheets.CellFormat{
						BackgroundColor: &sheets.Color{Red: 0.8, Green: 1.0, Blue: 0.8},
						TextFormat: &sheets.TextFormat{
							Bold:            true,
							ForegroundColor: &sheets.Color{Green: 0.6},
						},
					},
				},
				Fields: "userEnteredFormat(backgroundColor,textFormat)",
			},
		}},
	}
	if _, err := s.svc.Spreadsheets.BatchUpdate(s.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("format interest cell: %w", err)
	}
	return nil
}

// findRow returns the 1-based row number holding userID in column A.
func (s *Sheets) findRow(ctx context.Context, userID int64) (int, error) {
	resp, err := s.svc.Spreadsheets.Values.Get(s.spreadsheetID, "A:A").Context(ctx).Do()
	if err != nil {
		return 0, fmt.Errorf("read id column: %w", err)
	}

	want := strconv.FormatInt(userID, 10)
	for i, row := range resp.Values {
		if len(row) == 0 {
			continue
		}
		if strings.TrimSpace(fmt.Sprint(row[0])) == want {
			return i + 1, nil
		}
	}
	return 0, fmt.Errorf("user %d not found in sheet", userID)
}

func (s *Sheets) updateRange(ctx context.Context, rng string, values []interface{}) error {
	vr := &sheets.ValueRange{Values: [][]interface{}{values}}
	_, err := s.svc.Spreadsheets.Values.Update(s.spreadsheetID, rng, vr).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	return err
}

// Package sheetstore persists collections in a Google Sheets spreadsheet, one
// worksheet per collection with a header row. It exists for shops that keep
// their books in a shared sheet rather than a local database; every call is a
// network round trip, so rate limiting is a normal operating condition here
// and gets bounded retries. All other failures propagate immediately.
package sheetstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"go-repair-ledger/internal/store"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

const (
	maxAttempts = 5
	baseDelay   = 500 * time.Millisecond
	maxDelay    = 8 * time.Second
)

// Store is the spreadsheet-backed implementation of store.Store.
type Store struct {
	svc           *sheets.Service
	spreadsheetID string
	sleep         func(time.Duration) // swapped out in tests
}

// Open builds a Sheets client from SHEETS_SPREADSHEET_ID and either
// GOOGLE_APPLICATION_CREDENTIALS (service account file) or GOOGLE_API_KEY.
func Open(ctx context.Context) (*Store, error) {
	id := os.Getenv("SHEETS_SPREADSHEET_ID")
	if id == "" {
		return nil, errors.New("SHEETS_SPREADSHEET_ID is not set")
	}

	var opts []option.ClientOption
	if creds := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); creds != "" {
		opts = append(opts, option.WithCredentialsFile(creds))
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		opts = append(opts, option.WithAPIKey(key))
	}

	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}

	log.WithField("spreadsheet", id).Info("sheets store ready")
	return &Store{svc: svc, spreadsheetID: id, sleep: time.Sleep}, nil
}

// ReadAll fetches the worksheet and decodes it as header row + data rows.
// A missing or empty worksheet reads as an empty collection.
func (s *Store) ReadAll(ctx context.Context, collection string) ([]store.Row, error) {
	var resp *sheets.ValueRange
	err := s.withRetry(collection, "read", func() error {
		var callErr error
		resp, callErr = s.svc.Spreadsheets.Values.Get(s.spreadsheetID, collection).Context(ctx).Do()
		return callErr
	})
	if err != nil {
		return nil, err
	}

	if len(resp.Values) < 2 {
		return nil, nil
	}

	header := make([]string, 0, len(resp.Values[0]))
	for _, cell := range resp.Values[0] {
		header = append(header, fmt.Sprint(cell))
	}

	rows := make([]store.Row, 0, len(resp.Values)-1)
	for _, raw := range resp.Values[1:] {
		row := store.Row{}
		for i, cell := range raw {
			if i >= len(header) {
				break
			}
			row[header[i]] = fmt.Sprint(cell)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// WriteAll clears the worksheet and rewrites header + rows in one update.
func (s *Store) WriteAll(ctx context.Context, collection string, rows []store.Row) error {
	header := headerFor(rows)

	values := make([][]interface{}, 0, len(rows)+1)
	headerCells := make([]interface{}, len(header))
	for i, h := range header {
		headerCells[i] = h
	}
	values = append(values, headerCells)

	for _, row := range rows {
		cells := make([]interface{}, len(header))
		for i, h := range header {
			cells[i] = row[h]
		}
		values = append(values, cells)
	}

	return s.withRetry(collection, "write", func() error {
		_, err := s.svc.Spreadsheets.Values.Clear(s.spreadsheetID, collection, &sheets.ClearValuesRequest{}).Context(ctx).Do()
		if err != nil {
			return err
		}
		_, err = s.svc.Spreadsheets.Values.Update(s.spreadsheetID, collection, &sheets.ValueRange{Values: values}).
			ValueInputOption("RAW").Context(ctx).Do()
		return err
	})
}

// NextID reads the collection and returns max(id)+1, 1 when empty.
func (s *Store) NextID(ctx context.Context, collection string) (int, error) {
	rows, err := s.ReadAll(ctx, collection)
	if err != nil {
		return 0, err
	}
	max := 0
	for _, r := range rows {
		if id := r.Int("id"); id > max {
			max = id
		}
	}
	return max + 1, nil
}

// headerFor builds a deterministic header: "id" first, the rest sorted.
func headerFor(rows []store.Row) []string {
	seen := map[string]bool{"id": true}
	header := []string{"id"}
	for _, row := range rows {
		for key := range row {
			if !seen[key] {
				seen[key] = true
				header = append(header, key)
			}
		}
	}
	sort.Strings(header[1:])
	return header
}

// withRetry runs op, retrying rate-limit-class failures with bounded
// exponential backoff. Anything else fails on the first attempt.
func (s *Store) withRetry(collection, op string, fn func() error) error {
	delay := baseDelay
	var err error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err = fn()
		if err == nil {
			return nil
		}
		if !isRateLimited(err) {
			return fmt.Errorf("sheets %s %s: %w", op, collection, err)
		}
		if attempt < maxAttempts {
			log.WithFields(log.Fields{
				"collection": collection,
				"op":         op,
				"attempt":    attempt,
				"delay":      delay,
			}).Warn("sheets rate limited, backing off")
			s.sleep(delay)
			delay *= 2
			if delay > maxDelay {
				delay = maxDelay
			}
		}
	}
	return store.Transient(fmt.Errorf("sheets %s %s after %d attempts: %w", op, collection, maxAttempts, err))
}

// isRateLimited classifies quota/rate responses. 403s are only retryable when
// the message says so; a plain 403 is a permission problem and fatal.
func isRateLimited(err error) bool {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return false
	}
	if apiErr.Code == 429 {
		return true
	}
	if apiErr.Code == 403 {
		msg := strings.ToLower(apiErr.Message)
		return strings.Contains(msg, "rate") || strings.Contains(msg, "quota")
	}
	return false
}

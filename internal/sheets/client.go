package sheets

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/Veraticus/pulse/internal/common"
	"github.com/Veraticus/pulse/internal/service"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

// Scopes requested for both authentication methods. Drive metadata access is
// only used to find spreadsheets by title.
var Scopes = []string{
	sheets.SpreadsheetsScope,
	drive.DriveMetadataReadonlyScope,
}

const spreadsheetMimeType = "application/vnd.google-apps.spreadsheet"

// Client is an authenticated handle on the Sheets and Drive APIs. Build one at
// startup and open every worksheet through it.
type Client struct {
	sheets *sheets.Service
	drive  *drive.Service
	logger *slog.Logger
	config Config
}

// NewClient creates a client from credentials in config.
func NewClient(ctx context.Context, config Config, logger *slog.Logger) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	httpClient, err := createHTTPClient(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create sheets service: %w", err)
	}

	return NewClientWithOptions(ctx, config, logger, option.WithHTTPClient(httpClient))
}

// NewClientWithOptions creates a client with explicit API options, e.g. a
// custom endpoint. Credentials in config are not consulted.
func NewClientWithOptions(ctx context.Context, config Config, logger *slog.Logger, opts ...option.ClientOption) (*Client, error) {
	if logger == nil {
		logger = slog.Default()
	}

	sheetsSrv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create sheets service: %w", err)
	}

	driveSrv, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create drive service: %w", err)
	}

	return &Client{
		sheets: sheetsSrv,
		drive:  driveSrv,
		logger: logger,
		config: config,
	}, nil
}

// createHTTPClient builds an authorized HTTP client.
func createHTTPClient(ctx context.Context, config Config) (*http.Client, error) {
	var tokenSource oauth2.TokenSource

	if config.ServiceAccountPath != "" {
		jsonKey, err := os.ReadFile(config.ServiceAccountPath)
		if err != nil {
			return nil, fmt.Errorf("unable to read service account key file: %w", err)
		}

		jwtConfig, err := google.JWTConfigFromJSON(jsonKey, Scopes...)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}

		tokenSource = jwtConfig.TokenSource(ctx)
	} else {
		client := &oauth2.Config{
			ClientID:     config.ClientID,
			ClientSecret: config.ClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       Scopes,
		}

		token := &oauth2.Token{
			RefreshToken: config.RefreshToken,
			TokenType:    "Bearer",
		}

		tokenSource = client.TokenSource(ctx, token)
	}

	return oauth2.NewClient(ctx, tokenSource), nil
}

// Open resolves target to a single worksheet.
func (c *Client) Open(ctx context.Context, target Target) (*Worksheet, error) {
	if err := target.Validate(); err != nil {
		return nil, err
	}

	spreadsheetID := target.SpreadsheetID
	if spreadsheetID == "" {
		id, err := c.findSpreadsheet(ctx, target.SpreadsheetName)
		if err != nil {
			return nil, err
		}
		spreadsheetID = id
	}

	spreadsheet, err := c.sheets.Spreadsheets.Get(spreadsheetID).
		Fields("spreadsheetId", "sheets.properties").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to access spreadsheet %s: %w", spreadsheetID, classify(err))
	}

	props, err := pickSheet(spreadsheet.Sheets, target.Worksheet)
	if err != nil {
		return nil, fmt.Errorf("spreadsheet %s: %w", spreadsheetID, err)
	}

	c.logger.Debug("opened worksheet",
		"spreadsheet_id", spreadsheetID,
		"worksheet", props.Title,
		"sheet_id", props.SheetId)

	return &Worksheet{
		client:        c,
		spreadsheetID: spreadsheetID,
		title:         props.Title,
		sheetID:       props.SheetId,
	}, nil
}

// findSpreadsheet looks a spreadsheet up by its exact title.
func (c *Client) findSpreadsheet(ctx context.Context, name string) (string, error) {
	query := fmt.Sprintf("name = '%s' and mimeType = '%s' and trashed = false",
		strings.ReplaceAll(name, "'", `\'`), spreadsheetMimeType)

	var files []*drive.File
	err := common.WithRetry(ctx, func() error {
		list, err := c.drive.Files.List().
			Q(query).
			Fields("files(id, name)").
			PageSize(10).
			Context(ctx).
			Do()
		if err != nil {
			return classify(err)
		}
		files = list.Files
		return nil
	}, c.retryOptions("find spreadsheet "+name))
	if err != nil {
		return "", fmt.Errorf("failed to look up spreadsheet %q: %w", name, err)
	}

	if len(files) == 0 {
		return "", fmt.Errorf("spreadsheet %q: %w", name, common.ErrNotFound)
	}
	if len(files) > 1 {
		c.logger.Warn("multiple spreadsheets share a title, using the first",
			"name", name,
			"count", len(files))
	}

	return files[0].Id, nil
}

func (c *Client) retryOptions(operation string) service.RetryOptions {
	return service.RetryOptions{
		Logger:       c.logger,
		Operation:    operation,
		MaxAttempts:  c.config.RetryAttempts + 1,
		InitialDelay: c.config.RetryDelay,
		MaxDelay:     c.config.RetryDelay * 8,
		Multiplier:   2.0,
	}
}

func pickSheet(all []*sheets.Sheet, title string) (*sheets.SheetProperties, error) {
	for _, s := range all {
		if s.Properties == nil {
			continue
		}
		if title == "" || s.Properties.Title == title {
			return s.Properties, nil
		}
	}
	if title == "" {
		return nil, fmt.Errorf("no worksheets: %w", common.ErrNotFound)
	}
	return nil, fmt.Errorf("worksheet %q: %w", title, common.ErrNotFound)
}

// classify maps API failures onto retry semantics.
func classify(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return err
	}

	switch {
	case apiErr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w", common.ErrRateLimit, err)
	case apiErr.Code == http.StatusNotFound:
		return &common.RetryableError{Err: fmt.Errorf("%w: %w", common.ErrNotFound, err), Retryable: false}
	case apiErr.Code >= 400 && apiErr.Code < 500:
		return &common.RetryableError{Err: err, Retryable: false}
	default:
		return err
	}
}

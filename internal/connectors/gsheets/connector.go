package gsheets

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"stonecatalog/internal/config"
)

// Connector reads the library grid straight from the Google Sheets API.
type Connector struct {
	service       *sheets.Service
	spreadsheetID string
	readRange     string
}

// NewConnector authenticates with GOOGLE_API_KEY when set, otherwise with an
// OAuth refresh token.
func NewConnector(ctx context.Context, cfg config.Config) (*Connector, error) {
	if err := cfg.Require("GOOGLE_SHEETS_ID", cfg.SheetsID); err != nil {
		return nil, err
	}

	var opt option.ClientOption
	if strings.TrimSpace(cfg.GoogleAPIKey) != "" {
		opt = option.WithAPIKey(cfg.GoogleAPIKey)
	} else {
		if err := cfg.Require("GOOGLE_CLIENT_ID", cfg.GoogleClientID); err != nil {
			return nil, err
		}
		if err := cfg.Require("GOOGLE_CLIENT_SECRET", cfg.GoogleClientSecret); err != nil {
			return nil, err
		}
		if err := cfg.Require("GOOGLE_REFRESH_TOKEN", cfg.GoogleRefreshToken); err != nil {
			return nil, err
		}
		oauthCfg := &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			Endpoint:     google.Endpoint,
			Scopes:       []string{sheets.SpreadsheetsReadonlyScope},
		}
		opt = option.WithTokenSource(oauthCfg.TokenSource(ctx, &oauth2.Token{RefreshToken: cfg.GoogleRefreshToken}))
	}

	return newConnector(ctx, cfg.SheetsID, cfg.SheetsRange, opt)
}

func newConnector(ctx context.Context, spreadsheetID, readRange string, opts ...option.ClientOption) (*Connector, error) {
	svc, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, err
	}
	if readRange == "" {
		readRange = "A:Z"
	}
	return &Connector{service: svc, spreadsheetID: spreadsheetID, readRange: readRange}, nil
}

func (c *Connector) Name() string { return "sheets:" + c.spreadsheetID }

// FetchRows returns formatted cell text. The API drops trailing empty cells
// and rows, which the row aggregator already tolerates.
func (c *Connector) FetchRows(ctx context.Context) ([][]string, error) {
	resp, err := c.service.Spreadsheets.Values.Get(c.spreadsheetID, c.readRange).
		ValueRenderOption("FORMATTED_VALUE").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("sheets values.get: %w", err)
	}

	out := make([][]string, 0, len(resp.Values))
	for _, raw := range resp.Values {
		row := make([]string, len(raw))
		for i, v := range raw {
			if v == nil {
				continue
			}
			row[i] = fmt.Sprint(v)
		}
		out = append(out, row)
	}
	return out, nil
}

package connectors

import "context"

// RowSource yields the raw cell grid of the product library sheet.
type RowSource interface {
	Name() string
	FetchRows(ctx context.Context) ([][]string, error)
}

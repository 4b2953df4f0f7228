package sheets

import (
	"context"

	"tally/internal/core"
)

// Ports for outbound spreadsheet adapters.
type (
	TransactionAppender interface {
		Append(ctx context.Context, t core.Transaction) (rowRef string, err error)
	}

	// TransactionRemover clears a previously exported row by transaction ID.
	TransactionRemover interface {
		Remove(ctx context.Context, id string) error
	}
)

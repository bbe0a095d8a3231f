package document

import "context"

// Repository delivers generated documents to the document store.
// Store methods return the path the document was written to.
type Repository interface {
	StoreInvoice(ctx context.Context, inv Invoice) (string, error)
	StoreTimesheet(ctx context.Context, ts Timesheet) (string, error)
}

package ports

import "context"

// DocumentStore is the external key-document service the sync layer writes
// POS records into. Its consistency model is not ours: Set is patch-as-
// overwrite with last-writer-wins, and Get reports absence, not an error,
// when the document does not exist.
type DocumentStore interface {
	// Get returns the document's decoded field map. The bool reports
	// whether the document exists.
	Get(ctx context.Context, collection, id string) (map[string]any, bool, error)

	// Set applies a partial update: supplied fields overwrite, everything
	// else is left untouched. The document is created if absent.
	Set(ctx context.Context, collection, id string, fields map[string]any) error
}

package analysis

import "context"

// Analyzer turns free text into a typed record. A nil record with a nil error
// means the backend had nothing to return.
type Analyzer interface {
	Analyze(ctx context.Context, docType DocumentType, text string) (Record, error)
}

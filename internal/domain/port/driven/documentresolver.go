package driven

import "context"

// DocumentResolver defines the driven port that resolves document metadata
// for the viewer. Any error means the document cannot be displayed inline.
type DocumentResolver interface {
	PageCount(ctx context.Context, sourceURL string) (int, error)
}

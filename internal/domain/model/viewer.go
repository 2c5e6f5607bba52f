package model

// ViewerSession is a point-in-time snapshot of the document viewer.
// PageCount and CurrentPage are zero unless LoadState is LoadStateReady.
type ViewerSession struct {
	Active      bool // False when no document is mounted.
	SourceURL   string
	LoadState   LoadState
	PageCount   int
	CurrentPage int
	Err         string // Resolution failure reason when LoadState is LoadStateFailed.
}

// HasPrevious reports whether PreviousPage would move the viewer.
func (s ViewerSession) HasPrevious() bool {
	return s.LoadState == LoadStateReady && s.CurrentPage > 1
}

// HasNext reports whether NextPage would move the viewer.
func (s ViewerSession) HasNext() bool {
	return s.LoadState == LoadStateReady && s.CurrentPage < s.PageCount
}

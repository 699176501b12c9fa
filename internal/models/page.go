package models

// Page is an offset window expressed as from/size.
//
// The window starts at page index from/size (integer division), so a from value
// that is not a multiple of size is rounded down to the start of its page.
type Page struct {
	From int
	Size int
}

// NewPage returns a page, substituting defaults for out-of-range values.
func NewPage(from, size int) Page {
	if from < 0 {
		from = DefaultPageFrom
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	return Page{From: from, Size: size}
}

// Limit returns the maximum number of rows in the page.
func (p Page) Limit() int {
	if p.Size <= 0 {
		return DefaultPageSize
	}
	return p.Size
}

// Offset returns the number of rows to skip.
func (p Page) Offset() int {
	size := p.Limit()
	if p.From <= 0 {
		return 0
	}
	return (p.From / size) * size
}

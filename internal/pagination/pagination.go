package pagination

// Params holds normalized page/size query values.
type Params struct {
	Page int
	Size int
}

// Normalize clamps page and size to sane bounds.
func Normalize(page, size int) Params {
	if page < 1 {
		page = 1
	}
	if size < 1 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	return Params{Page: page, Size: size}
}

// Offset returns the row offset for the page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Size
}

// Pages returns the number of pages needed for total rows.
func (p Params) Pages(total int64) int {
	if total == 0 {
		return 0
	}
	pages := int(total) / p.Size
	if int(total)%p.Size != 0 {
		pages++
	}
	return pages
}

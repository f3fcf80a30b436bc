// Package pagination maps an item count and page size onto a clamped current page.
package pagination

// Ellipsis marks a gap in the list returned by Pages.
const Ellipsis = 0

// Paginator tracks the current page of one list. It is not safe for concurrent use.
type Paginator struct {
	total   int
	perPage int
	page    int
}

// New returns a paginator positioned on page 1.
// A page size below 1 is treated as 1 and a negative total as 0.
func New(totalItems, itemsPerPage int) *Paginator {
	p := &Paginator{page: 1}
	p.total = max(totalItems, 0)
	p.perPage = max(itemsPerPage, 1)
	return p
}

func (p *Paginator) TotalPages() int {
	return max(1, (p.total+p.perPage-1)/p.perPage)
}

func (p *Paginator) Page() int { return p.page }
func (p *Paginator) PageSize() int { return p.perPage }
func (p *Paginator) TotalItems() int { return p.total }
func (p *Paginator) StartIndex() int { return (p.page - 1) * p.perPage }
func (p *Paginator) HasNext() bool { return p.page < p.TotalPages() }
func (p *Paginator) HasPrevious() bool { return p.page > 1 }

func (p *Paginator) EndIndex() int {
	return min(p.StartIndex()+p.perPage, p.total)
}

// GoTo moves to page n, clamped into [1, TotalPages]. It never fails.
func (p *Paginator) GoTo(n int) int {
	p.page = min(max(n, 1), p.TotalPages())
	return p.page
}

func (p *Paginator) Next() int { return p.GoTo(p.page + 1) }
func (p *Paginator) Previous() int { return p.GoTo(p.page - 1) }

// SetTotal changes the item count. The page resets to 1 if it fell out of range.
func (p *Paginator) SetTotal(totalItems int) {
	p.total = max(totalItems, 0)
	p.reclamp()
}

// SetPageSize changes the page size. The page resets to 1 if it fell out of range.
func (p *Paginator) SetPageSize(itemsPerPage int) {
	p.perPage = max(itemsPerPage, 1)
	p.reclamp()
}

func (p *Paginator) reclamp() {
	if p.page > p.TotalPages() {
		p.page = 1
	}
}

// Slice returns the items of the current page. items is expected to hold
// TotalItems elements; shorter sequences are cut at their own length.
func Slice[T any](p *Paginator, items []T) []T {
	start := min(p.StartIndex(), len(items))
	end := min(p.EndIndex(), len(items))
	if end < start {
		end = start
	}
	return items[start:end]
}

// Pages lists the page numbers a pager shows around the current page,
// with Ellipsis for skipped ranges. Up to 7 pages are listed in full.
func (p *Paginator) Pages() []int {
	total := p.TotalPages()
	current := p.page

	if total <= 7 {
		pages := make([]int, 0, total)
		for i := 1; i <= total; i++ {
			pages = append(pages, i)
		}
		return pages
	}

	switch {
	case current <= 3:
		return []int{1, 2, 3, 4, Ellipsis, total}
	case current >= total-2:
		return []int{1, Ellipsis, total - 3, total - 2, total - 1, total}
	default:
		return []int{1, Ellipsis, current - 1, current, current + 1, Ellipsis, total}
	}
}

// Range returns the 1-based positions of the first and last item on the page,
// or 0, 0 when there are no items.
func (p *Paginator) Range() (int, int) {
	if p.total == 0 {
		return 0, 0
	}
	return p.StartIndex() + 1, p.EndIndex()
}

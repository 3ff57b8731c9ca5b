package rsvp

const DefaultPageSize = 10

type Page struct {
	Rows       []Submission `json:"rows"`
	Number     int          `json:"page"`
	Size       int          `json:"pageSize"`
	TotalPages int          `json:"totalPages"`
	TotalRows  int          `json:"totalRows"`
}

func (p Page) HasPrevious() bool { return p.Number > 1 }
func (p Page) HasNext() bool     { return p.Number < p.TotalPages }

// Paginate slices rows into 1-based pages. Out-of-range page numbers are clamped and a
// non-positive size falls back to DefaultPageSize. An empty set is a single empty page.
func Paginate(rows []Submission, number, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}

	totalPages := (len(rows) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}

	number = min(max(number, 1), totalPages)

	start := min((number-1)*size, len(rows))
	end := min(start+size, len(rows))

	return Page{
		Rows:       rows[start:end],
		Number:     number,
		Size:       size,
		TotalPages: totalPages,
		TotalRows:  len(rows),
	}
}

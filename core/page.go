package core

import (
	"math"
	"strconv"

	"github.com/wansing/journal/util"
)

// DefaultPerPage is the page size of all list views unless the config file says otherwise.
const DefaultPerPage = 10

// A Page is one slice of an ordered record list.
type Page struct {
	Number   int // 1-based
	NumPages int
	PerPage  int
}

// NewPage interprets a "page" query parameter against a total record count.
// A non-numeric parameter or one below 1 falls back to page 1, a parameter
// beyond the last page yields the last page. Same inputs, same page.
func NewPage(pageParam string, total, perPage int) Page {

	if perPage < 1 {
		perPage = DefaultPerPage
	}

	var numPages = int(math.Ceil(float64(total) / float64(perPage)))
	if numPages < 1 {
		numPages = 1 // an empty list still has one (empty) page
	}

	var number, _ = strconv.Atoi(pageParam)
	if number < 1 {
		number = 1
	}
	if number > numPages {
		number = numPages
	}

	return Page{
		Number:   number,
		NumPages: numPages,
		PerPage:  perPage,
	}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.PerPage
}

func (p Page) HasPrev() bool {
	return p.Number > 1
}

func (p Page) HasNext() bool {
	return p.Number < p.NumPages
}

// Numbers returns non-consecutive page numbers for rendering navigation.
func (p Page) Numbers() []int {
	return util.Pages(p.Number, p.NumPages)
}

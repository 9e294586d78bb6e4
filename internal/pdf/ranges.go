// -----------------------------------------------------------------------
// Page range parsing - "1-3, 5" style selections
// -----------------------------------------------------------------------

package pdf

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ErrMalformedRange indicates a page-range expression that does not parse.
var ErrMalformedRange = errors.New("malformed page range")

// ErrNoValidPages indicates a page selection that is empty after filtering
// against the document's page count. Almost always a user typo, so it is a
// hard error rather than a no-op.
var ErrNoValidPages = errors.New("no valid pages selected")

// ParseRanges parses a comma-separated page selection of 1-based page
// numbers and inclusive "start-end" ranges into sorted, deduplicated,
// zero-based page indices.
//
//	ParseRanges("1-3, 5") -> [0 1 2 4]
//
// Bounds against any particular document are not checked here; the splitter
// filters the selection against the actual page count.
func ParseRanges(spec string) ([]int, error) {
	seen := make(map[int]struct{})

	for _, token := range strings.Split(spec, ",") {
		token = strings.TrimSpace(token)

		if start, end, isRange := strings.Cut(token, "-"); isRange {
			from, err := strconv.Atoi(strings.TrimSpace(start))
			if err != nil {
				return nil, fmt.Errorf("%w: invalid range start %q: %v", ErrMalformedRange, token, err)
			}
			to, err := strconv.Atoi(strings.TrimSpace(end))
			if err != nil {
				return nil, fmt.Errorf("%w: invalid range end %q: %v", ErrMalformedRange, token, err)
			}
			for p := from; p <= to; p++ {
				seen[p-1] = struct{}{}
			}
			continue
		}

		page, err := strconv.Atoi(token)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid page %q: %v", ErrMalformedRange, token, err)
		}
		seen[page-1] = struct{}{}
	}

	pages := make([]int, 0, len(seen))
	for p := range seen {
		pages = append(pages, p)
	}
	sort.Ints(pages)

	return pages, nil
}

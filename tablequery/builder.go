package tablequery

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
)

// The portal's download-link format. The path language segment is fixed to
// "en" regardless of csvLocale, matching the links the portal itself emits.
const urlTemplate = "https://www150.statcan.gc.ca/t1/tbl1/en/dtl!downloadDbLoadingData-nonTraduit.action?" +
	"pid=%d%s&latestN=%s&startDate=%s&endDate=%s&csvLocale=%s&selectedMembers=%s&checkedLevels="

// pidSuffix is the fixed two-digit suffix the portal appends to a productId.
const pidSuffix = "01"

// Request carries everything needed to build one download URL. The zero
// value (plus a ProductID) selects every member of every dimension with the
// portal's default query parameters.
type Request struct {
	ProductID int
	// Filters maps dimension names to the member labels to keep. Dimensions
	// not named select all of their members.
	Filters map[string][]string
	// LatestN limits the extract to the N most recent periods when positive.
	LatestN   int
	StartDate string
	EndDate   string
	// Locale selects the CSV language ("en" or "fr"); empty means "en".
	Locale string
}

// MakeURL builds the download URL for a table in the built-in registry.
// An empty or nil filter map selects the full table.
func MakeURL(productID int, filters map[string][]string) (string, error) {
	if productID <= 0 {
		return "", &InvalidIdentifierError{ProductID: productID}
	}
	idx, ok := Lookup(productID)
	if !ok {
		return "", &UnknownTableError{ProductID: productID}
	}
	return idx.BuildURL(Request{ProductID: productID, Filters: filters})
}

// BuildURL resolves the request's filters against the index and renders the
// portal's download-link format. It is a pure function of the request and
// the index.
func (idx *MemberIndex) BuildURL(req Request) (string, error) {
	if req.ProductID <= 0 {
		return "", &InvalidIdentifierError{ProductID: req.ProductID}
	}

	selected, err := idx.SelectedMembers(req.Filters)
	if err != nil {
		return "", err
	}

	encoded, err := encodeSelectedMembers(selected)
	if err != nil {
		return "", err
	}

	latestN := ""
	if req.LatestN > 0 {
		latestN = strconv.Itoa(req.LatestN)
	}

	locale := req.Locale
	if locale == "" {
		locale = "en"
	}

	return fmt.Sprintf(urlTemplate,
		req.ProductID, pidSuffix, latestN, req.StartDate, req.EndDate, locale, encoded), nil
}

// SelectedMembers resolves a filter map into one index list per dimension,
// in the table's canonical dimension order. Member indices within each list
// follow the canonical member order of the index, not the caller's order,
// and duplicates collapse. A filter key matching no dimension, or a label
// matching no member of its dimension, yields an UnknownMemberError.
func (idx *MemberIndex) SelectedMembers(filters map[string][]string) ([][]int, error) {
	byDim := make(map[int][]string, len(filters))
	for key, labels := range filters {
		i, ok := idx.dimensionFor(key)
		if !ok {
			return nil, &UnknownMemberError{Dimension: key}
		}
		byDim[i] = append(byDim[i], labels...)
	}

	selected := make([][]int, 0, len(idx.Dimensions))
	for i := range idx.Dimensions {
		dim := &idx.Dimensions[i]

		labels, filtered := byDim[i]
		if !filtered {
			selected = append(selected, dim.allMemberIDs())
			continue
		}

		wanted := make(map[int]bool, len(labels))
		for _, label := range labels {
			id, ok := dim.resolve(label)
			if !ok {
				return nil, &UnknownMemberError{Dimension: dim.Name, Member: label}
			}
			wanted[id] = true
		}

		ids := make([]int, 0, len(wanted))
		for _, m := range dim.Members {
			if wanted[m.ID] {
				ids = append(ids, m.ID)
			}
		}
		selected = append(selected, ids)
	}

	return selected, nil
}

// encodeSelectedMembers serializes the per-dimension index lists as compact
// nested JSON arrays and percent-encodes them for the query string, matching
// the portal's own encoding of [, ] and , as %5B, %5D and %2C.
func encodeSelectedMembers(selected [][]int) (string, error) {
	raw, err := json.Marshal(selected)
	if err != nil {
		return "", fmt.Errorf("failed to encode selected members: %w", err)
	}
	return url.QueryEscape(string(raw)), nil
}

// Package tablequery builds download URLs for Statistics Canada's tabular
// data portal. A MemberIndex maps a table's dimension and member labels to
// the 1-based numeric coordinates the portal's selectedMembers parameter
// expects; indexes come from the built-in registry or are derived from live
// WDS cube metadata.
package tablequery

import (
	"fmt"
	"sort"

	"github.com/shinysc/statcan-tables-api/statcan/entities"
)

// Member associates a member label with its numeric index.
type Member struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// Dimension holds the ordered members of one table axis.
type Dimension struct {
	Name    string   `json:"name"`
	Members []Member `json:"members"`

	byLabel map[string]int
}

// MemberIndex is the label-to-index table for one data table. It is built
// once and never mutated afterwards; all lookups are read-only, so a single
// index is safe for concurrent use.
type MemberIndex struct {
	ProductID  int
	Title      string
	Dimensions []Dimension

	byDimension map[string]int
}

// NewMemberIndex builds an immutable index from ordered dimensions.
func NewMemberIndex(productID int, title string, dims []Dimension) *MemberIndex {
	idx := &MemberIndex{
		ProductID:   productID,
		Title:       title,
		Dimensions:  make([]Dimension, len(dims)),
		byDimension: make(map[string]int, len(dims)),
	}

	for i, d := range dims {
		d.byLabel = make(map[string]int, len(d.Members))
		for _, m := range d.Members {
			d.byLabel[foldLabel(m.Label)] = m.ID
		}
		idx.Dimensions[i] = d
		idx.byDimension[foldLabel(d.Name)] = i
	}

	return idx
}

// FromMetadata derives a member index from a WDS getCubeMetadata payload.
// Dimensions are ordered by their position id, members keep the order the
// metadata lists them in.
func FromMetadata(md *entities.CubeMetadata, lang string) (*MemberIndex, error) {
	if md == nil {
		return nil, fmt.Errorf("nil cube metadata")
	}
	if len(md.Dimension) == 0 {
		return nil, fmt.Errorf("cube %s has no dimensions", md.ProductID)
	}

	var productID int
	if _, err := fmt.Sscanf(md.ProductID, "%d", &productID); err != nil || productID <= 0 {
		return nil, fmt.Errorf("cube metadata has malformed productId %q", md.ProductID)
	}

	metaDims := make([]entities.Dimension, len(md.Dimension))
	copy(metaDims, md.Dimension)
	sort.SliceStable(metaDims, func(i, j int) bool {
		return metaDims[i].DimensionPositionID < metaDims[j].DimensionPositionID
	})

	dims := make([]Dimension, 0, len(metaDims))
	for _, d := range metaDims {
		members := make([]Member, 0, len(d.Member))
		for _, m := range d.Member {
			members = append(members, Member{ID: m.MemberID, Label: m.Name(lang)})
		}
		dims = append(dims, Dimension{Name: d.Name(lang), Members: members})
	}

	title := md.CubeTitleEn
	if lang == "fr" {
		title = md.CubeTitleFr
	}

	return NewMemberIndex(productID, title, dims), nil
}

// dimensionFor matches a free-form filter key against the table's dimensions.
func (idx *MemberIndex) dimensionFor(key string) (int, bool) {
	i, ok := idx.byDimension[foldLabel(key)]
	return i, ok
}

// resolve maps a member label to its numeric index within the dimension.
func (d *Dimension) resolve(label string) (int, bool) {
	id, ok := d.byLabel[foldLabel(label)]
	return id, ok
}

// allMemberIDs returns every member index of the dimension, in canonical order.
func (d *Dimension) allMemberIDs() []int {
	ids := make([]int, len(d.Members))
	for i, m := range d.Members {
		ids[i] = m.ID
	}
	return ids
}

package statcan

import (
	"strings"

	"github.com/shinysc/statcan-tables-api/statcan/entities"
)

// Search modes: AND requires every term to match, OR any term.
const (
	ModeAnd = "AND"
	ModeOr  = "OR"
)

// SearchOptions tunes a cube search. The zero value means AND mode, active
// cubes only, English titles.
type SearchOptions struct {
	Mode string
	// Status filters on the cube's archived code: "2" keeps active tables,
	// "1" archived ones, empty defaults to active.
	Status string
	Lang   string
}

// SearchCubes finds cubes matching a query. A cube matches when its title
// matches the query terms, or when it carries a subject or survey code whose
// code-set description matches. AND mode splits the query on whitespace and
// requires all terms; OR mode splits on commas and accepts any.
func SearchCubes(cubes []entities.Cube, codes *entities.CodeSets, query string, opts SearchOptions) []entities.Cube {
	terms := splitTerms(query, opts.Mode)
	if len(terms) == 0 {
		return nil
	}

	status := opts.Status
	if status == "" {
		status = "2"
	}

	subjectCodes, surveyCodes := matchingCodes(codes, terms, opts)

	var results []entities.Cube
	for _, cube := range cubes {
		if cube.Archived != status {
			continue
		}

		if matchesTerms(cube.Title(opts.Lang), terms, opts.Mode) ||
			intersects(cube.SubjectCode, subjectCodes) ||
			intersects(cube.SurveyCode, surveyCodes) {
			results = append(results, cube)
		}
	}

	return results
}

func splitTerms(query string, mode string) []string {
	var raw []string
	if mode == ModeOr {
		raw = strings.Split(query, ",")
	} else {
		raw = strings.Fields(query)
	}

	terms := make([]string, 0, len(raw))
	for _, t := range raw {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}

func matchesTerms(text string, terms []string, mode string) bool {
	text = strings.ToLower(text)

	if mode == ModeOr {
		for _, t := range terms {
			if strings.Contains(text, t) {
				return true
			}
		}
		return false
	}

	for _, t := range terms {
		if !strings.Contains(text, t) {
			return false
		}
	}
	return true
}

// matchingCodes resolves query terms against the code-set descriptions, so a
// search for a subject area also surfaces cubes that carry its code without
// naming it in the title.
func matchingCodes(codes *entities.CodeSets, terms []string, opts SearchOptions) (subjects, surveys map[string]bool) {
	subjects = make(map[string]bool)
	surveys = make(map[string]bool)
	if codes == nil {
		return subjects, surveys
	}

	for _, s := range codes.Subject {
		desc := s.SubjectEn
		if opts.Lang == "fr" {
			desc = s.SubjectFr
		}
		if matchesTerms(desc, terms, opts.Mode) {
			subjects[s.SubjectCode] = true
		}
	}

	for _, s := range codes.Survey {
		desc := s.SurveyEn
		if opts.Lang == "fr" {
			desc = s.SurveyFr
		}
		if matchesTerms(desc, terms, opts.Mode) {
			surveys[s.SurveyCode] = true
		}
	}

	return subjects, surveys
}

func intersects(codes []string, matched map[string]bool) bool {
	if len(matched) == 0 {
		return false
	}
	for _, c := range codes {
		if matched[c] {
			return true
		}
	}
	return false
}

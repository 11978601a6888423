package entities

// CodeSets holds the WDS getCodeSets payload, reduced to the sets the search
// layer resolves query terms against.
type CodeSets struct {
	Subject []SubjectCode `json:"subject"`
	Survey  []SurveyCode  `json:"survey"`
}

// SubjectCode maps a subject classification code to its descriptions.
type SubjectCode struct {
	SubjectCode string `json:"subjectCode"`
	SubjectEn   string `json:"subjectEn"`
	SubjectFr   string `json:"subjectFr"`
}

// SurveyCode maps a survey code to its descriptions.
type SurveyCode struct {
	SurveyCode string `json:"surveyCode"`
	SurveyEn   string `json:"surveyEn"`
	SurveyFr   string `json:"surveyFr"`
}

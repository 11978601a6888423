package entities

// Cube is one entry of the WDS getAllCubesList response.
type Cube struct {
	ProductID     int      `json:"productId"`
	CansimID      string   `json:"cansimId"`
	CubeTitleEn   string   `json:"cubeTitleEn"`
	CubeTitleFr   string   `json:"cubeTitleFr"`
	CubeStartDate string   `json:"cubeStartDate"`
	CubeEndDate   string   `json:"cubeEndDate"`
	ReleaseTime   string   `json:"releaseTime"`
	Archived      string   `json:"archived"`
	SubjectCode   []string `json:"subjectCode"`
	SurveyCode    []string `json:"surveyCode"`
	FrequencyCode int      `json:"frequencyCode"`
}

// Title returns the cube title for the requested language, defaulting to English.
func (c Cube) Title(lang string) string {
	if lang == "fr" {
		return c.CubeTitleFr
	}
	return c.CubeTitleEn
}

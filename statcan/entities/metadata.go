package entities

// CubeMetadata is the object payload of a WDS getCubeMetadata response.
// ProductID is a string here, unlike in the cubes list, because that is how
// the remote service serializes it on this endpoint.
type CubeMetadata struct {
	ProductID         string      `json:"productId"`
	CansimID          string      `json:"cansimId"`
	CubeTitleEn       string      `json:"cubeTitleEn"`
	CubeTitleFr       string      `json:"cubeTitleFr"`
	CubeStartDate     string      `json:"cubeStartDate"`
	CubeEndDate       string      `json:"cubeEndDate"`
	ReleaseTime       string      `json:"releaseTime"`
	ArchiveStatusCode string      `json:"archiveStatusCode"`
	ArchiveStatusEn   string      `json:"archiveStatusEn"`
	SubjectCode       []string    `json:"subjectCode"`
	SurveyCode        []string    `json:"surveyCode"`
	NbSeriesCube      int         `json:"nbSeriesCube"`
	NbDatapointsCube  int         `json:"nbDatapointsCube"`
	Dimension         []Dimension `json:"dimension"`
}

// Dimension describes one axis of a cube.
type Dimension struct {
	DimensionPositionID int      `json:"dimensionPositionId"`
	DimensionNameEn     string   `json:"dimensionNameEn"`
	DimensionNameFr     string   `json:"dimensionNameFr"`
	HasUOM              bool     `json:"hasUom"`
	Member              []Member `json:"member"`
}

// Name returns the dimension name for the requested language, defaulting to English.
func (d Dimension) Name(lang string) string {
	if lang == "fr" {
		return d.DimensionNameFr
	}
	return d.DimensionNameEn
}

// Member is one value along a dimension.
type Member struct {
	MemberID           int    `json:"memberId"`
	ParentMemberID     *int   `json:"parentMemberId"`
	MemberNameEn       string `json:"memberNameEn"`
	MemberNameFr       string `json:"memberNameFr"`
	ClassificationCode string `json:"classificationCode"`
	GeoLevel           *int   `json:"geoLevel"`
	Vintage            *int   `json:"vintage"`
}

// Name returns the member name for the requested language, defaulting to English.
func (m Member) Name(lang string) string {
	if lang == "fr" {
		return m.MemberNameFr
	}
	return m.MemberNameEn
}

// IsArchived reports whether the cube no longer receives updates.
func (md *CubeMetadata) IsArchived() bool {
	return md.ArchiveStatusCode == "1"
}

package models

// MapParameters describes the map a batch of markers is rendered on.
type MapParameters struct {
	MapSize   float64 `json:"mapSize"`
	ZoomMin   int     `json:"zoomMin"`
	ZoomMax   int     `json:"zoomMax"`
	ZoomScale float64 `json:"zoomScale"` // accepted for compatibility, not used by the computation
}

// MarkerInput is one marker of a states request. Its position in the input
// list is its identity during the computation.
type MarkerInput struct {
	ID     string  `json:"id"`
	Rank   float64 `json:"rank"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
}

// MapStatesRequest is the body of POST /api/states.
type MapStatesRequest struct {
	Parameters MapParameters `json:"parameters"`
	Input      []MarkerInput `json:"input"`
}

// Orientation is the label direction a marker takes from Zoom onwards.
type Orientation struct {
	Zoom       int `json:"zoom"`
	AngleIndex int `json:"angleIndex"`
}

// VisibilityRecord is the computed state of one marker.
type VisibilityRecord struct {
	FirstVisibleZoom int           `json:"firstVisibleZoom"`
	Orientations     []Orientation `json:"orientations"`
}

// NewVisibilityRecords returns n records in their initial state.
func NewVisibilityRecords(n int) []VisibilityRecord {
	records := make([]VisibilityRecord, n)
	for i := range records {
		records[i] = VisibilityRecord{
			FirstVisibleZoom: -1,
			Orientations:     []Orientation{},
		}
	}
	return records
}

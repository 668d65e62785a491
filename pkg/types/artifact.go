package types

import "errors"

// MimeTypeCSV is the media type of every artifact.
const MimeTypeCSV = "text/csv"

// OutputArtifact is the result of converting one export.
type OutputArtifact struct {
	Filename string
	Content  []byte
	MimeType string
}

// ErrEmptyResult is returned when the merge query yields no rows.
var ErrEmptyResult = errors.New("merge query returned no rows")

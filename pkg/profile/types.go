// Package profile implements the decoder for the triangulation-laser
// sensor's binary profile format. A file holds a fixed-size header followed
// by a sequence of laser profiles, each carrying an optional text comment
// and one range sample per sensor column.
package profile

// Binary layout constants for the sensor file format.
// All multi-byte fields are big-endian (network order).
const (
	// SupportedFormat is the format tag this decoder understands.
	// It is packed into the high byte of the first 16-bit header field.
	SupportedFormat = 2

	// SupportedVersion is the format version this decoder was written
	// against. A different version is decoded anyway with a warning.
	SupportedVersion = 1

	// MinHeaderSize is the smallest legal header length in bytes.
	// Shorter buffers cannot contain a complete header.
	MinHeaderSize = 12

	// BytesPerPoint is the size of one point record: 2 bytes raw yOffset,
	// 1 byte intensity, 1 byte width.
	BytesPerPoint = 4

	// YOffsetScale converts the raw 16-bit yOffset value to pixel rows.
	// The sensor encodes yOffset as 12.4 fixed point, so one LSB is 1/16
	// of a pixel row.
	YOffsetScale = 16.0

	// MaxProfiles bounds the decode loop so that a corrupt header or body
	// cannot drive the decoder into an effectively unbounded allocation.
	MaxProfiles = 100000
)

// FileHeader describes the fixed header at the start of a sensor file.
type FileHeader struct {
	// Format is the format tag; must equal SupportedFormat
	Format uint8

	// Version is the format version; mismatches are non-fatal
	Version uint8

	// HeaderSize is the byte length of the header, i.e. the offset of the
	// first profile record
	HeaderSize uint16

	// PointsPerProfile is the number of point records in every profile
	PointsPerProfile uint16

	// Reserved0 and Reserved1 are unused fields carried for round-tripping
	Reserved0 uint16
	Reserved1 uint16
}

// ProfilePoint is one range sample for a single sensor column.
type ProfilePoint struct {
	// Column is the 0-based column index within the profile
	Column int

	// YOffset is the decoded vertical position of the laser return for
	// this column, in sensor pixel rows (12.4 fixed point in the file)
	YOffset float64

	// Intensity is the laser return intensity (0-255)
	Intensity uint8

	// Width is the laser line width at this column (0-255). A width of
	// zero means the sensor saw no return here.
	Width uint8
}

// Valid reports whether the sensor recorded a return for this column.
func (p ProfilePoint) Valid() bool {
	return p.Width > 0
}

// LaserProfile is one scan line of range samples across all sensor columns.
type LaserProfile struct {
	// Index is the sequence position of this profile within the file.
	// File order is scan/time order and is meaningful downstream.
	Index int

	// Comment holds the structured metadata parsed from the profile's
	// comment text, when that text was valid JSON. Nil otherwise.
	Comment map[string]interface{}

	// RawComment is the comment text exactly as stored (NUL padding
	// stripped), kept even when structured parsing fails
	RawComment string

	// Points holds exactly PointsPerProfile samples in column order
	Points []ProfilePoint

	// ValidCount is the number of points with a nonzero width
	ValidCount int

	// ByteOffset is the file offset where this profile record began,
	// kept for diagnostics
	ByteOffset int
}

// PixelCoords filters the profile to its valid points and returns their
// pixel coordinates: column indices and decoded yOffset rows, in ascending
// column order. These pairs are the input to triangulation.
func (p *LaserProfile) PixelCoords() (columns []int, rows []float64) {
	columns = make([]int, 0, p.ValidCount)
	rows = make([]float64, 0, p.ValidCount)

	for _, pt := range p.Points {
		if pt.Valid() {
			columns = append(columns, pt.Column)
			rows = append(rows, pt.YOffset)
		}
	}

	return columns, rows
}

// BinFileData is the decoded content of one sensor file. It is built once
// per load and not mutated afterwards.
type BinFileData struct {
	// Header is the decoded file header
	Header FileHeader

	// Profiles holds the decoded profiles in file order
	Profiles []*LaserProfile

	// Warnings collects non-fatal diagnostics gathered during decoding:
	// version mismatches, malformed comments, truncation. They are
	// advisory; the decoded data is usable regardless.
	Warnings []string
}

// ProfileCount returns the number of successfully decoded profiles.
func (d *BinFileData) ProfileCount() int {
	return len(d.Profiles)
}

// FormatError reports a structurally invalid file: a buffer too short to
// hold a header, an unknown format tag, or a header that cannot describe
// any profile. It is the only fatal decode failure; everything else is a
// warning on the returned data.
type FormatError struct {
	Reason string
}

func (e *FormatError) Error() string {
	return "invalid sensor file: " + e.Reason
}

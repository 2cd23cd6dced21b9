package profile

import (
	"encoding/binary"
	"math"
)

// Encode writes decoded file data back into the sensor's binary layout.
// It is the exact inverse of Decode for well-formed data: the output of
// Encode decodes to the same header, comments and point values (yOffsets
// quantized to the format's 1/16 pixel resolution).
//
// The header is padded with zero bytes up to Header.HeaderSize; a
// HeaderSize below MinHeaderSize is raised to MinHeaderSize so the output
// is always decodable.
func Encode(data *BinFileData) []byte {
	header := data.Header
	if header.HeaderSize < MinHeaderSize {
		header.HeaderSize = MinHeaderSize
	}

	size := int(header.HeaderSize)
	for _, p := range data.Profiles {
		size += 2 + len(p.RawComment) + len(p.Points)*BytesPerPoint
	}

	out := make([]byte, 0, size)

	var head [MinHeaderSize]byte
	binary.BigEndian.PutUint16(head[0:2], uint16(header.Format)<<8|uint16(header.Version))
	binary.BigEndian.PutUint16(head[2:4], header.HeaderSize)
	binary.BigEndian.PutUint16(head[4:6], header.PointsPerProfile)
	binary.BigEndian.PutUint16(head[6:8], header.Reserved0)
	binary.BigEndian.PutUint16(head[8:10], header.Reserved1)
	out = append(out, head[:10]...)

	// Pad out to the declared header size.
	for len(out) < int(header.HeaderSize) {
		out = append(out, 0)
	}

	for _, p := range data.Profiles {
		var cl [2]byte
		binary.BigEndian.PutUint16(cl[:], uint16(int16(len(p.RawComment))))
		out = append(out, cl[:]...)
		out = append(out, p.RawComment...)

		for _, pt := range p.Points {
			var rec [BytesPerPoint]byte
			binary.BigEndian.PutUint16(rec[0:2], encodeYOffset(pt.YOffset))
			rec[2] = pt.Intensity
			rec[3] = pt.Width
			out = append(out, rec[:]...)
		}
	}

	return out
}

// encodeYOffset quantizes a yOffset in pixel rows to the 12.4 fixed-point
// wire value, clamping to the representable range.
func encodeYOffset(yOffset float64) uint16 {
	raw := math.Round(yOffset * YOffsetScale)
	if raw < 0 {
		return 0
	}
	if raw > math.MaxUint16 {
		return math.MaxUint16
	}
	return uint16(raw)
}

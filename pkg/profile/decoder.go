package profile

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Decode parses a raw sensor file buffer into its header and profiles.
//
// Only a structurally invalid header is fatal: a buffer shorter than
// MinHeaderSize, a format tag other than SupportedFormat, a declared
// header size below MinHeaderSize, or a zero points-per-profile count all
// return a *FormatError. Every condition
// after a valid header is handled with the partial-success policy: the
// decoder stops at the first truncated or inconsistent record and returns
// all profiles parsed up to that point, with a warning describing why it
// stopped.
func Decode(data []byte) (*BinFileData, error) {
	header, err := decodeHeader(data)
	if err != nil {
		return nil, err
	}

	result := &BinFileData{Header: header}

	if header.Version != SupportedVersion {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"file version %d differs from supported version %d; decoding anyway",
			header.Version, SupportedVersion))
	}

	pointBytes := int(header.PointsPerProfile) * BytesPerPoint
	offset := int(header.HeaderSize)

	if offset > len(data) {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"header size %d exceeds file length %d; no profile data", offset, len(data)))
		return result, nil
	}

	// Decode profiles until the buffer runs out, a record is truncated, or
	// the safety cap trips. The cap guards against corrupt headers with a
	// tiny points-per-profile count turning the loop into a runaway
	// allocation.
	for offset < len(data) {
		if len(result.Profiles) >= MaxProfiles {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"profile cap of %d reached with %d bytes unread; stopping", MaxProfiles, len(data)-offset))
			break
		}

		profileStart := offset

		// Comment length prefix.
		if offset+2 > len(data) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"file truncated at byte %d: incomplete comment length for profile %d",
				offset, len(result.Profiles)))
			break
		}
		commentLen := int(int16(binary.BigEndian.Uint16(data[offset : offset+2])))
		offset += 2

		p := &LaserProfile{
			Index:      len(result.Profiles),
			ByteOffset: profileStart,
		}

		if commentLen < 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"profile %d: negative comment length %d treated as empty",
				p.Index, commentLen))
			commentLen = 0
		}

		if commentLen > 0 {
			if offset+commentLen > len(data) {
				result.Warnings = append(result.Warnings, fmt.Sprintf(
					"file truncated at byte %d: comment of profile %d needs %d bytes, %d remain",
					offset, p.Index, commentLen, len(data)-offset))
				break
			}
			decodeComment(p, data[offset:offset+commentLen], result)
			offset += commentLen
		}

		// Point block.
		if offset+pointBytes > len(data) {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"file truncated at byte %d: point data of profile %d needs %d bytes, %d remain",
				offset, p.Index, pointBytes, len(data)-offset))
			break
		}

		p.Points = make([]ProfilePoint, header.PointsPerProfile)
		for i := 0; i < int(header.PointsPerProfile); i++ {
			rec := data[offset+i*BytesPerPoint:]
			pt := ProfilePoint{
				Column:    i,
				YOffset:   float64(binary.BigEndian.Uint16(rec[0:2])) / YOffsetScale,
				Intensity: rec[2],
				Width:     rec[3],
			}
			p.Points[i] = pt
			if pt.Valid() {
				p.ValidCount++
			}
		}
		offset += pointBytes

		result.Profiles = append(result.Profiles, p)
	}

	return result, nil
}

// decodeHeader validates and decodes the fixed file header.
func decodeHeader(data []byte) (FileHeader, error) {
	if len(data) < MinHeaderSize {
		return FileHeader{}, &FormatError{Reason: fmt.Sprintf(
			"file is %d bytes, shorter than the %d byte minimum header", len(data), MinHeaderSize)}
	}

	formatVersion := binary.BigEndian.Uint16(data[0:2])
	header := FileHeader{
		Format:           uint8(formatVersion >> 8),
		Version:          uint8(formatVersion & 0xff),
		HeaderSize:       binary.BigEndian.Uint16(data[2:4]),
		PointsPerProfile: binary.BigEndian.Uint16(data[4:6]),
		Reserved0:        binary.BigEndian.Uint16(data[6:8]),
		Reserved1:        binary.BigEndian.Uint16(data[8:10]),
	}

	if header.Format != SupportedFormat {
		return FileHeader{}, &FormatError{Reason: fmt.Sprintf(
			"format tag %d, expected %d", header.Format, SupportedFormat)}
	}

	// A declared header size below the minimum would make the profile loop
	// re-read header bytes as records.
	if header.HeaderSize < MinHeaderSize {
		return FileHeader{}, &FormatError{Reason: fmt.Sprintf(
			"header size %d is below the %d byte minimum", header.HeaderSize, MinHeaderSize)}
	}

	if header.PointsPerProfile == 0 {
		return FileHeader{}, &FormatError{Reason: "points per profile is zero"}
	}

	return header, nil
}

// decodeComment decodes a profile's comment bytes: tolerant UTF-8 decode,
// trailing NUL padding stripped, then an attempt to parse the text as JSON
// metadata. Malformed text never aborts decoding; the raw text is kept and
// a warning is recorded.
func decodeComment(p *LaserProfile, raw []byte, result *BinFileData) {
	text := string(raw)
	if !utf8.ValidString(text) {
		text = strings.ToValidUTF8(text, "�")
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"profile %d: comment contains invalid UTF-8; bad sequences replaced", p.Index))
	}
	text = strings.TrimRight(text, "\x00")
	p.RawComment = text

	if text == "" {
		return
	}

	var parsed map[string]interface{}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"profile %d: comment is not structured metadata: %v", p.Index, err))
		return
	}
	p.Comment = parsed
}

package nvapi

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// UnicodeStringSize is the size of NvAPI_UnicodeString in bytes (2048 UTF-16 units).
const UnicodeStringSize = 4096

// UnicodeStringMaxUnits is the longest text, in UTF-16 code units, that fits
// together with its terminator.
const UnicodeStringMaxUnits = UnicodeStringSize/2 - 1

// ShortStringSize is the buffer used for NvAPI_ShortString outputs. The driver
// writes at most 64 bytes.
const ShortStringSize = 128

var (
	// ErrStringTooLong is returned when text does not fit a UnicodeString.
	ErrStringTooLong = errors.New("nvapi: string exceeds NvAPI_UnicodeString capacity")
	// ErrEmbeddedNUL is returned for text the driver would read as truncated.
	ErrEmbeddedNUL = errors.New("nvapi: string contains NUL")
)

var utf16le = unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)

// UnicodeString is a fixed-size, NUL-terminated UTF-16LE buffer
// (NvAPI_UnicodeString). Bytes after the terminator are ignored.
type UnicodeString [UnicodeStringSize]byte

// NewUnicodeString encodes text into a UnicodeString.
func NewUnicodeString(text string) (UnicodeString, error) {
	var s UnicodeString
	err := s.Set(text)
	return s, err
}

// Set replaces the contents of s with text. Text longer than
// UnicodeStringMaxUnits is rejected rather than truncated.
func (s *UnicodeString) Set(text string) error {
	if strings.IndexByte(text, 0) >= 0 {
		return ErrEmbeddedNUL
	}
	encoded, err := utf16le.NewEncoder().Bytes([]byte(text))
	if err != nil {
		return fmt.Errorf("nvapi: encode utf-16: %w", err)
	}
	if len(encoded)/2 > UnicodeStringMaxUnits {
		return fmt.Errorf("%w: %d code units, max %d", ErrStringTooLong, len(encoded)/2, UnicodeStringMaxUnits)
	}
	*s = UnicodeString{}
	copy(s[:], encoded)
	return nil
}

// String decodes s up to the first NUL code unit.
func (s *UnicodeString) String() string {
	n := 0
	for n+1 < len(s) && (s[n] != 0 || s[n+1] != 0) {
		n += 2
	}
	decoded, err := utf16le.NewDecoder().Bytes(s[:n])
	if err != nil {
		return ""
	}
	return string(decoded)
}

// ShortString is an output buffer for NvAPI_ShortString (ANSI, NUL-terminated).
type ShortString [ShortStringSize]byte

// String returns the text before the first NUL.
func (s *ShortString) String() string {
	n := 0
	for n < len(s) && s[n] != 0 {
		n++
	}
	return strings.TrimRight(string(s[:n]), " ")
}

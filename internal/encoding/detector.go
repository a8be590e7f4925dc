// =============================================================================
// POS Ingest - Encoding Detector
// =============================================================================
//
// This module determines the most likely text encoding of a raw byte buffer
// without being told what it is. Detection is total: it always returns a
// result, never an error.
//
// DETECTION PROCESS:
//   1. Feed bounded-size chunks (at most 10 KB total) to a streaming
//      statistical byte-distribution detector (saintfish/chardet).
//   2. If the reported confidence exceeds 0.7, accept the guess.
//   3. Otherwise try an ordered fallback list; the first encoding that
//      decodes the buffer without error wins at confidence 0.6.
//   4. If nothing decodes, default to UTF-8 at confidence 0.3. Downstream
//      lossy decoding with replacement characters is the last resort.
//
// =============================================================================

package encoding

import (
	"bytes"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/adityabandi/posingest/internal/types"
)

// maxSampleBytes bounds how much of the buffer feeds the statistical detector.
const maxSampleBytes = 10000

// detectorThreshold is the statistical confidence above which the detector's
// guess is accepted outright.
const detectorThreshold = 0.7

// fallbackEncoding pairs a canonical name with its decoder. The list is
// ordered by likelihood for restaurant exports. latin-1 accepts every byte
// sequence, so the UTF-16 entries after it are only reached on empty input;
// they stay in the list to keep the published fallback order intact.
type fallbackEncoding struct {
	name    string
	decoder *encoding.Decoder
}

func fallbackEncodings() []fallbackEncoding {
	return []fallbackEncoding{
		{"utf-8", encoding.Nop.NewDecoder()},
		{"latin-1", charmap.ISO8859_1.NewDecoder()},
		{"cp1252", charmap.Windows1252.NewDecoder()},
		{"iso-8859-1", charmap.ISO8859_1.NewDecoder()},
		{"utf-16", unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()},
		{"utf-16-le", unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()},
		{"utf-16-be", unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()},
	}
}

// Detect guesses the encoding of data. It never fails; the weakest outcome is
// the UTF-8 default at confidence 0.3.
func Detect(data []byte) types.EncodingInfo {
	sample := data
	if len(sample) > maxSampleBytes {
		sample = sample[:maxSampleBytes]
	}

	if len(sample) > 0 {
		detector := chardet.NewTextDetector()
		if result, err := detector.DetectBest(sample); err == nil {
			confidence := float64(result.Confidence) / 100
			if confidence > detectorThreshold {
				return types.EncodingInfo{
					Encoding:   normalizeName(result.Charset),
					Confidence: confidence,
					Method:     types.MethodDetector,
				}
			}
		}
	}

	for _, fb := range fallbackEncodings() {
		if decodes(data, fb) {
			return types.EncodingInfo{
				Encoding:   fb.name,
				Confidence: 0.6,
				Method:     types.MethodFallback,
			}
		}
	}

	return types.EncodingInfo{
		Encoding:   "utf-8",
		Confidence: 0.3,
		Method:     types.MethodDefault,
	}
}

// Decode converts data to UTF-8 text using the named encoding. Unknown names
// and decode failures fall back to a lossy UTF-8 interpretation so the caller
// always gets usable text.
func Decode(data []byte, name string) string {
	if dec := decoderFor(name); dec != nil {
		out, _, err := transform.Bytes(dec, data)
		if err == nil && utf8.Valid(out) {
			return string(out)
		}
	}
	return DecodeLossy(data)
}

// DecodeLossy interprets data as UTF-8, replacing invalid sequences. Used for
// partial recovery of files no strict decode accepts.
func DecodeLossy(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}
	return string(bytes.ToValidUTF8(data, []byte("�")))
}

func decodes(data []byte, fb fallbackEncoding) bool {
	if fb.name == "utf-8" {
		return utf8.Valid(data)
	}
	out, _, err := transform.Bytes(fb.decoder, data)
	return err == nil && utf8.Valid(out)
}

func decoderFor(name string) *encoding.Decoder {
	for _, fb := range fallbackEncodings() {
		if fb.name == name {
			if fb.name == "utf-8" {
				return encoding.Nop.NewDecoder()
			}
			return fb.decoder
		}
	}
	// Names reported by the statistical detector.
	switch name {
	case "UTF-8", "utf8":
		return encoding.Nop.NewDecoder()
	case "ISO-8859-1", "ISO-8859-15":
		return charmap.ISO8859_1.NewDecoder()
	case "windows-1252":
		return charmap.Windows1252.NewDecoder()
	case "UTF-16LE":
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case "UTF-16BE":
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	}
	return nil
}

func normalizeName(charset string) string {
	switch charset {
	case "UTF-8":
		return "utf-8"
	case "ISO-8859-1":
		return "iso-8859-1"
	case "windows-1252":
		return "cp1252"
	case "UTF-16LE":
		return "utf-16-le"
	case "UTF-16BE":
		return "utf-16-be"
	}
	return charset
}

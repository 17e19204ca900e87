package store

import (
	"regexp"
	"strings"
	"time"
)

// Record is the singleton payment display configuration. Unknown JSON fields
// are ignored on load and missing fields default, so older files written by
// previous versions stay readable.
type Record struct {
	Identifier       string    `json:"identifier"`
	DisplayName      string    `json:"displayName"`
	IdentifierValid  bool      `json:"identifierValid"`
	CarouselImages   []string  `json:"carouselImages"`
	InstructionLines []string  `json:"instructionLines"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

// DefaultRecord is used when the backing file is missing or unreadable.
func DefaultRecord() Record {
	identifier := "example@bank"
	return Record{
		Identifier:      identifier,
		DisplayName:     "Payment Page",
		IdentifierValid: ValidIdentifier(identifier),
		CarouselImages:  []string{},
		InstructionLines: []string{
			"Scan the QR code or use the payment ID below.",
			"Include your order number in the payment note.",
		},
	}
}

// Clone returns a deep copy so callers can hold a snapshot without racing
// the writer.
func (r Record) Clone() Record {
	out := r
	out.CarouselImages = append([]string(nil), r.CarouselImages...)
	out.InstructionLines = append([]string(nil), r.InstructionLines...)
	return out
}

// identifierPattern: 2-256 chars of letters/digits/dot/dash/underscore, an
// @, then a 2-64 letter provider label. Purely syntactic; it only gates
// whether payment-app deep links are offered.
var identifierPattern = regexp.MustCompile(`^[A-Za-z0-9._-]{2,256}@[A-Za-z]{2,64}$`)

// ValidIdentifier reports whether s looks like a payment identifier after
// trimming surrounding whitespace.
func ValidIdentifier(s string) bool {
	return identifierPattern.MatchString(strings.TrimSpace(s))
}

package models

import (
	"strings"
	"time"
)

// Status is the approval state of a color check. It is decided when the
// record is created and never changes afterwards.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// ColorCheck compares a requested color specification (a Pantone code)
// with an observed hex color.
type ColorCheck struct {
	ID             int64
	Pantone        string
	HexColor       string
	AlternativeHex string
	Notes          string
	Points         []string
	Status         Status
	UserID         int64
	// UserName is the owner's username; filled by listing queries only.
	UserName  string
	CreatedAt time.Time
}

// PointDelimiter separates measurement points in their stored form. It
// never occurs inside a single point.
const PointDelimiter = ","

// EncodePoints joins points into their stored form.
func EncodePoints(points []string) string {
	return strings.Join(points, PointDelimiter)
}

// DecodePoints splits a stored points value. The empty string is an empty
// list.
func DecodePoints(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, PointDelimiter)
}

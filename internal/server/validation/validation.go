// Package validation normalizes and checks client input before it reaches
// a store.
package validation

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/dmitrijs2005/colorcheck/internal/common"
	"github.com/dmitrijs2005/colorcheck/internal/server/models"
)

const (
	MaxPantoneLength = 64
	MaxPointsLength  = 256
)

var hexPattern = regexp.MustCompile(`^#?([0-9A-Fa-f]{3}|[0-9A-Fa-f]{6})$`)

// NormalizePantone uppercases s and strips every whitespace character, so
// "186 c" becomes "186C".
func NormalizePantone(s string) (string, error) {
	p := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, strings.ToUpper(s))

	if p == "" {
		return "", common.ErrPantoneRequired
	}
	if len(p) > MaxPantoneLength {
		return "", common.ErrPantoneTooLong
	}
	return p, nil
}

// ValidateHex accepts an empty value or a 3 or 6 digit hex color with an
// optional leading '#'. Surrounding whitespace is dropped.
func ValidateHex(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if !hexPattern.MatchString(s) {
		return "", common.ErrInvalidHex
	}
	return s, nil
}

// ValidatePoints checks that every point survives the stored encoding.
// A nil slice becomes an empty one.
func ValidatePoints(points []string) ([]string, error) {
	if points == nil {
		return []string{}, nil
	}
	for _, p := range points {
		if p == "" || strings.Contains(p, models.PointDelimiter) {
			return nil, common.ErrInvalidPoint
		}
	}
	if len(models.EncodePoints(points)) > MaxPointsLength {
		return nil, common.ErrPointsTooLong
	}
	return points, nil
}

// NormalizeRole defaults an empty role to user.
func NormalizeRole(s string) (models.Role, error) {
	if s == "" {
		return models.RoleUser, nil
	}
	r := models.Role(s)
	if !r.Valid() {
		return "", common.ErrInvalidRole
	}
	return r, nil
}

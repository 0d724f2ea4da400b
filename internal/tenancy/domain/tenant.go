package domain

import (
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

const (
	MaxTenantNameLen = 150
	maxSlugBaseLen   = 150
	defaultSlug      = "tenant"
)

type DistanceUnit string

const (
	DistanceMiles DistanceUnit = "miles"
	DistanceKM    DistanceUnit = "km"
)

type FuelUnit string

const (
	FuelGallons FuelUnit = "gallons"
	FuelLiters  FuelUnit = "liters"
)

// Settings are the tenant-wide preferences edited on the organization page.
type Settings struct {
	DefaultInspectionDueDays    int          `json:"default_inspection_due_days" validate:"gte=1"`
	InspectionAlertDaysBefore   int          `json:"inspection_alert_days_before" validate:"gte=0,ltefield=DefaultInspectionDueDays"`
	MaintenanceAlertMilesBefore int          `json:"maintenance_alert_miles_before" validate:"gte=0"`
	MaintenanceAlertDaysBefore  int          `json:"maintenance_alert_days_before" validate:"gte=0"`
	UnitsDistance               DistanceUnit `json:"units_distance" validate:"oneof=miles km"`
	UnitsFuel                   FuelUnit     `json:"units_fuel" validate:"oneof=gallons liters"`
}

func DefaultSettings() Settings {
	return Settings{
		DefaultInspectionDueDays:    30,
		InspectionAlertDaysBefore:   7,
		MaintenanceAlertMilesBefore: 500,
		MaintenanceAlertDaysBefore:  14,
		UnitsDistance:               DistanceMiles,
		UnitsFuel:                   FuelGallons,
	}
}

// Tenant is an isolated organization. Slug is fixed at creation.
type Tenant struct {
	ID        string
	Name      string
	Slug      string
	Settings  Settings
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Slugify folds name to ASCII and reduces it to lowercase letters, digits and
// single hyphens, at most 150 characters. An empty result becomes "tenant".
func Slugify(name string) string {
	var b strings.Builder
	pendingHyphen := false

	for _, r := range norm.NFKD.String(name) {
		if r > unicode.MaxASCII {
			// Combining marks left over from decomposition and anything
			// without an ASCII form are dropped.
			continue
		}
		r = unicode.ToLower(r)

		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-', r == '_', unicode.IsSpace(r):
			pendingHyphen = true
		}
	}

	slug := b.String()
	if len(slug) > maxSlugBaseLen {
		slug = strings.TrimRight(slug[:maxSlugBaseLen], "-")
	}
	if slug == "" {
		return defaultSlug
	}
	return slug
}

// SlugCandidate returns the n-th slug to try for base: base itself for n<2,
// otherwise base-n.
func SlugCandidate(base string, n int) string {
	if n < 2 {
		return base
	}
	return base + "-" + strconv.Itoa(n)
}

// Package premium is the capability check consulted before premium-only
// operations. It holds no state of its own; everything derives from the
// user's plan attributes, which billing owns.
package premium

import (
	"time"

	"github.com/ledgerly/ledgerly/internal/models"
)

type Feature string

const (
	FeatureReportsExport     Feature = "reports-export"
	FeatureDataExport        Feature = "data-export"
	FeatureAdvancedAnalytics Feature = "advanced-analytics"
	FeatureCalculators       Feature = "calculators"
)

var gatedFeatures = map[Feature]bool{
	FeatureReportsExport:     true,
	FeatureDataExport:        true,
	FeatureAdvancedAnalytics: true,
	FeatureCalculators:       true,
}

type Gate struct {
	now func() time.Time
}

func NewGate() *Gate {
	return &Gate{now: time.Now}
}

// NewGateAt fixes the gate's clock; tests use it.
func NewGateAt(now func() time.Time) *Gate {
	return &Gate{now: now}
}

// IsPlanActive reports whether the user's premium subscription or trial is
// currently valid.
func (g *Gate) IsPlanActive(u *models.User) bool {
	return u.IsPlanActive(g.now())
}

// HasFeatureAccess reports whether the user may use the named feature: the
// plan must be active and the feature must be premium-gated. Unknown feature
// names are denied.
func (g *Gate) HasFeatureAccess(u *models.User, feature Feature) bool {
	return gatedFeatures[feature] && g.IsPlanActive(u)
}

package domain

import (
	"fmt"
	"sort"
)

// Feature flag names as exposed by the API
const (
	FlagStaffSelection       = "enableStaffSelection"
	FlagStaffShiftManagement = "enableStaffShiftManagement"
	FlagCoupon               = "enableCouponFeature"
	FlagCustomerManagement   = "enableCustomerManagement"
	FlagAnalytics            = "enableAnalyticsFeature"
)

// FeatureFlags is the capability set of a tenant, read once per request
type FeatureFlags struct {
	StaffSelection       bool `json:"enableStaffSelection"`
	StaffShiftManagement bool `json:"enableStaffShiftManagement"`
	Coupon               bool `json:"enableCouponFeature"`
	CustomerManagement   bool `json:"enableCustomerManagement"`
	Analytics            bool `json:"enableAnalyticsFeature"`
}

// FlagNames returns all known flag names in stable order
func FlagNames() []string {
	names := []string{
		FlagStaffSelection,
		FlagStaffShiftManagement,
		FlagCoupon,
		FlagCustomerManagement,
		FlagAnalytics,
	}
	sort.Strings(names)
	return names
}

// ToMap returns flags keyed by name
func (f FeatureFlags) ToMap() map[string]bool {
	return map[string]bool{
		FlagStaffSelection:       f.StaffSelection,
		FlagStaffShiftManagement: f.StaffShiftManagement,
		FlagCoupon:               f.Coupon,
		FlagCustomerManagement:   f.CustomerManagement,
		FlagAnalytics:            f.Analytics,
	}
}

// Apply returns a copy with the named flags changed.
// Unknown names are rejected and nothing is applied.
func (f FeatureFlags) Apply(changes map[string]bool) (FeatureFlags, error) {
	out := f
	for name, value := range changes {
		switch name {
		case FlagStaffSelection:
			out.StaffSelection = value
		case FlagStaffShiftManagement:
			out.StaffShiftManagement = value
		case FlagCoupon:
			out.Coupon = value
		case FlagCustomerManagement:
			out.CustomerManagement = value
		case FlagAnalytics:
			out.Analytics = value
		default:
			return f, fmt.Errorf("unknown feature flag %q", name)
		}
	}
	return out, nil
}

package settings

// Feature names accepted by Check.
const (
	FeatureRegistration = "registration"
	FeatureReferral     = "referral"
	FeatureWithdrawal   = "withdrawal"
	FeatureTutorial     = "tutorial"
)

// Status is the outcome of a feature gate check. When the feature is off,
// Message carries the operator-configured denial text.
type Status struct {
	Allowed bool
	Message string
}

var featureKeys = map[string][2]string{
	FeatureRegistration: {KeyRegistrationEnabled, KeyRegistrationDisabledMessage},
	FeatureReferral:     {KeyReferralEnabled, KeyReferralDisabledMessage},
	FeatureWithdrawal:   {KeyWithdrawalEnabled, KeyWithdrawalDisabledMessage},
	FeatureTutorial:     {KeyTutorialEnabled, KeyTutorialsDisabledMessage},
}

// Check evaluates maintenance mode first, then the per-feature switch.
// Unknown feature names pass through as allowed.
func (s *Store) Check(feature string) Status {
	if s.Bool(KeyMaintenanceMode) {
		return Status{Allowed: false, Message: s.String(KeyMaintenanceMessage)}
	}
	keys, ok := featureKeys[feature]
	if !ok {
		return Status{Allowed: true}
	}
	if !s.Bool(keys[0]) {
		return Status{Allowed: false, Message: s.String(keys[1])}
	}
	return Status{Allowed: true}
}

package rule

// SuccessCriteria names one of the six ways a RuleSet turns its
// Predicate rules' pass/fail counts into an overall pass/fail
// decision. Grounded on original_source/src/rule/ruleset.rs's
// SuccessCriteria enum.
type SuccessCriteria int

const (
	// NeverPass always fails, regardless of how many rules pass.
	NeverPass SuccessCriteria = iota
	// AllPass requires every applicable rule to pass, and at least one
	// rule to be applicable.
	AllPass
	// MajorityPass requires more than half of the applicable rules to
	// pass.
	MajorityPass
	// AnyPass requires at least one applicable rule to pass.
	AnyPass
	// LastPasses passes if the last applicable rule (in evaluation
	// order) passed. This is the default.
	LastPasses
	// AlwaysPass always passes, regardless of how many rules pass.
	AlwaysPass
)

func (c SuccessCriteria) String() string {
	switch c {
	case NeverPass:
		return "NeverPass"
	case AllPass:
		return "AllPass"
	case MajorityPass:
		return "MajorityPass"
	case AnyPass:
		return "AnyPass"
	case LastPasses:
		return "LastPasses"
	case AlwaysPass:
		return "AlwaysPass"
	default:
		return "LastPasses"
	}
}

// ParseSuccessCriteria converts a name (as would be assigned to
// ruleset.criteria in rule source, or read from a YAML manifest) into
// a SuccessCriteria, defaulting to LastPasses for any value it doesn't
// recognize, mirroring SuccessCriteria's From<&str>.
func ParseSuccessCriteria(name string) SuccessCriteria {
	switch name {
	case "NeverPass":
		return NeverPass
	case "AllPass":
		return AllPass
	case "MajorityPass":
		return MajorityPass
	case "AnyPass":
		return AnyPass
	case "LastPasses":
		return LastPasses
	case "AlwaysPass":
		return AlwaysPass
	default:
		return LastPasses
	}
}

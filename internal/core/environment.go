package core

import "strings"

// Environment represents the deployment environment of the storefront.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

// String returns the string representation of the environment.
func (e Environment) String() string {
	return string(e)
}

// IsProduction reports whether the environment corresponds to production.
func (e Environment) IsProduction() bool {
	return e == Production
}

// ParseEnvironment normalises the provided value into one of the known environments.
// Matching ignores case and surrounding whitespace; unknown values fall back to
// Development.
func ParseEnvironment(v string) Environment {
	switch Environment(strings.ToLower(strings.TrimSpace(v))) {
	case Production, "prod":
		return Production
	case Staging:
		return Staging
	case Testing, "test":
		return Testing
	default:
		return Development
	}
}

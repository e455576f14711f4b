package initializer

import (
	"strings"

	"github.com/born-ml/modelbuilder/internal/config"
)

// Role is the semantic role of a parameter, used to pick its default
// initialization.
type Role int

// Parameter roles.
const (
	RoleOther Role = iota
	RoleWeight
	RoleBias
	RoleShift       // e.g. batch-norm beta
	RoleScale       // e.g. batch-norm gamma
	RoleRunningMean // e.g. moving_mean
	RoleRunningVar  // e.g. moving_var
)

// String returns the role name.
func (r Role) String() string {
	switch r {
	case RoleWeight:
		return "weight"
	case RoleBias:
		return "bias"
	case RoleShift:
		return "shift"
	case RoleScale:
		return "scale"
	case RoleRunningMean:
		return "running_mean"
	case RoleRunningVar:
		return "running_var"
	default:
		return "other"
	}
}

// Classify maps a parameter name to a Role by substring.
//
// Substrings are checked in the order weight, bias, beta, gamma, moving_mean,
// moving_var; the first match decides.
func Classify(name string) Role {
	switch {
	case strings.Contains(name, "weight"):
		return RoleWeight
	case strings.Contains(name, "bias"):
		return RoleBias
	case strings.Contains(name, "beta"):
		return RoleShift
	case strings.Contains(name, "gamma"):
		return RoleScale
	case strings.Contains(name, "moving_mean"):
		return RoleRunningMean
	case strings.Contains(name, "moving_var"):
		return RoleRunningVar
	default:
		return RoleOther
	}
}

// DefaultConfig returns the default init configuration for a role.
//
// Weights use xavier. Scales and running variances are filled with 1.
// Everything else is filled with 0.
func DefaultConfig(role Role) config.Config {
	switch role {
	case RoleWeight:
		return config.Config{config.InitRule: "xavier"}
	case RoleScale, RoleRunningVar:
		return config.Config{config.InitRule: "constant", "value": 1.0}
	default:
		return config.Config{config.InitRule: "constant", "value": 0.0}
	}
}

// DefaultConfigFor classifies name and returns its default configuration.
func DefaultConfigFor(name string) config.Config {
	return DefaultConfig(Classify(name))
}

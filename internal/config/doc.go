// Package config stores and merges per-parameter rule configuration.
//
// A Config is the mapping that governs how one parameter is created or
// updated: a rule name (init_rule or update_rule) plus rule-specific fields
// such as value or learning_rate. Configs holds one Config per global
// parameter name.
//
// Register implements the two-tier merge used for both initialization and
// update configuration:
//
//	configs := config.Configs{"fc0_weight": {}, "fc0_bias": {}}
//	err := config.Register(configs, config.Overrides{
//	    "learning_rate": 0.1,                             // global: every entry
//	    "fc0_bias":      config.Config{"learning_rate": 0}, // specific: wins
//	})
//
// Within one call global attributes are applied first and parameter-specific
// entries are merged on top. Across calls the later call wins.
package config

// Package config handles loading and validating Media Stack Core configuration.
//
// This package manages:
//   - Loading configuration from YAML files
//   - Overriding with environment variables
//   - Validation of required fields, including the device wiring map
//   - Default value handling
//
// The player wiring map is decoded into an ordered MappingList rather than a
// plain Go map: the document order of the top-level device keys determines
// which device is preferred as the output sink, so order must survive parsing.
//
// Security Considerations:
//   - Sensitive values (passwords, tokens) should be set via environment variables
//   - The config file should have restricted permissions (0600)
//   - JWT secrets must be changed from defaults before production use
//
// Usage:
//
//	cfg, err := config.Load("configs/config.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Player.Name)
package config

// Package naming provides consistent naming functions for provisioned
// cloud resources.
//
// Display names follow the pattern {prefix}-{virtualID}. Providers with
// restricted identifier alphabets (RDS database identifiers, Hetzner
// Cloud server names) get sanitized variants that stay within each
// provider's character set and length limits while remaining derivable
// from the virtual instance ID alone.
package naming

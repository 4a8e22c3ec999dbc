// Package key defines the canonical set of configuration identifiers used for centralized settings management.
package key

// Resolver Network Behaviour - these keys tune the HTTP round trips performed while resolving a hosting page.
const (
	ResolverTimeout        = "resolver.timeout"
	ResolverUserAgent      = "resolver.user_agent"
	ResolverTLSFingerprint = "resolver.tls_fingerprint"
	ResolverRateLimit      = "resolver.rate_limit"
	ResolverConcurrency    = "resolver.concurrency"
)

// Videa Host - these keys point the videa extractor at its endpoints.
const (
	VideaBaseURL = "videa.base_url"
)

// Iconography - these keys manage the visual rendering of UI symbols.
const (
	IconsVariant = "icons.variant"
)

// Logging Infrastructure - these keys manage the application's internal diagnostics and auditing system.
const (
	LogsWrite = "logs.write"
	LogsLevel = "logs.level"
	LogsJson  = "logs.json"
)

// CLI Execution Environment - these flags and settings govern the application behavior.
const (
	CliColored      = "cli.colored"
	CliVersionCheck = "cli.version_check"
)

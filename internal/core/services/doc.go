// Package services implements the core business logic.
//
// The rate-limited Embedder and Generator clients wrap the raw provider
// ports with the interval/backoff discipline; IngestService, AnswerService
// and AdminService implement the driving ports on top of them.
//
// Import rules:
//   - Can Import: domain, ports (driven and driving), chunker, ratelimit, logger
//   - Cannot Import: Any adapter or connector package
package services

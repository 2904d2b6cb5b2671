// Package constants holds shared domain-level constants.
package constants

const (
	// PubSubProviderLocal publishes audit events to a local HTTP endpoint.
	PubSubProviderLocal = "local"
	// PubSubProviderGoogle publishes audit events to Google Cloud Pub/Sub.
	PubSubProviderGoogle = "google"
)

const (
	// EnvDevelop is the local development environment name.
	EnvDevelop = "develop"
	// EnvProduction is the production environment name.
	EnvProduction = "production"
)

// Package services implements the driving port interfaces: ingestion,
// question answering, document and conversation management, and settings.
// Services contain the core business logic and orchestrate calls to
// driven ports (adapters); they never touch files, databases or
// providers directly.
package services

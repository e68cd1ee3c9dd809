// Package services implements the driving ports: ingestion, document
// management, question answering, safety validation, summarisation and
// settings. Services orchestrate the driven ports and hold the
// business rules; they are pure Go with no adapter imports.
package services

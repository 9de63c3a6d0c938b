// Package incident implements the runbook and incident-logging tool server.
//
// A built-in runbook library covers the common failure modes of the demo
// stack; operators can overlay additional runbooks by dropping YAML files
// into a directory, which is watched and hot-reloaded. Incidents are
// append-only records persisted to a JSON file under the data directory.
package incident

// Package schemas holds the JSON Schema documents for the catalogs and the
// persisted session snapshot.
package schemas

import "embed"

// Schema file names.
const (
	Questions   = "questions.schema.json"
	Resources   = "resources.schema.json"
	ActionPlans = "action_plans.schema.json"
	Session     = "session.schema.json"
)

// Files contains every schema document, embedded at compile time.
//
//go:embed *.schema.json
var Files embed.FS

// All lists the embedded schema file names.
var All = []string{Questions, Resources, ActionPlans, Session}

// Package schemas embeds the JSON Schemas for the repo's data artifacts.
package schemas

import "embed"

// FS holds every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS

const (
	JobProfile = "job_profile.schema.json"
	ATSScore   = "ats_score.schema.json"
)

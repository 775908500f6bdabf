package model

import "strings"

// DistanceSample is the distance/time telemetry pair recorded against a job.
// It is keyed by job id and does not affect the job's lifecycle state.
type DistanceSample struct {
	JobID    string
	Distance float64
	Time     float64
}

// AdminOverride is a partial patch of the admin-controlled job fields.
// Only non-nil fields are written.
type AdminOverride struct {
	AdminComments   *string
	Flagged         *bool
	SessionTime     *string
	ManuallyHandled *bool
	EditedByAdmin   *bool
}

// Empty reports whether the override carries no fields at all, in which
// case no storage write should happen.
func (o AdminOverride) Empty() bool {
	return o.AdminComments == nil && o.Flagged == nil && o.SessionTime == nil &&
		o.ManuallyHandled == nil && o.EditedByAdmin == nil
}

// ParseTriState normalizes the legacy string flags ("true"/"yes"/"1" and
// "false"/"no"/"0") into a bool at the boundary. An empty string means the
// field was absent. Unrecognized values are rejected.
func ParseTriState(s string) (val *bool, ok bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, true
	case "true", "yes", "1":
		v := true
		return &v, true
	case "false", "no", "0":
		v := false
		return &v, true
	}
	return nil, false
}

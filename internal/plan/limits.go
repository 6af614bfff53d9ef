package plan

import "fmt"

// Limits defines per-plan upload constraints. A nil MaxProjects or
// MaxDuration means unlimited.
type Limits struct {
	MaxProjects *int  // lifetime count for free, active count for plus
	MaxFileSize int64 // bytes
	MaxDuration *int  // seconds
}

func intPtr(v int) *int { return &v }

var planLimits = map[Name]Limits{
	Free: {
		MaxProjects: intPtr(3),
		MaxFileSize: 10 * 1024 * 1024,
		MaxDuration: intPtr(600),
	},
	Plus: {
		MaxProjects: intPtr(30),
		MaxFileSize: 200 * 1024 * 1024,
		MaxDuration: intPtr(7200),
	},
	Max: {
		MaxFileSize: 3 * 1024 * 1024 * 1024,
	},
}

// LimitsFor returns the upload limits for a plan.
func LimitsFor(p Name) Limits {
	return planLimits[Normalize(p)]
}

// UploadCheck is the outcome of validating an upload against plan limits.
type UploadCheck struct {
	Allowed bool
	Reason  string // "file_size", "duration" or "project_limit"
	Message string
}

// CheckUpload validates file size, duration and project count against the
// plan's limits. Duration or project count of zero skips that check.
func CheckUpload(p Name, fileSize int64, durationSec int, projectCount int) UploadCheck {
	limits := LimitsFor(p)

	if fileSize > limits.MaxFileSize {
		return UploadCheck{
			Reason: "file_size",
			Message: fmt.Sprintf("File size (%.1fMB) exceeds your plan limit of %dMB",
				float64(fileSize)/(1024*1024), limits.MaxFileSize/(1024*1024)),
		}
	}

	if durationSec > 0 && limits.MaxDuration != nil && durationSec > *limits.MaxDuration {
		return UploadCheck{
			Reason: "duration",
			Message: fmt.Sprintf("Duration (%dm %ds) exceeds your plan limit of %d minutes",
				durationSec/60, durationSec%60, *limits.MaxDuration/60),
		}
	}

	if limits.MaxProjects != nil && projectCount >= *limits.MaxProjects {
		kind := "active"
		if Normalize(p) == Free {
			kind = "total"
		}
		return UploadCheck{
			Reason:  "project_limit",
			Message: fmt.Sprintf("You've reached your plan limit of %d %s projects", *limits.MaxProjects, kind),
		}
	}

	return UploadCheck{Allowed: true}
}

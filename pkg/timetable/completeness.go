package timetable

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

// CourseSet builds a normalized course key set.
func CourseSet(keys ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		set[models.NormalizeCourseKey(key)] = struct{}{}
	}
	return set
}

// CheckCompleteness requires the candidate's course keys to equal the
// requested set exactly. Missing courses are reported before extras.
func CheckCompleteness(requested map[string]struct{}, blocks []models.TimeBlock) models.Verdict {
	want := make(map[string]struct{}, len(requested))
	for key := range requested {
		want[models.NormalizeCourseKey(key)] = struct{}{}
	}
	have := make(map[string]struct{}, len(blocks))
	for _, block := range blocks {
		have[models.NormalizeCourseKey(block.CourseKey)] = struct{}{}
	}

	if missing := difference(want, have); len(missing) > 0 {
		return models.Reject(models.ReasonMissingCourses, fmt.Sprintf("missing courses: %s", strings.Join(missing, ", ")))
	}
	if extra := difference(have, want); len(extra) > 0 {
		return models.Reject(models.ReasonExtraCourses, fmt.Sprintf("unrequested courses: %s", strings.Join(extra, ", ")))
	}
	return models.Accept()
}

func difference(a, b map[string]struct{}) []string {
	var out []string
	for key := range a {
		if _, ok := b[key]; !ok {
			out = append(out, key)
		}
	}
	sort.Strings(out)
	return out
}

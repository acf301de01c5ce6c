package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/spf13/cobra"

	"github.com/noah-isme/unischeduler-api/internal/dto"
	"github.com/noah-isme/unischeduler-api/internal/models"
	"github.com/noah-isme/unischeduler-api/internal/service"
	"github.com/noah-isme/unischeduler-api/pkg/timetable"
)

var (
	validateFile    string
	validateCourses []string
	validateMinGap  int
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a schedule document against the requested courses",
	Long: `Decodes a {"classes": [...]} document, then checks that it covers exactly
the requested courses and that no two classes on a day overlap or sit closer
than the minimum gap. Exits non-zero when the schedule is rejected.`,
	RunE: runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&validateFile, "file", "f", "", "schedule JSON document")
	validateCmd.Flags().StringSliceVar(&validateCourses, "courses", nil, "requested courses, e.g. CS2114,MATH1226")
	validateCmd.Flags().IntVar(&validateMinGap, "min-gap", timetable.DefaultMinGapMinutes, "minimum minutes between classes on the same day")
	_ = validateCmd.MarkFlagRequired("file")
	_ = validateCmd.MarkFlagRequired("courses")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	raw, err := os.ReadFile(validateFile)
	if err != nil {
		return fmt.Errorf("read schedule: %w", err)
	}
	courses, err := parseCourses(validateCourses)
	if err != nil {
		return err
	}

	gap := validateMinGap
	svc := service.NewScheduleService(nil, nil, nil, nil, gap, nil)
	resp, err := svc.Validate(context.Background(), dto.ValidateScheduleRequest{
		Courses:       courses,
		Schedule:      raw,
		MinGapMinutes: &gap,
	})
	if err != nil {
		return err
	}
	if err := writeJSON(cmd.OutOrStdout(), resp); err != nil {
		return err
	}
	if !resp.Verdict.Accepted {
		return fmt.Errorf("schedule rejected: %s", resp.Verdict.Reason)
	}
	return nil
}

// parseCourses splits course codes such as "CS2114" or "MATH-1226" into
// department and number at the first digit.
func parseCourses(codes []string) ([]models.CourseRequest, error) {
	courses := make([]models.CourseRequest, 0, len(codes))
	for _, code := range codes {
		key := models.NormalizeCourseKey(code)
		idx := strings.IndexFunc(key, unicode.IsDigit)
		if idx <= 0 {
			return nil, fmt.Errorf("course %q must look like CS2114", code)
		}
		courses = append(courses, models.CourseRequest{Department: key[:idx], Number: key[idx:]})
	}
	return courses, nil
}

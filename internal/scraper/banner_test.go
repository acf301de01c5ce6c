package scraper

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const timetableFixture = `<html><body>
<table class="dataentrytable">
<tr><td class="deleft">CRN</td><td>Course</td><td>Title</td><td>Schedule Type</td><td>Modality</td><td>Cr Hrs</td><td>Capacity</td><td>Instructor</td><td>Days</td><td>Begin</td><td>End</td><td>Location</td><td>Exam</td></tr>
<tr>
  <td><a href="HZSKVTSC.P_ProcComments?CRN=13466&TERM=01&YEAR=2025"><b>13466</b></a></td>
  <td>CS-2114</td><td>Software Design &amp; Data Structures</td><td>L</td><td>Face-to-Face Instruction</td>
  <td>3</td><td>120</td><td>M  Ellis</td><td>M W F</td><td>9:05AM</td><td>9:55AM</td><td>MCB 100</td>
  <td><a href="#">14T</a></td>
</tr>
<tr><td></td><td></td><td></td><td></td><td></td><td></td><td></td><td>* Additional Times *</td><td>T</td><td>2:00PM</td><td>3:15PM</td><td>TORG 1050</td></tr>
<tr><td colspan="12">Comments: Majors only</td></tr>
<tr>
  <td><a href="HZSKVTSC.P_ProcComments?CRN=13467&TERM=01&YEAR=2025"><b>13467</b></a></td>
  <td>CS-2114</td><td>Software Design &amp; Data Structures</td><td>L</td><td>Face-to-Face Instruction</td>
  <td>3</td><td>90</td><td>Staff</td><td>T R</td><td>11:00AM</td><td>12:15PM</td><td>GBJ 102</td>
</tr>
</table>
</body></html>`

func TestParseSectionsReadsSectionsAndAdditionalTimes(t *testing.T) {
	sections, err := ParseSections(strings.NewReader(timetableFixture))
	require.NoError(t, err)
	require.Len(t, sections, 2)

	first := sections[0]
	assert.Equal(t, "13466", first.CRN)
	assert.Equal(t, "CS-2114", first.Course)
	assert.Equal(t, "Software Design & Data Structures", first.Title)
	assert.Equal(t, "M Ellis", first.Instructor)
	assert.Equal(t, "14T", first.ExamCode)
	require.Len(t, first.Meetings, 2)
	assert.Equal(t, "M W F", first.Meetings[0].Days)
	assert.Equal(t, "9:05AM", first.Meetings[0].BeginTime)
	assert.Equal(t, "T", first.Meetings[1].Days)
	assert.Equal(t, "2:00PM", first.Meetings[1].BeginTime)
	assert.Equal(t, "3:15PM", first.Meetings[1].EndTime)
	assert.Equal(t, "TORG 1050", first.Meetings[1].Location)

	second := sections[1]
	assert.Equal(t, "13467", second.CRN)
	assert.Empty(t, second.ExamCode)
	require.Len(t, second.Meetings, 1)
	assert.Equal(t, "T R", second.Meetings[0].Days)
}

func TestParseSectionsEmptyPage(t *testing.T) {
	sections, err := ParseSections(strings.NewReader(`<html><body><p>NO SECTIONS FOUND</p></body></html>`))
	require.NoError(t, err)
	assert.Empty(t, sections)
}

func TestBannerScraperPostsSearchForm(t *testing.T) {
	var form map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.NoError(t, r.ParseForm())
		form = map[string]string{
			"subj_code":   r.PostForm.Get("subj_code"),
			"CRSE_NUMBER": r.PostForm.Get("CRSE_NUMBER"),
			"TERMYEAR":    r.PostForm.Get("TERMYEAR"),
			"CAMPUS":      r.PostForm.Get("CAMPUS"),
		}
		_, _ = w.Write([]byte(timetableFixture))
	}))
	defer srv.Close()

	scraper := NewBannerScraper(BannerConfig{BaseURL: srv.URL, Timeout: time.Second}, zap.NewNop())
	sections, err := scraper.FetchSections(context.Background(), "cs", "2114", "202501")
	require.NoError(t, err)
	assert.Len(t, sections, 2)
	assert.Equal(t, map[string]string{
		"subj_code":   "CS",
		"CRSE_NUMBER": "2114",
		"TERMYEAR":    "202501",
		"CAMPUS":      "0",
	}, form)
}

func TestBannerScraperRejectsErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	scraper := NewBannerScraper(BannerConfig{BaseURL: srv.URL}, nil)
	_, err := scraper.FetchSections(context.Background(), "CS", "2114", "202501")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
}

// Package scraper reads course sections from the Banner registration timetable.
package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/noah-isme/unischeduler-api/internal/models"
)

const minSectionCells = 12

// BannerConfig configures the timetable endpoint.
type BannerConfig struct {
	BaseURL string
	Campus  string
	Timeout time.Duration
}

// BannerScraper submits the timetable search form and parses the result table.
type BannerScraper struct {
	client  *http.Client
	baseURL string
	campus  string
	logger  *zap.Logger
}

// NewBannerScraper constructs a scraper with its own HTTP client.
func NewBannerScraper(cfg BannerConfig, logger *zap.Logger) *BannerScraper {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	if cfg.Campus == "" {
		cfg.Campus = "0"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BannerScraper{
		client:  &http.Client{Timeout: cfg.Timeout},
		baseURL: cfg.BaseURL,
		campus:  cfg.Campus,
		logger:  logger,
	}
}

// FetchSections returns every section of department+number offered in term.
func (s *BannerScraper) FetchSections(ctx context.Context, department, number, term string) ([]models.Section, error) {
	form := url.Values{
		"CAMPUS":           {s.campus},
		"TERMYEAR":         {term},
		"CORE_CODE":        {"AR%"},
		"subj_code":        {strings.ToUpper(strings.TrimSpace(department))},
		"SCHDTYPE":         {"%"},
		"CRSE_NUMBER":      {strings.TrimSpace(number)},
		"crn":              {""},
		"open_only":        {""},
		"disp_comments_in": {"Y"},
		"sess_code":        {"%"},
		"BTN_PRESSED":      {"FIND class sections"},
		"inst_name":        {""},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("build timetable request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	start := time.Now()
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post timetable form: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("timetable returned status %d", resp.StatusCode)
	}

	sections, err := ParseSections(resp.Body)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("timetable scraped",
		zap.String("course", department+number),
		zap.String("term", term),
		zap.Int("sections", len(sections)),
		zap.Duration("latency", time.Since(start)),
	)
	return sections, nil
}

// ParseSections extracts sections from a timetable results page. Rows that
// carry a CRN link are sections; "Additional Times" rows add a meeting to the
// section above them.
func ParseSections(r io.Reader) ([]models.Section, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parse timetable html: %w", err)
	}

	var sections []models.Section
	doc.Find("tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		link := row.Find(`a[href*="CRN="]`).First()

		if link.Length() > 0 && cells.Length() >= minSectionCells {
			crn := cellText(link.Find("b"))
			if crn == "" {
				crn = cellText(link)
			}
			section := models.Section{
				CRN:          crn,
				Course:       cellText(cells.Eq(1)),
				Title:        cellText(cells.Eq(2)),
				ScheduleType: cellText(cells.Eq(3)),
				Modality:     cellText(cells.Eq(4)),
				CreditHours:  cellText(cells.Eq(5)),
				Capacity:     cellText(cells.Eq(6)),
				Instructor:   cellText(cells.Eq(7)),
				Meetings: []models.Meeting{{
					Days:      cellText(cells.Eq(8)),
					BeginTime: cellText(cells.Eq(9)),
					EndTime:   cellText(cells.Eq(10)),
					Location:  cellText(cells.Eq(11)),
				}},
			}
			if cells.Length() > minSectionCells {
				section.ExamCode = cellText(cells.Eq(12).Find("a"))
			}
			sections = append(sections, section)
			return
		}

		if len(sections) == 0 {
			return
		}
		if meeting, ok := additionalMeeting(cells); ok {
			last := &sections[len(sections)-1]
			last.Meetings = append(last.Meetings, meeting)
		}
	})

	return sections, nil
}

func additionalMeeting(cells *goquery.Selection) (models.Meeting, bool) {
	marker := -1
	cells.EachWithBreak(func(i int, cell *goquery.Selection) bool {
		if strings.Contains(cell.Text(), "Additional Times") {
			marker = i
			return false
		}
		return true
	})
	if marker < 0 || cells.Length() < marker+4 {
		return models.Meeting{}, false
	}
	meeting := models.Meeting{
		Days:      cellText(cells.Eq(marker + 1)),
		BeginTime: cellText(cells.Eq(marker + 2)),
		EndTime:   cellText(cells.Eq(marker + 3)),
	}
	if cells.Length() > marker+4 {
		meeting.Location = cellText(cells.Eq(marker + 4))
	}
	return meeting, true
}

func cellText(sel *goquery.Selection) string {
	return strings.Join(strings.Fields(sel.Text()), " ")
}

package nusmods

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultAPIURL is the public NUSMods v2 API.
const DefaultAPIURL = "https://api.nusmods.com/v2"

// ErrModuleNotFound means the API has no data for a module in the
// requested academic year. Callers degrade to an empty timetable for
// that module instead of failing the whole request.
var ErrModuleNotFound = errors.New("module not found")

// lessonTypeNames maps share-link lesson type codes to the full names
// used by the NUSMods API.
var lessonTypeNames = map[string]string{
	"LEC": "Lecture",
	"TUT": "Tutorial",
	"LAB": "Laboratory",
	"SEC": "Sectional Teaching",
	"REC": "Recitation",
	"SEM": "Seminar-Style Module Class",
	"PLE": "Plenary",
	"WS":  "Workshop",
	"DOM": "Design Lecture",
	"MCT": "Mini-Project",
}

// Lesson is a single weekly slot from a module timetable.
type Lesson struct {
	ClassNo    string `json:"classNo"`
	StartTime  string `json:"startTime"` // HHMM
	EndTime    string `json:"endTime"`   // HHMM
	Day        string `json:"day"`
	Venue      string `json:"venue"`
	LessonType string `json:"lessonType"`
}

// SemesterData holds one semester's offering of a module.
type SemesterData struct {
	Semester  int      `json:"semester"`
	Timetable []Lesson `json:"timetable"`
}

// ModuleInfo is the subset of the NUSMods module payload we need.
type ModuleInfo struct {
	ModuleCode   string         `json:"moduleCode"`
	Title        string         `json:"title"`
	SemesterData []SemesterData `json:"semesterData"`
}

// ModuleSchedule pairs a module code with the lessons the user selected.
type ModuleSchedule struct {
	Code    string
	Lessons []Lesson
}

// Schedule is the resolved weekly timetable, one entry per module in
// share-link order.
type Schedule []ModuleSchedule

// LessonCount returns the total number of resolved lesson slots.
func (s Schedule) LessonCount() int {
	n := 0
	for _, m := range s {
		n += len(m.Lessons)
	}
	return n
}

// AcademicYear returns the NUS academic year covering now, formatted
// "YYYY-YYYY". The academic year rolls over in August.
func AcademicYear(now time.Time) string {
	year := now.Year()
	if now.Month() >= time.August {
		return fmt.Sprintf("%d-%d", year, year+1)
	}
	return fmt.Sprintf("%d-%d", year-1, year)
}

// Client fetches module timetable data from the NUSMods API, with an
// optional cache in front of it.
type Client struct {
	baseURL    string
	httpClient *http.Client
	cache      ModuleCache
	log        zerolog.Logger
}

// NewClient creates an API client. baseURL defaults to DefaultAPIURL
// when empty; cache may be nil to disable caching.
func NewClient(baseURL string, cache ModuleCache, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		cache: cache,
		log:   log,
	}
}

// FetchModule retrieves a module's data for an academic year, serving
// from cache when possible.
func (c *Client) FetchModule(ctx context.Context, acadYear, code string) (*ModuleInfo, error) {
	key := cacheKey(acadYear, code)
	if c.cache != nil {
		if b, err := c.cache.Get(ctx, key); err == nil {
			var info ModuleInfo
			if err := json.Unmarshal(b, &info); err == nil {
				return &info, nil
			}
			// Corrupt cache entry: fall through to a fresh fetch.
		}
	}

	url := fmt.Sprintf("%s/%s/modules/%s.json", c.baseURL, acadYear, code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "modpocket/1.0")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch module %s: %w", code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s (AY%s)", ErrModuleNotFound, code, acadYear)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nusmods api returned status %d for module %s", resp.StatusCode, code)
	}

	var info ModuleInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("failed to decode module %s: %w", code, err)
	}

	if c.cache != nil {
		if b, err := json.Marshal(&info); err == nil {
			if err := c.cache.Set(ctx, key, b); err != nil {
				c.log.Warn().Err(err).Str("module", code).Msg("failed to cache module data")
			}
		}
	}
	return &info, nil
}

// FetchTimetable resolves a parsed share link into concrete weekly
// lessons. Modules unknown to the API, or selections that match no
// timetable entry, degrade to missing lessons rather than errors;
// transport and server failures abort the whole fetch.
func (c *Client) FetchTimetable(ctx context.Context, link ShareLink) (Schedule, error) {
	acadYear := AcademicYear(time.Now())
	schedule := make(Schedule, 0, len(link.Modules))

	for _, sel := range link.Modules {
		entry := ModuleSchedule{Code: sel.Code}

		info, err := c.FetchModule(ctx, acadYear, sel.Code)
		if errors.Is(err, ErrModuleNotFound) {
			c.log.Warn().Str("module", sel.Code).Str("acad_year", acadYear).
				Msg("module not found, skipping")
			schedule = append(schedule, entry)
			continue
		}
		if err != nil {
			return nil, err
		}

		timetable := semesterTimetable(info, link.Semester)
		if timetable == nil {
			c.log.Warn().Str("module", sel.Code).Int("semester", link.Semester).
				Msg("module not offered in semester, skipping")
			schedule = append(schedule, entry)
			continue
		}

		for _, lessonSel := range sel.Lessons {
			apiType := lessonTypeNames[lessonSel.Type]
			if apiType == "" {
				apiType = lessonSel.Type
			}
			for _, classNo := range lessonSel.ClassNos {
				matched := false
				for _, lesson := range timetable {
					if lesson.LessonType != apiType || !classNoEqual(lesson.ClassNo, classNo) {
						continue
					}
					// A single class number can occupy several weekly
					// slots; keep all of them.
					entry.Lessons = append(entry.Lessons, lesson)
					matched = true
				}
				if !matched {
					c.log.Warn().Str("module", sel.Code).Str("lesson_type", lessonSel.Type).
						Str("class_no", classNo).Msg("no timetable match for selection")
				}
			}
		}
		schedule = append(schedule, entry)
	}
	return schedule, nil
}

func semesterTimetable(info *ModuleInfo, semester int) []Lesson {
	for _, sd := range info.SemesterData {
		if sd.Semester == semester {
			return sd.Timetable
		}
	}
	return nil
}

// classNoEqual compares class numbers ignoring zero padding, so "01"
// matches "1".
func classNoEqual(a, b string) bool {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	if a == b {
		return true
	}
	ai, errA := strconv.Atoi(a)
	bi, errB := strconv.Atoi(b)
	return errA == nil && errB == nil && ai == bi
}

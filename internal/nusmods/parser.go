package nusmods

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

// Validation failures for share links. The messages are user-facing and
// returned verbatim in API responses.
var (
	ErrEmptyLink     = errors.New("link is empty")
	ErrMalformedLink = errors.New("link is not a valid URL")
	ErrWrongDomain   = errors.New("link must be a nusmods.com URL")
	ErrWrongPath     = errors.New("link must be a timetable share URL, e.g. https://nusmods.com/timetable/sem-1/share?...")
)

var sharePathRe = regexp.MustCompile(`^/timetable/sem-([12])/share/?$`)

// LessonSelection is one lesson type picked for a module, e.g. LEC with
// class numbers ["11"].
type LessonSelection struct {
	Type     string
	ClassNos []string
}

// ModuleSelection is one module from a share link with its selected
// lessons, in encounter order.
type ModuleSelection struct {
	Code    string
	Lessons []LessonSelection
}

// ShareLink is a fully parsed NUSMods share link.
type ShareLink struct {
	Semester int
	Modules  []ModuleSelection
}

// ModuleCodes returns the module codes in encounter order.
func (l ShareLink) ModuleCodes() []string {
	codes := make([]string, len(l.Modules))
	for i, m := range l.Modules {
		codes[i] = m.Code
	}
	return codes
}

// ValidateShareLink reports whether raw looks like a NUSMods timetable
// share link. It is a pure function: no I/O, no side effects. On
// failure it returns exactly one of ErrEmptyLink, ErrMalformedLink,
// ErrWrongDomain or ErrWrongPath, checked in that order.
func ValidateShareLink(raw string) error {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ErrEmptyLink
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return ErrMalformedLink
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ErrMalformedLink
	}
	host := strings.ToLower(u.Hostname())
	if host != "nusmods.com" && !strings.HasSuffix(host, ".nusmods.com") {
		return ErrWrongDomain
	}
	if !sharePathRe.MatchString(u.Path) {
		return ErrWrongPath
	}
	return nil
}

// ExtractModuleCodes returns the query-parameter names of raw in
// encounter order, deduplicated. Parameter names are the module codes
// in a share link. Any parse failure yields an empty slice, never an
// error: callers treat that as "no modules detected".
func ExtractModuleCodes(raw string) []string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil
	}
	var codes []string
	seen := make(map[string]bool)
	for _, pair := range queryPairs(u.RawQuery) {
		if pair.key == "" || seen[pair.key] {
			continue
		}
		seen[pair.key] = true
		codes = append(codes, pair.key)
	}
	return codes
}

// ParseShareLink validates raw and decomposes it into a semester number
// and per-module lesson selections. Modules whose value contains no
// parseable lesson selection are dropped, mirroring how the share
// format treats them as noise.
func ParseShareLink(raw string) (ShareLink, error) {
	if err := ValidateShareLink(raw); err != nil {
		return ShareLink{}, err
	}
	u, _ := url.Parse(strings.TrimSpace(raw))

	m := sharePathRe.FindStringSubmatch(u.Path)
	semester, _ := strconv.Atoi(m[1])

	link := ShareLink{Semester: semester}
	index := make(map[string]int)
	for _, pair := range queryPairs(u.RawQuery) {
		code := strings.ToUpper(pair.key)
		if code == "" {
			continue
		}
		lessons := parseLessonSelections(pair.value)
		if len(lessons) == 0 {
			continue
		}
		if i, ok := index[code]; ok {
			// Repeated module code: last value wins.
			link.Modules[i].Lessons = lessons
			continue
		}
		index[code] = len(link.Modules)
		link.Modules = append(link.Modules, ModuleSelection{Code: code, Lessons: lessons})
	}
	return link, nil
}

type queryPair struct {
	key   string
	value string
}

// queryPairs scans a raw query string by hand. url.Values loses the
// encounter order of keys, and share-link values carry unencoded ":"
// and ";" which url.ParseQuery rejects.
func queryPairs(rawQuery string) []queryPair {
	if rawQuery == "" {
		return nil
	}
	var pairs []queryPair
	for _, part := range strings.Split(rawQuery, "&") {
		if part == "" {
			continue
		}
		rawKey, rawValue := part, ""
		if i := strings.IndexByte(part, '='); i >= 0 {
			rawKey, rawValue = part[:i], part[i+1:]
		}
		key, err := url.QueryUnescape(rawKey)
		if err != nil {
			continue
		}
		value, err := url.QueryUnescape(rawValue)
		if err != nil {
			value = ""
		}
		pairs = append(pairs, queryPair{key: strings.TrimSpace(key), value: value})
	}
	return pairs
}

// parseLessonSelections parses a share-link module value such as
// "LAB:(7);LEC:(11)" or the older comma form "LEC:1,TUT:02". Class
// numbers may be a parenthesized comma list: "LEC:(34,35)". Fragments
// without a ":" are skipped.
func parseLessonSelections(value string) []LessonSelection {
	if value == "" {
		return nil
	}
	sep := ","
	if strings.Contains(value, ";") {
		sep = ";"
	}

	var out []LessonSelection
	index := make(map[string]int)
	for _, fragment := range strings.Split(value, sep) {
		typ, rawNos, ok := strings.Cut(fragment, ":")
		if !ok {
			continue
		}
		typ = strings.ToUpper(strings.TrimSpace(typ))
		if typ == "" {
			continue
		}
		var classNos []string
		for _, no := range strings.Split(strings.Trim(rawNos, "()"), ",") {
			if no = strings.TrimSpace(no); no != "" {
				classNos = append(classNos, no)
			}
		}
		if len(classNos) == 0 {
			continue
		}
		if i, ok := index[typ]; ok {
			out[i].ClassNos = classNos
			continue
		}
		index[typ] = len(out)
		out = append(out, LessonSelection{Type: typ, ClassNos: classNos})
	}
	return out
}

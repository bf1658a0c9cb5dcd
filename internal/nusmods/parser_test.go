package nusmods

import (
	"errors"
	"reflect"
	"testing"
)

func TestValidateShareLink(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{"empty", "", ErrEmptyLink},
		{"whitespace only", "   \t\n", ErrEmptyLink},
		{"no scheme", "nusmods.com/timetable/sem-1/share", ErrMalformedLink},
		{"missing scheme colon", "://nusmods.com/timetable/sem-1/share", ErrMalformedLink},
		{"plain text", "paste your link here", ErrMalformedLink},
		{"ftp scheme", "ftp://nusmods.com/timetable/sem-1/share", ErrMalformedLink},
		{"wrong domain", "https://example.com/timetable/sem-1/share?A=1", ErrWrongDomain},
		{"lookalike domain", "https://nusmods.com.evil.org/timetable/sem-1/share", ErrWrongDomain},
		{"no path", "https://nusmods.com", ErrWrongPath},
		{"courses path", "https://nusmods.com/courses/CS2040", ErrWrongPath},
		{"missing semester", "https://nusmods.com/timetable/share", ErrWrongPath},
		{"semester out of range", "https://nusmods.com/timetable/sem-3/share", ErrWrongPath},
		{"valid sem 1", "https://nusmods.com/timetable/sem-1/share?CS2040=LEC:1", nil},
		{"valid sem 2", "https://nusmods.com/timetable/sem-2/share?CS2040=LEC:1", nil},
		{"valid no query", "https://nusmods.com/timetable/sem-1/share", nil},
		{"valid trailing slash", "https://nusmods.com/timetable/sem-1/share/", nil},
		{"valid www subdomain", "https://www.nusmods.com/timetable/sem-1/share?A=1", nil},
		{"valid surrounding whitespace", "  https://nusmods.com/timetable/sem-1/share?A=1  ", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ValidateShareLink(tt.in)
			if !errors.Is(got, tt.want) {
				t.Errorf("ValidateShareLink(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestExtractModuleCodes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{
			"encounter order",
			"https://nusmods.com/timetable/sem-1/share?A=1&B=2",
			[]string{"A", "B"},
		},
		{
			"reversed encounter order",
			"https://nusmods.com/timetable/sem-1/share?B=2&A=1",
			[]string{"B", "A"},
		},
		{
			"real module codes",
			"https://nusmods.com/timetable/sem-2/share?BT2102=LEC:1&CS2040=LEC:1&MA1521=LEC:1",
			[]string{"BT2102", "CS2040", "MA1521"},
		},
		{"no query", "https://nusmods.com/timetable/sem-1/share", nil},
		{
			"duplicate keys kept once",
			"https://nusmods.com/timetable/sem-1/share?A=1&B=2&A=3",
			[]string{"A", "B"},
		},
		{
			"key without value",
			"https://nusmods.com/timetable/sem-1/share?A&B=2",
			[]string{"A", "B"},
		},
		{
			"unparseable query yields empty list",
			"https://nusmods.com/timetable/sem-1/share?%zz=1&%gg=2",
			nil,
		},
		{"unparseable url yields empty list", "://nope", nil},
		{"not a share link still extracts", "https://example.com/x?M=1", []string{"M"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractModuleCodes(tt.in)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ExtractModuleCodes(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseShareLink(t *testing.T) {
	link, err := ParseShareLink("https://nusmods.com/timetable/sem-2/share?BT2102=LAB:(7);LEC:(11)&CS2040=TUT:(33);LAB:(20);LEC:(34,35)")
	if err != nil {
		t.Fatalf("ParseShareLink() error = %v", err)
	}

	if link.Semester != 2 {
		t.Errorf("semester = %d, want 2", link.Semester)
	}
	wantCodes := []string{"BT2102", "CS2040"}
	if !reflect.DeepEqual(link.ModuleCodes(), wantCodes) {
		t.Errorf("module codes = %v, want %v", link.ModuleCodes(), wantCodes)
	}

	bt := link.Modules[0]
	wantBT := []LessonSelection{
		{Type: "LAB", ClassNos: []string{"7"}},
		{Type: "LEC", ClassNos: []string{"11"}},
	}
	if !reflect.DeepEqual(bt.Lessons, wantBT) {
		t.Errorf("BT2102 lessons = %v, want %v", bt.Lessons, wantBT)
	}

	cs := link.Modules[1]
	wantCS := []LessonSelection{
		{Type: "TUT", ClassNos: []string{"33"}},
		{Type: "LAB", ClassNos: []string{"20"}},
		{Type: "LEC", ClassNos: []string{"34", "35"}},
	}
	if !reflect.DeepEqual(cs.Lessons, wantCS) {
		t.Errorf("CS2040 lessons = %v, want %v", cs.Lessons, wantCS)
	}
}

func TestParseShareLink_OldCommaFormat(t *testing.T) {
	link, err := ParseShareLink("https://nusmods.com/timetable/sem-1/share?CS1010=LEC:1,TUT:02")
	if err != nil {
		t.Fatalf("ParseShareLink() error = %v", err)
	}
	want := []LessonSelection{
		{Type: "LEC", ClassNos: []string{"1"}},
		{Type: "TUT", ClassNos: []string{"02"}},
	}
	if !reflect.DeepEqual(link.Modules[0].Lessons, want) {
		t.Errorf("lessons = %v, want %v", link.Modules[0].Lessons, want)
	}
}

func TestParseShareLink_NormalizesCase(t *testing.T) {
	link, err := ParseShareLink("https://nusmods.com/timetable/sem-1/share?cs2040=lec:1")
	if err != nil {
		t.Fatalf("ParseShareLink() error = %v", err)
	}
	if link.Modules[0].Code != "CS2040" {
		t.Errorf("code = %q, want CS2040", link.Modules[0].Code)
	}
	if link.Modules[0].Lessons[0].Type != "LEC" {
		t.Errorf("lesson type = %q, want LEC", link.Modules[0].Lessons[0].Type)
	}
}

func TestParseShareLink_DropsNoise(t *testing.T) {
	// Values that are not lesson selections carry no timetable
	// information, so the module is dropped.
	link, err := ParseShareLink("https://nusmods.com/timetable/sem-1/share?A=1&CS2040=LEC:1&B=")
	if err != nil {
		t.Fatalf("ParseShareLink() error = %v", err)
	}
	if got := link.ModuleCodes(); !reflect.DeepEqual(got, []string{"CS2040"}) {
		t.Errorf("module codes = %v, want [CS2040]", got)
	}
}

func TestParseShareLink_InvalidLink(t *testing.T) {
	if _, err := ParseShareLink("https://example.com/timetable/sem-1/share?A=LEC:1"); !errors.Is(err, ErrWrongDomain) {
		t.Errorf("expected ErrWrongDomain, got %v", err)
	}
}

package wallpaper

import (
	"fmt"
	"sort"
	"strings"

	"modpocket/internal/domain"
	"modpocket/internal/nusmods"
)

const promptTemplate = `Phone wallpaper (%s, %dx%d). University timetable schedule.

CRITICAL LAYOUT:
- TOP 10%%: empty
- BOTTOM 10%%: empty
- MIDDLE: schedule grid

%s

STYLE: %s
%s

REQUIREMENTS: Grid layout, readable typography, color-coded modules, no device frames, no invented data
`

// styleDescriptions holds the prompt fragment for every style x theme
// combination.
var styleDescriptions = map[domain.DesignStyle]map[domain.Theme]string{
	domain.StyleMinimalist: {
		domain.ThemeLight: "White background, sans-serif font, soft color blocks, clean lines.",
		domain.ThemeDark:  "Charcoal #1C1C1E background, white text, muted color blocks, OLED black.",
	},
	domain.StyleGradient: {
		domain.ThemeLight: "Pastel mesh gradient (peach/periwinkle), glass containers, dark text.",
		domain.ThemeDark:  "Aurora gradient (violet/cyan/blue), translucent containers, white text.",
	},
	domain.StyleNeon: {
		domain.ThemeLight: "White background, neon outlines (pink/blue), bold geometric type.",
		domain.ThemeDark:  "Black background, glowing neon borders, cyberpunk HUD style.",
	},
	domain.StylePastel: {
		domain.ThemeLight: "Cream background, marshmallow colors, rounded corners.",
		domain.ThemeDark:  "Navy background, dusty pastels, soft rounded elements.",
	},
	domain.StyleGlass: {
		domain.ThemeLight: "Blurred background, frosted glass cards, iOS style.",
		domain.ThemeDark:  "Dark blur, smoked glass cards, subtle white borders.",
	},
	domain.StyleRetro: {
		domain.ThemeLight: "Paper texture, 70s colors (mustard/orange), serif font.",
		domain.ThemeDark:  "Grainy texture, synthwave colors, terminal font.",
	},
	domain.StyleKawaii: {
		domain.ThemeLight: "Pastel dots, handwriting font, sticky-note blocks, doodle decorations.",
		domain.ThemeDark:  "Dark purple with stars, chalk-style blocks, cozy planner theme.",
	},
}

var dayOrder = map[string]int{
	"Monday":    0,
	"Tuesday":   1,
	"Wednesday": 2,
	"Thursday":  3,
	"Friday":    4,
	"Saturday":  5,
	"Sunday":    6,
}

// BuildPrompt assembles the text-to-image prompt for a resolved
// schedule and the chosen style, theme and target device.
func BuildPrompt(schedule nusmods.Schedule, style domain.DesignStyle, theme domain.Theme, device domain.Device) string {
	desc := styleDescriptions[style][theme]
	styleName := fmt.Sprintf("%s (%s Mode)", capitalize(string(style)), capitalize(string(theme)))
	return fmt.Sprintf(promptTemplate,
		device.GenerationRatio, device.Width, device.Height,
		FormatSchedule(schedule), styleName, desc)
}

type flatLesson struct {
	module string
	typ    string
	day    string
	start  string
	end    string
	venue  string
}

// FormatSchedule renders a schedule as a markdown list grouped by day,
// sorted by day order then start time. This is the representation the
// image model lays out; it must contain every slot and nothing else.
func FormatSchedule(schedule nusmods.Schedule) string {
	var flat []flatLesson
	for _, m := range schedule {
		for _, l := range m.Lessons {
			flat = append(flat, flatLesson{
				module: m.Code,
				typ:    orDefault(l.LessonType, "Class"),
				day:    orDefault(l.Day, "TBA"),
				start:  orDefault(l.StartTime, "0000"),
				end:    orDefault(l.EndTime, "0000"),
				venue:  orDefault(l.Venue, "TBA"),
			})
		}
	}
	if len(flat) == 0 {
		return "No classes scheduled."
	}

	sort.SliceStable(flat, func(i, j int) bool {
		di, dj := dayRank(flat[i].day), dayRank(flat[j].day)
		if di != dj {
			return di < dj
		}
		return flat[i].start < flat[j].start
	})

	var b strings.Builder
	currentDay := ""
	for _, l := range flat {
		if l.day != currentDay {
			if currentDay != "" {
				b.WriteString("\n")
			}
			fmt.Fprintf(&b, "## %s\n", l.day)
			currentDay = l.day
		}
		fmt.Fprintf(&b, "- **%s** (%s): %s-%s @ %s\n",
			l.module, l.typ, formatTime(l.start), formatTime(l.end), l.venue)
	}
	return strings.TrimRight(b.String(), "\n")
}

func dayRank(day string) int {
	if r, ok := dayOrder[day]; ok {
		return r
	}
	return len(dayOrder) // unknown days sort last
}

// formatTime turns NUSMods "HHMM" into "HH:MM"; anything else passes
// through untouched.
func formatTime(t string) string {
	if len(t) == 4 {
		return t[:2] + ":" + t[2:]
	}
	return t
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}

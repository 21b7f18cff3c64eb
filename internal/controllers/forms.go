package controllers

import (
	"dashcfg/internal/models"
	"errors"
	"fmt"
	"github.com/gookit/validate"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

func init() {
	validate.AddValidator("timezone", func(val any) bool {
		name, ok := val.(string)
		if !ok || name == "" {
			return false
		}
		_, err := time.LoadLocation(name)
		return err == nil
	})
	validate.AddValidator("clock", func(val any) bool {
		s, ok := val.(string)
		return ok && clockPattern.MatchString(s)
	})
}

// sectionForm turns a posted form into the fields of one settings section.
type sectionForm interface {
	fields() map[string]any
}

type nightscoutForm struct {
	URL       string `json:"url" validate:"fullUrl"`
	APISecret string `json:"api_secret"`
}

func (f *nightscoutForm) fields() map[string]any {
	return map[string]any{"url": f.URL, "api_secret": f.APISecret}
}

type supabaseForm struct {
	URL               string `json:"url" validate:"fullUrl"`
	AnonKey           string `json:"anon_key"`
	RemindersTable    string `json:"reminders_table" validate:"required|maxLen:63"`
	MotivationalTable string `json:"motivational_table" validate:"required|maxLen:63"`
}

func (f *supabaseForm) fields() map[string]any {
	return map[string]any{
		"url":                f.URL,
		"anon_key":           f.AnonKey,
		"reminders_table":    f.RemindersTable,
		"motivational_table": f.MotivationalTable,
	}
}

type displayForm struct {
	Timezone               string `json:"timezone" validate:"required|timezone"`
	DayModeStart           int    `json:"day_mode_start" validate:"min:0|max:23"`
	DayModeEnd             int    `json:"day_mode_end" validate:"min:0|max:23"`
	MotivationalHoursStart int    `json:"motivational_hours_start" validate:"min:0|max:23"`
	MotivationalHoursEnd   int    `json:"motivational_hours_end" validate:"min:0|max:23"`
}

func (f *displayForm) fields() map[string]any {
	return map[string]any{
		"timezone":                 f.Timezone,
		"day_mode_start":           f.DayModeStart,
		"day_mode_end":             f.DayModeEnd,
		"motivational_hours_start": f.MotivationalHoursStart,
		"motivational_hours_end":   f.MotivationalHoursEnd,
	}
}

type systemForm struct {
	AutoUpdate *bool  `json:"auto_update"`
	UpdateTime string `json:"update_time" validate:"required|clock"`
	Hostname   string `json:"hostname" validate:"required|maxLen:63"`
}

func (f *systemForm) fields() map[string]any {
	fields := map[string]any{"update_time": f.UpdateTime, "hostname": f.Hostname}
	if f.AutoUpdate != nil {
		fields["auto_update"] = *f.AutoUpdate
	}
	return fields
}

// sectionTitles names the sections in flash messages.
var sectionTitles = map[string]string{
	models.SectionNightscout: "Nightscout",
	models.SectionSupabase:   "Supabase",
	models.SectionDisplay:    "Display",
	models.SectionSystem:     "System",
}

// parseSectionForm reads the posted fields of section. Absent fields take
// their defaults; present ones are trimmed. ok is false for an unknown section.
func parseSectionForm(section string, form url.Values) (sectionForm, bool, error) {
	defaults := models.DefaultSettings()

	text := func(name, fallback string) string {
		if _, present := form[name]; !present {
			return fallback
		}
		return strings.TrimSpace(form.Get(name))
	}
	var parseErr error
	hour := func(name string, fallback int) int {
		raw := text(name, strconv.Itoa(fallback))
		n, err := strconv.Atoi(raw)
		if err != nil && parseErr == nil {
			parseErr = fmt.Errorf("%s must be a whole hour between 0 and 23", name)
		}
		return n
	}

	switch section {
	case models.SectionNightscout:
		return &nightscoutForm{
			URL:       text("url", ""),
			APISecret: text("api_secret", ""),
		}, true, nil
	case models.SectionSupabase:
		return &supabaseForm{
			URL:               text("url", ""),
			AnonKey:           text("anon_key", ""),
			RemindersTable:    text("reminders_table", defaults.Supabase.RemindersTable),
			MotivationalTable: text("motivational_table", defaults.Supabase.MotivationalTable),
		}, true, nil
	case models.SectionDisplay:
		f := &displayForm{
			Timezone:               text("timezone", defaults.Display.Timezone),
			DayModeStart:           hour("day_mode_start", defaults.Display.DayModeStart),
			DayModeEnd:             hour("day_mode_end", defaults.Display.DayModeEnd),
			MotivationalHoursStart: hour("motivational_hours_start", defaults.Display.MotivationalHoursStart),
			MotivationalHoursEnd:   hour("motivational_hours_end", defaults.Display.MotivationalHoursEnd),
		}
		return f, true, parseErr
	case models.SectionSystem:
		f := &systemForm{
			UpdateTime: text("update_time", defaults.System.UpdateTime),
			Hostname:   text("hostname", defaults.System.Hostname),
		}
		if _, present := form["auto_update"]; present {
			v, err := strconv.ParseBool(strings.TrimSpace(form.Get("auto_update")))
			if err != nil {
				return f, true, errors.New("auto_update must be true or false")
			}
			f.AutoUpdate = &v
		}
		return f, true, nil
	default:
		return nil, false, nil
	}
}

// validateForm checks the struct tags and returns the first failure.
func validateForm(f sectionForm) error {
	v := validate.Struct(f)
	if !v.Validate() {
		return errors.New(v.Errors.One())
	}
	return nil
}

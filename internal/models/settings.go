package models

import (
	"errors"
	"fmt"
	json "github.com/goccy/go-json"
)

const (
	SectionNightscout = "nightscout"
	SectionSupabase   = "supabase"
	SectionDisplay    = "display"
	SectionSystem     = "system"
)

// Document is the persisted settings file: section name to section value.
// Known sections hold a map[string]any; anything else found on disk is kept as decoded.
type Document map[string]any

// Nightscout is the glucose telemetry endpoint.
type Nightscout struct {
	URL       string `json:"url"`
	APISecret string `json:"api_secret"`
}

// Supabase is the backend service holding reminders and motivational messages.
type Supabase struct {
	URL               string `json:"url"`
	AnonKey           string `json:"anon_key"`
	RemindersTable    string `json:"reminders_table"`
	MotivationalTable string `json:"motivational_table"`
}

// Display holds the kiosk schedule. Hours are 0-23 in Timezone.
type Display struct {
	Timezone               string `json:"timezone"`
	DayModeStart           int    `json:"day_mode_start"`
	DayModeEnd             int    `json:"day_mode_end"`
	MotivationalHoursStart int    `json:"motivational_hours_start"`
	MotivationalHoursEnd   int    `json:"motivational_hours_end"`
}

type System struct {
	AutoUpdate bool   `json:"auto_update"`
	UpdateTime string `json:"update_time"`
	Hostname   string `json:"hostname"`
}

// Settings is the typed view over the four known sections of a Document.
type Settings struct {
	Nightscout Nightscout `json:"nightscout"`
	Supabase   Supabase   `json:"supabase"`
	Display    Display    `json:"display"`
	System     System     `json:"system"`
}

func DefaultSettings() Settings {
	return Settings{
		Nightscout: Nightscout{},
		Supabase: Supabase{
			RemindersTable:    "reminders",
			MotivationalTable: "motivational_messages",
		},
		Display: Display{
			Timezone:               "America/Denver",
			DayModeStart:           6,
			DayModeEnd:             20,
			MotivationalHoursStart: 7,
			MotivationalHoursEnd:   10,
		},
		System: System{
			AutoUpdate: true,
			UpdateTime: "07:00",
			Hostname:   "orangepi",
		},
	}
}

// SectionNames lists the known sections in display order.
func SectionNames() []string {
	return []string{SectionNightscout, SectionSupabase, SectionDisplay, SectionSystem}
}

// DefaultDocument returns a fresh Document built from DefaultSettings.
// Every call returns independent maps.
func DefaultDocument() Document {
	defaults := DefaultSettings()
	return Document{
		SectionNightscout: mustSection(defaults.Nightscout),
		SectionSupabase:   mustSection(defaults.Supabase),
		SectionDisplay:    mustSection(defaults.Display),
		SectionSystem:     mustSection(defaults.System),
	}
}

func mustSection(v any) map[string]any {
	section, err := ToSection(v)
	if err != nil {
		panic(fmt.Sprintf("default section %T: %s", v, err))
	}
	return section
}

// ToSection converts a typed section struct into its document form.
func ToSection(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	decoded, err := DecodeValue(raw)
	if err != nil {
		return nil, err
	}
	section, ok := decoded.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%T does not encode to an object", v)
	}
	return section, nil
}

// Section returns the named section if it is a mapping.
func (d Document) Section(name string) (map[string]any, bool) {
	section, ok := d[name].(map[string]any)
	return section, ok
}

// Decode overlays the named section onto out, which should already hold defaults.
func (d Document) Decode(name string, out any) error {
	value, ok := d[name]
	if !ok {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("section %q: %w", name, err)
	}
	return nil
}

// Settings decodes the known sections. A section that does not fit its
// typed form keeps its defaults and is reported in the returned error.
func (d Document) Settings() (Settings, error) {
	settings := DefaultSettings()
	var errs []error

	targets := map[string]any{
		SectionNightscout: &settings.Nightscout,
		SectionSupabase:   &settings.Supabase,
		SectionDisplay:    &settings.Display,
		SectionSystem:     &settings.System,
	}
	defaults := DefaultSettings()
	fallback := map[string]func(){
		SectionNightscout: func() { settings.Nightscout = defaults.Nightscout },
		SectionSupabase:   func() { settings.Supabase = defaults.Supabase },
		SectionDisplay:    func() { settings.Display = defaults.Display },
		SectionSystem:     func() { settings.System = defaults.System },
	}

	for _, name := range SectionNames() {
		if err := d.Decode(name, targets[name]); err != nil {
			fallback[name]()
			errs = append(errs, err)
		}
	}

	return settings, errors.Join(errs...)
}

package views

import (
	"bytes"
	"dashcfg/internal/models"
	_ "embed"
	"html/template"
	"io"
)

//go:embed templates/panel.html
var panelHTML string

// TimezoneOption is one entry of the display timezone picker.
type TimezoneOption struct {
	Value string
	Label string
}

var timezones = []TimezoneOption{
	{"America/Denver", "Mountain Time (Denver)"},
	{"America/New_York", "Eastern Time (New York)"},
	{"America/Chicago", "Central Time (Chicago)"},
	{"America/Los_Angeles", "Pacific Time (Los Angeles)"},
	{"America/Phoenix", "Arizona (Phoenix)"},
}

// TimezoneOptions returns the picker entries, adding current when it is not
// one of the built-in zones so a hand-edited value is not lost on save.
func TimezoneOptions(current string) []TimezoneOption {
	opts := make([]TimezoneOption, 0, len(timezones)+1)
	opts = append(opts, timezones...)
	if current == "" {
		return opts
	}
	for _, tz := range timezones {
		if tz.Value == current {
			return opts
		}
	}
	return append(opts, TimezoneOption{Value: current, Label: current})
}

// PanelData is everything the settings page shows.
type PanelData struct {
	Settings         models.Settings
	Networks         []models.Network
	CurrentWiFi      string
	HotspotActive    bool
	HotspotSSID      string
	IPAddress        string
	Hostname         string
	Version          string
	UpdatesAvailable bool
	Port             int
	Timezones        []TimezoneOption
	TimezoneName     string
	CurrentTime      string
	Message          string
	MessageType      string
}

type PanelInterface interface {
	Render(w io.Writer, data PanelData) error
}

type Panel struct {
	tmpl *template.Template
}

func NewPanel() (PanelInterface, error) {
	tmpl, err := template.New("panel").Parse(panelHTML)
	if err != nil {
		return nil, err
	}
	return &Panel{tmpl: tmpl}, nil
}

// Render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (p *Panel) Render(w io.Writer, data PanelData) error {
	var buf bytes.Buffer
	if err := p.tmpl.Execute(&buf, data); err != nil {
		return err
	}
	_, err := buf.WriteTo(w)
	return err
}

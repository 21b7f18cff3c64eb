package models

// Network is one visible WiFi network from a scan.
type Network struct {
	SSID   string `json:"ssid"`
	Signal int    `json:"signal"`
}

package services

import (
	"context"
	"dashcfg/internal/models"
)

// SimulatedSystemService stands in for the device when running off-board.
type SimulatedSystemService struct{}

func NewSimulatedSystemService() *SimulatedSystemService {
	return &SimulatedSystemService{}
}

func (s *SimulatedSystemService) ScanNetworks(_ context.Context) []models.Network {
	return []models.Network{
		{SSID: "TestNetwork1", Signal: 80},
		{SSID: "TestNetwork2", Signal: 60},
	}
}

func (s *SimulatedSystemService) CurrentNetwork(_ context.Context) string { return "TestNetwork" }

func (s *SimulatedSystemService) ConnectNetwork(_ context.Context, _, _ string) Result {
	return Result{Success: true, Message: "Simulated connection"}
}

func (s *SimulatedSystemService) HotspotActive(_ context.Context) bool { return false }

func (s *SimulatedSystemService) SetHotspot(_ context.Context, _ bool) Result {
	return Result{Success: true, Message: "Simulated hotspot toggle"}
}

func (s *SimulatedSystemService) IPAddress(_ context.Context) string { return "192.168.1.100" }

func (s *SimulatedSystemService) Hostname(_ context.Context) string { return "orangepi-dev" }

func (s *SimulatedSystemService) Version(_ context.Context) string { return "dev" }

func (s *SimulatedSystemService) UpdatesAvailable(_ context.Context) bool { return false }

func (s *SimulatedSystemService) PullUpdate(_ context.Context) Result {
	return Result{Success: true, Message: "Simulated update"}
}

func (s *SimulatedSystemService) RestartDisplay(_ context.Context) Result {
	return Result{Success: true, Message: "Simulated restart"}
}

func (s *SimulatedSystemService) Reboot(_ context.Context) Result {
	return Result{Success: true, Message: "Simulated reboot"}
}

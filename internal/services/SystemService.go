package services

import (
	"context"
	"dashcfg/internal/models"
	"dashcfg/internal/providers"
	"dashcfg/internal/structures"
	"fmt"
	"github.com/mitchellh/go-ps"
	"os"
	"sort"
	"strconv"
	"strings"
	"syscall"
)

const (
	unknownIP       = "Unknown"
	unknownVersion  = "unknown"
	defaultHostname = "orangepi"
)

// SystemServiceInterface is everything the panel asks of the device.
type SystemServiceInterface interface {
	ScanNetworks(ctx context.Context) []models.Network
	CurrentNetwork(ctx context.Context) string
	ConnectNetwork(ctx context.Context, ssid, password string) Result
	HotspotActive(ctx context.Context) bool
	SetHotspot(ctx context.Context, enable bool) Result
	IPAddress(ctx context.Context) string
	Hostname(ctx context.Context) string
	Version(ctx context.Context) string
	UpdatesAvailable(ctx context.Context) bool
	PullUpdate(ctx context.Context) Result
	RestartDisplay(ctx context.Context) Result
	Reboot(ctx context.Context) Result
}

// SystemService drives the device through nmcli, git, process signals and sudo.
type SystemService struct {
	runner CommandRunnerInterface
	logger providers.Logger
	conf   structures.SystemConfig

	listProcesses func() ([]ps.Process, error)
	signalProcess func(pid int) error
	hostname      func() (string, error)
}

func NewSystemService(conf *structures.Config, runner CommandRunnerInterface, logger providers.Logger) SystemServiceInterface {
	if conf.System.Simulate {
		logger.Infof(providers.TypeApp, "System commands are simulated")
		return NewSimulatedSystemService()
	}
	return &SystemService{
		runner:        runner,
		logger:        logger,
		conf:          conf.System,
		listProcesses: ps.Processes,
		signalProcess: terminate,
		hostname:      os.Hostname,
	}
}

func terminate(pid int) error {
	proc, err := os.FindProcess(pid)
	if err != nil {
		return err
	}
	return proc.Signal(syscall.SIGTERM)
}

func (s *SystemService) ScanNetworks(ctx context.Context) []models.Network {
	res := s.runner.Run(ctx, "nmcli", "-t", "-f", "SSID,SIGNAL", "device", "wifi", "list")
	if !res.Success {
		s.logger.Warnf(providers.TypeCommand, "WiFi scan failed: %s", strings.TrimSpace(res.Message))
		return []models.Network{}
	}
	return parseNetworks(res.Message)
}

// parseNetworks reads nmcli terse SSID:SIGNAL lines. Colons inside an SSID
// are escaped as "\:" so the signal is always after the last bare colon.
func parseNetworks(output string) []models.Network {
	strongest := make(map[string]int)
	var order []string

	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		idx := strings.LastIndex(line, ":")
		if idx < 0 {
			continue
		}
		ssid := unescapeTerse(line[:idx])
		if ssid == "" {
			continue
		}
		signal, err := strconv.Atoi(strings.TrimSpace(line[idx+1:]))
		if err != nil {
			signal = 0
		}
		prev, seen := strongest[ssid]
		if !seen {
			order = append(order, ssid)
		}
		if !seen || signal > prev {
			strongest[ssid] = signal
		}
	}

	networks := make([]models.Network, 0, len(order))
	for _, ssid := range order {
		networks = append(networks, models.Network{SSID: ssid, Signal: strongest[ssid]})
	}
	sort.SliceStable(networks, func(i, j int) bool {
		return networks[i].Signal > networks[j].Signal
	})
	return networks
}

func unescapeTerse(s string) string {
	return strings.NewReplacer(`\:`, ":", `\\`, `\`).Replace(s)
}

func (s *SystemService) CurrentNetwork(ctx context.Context) string {
	res := s.runner.Run(ctx, "nmcli", "-t", "-f", "ACTIVE,SSID", "dev", "wifi")
	if !res.Success {
		return ""
	}
	for _, line := range strings.Split(res.Message, "\n") {
		if ssid, ok := strings.CutPrefix(line, "yes:"); ok {
			return unescapeTerse(strings.TrimSpace(ssid))
		}
	}
	return ""
}

func (s *SystemService) ConnectNetwork(ctx context.Context, ssid, password string) Result {
	args := []string{"device", "wifi", "connect", ssid}
	if password != "" {
		args = append(args, "password", password)
	}
	return s.runner.Run(ctx, "nmcli", args...)
}

func (s *SystemService) HotspotActive(ctx context.Context) bool {
	res := s.runner.Run(ctx, "nmcli", "-t", "-f", "NAME,TYPE", "con", "show", "--active")
	return res.Success && strings.Contains(strings.ToLower(res.Message), "hotspot")
}

func (s *SystemService) SetHotspot(ctx context.Context, enable bool) Result {
	if !enable {
		return s.runner.Run(ctx, "nmcli", "con", "down", s.conf.HotspotConnection)
	}

	// A hotspot left over from a previous run would make the new one fail.
	s.runner.Run(ctx, "nmcli", "con", "down", s.conf.HotspotConnection)
	return s.runner.Run(ctx, "nmcli", "device", "wifi", "hotspot", "ssid", s.conf.HotspotSSID, "password", s.conf.HotspotPassword)
}

func (s *SystemService) IPAddress(ctx context.Context) string {
	res := s.runner.Run(ctx, "hostname", "-I")
	if !res.Success {
		return unknownIP
	}
	fields := strings.Fields(res.Message)
	if len(fields) == 0 {
		return unknownIP
	}
	return fields[0]
}

func (s *SystemService) Hostname(_ context.Context) string {
	name, err := s.hostname()
	if err != nil || name == "" {
		return defaultHostname
	}
	return name
}

func (s *SystemService) git(ctx context.Context, args ...string) Result {
	return s.runner.Run(ctx, "git", append([]string{"-C", s.conf.DashboardDir}, args...)...)
}

func (s *SystemService) Version(ctx context.Context) string {
	res := s.git(ctx, "rev-parse", "--short", "HEAD")
	if !res.Success {
		return unknownVersion
	}
	return strings.TrimSpace(res.Message)
}

func (s *SystemService) UpdatesAvailable(ctx context.Context) bool {
	if res := s.git(ctx, "fetch"); !res.Success {
		s.logger.Warnf(providers.TypeCommand, "git fetch failed: %s", strings.TrimSpace(res.Message))
	}
	res := s.git(ctx, "rev-list", "HEAD...origin/"+s.conf.Branch, "--count")
	if !res.Success {
		return false
	}
	count, err := strconv.Atoi(strings.TrimSpace(res.Message))
	return err == nil && count > 0
}

func (s *SystemService) PullUpdate(ctx context.Context) Result {
	return s.git(ctx, "pull")
}

// RestartDisplay terminates the kiosk browser; its supervisor starts it again.
func (s *SystemService) RestartDisplay(_ context.Context) Result {
	procs, err := s.listProcesses()
	if err != nil {
		return Result{Success: false, Message: fmt.Sprintf("list processes: %s", err)}
	}

	self := os.Getpid()
	stopped := 0
	for _, p := range procs {
		if p == nil || p.Pid() == self || !strings.Contains(p.Executable(), s.conf.KioskProcess) {
			continue
		}
		if err := s.signalProcess(p.Pid()); err != nil {
			s.logger.Warnf(providers.TypeCommand, "Cannot stop %s (pid %d): %s", p.Executable(), p.Pid(), err)
			continue
		}
		stopped++
	}
	s.logger.Infof(providers.TypeCommand, "Display restart: stopped %d %s process(es)", stopped, s.conf.KioskProcess)

	return Result{Success: true, Message: "Display restarting..."}
}

func (s *SystemService) Reboot(ctx context.Context) Result {
	return s.runner.Run(ctx, "sudo", "reboot")
}

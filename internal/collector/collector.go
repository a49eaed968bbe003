// Package collector periodically scrapes WireGuard device state and
// publishes it, joined with friendly names parsed from the config file,
// to the Prometheus registry.
package collector

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.zx2c4.com/wireguard/wgctrl"
	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"wgpeerd/internal/clock"
	"wgpeerd/internal/config"
	"wgpeerd/internal/logging"
	"wgpeerd/internal/metrics"
	"wgpeerd/internal/wgconf"
)

// Collector drives the scrape loop.
type Collector struct {
	cfg      *config.WireGuardConfig
	logger   *logging.Logger
	registry *metrics.Registry
	clk      clock.Clock

	wgClient *wgctrl.Client
	ctx      context.Context
	cancel   context.CancelFunc

	mu         sync.RWMutex
	peers      []PeerStatus
	devices    []DeviceStatus
	lastUpdate time.Time
	lastErr    string
}

// New creates a collector for the given WireGuard configuration.
func New(cfg *config.WireGuardConfig, logger *logging.Logger) *Collector {
	ctx, cancel := context.WithCancel(context.Background())
	return &Collector{
		cfg:      cfg,
		logger:   logger.WithComponent("collector"),
		registry: metrics.Get(),
		clk:      &clock.RealClock{},
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start runs an initial scrape and begins the periodic loop.
func (c *Collector) Start() error {
	if err := c.scrape(); err != nil {
		// A failed first scrape is not fatal: the device may appear
		// later. The /healthz endpoint reports staleness meanwhile.
		c.logger.Warn("Initial scrape failed", "error", err)
	}

	go c.monitorLoop()

	c.logger.Info("Collector started",
		"interface", c.cfg.Interface,
		"config_file", c.cfg.ConfigFile,
		"interval", c.cfg.Interval(),
	)
	return nil
}

// Stop terminates the scrape loop and releases the wgctrl client.
func (c *Collector) Stop() error {
	c.cancel()
	if c.wgClient != nil {
		c.wgClient.Close()
	}
	return nil
}

// Peers returns a copy of the latest merged peer snapshot.
func (c *Collector) Peers() []PeerStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]PeerStatus(nil), c.peers...)
}

// Devices returns a copy of the latest device summaries.
func (c *Collector) Devices() []DeviceStatus {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]DeviceStatus(nil), c.devices...)
}

// LastUpdate returns the time of the last successful scrape.
func (c *Collector) LastUpdate() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastUpdate
}

// LastError returns the message of the most recent scrape failure,
// empty after a successful scrape.
func (c *Collector) LastError() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastErr
}

// Healthy reports whether a scrape succeeded recently (within three
// intervals of the last successful one).
func (c *Collector) Healthy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.lastUpdate.IsZero() {
		return false
	}
	return c.clk.Since(c.lastUpdate) < 3*c.cfg.Interval()
}

func (c *Collector) monitorLoop() {
	ticker := time.NewTicker(c.cfg.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-c.ctx.Done():
			return
		case <-ticker.C:
			if err := c.scrape(); err != nil {
				c.logger.Debug("Scrape failed", "error", err)
			}
		}
	}
}

// scrape fetches device state, joins in friendly names and publishes
// the result to the registry and the cached snapshot.
func (c *Collector) scrape() error {
	start := c.clk.Now()

	names := c.loadNames()

	devices, err := c.listDevices()
	c.registry.RecordScrape(err, c.clk.Since(start).Seconds())
	if err != nil {
		c.mu.Lock()
		c.lastErr = err.Error()
		c.mu.Unlock()
		return err
	}

	var peers []PeerStatus
	summaries := make([]DeviceStatus, 0, len(devices))
	for _, d := range devices {
		peers = append(peers, peerStatuses(d, names)...)
		summaries = append(summaries, deviceStatus(d))
	}

	c.publish(summaries, peers)

	c.mu.Lock()
	c.peers = peers
	c.devices = summaries
	c.lastUpdate = c.clk.Now()
	c.lastErr = ""
	c.mu.Unlock()

	return nil
}

// loadNames reads and parses the WireGuard config file. Failures are
// counted and logged but never stop the scrape: metrics are still
// useful without names.
func (c *Collector) loadNames() wgconf.Peers {
	data, err := os.ReadFile(c.cfg.ConfigFile)
	if err != nil {
		c.registry.RecordConfigReload(err)
		c.logger.Warn("Cannot read WireGuard config", "file", c.cfg.ConfigFile, "error", err)
		return nil
	}

	names, err := wgconf.Parse(string(data))
	c.registry.RecordConfigReload(err)
	if err != nil {
		c.logger.Warn("Cannot parse WireGuard config", "file", c.cfg.ConfigFile, "error", err)
		return nil
	}
	return names
}

func (c *Collector) listDevices() ([]*wgtypes.Device, error) {
	if c.wgClient == nil {
		client, err := wgctrl.New()
		if err != nil {
			return nil, fmt.Errorf("failed to open wgctrl: %w", err)
		}
		c.wgClient = client
	}

	if c.cfg.Interface == config.InterfaceAll {
		devices, err := c.wgClient.Devices()
		if err != nil {
			return nil, fmt.Errorf("failed to list devices: %w", err)
		}
		return devices, nil
	}

	device, err := c.wgClient.Device(c.cfg.Interface)
	if err != nil {
		return nil, fmt.Errorf("failed to get device %s: %w", c.cfg.Interface, err)
	}
	return []*wgtypes.Device{device}, nil
}

// publish replaces all per-peer series with the current device state.
func (c *Collector) publish(devices []DeviceStatus, peers []PeerStatus) {
	c.registry.ResetPeerSeries()

	for _, d := range devices {
		c.registry.DevicePeers.WithLabelValues(d.Interface).Set(float64(d.PeerCount))
		c.registry.DeviceListenPort.WithLabelValues(d.Interface).Set(float64(d.ListenPort))
	}

	for _, s := range peers {
		c.registry.PeerReceiveBytes.WithLabelValues(s.Interface, s.PublicKey, s.Name).Set(float64(s.ReceiveBytes))
		c.registry.PeerTransmitBytes.WithLabelValues(s.Interface, s.PublicKey, s.Name).Set(float64(s.TransmitBytes))

		handshake := float64(0)
		if !s.LatestHandshake.IsZero() {
			handshake = float64(s.LatestHandshake.Unix())
		}
		c.registry.PeerLastHandshake.WithLabelValues(s.Interface, s.PublicKey, s.Name).Set(handshake)
	}
}

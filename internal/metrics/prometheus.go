// Package metrics defines the Prometheus registry for the exporter.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	once     sync.Once
	registry *Registry
)

// peerLabels identify one peer on one device. The friendly_name label
// is empty when the scraped config carries no name for the peer.
var peerLabels = []string{"interface", "public_key", "friendly_name"}

// Registry holds all exporter metrics.
type Registry struct {
	// Per-peer metrics
	PeerReceiveBytes  *prometheus.GaugeVec
	PeerTransmitBytes *prometheus.GaugeVec
	PeerLastHandshake *prometheus.GaugeVec

	// Per-device metrics
	DevicePeers      *prometheus.GaugeVec
	DeviceListenPort *prometheus.GaugeVec

	// Exporter metrics
	ScrapesTotal   *prometheus.CounterVec
	ScrapeDuration prometheus.Histogram
	ConfigReloads  *prometheus.CounterVec
}

// Get returns the global metrics registry, creating it if necessary.
func Get() *Registry {
	once.Do(func() {
		registry = newRegistry()
	})
	return registry
}

func newRegistry() *Registry {
	r := &Registry{}

	r.PeerReceiveBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wireguard_peer_receive_bytes_total",
		Help: "Bytes received from the peer",
	}, peerLabels)

	r.PeerTransmitBytes = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wireguard_peer_transmit_bytes_total",
		Help: "Bytes transmitted to the peer",
	}, peerLabels)

	r.PeerLastHandshake = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wireguard_peer_latest_handshake_seconds",
		Help: "Unix timestamp of the peer's latest handshake, 0 when never",
	}, peerLabels)

	r.DevicePeers = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wireguard_device_peers",
		Help: "Number of peers configured on the device",
	}, []string{"interface"})

	r.DeviceListenPort = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "wireguard_device_listen_port",
		Help: "UDP listen port of the device",
	}, []string{"interface"})

	r.ScrapesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wgpeerd_scrapes_total",
		Help: "Total device scrapes by status",
	}, []string{"status"})

	r.ScrapeDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "wgpeerd_scrape_duration_seconds",
		Help:    "Duration of device scrapes",
		Buckets: prometheus.DefBuckets,
	})

	r.ConfigReloads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "wgpeerd_config_reloads_total",
		Help: "Total reads of the WireGuard config file by status",
	}, []string{"status"})

	return r
}

// RecordScrape records the outcome and duration of one scrape pass.
func (r *Registry) RecordScrape(err error, seconds float64) {
	r.ScrapesTotal.WithLabelValues(statusLabel(err)).Inc()
	r.ScrapeDuration.Observe(seconds)
}

// RecordConfigReload records the outcome of one config file read.
func (r *Registry) RecordConfigReload(err error) {
	r.ConfigReloads.WithLabelValues(statusLabel(err)).Inc()
}

// ResetPeerSeries drops all per-peer and per-device series so peers
// removed from a device do not linger as stale series.
func (r *Registry) ResetPeerSeries() {
	r.PeerReceiveBytes.Reset()
	r.PeerTransmitBytes.Reset()
	r.PeerLastHandshake.Reset()
	r.DevicePeers.Reset()
	r.DeviceListenPort.Reset()
}

func statusLabel(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

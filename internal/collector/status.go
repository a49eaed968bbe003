package collector

import (
	"time"

	"golang.zx2c4.com/wireguard/wgctrl/wgtypes"

	"wgpeerd/internal/wgconf"
)

// PeerStatus is the merged view of one peer: live kernel state joined
// with the friendly name from the scraped config file.
type PeerStatus struct {
	Interface           string    `json:"interface"`
	PublicKey           string    `json:"public_key"`
	Name                string    `json:"name,omitempty"`
	Endpoint            string    `json:"endpoint,omitempty"`
	AllowedIPs          []string  `json:"allowed_ips"`
	LatestHandshake     time.Time `json:"latest_handshake"`
	ReceiveBytes        uint64    `json:"receive_bytes"`
	TransmitBytes       uint64    `json:"transmit_bytes"`
	PersistentKeepalive int       `json:"persistent_keepalive,omitempty"`
}

// DeviceStatus summarizes one scraped device.
type DeviceStatus struct {
	Interface  string `json:"interface"`
	PublicKey  string `json:"public_key"`
	ListenPort int    `json:"listen_port"`
	PeerCount  int    `json:"peer_count"`
}

// peerStatuses joins a device's peers with friendly names by public key.
// Peers absent from the config file keep an empty name.
func peerStatuses(d *wgtypes.Device, names wgconf.Peers) []PeerStatus {
	statuses := make([]PeerStatus, 0, len(d.Peers))
	for _, p := range d.Peers {
		key := p.PublicKey.String()

		endpoint := ""
		if p.Endpoint != nil {
			endpoint = p.Endpoint.String()
		}

		allowedIPs := make([]string, len(p.AllowedIPs))
		for i, ip := range p.AllowedIPs {
			allowedIPs[i] = ip.String()
		}

		statuses = append(statuses, PeerStatus{
			Interface:           d.Name,
			PublicKey:           key,
			Name:                names[key].Name,
			Endpoint:            endpoint,
			AllowedIPs:          allowedIPs,
			LatestHandshake:     p.LastHandshakeTime,
			ReceiveBytes:        uint64(p.ReceiveBytes),
			TransmitBytes:       uint64(p.TransmitBytes),
			PersistentKeepalive: int(p.PersistentKeepaliveInterval.Seconds()),
		})
	}
	return statuses
}

func deviceStatus(d *wgtypes.Device) DeviceStatus {
	return DeviceStatus{
		Interface:  d.Name,
		PublicKey:  d.PublicKey.String(),
		ListenPort: d.ListenPort,
		PeerCount:  len(d.Peers),
	}
}

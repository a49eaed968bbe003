package metrics

import (
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestGetSingleton(t *testing.T) {
	if Get() != Get() {
		t.Fatal("Get must return the same registry instance")
	}
}

func TestPeerSeries(t *testing.T) {
	r := Get()
	r.ResetPeerSeries()

	r.PeerReceiveBytes.WithLabelValues("wg0", "abc=", "laptop").Set(1234)
	r.PeerTransmitBytes.WithLabelValues("wg0", "abc=", "laptop").Set(5678)
	r.DevicePeers.WithLabelValues("wg0").Set(1)

	if got := testutil.ToFloat64(r.PeerReceiveBytes.WithLabelValues("wg0", "abc=", "laptop")); got != 1234 {
		t.Errorf("receive bytes = %v, want 1234", got)
	}
	if got := testutil.ToFloat64(r.PeerTransmitBytes.WithLabelValues("wg0", "abc=", "laptop")); got != 5678 {
		t.Errorf("transmit bytes = %v, want 5678", got)
	}

	r.ResetPeerSeries()
	if n := testutil.CollectAndCount(r.PeerReceiveBytes); n != 0 {
		t.Errorf("expected 0 series after reset, got %d", n)
	}
}

func TestRecordScrape(t *testing.T) {
	r := Get()

	before := testutil.ToFloat64(r.ScrapesTotal.WithLabelValues("success"))
	r.RecordScrape(nil, 0.01)
	after := testutil.ToFloat64(r.ScrapesTotal.WithLabelValues("success"))
	if after != before+1 {
		t.Errorf("success scrapes = %v, want %v", after, before+1)
	}

	beforeErr := testutil.ToFloat64(r.ScrapesTotal.WithLabelValues("error"))
	r.RecordScrape(errors.New("boom"), 0.01)
	afterErr := testutil.ToFloat64(r.ScrapesTotal.WithLabelValues("error"))
	if afterErr != beforeErr+1 {
		t.Errorf("error scrapes = %v, want %v", afterErr, beforeErr+1)
	}
}

func TestRecordConfigReload(t *testing.T) {
	r := Get()

	before := testutil.ToFloat64(r.ConfigReloads.WithLabelValues("error"))
	r.RecordConfigReload(errors.New("no such file"))
	after := testutil.ToFloat64(r.ConfigReloads.WithLabelValues("error"))
	if after != before+1 {
		t.Errorf("error reloads = %v, want %v", after, before+1)
	}
}

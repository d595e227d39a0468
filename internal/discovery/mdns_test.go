package discovery

import (
	"net"
	"strings"
	"testing"
	"time"

	"github.com/grandcat/zeroconf"

	"github.com/muurk/qrgen/internal/version"
)

func TestParseServiceEntry(t *testing.T) {
	tests := []struct {
		name     string
		entry    *zeroconf.ServiceEntry
		wantNil  bool
		wantName string
		wantIP   string
		wantPort int
	}{
		{
			name: "IPv4 instance",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "qrgen on studio"},
				HostName:      "studio.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.4.16")},
				Text:          []string{"version=v1.0.0", "path=/"},
			},
			wantName: "qrgen on studio",
			wantIP:   "192.168.4.16",
			wantPort: 8080,
		},
		{
			name: "custom port",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "kiosk"},
				HostName:      "kiosk.local.",
				Port:          9000,
				AddrIPv4:      []net.IP{net.ParseIP("10.0.0.5")},
			},
			wantName: "kiosk",
			wantIP:   "10.0.0.5",
			wantPort: 9000,
		},
		{
			name: "no port falls back to default",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "kiosk"},
				HostName:      "kiosk.local.",
				AddrIPv4:      []net.IP{net.ParseIP("172.16.0.1")},
			},
			wantName: "kiosk",
			wantIP:   "172.16.0.1",
			wantPort: DefaultPort,
		},
		{
			name: "no instance name uses hostname",
			entry: &zeroconf.ServiceEntry{
				HostName: "laptop.local.",
				Port:     8080,
				AddrIPv4: []net.IP{net.ParseIP("192.168.1.9")},
			},
			wantName: "laptop.local",
			wantIP:   "192.168.1.9",
			wantPort: 8080,
		},
		{
			name: "no IP address",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "ghost"},
				HostName:      "ghost.local.",
				Port:          8080,
			},
			wantNil: true,
		},
		{
			name: "IPv6 only",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "v6"},
				HostName:      "v6.local.",
				Port:          8080,
				AddrIPv6:      []net.IP{net.ParseIP("fe80::1")},
			},
			wantName: "v6",
			wantIP:   "fe80::1",
			wantPort: 8080,
		},
		{
			name: "prefers IPv4",
			entry: &zeroconf.ServiceEntry{
				ServiceRecord: zeroconf.ServiceRecord{Instance: "dual"},
				HostName:      "dual.local.",
				Port:          8080,
				AddrIPv4:      []net.IP{net.ParseIP("192.168.1.50")},
				AddrIPv6:      []net.IP{net.ParseIP("fe80::2")},
			},
			wantName: "dual",
			wantIP:   "192.168.1.50",
			wantPort: 8080,
		},
		{
			name:    "nil entry",
			entry:   nil,
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := parseServiceEntry(tt.entry)

			if tt.wantNil {
				if inst != nil {
					t.Errorf("parseServiceEntry() = %v, want nil", inst)
				}
				return
			}

			if inst == nil {
				t.Fatal("parseServiceEntry() = nil, want instance")
			}
			if inst.Name != tt.wantName {
				t.Errorf("inst.Name = %q, want %q", inst.Name, tt.wantName)
			}
			if inst.IP != tt.wantIP {
				t.Errorf("inst.IP = %q, want %q", inst.IP, tt.wantIP)
			}
			if inst.Port != tt.wantPort {
				t.Errorf("inst.Port = %d, want %d", inst.Port, tt.wantPort)
			}
			if time.Since(inst.DiscoveredAt) > time.Second {
				t.Errorf("inst.DiscoveredAt is not recent: %v", inst.DiscoveredAt)
			}
		})
	}
}

func TestParseServiceEntry_TXT(t *testing.T) {
	entry := &zeroconf.ServiceEntry{
		ServiceRecord: zeroconf.ServiceRecord{Instance: "qrgen on studio"},
		HostName:      "studio.local.",
		Port:          8080,
		AddrIPv4:      []net.IP{net.ParseIP("192.168.4.16")},
		Text:          []string{"version=v1.2.0", "path=/qr/", "flag"},
	}

	inst := parseServiceEntry(entry)
	if inst == nil {
		t.Fatal("parseServiceEntry() = nil, want instance")
	}

	if inst.Version != "v1.2.0" {
		t.Errorf("inst.Version = %q, want v1.2.0", inst.Version)
	}
	if inst.Path != "/qr/" {
		t.Errorf("inst.Path = %q, want /qr/", inst.Path)
	}
	if v, ok := inst.Metadata["flag"]; !ok || v != "" {
		t.Errorf("inst.Metadata[flag] = %q, %v; want empty, true", v, ok)
	}
	if got := inst.URL(); got != "http://192.168.4.16:8080/qr/" {
		t.Errorf("inst.URL() = %q", got)
	}
}

func TestInstance_URL(t *testing.T) {
	tests := []struct {
		name string
		inst Instance
		want string
	}{
		{"default path", Instance{IP: "10.0.0.1", Port: 8080}, "http://10.0.0.1:8080/"},
		{"ipv6", Instance{IP: "fe80::1", Port: 8080, Path: "/"}, "http://[fe80::1]:8080/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.inst.URL(); got != tt.want {
				t.Errorf("URL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTXTRecords(t *testing.T) {
	txt := TXTRecords("")

	want := []string{"version=" + version.Version, "path=/"}
	if len(txt) != len(want) {
		t.Fatalf("TXTRecords() = %v, want %v", txt, want)
	}
	for i := range want {
		if txt[i] != want[i] {
			t.Errorf("TXTRecords()[%d] = %q, want %q", i, txt[i], want[i])
		}
	}
}

func TestDefaultInstanceName(t *testing.T) {
	name := DefaultInstanceName()
	if !strings.HasPrefix(name, "qrgen") {
		t.Errorf("DefaultInstanceName() = %q, want qrgen prefix", name)
	}
}

func TestAdvertisement_ShutdownNil(t *testing.T) {
	var ad *Advertisement
	ad.Shutdown()

	(&Advertisement{}).Shutdown()
}

func TestNewScanner(t *testing.T) {
	scanner := NewScanner()

	if scanner == nil {
		t.Fatal("NewScanner() = nil, want scanner")
	}
	if scanner.Timeout != DefaultScanTimeout {
		t.Errorf("scanner.Timeout = %v, want %v", scanner.Timeout, DefaultScanTimeout)
	}
}

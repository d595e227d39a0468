package discovery

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/qrgen/internal/logging"
	"github.com/muurk/qrgen/internal/version"
)

const (
	// ServiceType is the mDNS service type qrgen servers register
	ServiceType = "_qrgen._tcp"

	// ServiceDomain is the mDNS domain (typically "local.")
	ServiceDomain = "local."

	// DefaultScanTimeout is the default timeout for discovery
	DefaultScanTimeout = 5 * time.Second

	// DefaultPort is assumed when an entry carries no port
	DefaultPort = 8080
)

// Advertisement is a registered mDNS service. Call Shutdown to withdraw it.
type Advertisement struct {
	Name string
	Port int

	server *zeroconf.Server
	once   sync.Once
}

// Advertise registers a qrgen server listening on port. An empty name is
// replaced by DefaultInstanceName.
func Advertise(name string, port int, path string) (*Advertisement, error) {
	if name == "" {
		name = DefaultInstanceName()
	}

	srv, err := zeroconf.Register(name, ServiceType, ServiceDomain, port, TXTRecords(path), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to register mDNS service: %w", err)
	}

	logging.Info("Advertising over mDNS",
		zap.String("name", name),
		zap.String("service", ServiceType),
		zap.Int("port", port),
	)

	return &Advertisement{Name: name, Port: port, server: srv}, nil
}

// Shutdown withdraws the advertisement. Safe to call more than once.
func (a *Advertisement) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.once.Do(func() {
		a.server.Shutdown()
		logging.Info("mDNS advertisement withdrawn", zap.String("name", a.Name))
	})
}

// TXTRecords returns the TXT record published for a server
func TXTRecords(path string) []string {
	if path == "" {
		path = "/"
	}
	return []string{
		"version=" + version.Version,
		"path=" + path,
	}
}

// DefaultInstanceName returns "qrgen on <hostname>"
func DefaultInstanceName() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		return "qrgen"
	}
	host = strings.TrimSuffix(host, ".local")
	return "qrgen on " + host
}

// Scanner handles mDNS discovery of qrgen servers
type Scanner struct {
	// Timeout is the maximum time to wait for answers
	Timeout time.Duration
}

// NewScanner creates a new mDNS scanner with default settings
func NewScanner() *Scanner {
	return &Scanner{
		Timeout: DefaultScanTimeout,
	}
}

// Scan discovers qrgen servers on the local network until the timeout
func (s *Scanner) Scan() ([]*Instance, error) {
	return s.ScanWithContext(context.Background())
}

// ScanWithContext discovers servers with a custom context. Instances are
// returned in the order they answered, each name at most once.
func (s *Scanner) ScanWithContext(ctx context.Context) ([]*Instance, error) {
	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	entries := make(chan *zeroconf.ServiceEntry)

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	var (
		mu        sync.Mutex
		instances []*Instance
		seen      = make(map[string]bool)
	)

	go func() {
		for entry := range entries {
			inst := parseServiceEntry(entry)
			if inst == nil {
				continue
			}
			mu.Lock()
			if !seen[inst.Name] {
				seen[inst.Name] = true
				instances = append(instances, inst)
			}
			mu.Unlock()
		}
	}()

	if err := resolver.Browse(ctx, ServiceType, ServiceDomain, entries); err != nil {
		return nil, fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()

	mu.Lock()
	defer mu.Unlock()
	logging.Debug("mDNS scan finished", zap.Int("instances", len(instances)))
	return append([]*Instance(nil), instances...), nil
}

// parseServiceEntry converts a zeroconf service entry to an Instance.
// Returns nil when the entry has no usable address.
func parseServiceEntry(entry *zeroconf.ServiceEntry) *Instance {
	if entry == nil {
		return nil
	}

	// Prefer IPv4
	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return nil
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := make(map[string]string)
	for _, txt := range entry.Text {
		parts := strings.SplitN(txt, "=", 2)
		if len(parts) == 2 {
			metadata[parts[0]] = parts[1]
		} else {
			metadata[parts[0]] = ""
		}
	}

	name := entry.Instance
	if name == "" {
		name = strings.TrimSuffix(entry.HostName, ".")
	}

	return &Instance{
		Name:         name,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Version:      metadata["version"],
		Path:         metadata["path"],
		Metadata:     metadata,
		DiscoveredAt: time.Now(),
	}
}

// Scan is a convenience function to scan with a custom timeout
func Scan(timeout time.Duration) ([]*Instance, error) {
	scanner := NewScanner()
	if timeout > 0 {
		scanner.Timeout = timeout
	}
	return scanner.Scan()
}

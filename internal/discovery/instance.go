package discovery

import (
	"fmt"
	"strings"
	"time"
)

// Instance is a qrgen server found on the network
type Instance struct {
	// Name is the mDNS instance name (e.g., "qrgen on studio")
	Name string

	// Hostname is the mDNS hostname (e.g., "studio.local.")
	Hostname string

	// IP is the preferred address, IPv4 when available
	IP string

	Port int

	// Version and Path come from the TXT record
	Version string
	Path    string

	// Metadata holds every TXT key, including version and path
	Metadata map[string]string

	DiscoveredAt time.Time
}

// String returns a human-readable description of the instance
func (i *Instance) String() string {
	return fmt.Sprintf("%s (%s) at %s:%d", i.Name, i.Hostname, i.IP, i.Port)
}

// URL returns the address of the form page
func (i *Instance) URL() string {
	host := i.IP
	if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	path := i.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("http://%s:%d%s", host, i.Port, path)
}

// GetMetadata retrieves a TXT value by key, or returns empty string if not found
func (i *Instance) GetMetadata(key string) string {
	if i.Metadata == nil {
		return ""
	}
	return i.Metadata[key]
}

// Package discovery advertises running qrgen servers over mDNS and finds
// them again from other machines on the same network.
//
// A server started with `qrgen serve --advertise` registers a
// "_qrgen._tcp" service in the "local." domain. The TXT record carries the
// server version and the path of the form page:
//
//	version=v1.2.0
//	path=/
//
// `qrgen scan` browses for that service type and lists every instance that
// answers before the timeout.
//
// # Usage Example
//
//	ad, err := discovery.Advertise("", 8080, "/")
//	if err != nil {
//	    return err
//	}
//	defer ad.Shutdown()
//
//	instances, err := discovery.Scan(5 * time.Second)
//	for _, inst := range instances {
//	    fmt.Println(inst.URL())
//	}
//
// # Network Requirements
//
// Multicast must be allowed on the interface and UDP port 5353 must not be
// filtered. Instances are only found on the same network segment.
package discovery

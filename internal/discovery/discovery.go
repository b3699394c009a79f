// Package discovery announces whiteboard servers on the local network over
// mDNS and finds them again.
package discovery

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_whiteboard._tcp"

// Server is a whiteboard server found on the network.
type Server struct {
	Instance string
	Addr     string
	Info     []string
}

// Advertise announces the server until Shutdown is called on the result.
func Advertise(instance string, port int, storeDriver string) (*mdns.Server, error) {
	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	if instance == "" {
		instance = host
	}

	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, txtRecords(storeDriver))
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	return server, nil
}

func txtRecords(storeDriver string) []string {
	return []string{"app=whiteboard", "store=" + storeDriver}
}

// Browse queries the network for timeout and returns every server that
// answered with an IPv4 address.
func Browse(timeout time.Duration) ([]Server, error) {
	entries := make(chan *mdns.ServiceEntry, 16)
	var found []Server
	done := make(chan struct{})
	go func() {
		defer close(done)
		seen := make(map[string]bool)
		for e := range entries {
			s, ok := fromEntry(e)
			if !ok || seen[s.Addr] {
				continue
			}
			seen[s.Addr] = true
			found = append(found, s)
		}
	}()

	params := mdns.DefaultParams(ServiceType)
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	if err != nil {
		return found, fmt.Errorf("mdns query: %w", err)
	}
	return found, nil
}

func fromEntry(e *mdns.ServiceEntry) (Server, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Server{}, false
	}
	return Server{
		Instance: e.Name,
		Addr:     net.JoinHostPort(e.AddrV4.String(), strconv.Itoa(e.Port)),
		Info:     e.InfoFields,
	}, true
}

// Package discovery advertises roughboard servers on the local network
// over mDNS and finds the ones other machines advertise.
package discovery

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/hashicorp/mdns"
)

const ServiceType = "_roughboard._tcp"

// Server is a running advertisement. Call Shutdown to withdraw it.
type Server struct {
	server *mdns.Server
}

// Advertise announces a server listening on port. An empty instance name
// uses the hostname.
func Advertise(instance string, port int) (*Server, error) {
	if instance == "" {
		host, err := os.Hostname()
		if err != nil {
			return nil, fmt.Errorf("get hostname: %w", err)
		}
		instance = host
	}

	service, err := mdns.NewMDNSService(instance, ServiceType, "", "", port, nil, []string{"roughboard"})
	if err != nil {
		return nil, fmt.Errorf("create mdns service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("start mdns server: %w", err)
	}
	return &Server{server: server}, nil
}

func (s *Server) Shutdown() error {
	return s.server.Shutdown()
}

// Peer is a discovered server.
type Peer struct {
	Instance string `json:"instance"`
	Addr     string `json:"addr"`
}

// Browse queries the network for timeout and returns every advertised
// server with an IPv4 address.
func Browse(timeout time.Duration) ([]Peer, error) {
	entries := make(chan *mdns.ServiceEntry, 8)
	var peers []Peer
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if p, ok := peerFromEntry(e); ok {
				peers = append(peers, p)
			}
		}
	}()

	err := mdns.Query(&mdns.QueryParam{
		Service:     ServiceType,
		Domain:      "local",
		Timeout:     timeout,
		Entries:     entries,
		DisableIPv6: true,
	})
	close(entries)
	<-done
	if err != nil {
		return nil, fmt.Errorf("browse %s: %w", ServiceType, err)
	}
	return peers, nil
}

func peerFromEntry(e *mdns.ServiceEntry) (Peer, bool) {
	if e == nil || e.AddrV4 == nil || e.Port == 0 {
		return Peer{}, false
	}
	instance := strings.TrimSuffix(e.Name, "."+ServiceType+".local.")
	return Peer{
		Instance: instance,
		Addr:     fmt.Sprintf("%s:%d", e.AddrV4.String(), e.Port),
	}, true
}

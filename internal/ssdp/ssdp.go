// Package ssdp implements active SSDP discovery: M-SEARCH multicast queries
// and collection of the unicast replies.
package ssdp

import (
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"golang.org/x/net/ipv4"

	"github.com/seba2390/SymMediaStreamer/internal/domain"
	"github.com/seba2390/SymMediaStreamer/internal/logger"
	"github.com/seba2390/SymMediaStreamer/internal/netutil"
)

const (
	multicastAddress = "239.255.255.250:1900"
	multicastTTL     = 2

	DefaultTimeout = 2 * time.Second
	DefaultMX      = 1

	maxDatagramSize = 65535
)

// searchDestination is swapped out by tests, which stand in a local UDP
// socket for the multicast group.
var searchDestination = multicastAddress

// DefaultSearchTargets covers the STs a MediaRenderer is expected to answer.
var DefaultSearchTargets = []string{
	"ssdp:all",
	"upnp:rootdevice",
	"urn:schemas-upnp-org:device:MediaRenderer:1",
	"urn:schemas-upnp-org:service:AVTransport:1",
}

type Options struct {
	// Timeout is the per-target listen window. Zero means DefaultTimeout.
	Timeout time.Duration
	// MX is the maximum response delay advertised in M-SEARCH. Zero means
	// DefaultMX.
	MX int
	// SearchTargets overrides DefaultSearchTargets when non-empty.
	SearchTargets []string

	Logger logger.Logger
}

// Discover sends one M-SEARCH per search target and collects replies on the
// same unicast socket. Replies are deduplicated by (location, USN) across the
// entire run, so a device answering several targets yields one record.
//
// SSDP rides on lossy UDP: per-target send/receive errors are swallowed and
// a total loss of connectivity yields an empty, non-error result. Deciding
// whether zero devices is a problem belongs to the caller.
func Discover(ctx context.Context, opts Options) ([]domain.Device, error) {
	log := logger.OrNop(opts.Logger)
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	mx := opts.MX
	if mx <= 0 {
		mx = DefaultMX
	}
	targets := opts.SearchTargets
	if len(targets) == 0 {
		targets = DefaultSearchTargets
	}

	conn, err := net.ListenUDP("udp4", &net.UDPAddr{IP: net.IPv4zero, Port: 0})
	if err != nil {
		log.Warn("ssdp socket unavailable", logger.Error(err))
		return []domain.Device{}, nil
	}
	defer conn.Close()
	configureMulticast(conn, log)

	dst, err := net.ResolveUDPAddr("udp4", searchDestination)
	if err != nil {
		return []domain.Device{}, nil
	}

	var (
		devices []domain.Device
		seen    = map[[2]string]struct{}{}
		buf     = make([]byte, maxDatagramSize)
	)

	for _, target := range targets {
		if ctx.Err() != nil {
			break
		}

		if _, err := conn.WriteToUDP(buildSearch(target, mx), dst); err != nil {
			log.Debug("ssdp send failed",
				logger.String("target", target), logger.Error(err))
			continue
		}

		deadline := time.Now().Add(timeout)
		if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
			deadline = ctxDeadline
		}
		_ = conn.SetReadDeadline(deadline)

		for {
			n, _, err := conn.ReadFromUDP(buf)
			if err != nil {
				// timeout or transient receive error ends this target's window
				break
			}
			dev, ok := parseResponse(buf[:n], target)
			if !ok {
				continue
			}
			key := [2]string{dev.Location, dev.USN}
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			devices = append(devices, dev)
			log.Debug("ssdp reply",
				logger.String("location", dev.Location),
				logger.String("usn", dev.USN))
		}
	}

	if devices == nil {
		devices = []domain.Device{}
	}
	return devices, nil
}

// configureMulticast pins multicast egress to the outbound interface and sets
// a small TTL. Everything here is best-effort; a plain socket still works on
// most single-homed hosts.
func configureMulticast(conn *net.UDPConn, log logger.Logger) {
	pc := ipv4.NewPacketConn(conn)
	if err := pc.SetMulticastTTL(multicastTTL); err != nil {
		log.Debug("ssdp multicast ttl", logger.Error(err))
	}
	if iface := netutil.InterfaceForIP(netutil.OutboundIP()); iface != nil {
		if err := pc.SetMulticastInterface(iface); err != nil {
			log.Debug("ssdp multicast interface", logger.Error(err))
		}
	}
}

func buildSearch(target string, mx int) []byte {
	return []byte("M-SEARCH * HTTP/1.1\r\n" +
		"HOST: " + multicastAddress + "\r\n" +
		"MAN: \"ssdp:discover\"\r\n" +
		"MX: " + fmt.Sprint(mx) + "\r\n" +
		"ST: " + target + "\r\n" +
		"\r\n")
}

// parseResponse reads a reply datagram as an HTTP-response-style header
// block: the status line is ignored and header names are case-insensitive.
// Replies without a LOCATION header are rejected.
func parseResponse(data []byte, requestedTarget string) (domain.Device, bool) {
	headers := parseHeaders(data)

	location := headers["location"]
	if location == "" {
		return domain.Device{}, false
	}
	st := headers["st"]
	if st == "" {
		st = requestedTarget
	}
	return domain.Device{
		Location:     location,
		SearchTarget: st,
		USN:          headers["usn"],
		Server:       headers["server"],
	}, true
}

func parseHeaders(data []byte) map[string]string {
	lines := strings.Split(string(data), "\r\n")
	headers := make(map[string]string, len(lines))
	for _, line := range lines[1:] {
		name, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		headers[strings.ToLower(strings.TrimSpace(name))] = strings.TrimSpace(value)
	}
	return headers
}

// Package netutil answers the one networking question the rest of the code
// keeps asking: which local address can a renderer on the LAN reach us at.
package netutil

import "net"

// probeAddress is any routable address; the UDP "connection" below never
// sends a datagram, it only forces the kernel to pick an outbound interface.
const probeAddress = "8.8.8.8:80"

// OutboundIP returns the IPv4 address of the interface the OS would use for
// outbound traffic, or "127.0.0.1" when no route is available.
func OutboundIP() string {
	conn, err := net.Dial("udp4", probeAddress)
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil {
		return "127.0.0.1"
	}
	return addr.IP.String()
}

// InterfaceForIP finds the interface owning the given IPv4 address. Used to
// pin multicast egress to the interface discovery replies will arrive on.
func InterfaceForIP(ip string) *net.Interface {
	target := net.ParseIP(ip)
	if target == nil {
		return nil
	}
	ifaces, err := net.Interfaces()
	if err != nil {
		return nil
	}
	for i := range ifaces {
		addrs, err := ifaces[i].Addrs()
		if err != nil {
			continue
		}
		for _, a := range addrs {
			if ipn, ok := a.(*net.IPNet); ok && ipn.IP.Equal(target) {
				return &ifaces[i]
			}
		}
	}
	return nil
}

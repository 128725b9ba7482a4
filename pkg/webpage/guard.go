package webpage

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

var ErrBlockedAddress = errors.New("address is not publicly routable")

// carrierNAT is the shared address space of RFC 6598, which net.IP does not
// classify as private.
var carrierNAT = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

// publicOnly is a net.Dialer Control hook. It runs after DNS resolution and
// on every redirect hop, so it sees the address actually dialled.
func publicOnly(_, address string, _ syscall.RawConn) error {
	host, _, err := net.SplitHostPort(address)
	if err != nil {
		return err
	}
	ip := net.ParseIP(host)
	if ip == nil || isBlockedIP(ip) {
		return fmt.Errorf("%w: %s", ErrBlockedAddress, address)
	}
	return nil
}

func isBlockedIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		ip.IsUnspecified() ||
		carrierNAT.Contains(ip)
}

package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"ootp-toolkit/internal/constants"

	"github.com/valyala/fasthttp"
)

// ErrBlockedAddress is returned when a fetch host resolves to an address
// that is not publicly routable.
var ErrBlockedAddress = errors.New("address is not publicly routable")

// sharedAddressSpace is the carrier-grade NAT range (RFC 6598), which
// net.IP.IsPrivate does not cover.
var sharedAddressSpace = &net.IPNet{IP: net.IPv4(100, 64, 0, 0), Mask: net.CIDRMask(10, 32)}

func blockedIP(ip net.IP) bool {
	return ip.IsLoopback() ||
		ip.IsPrivate() ||
		ip.IsUnspecified() ||
		ip.IsLinkLocalUnicast() ||
		ip.IsLinkLocalMulticast() ||
		ip.IsInterfaceLocalMulticast() ||
		ip.IsMulticast() ||
		sharedAddressSpace.Contains(ip)
}

// publicDial resolves the host of addr and dials it only when every address
// it resolves to is publicly routable. The connection goes to the vetted IP,
// so a second lookup cannot swap in an internal address.
func publicDial(addr string) (net.Conn, error) {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return nil, fmt.Errorf("failed to split address %q: %w", addr, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.ExternalAPITimeout)
	defer cancel()
	ips, err := net.DefaultResolver.LookupIPAddr(ctx, host)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", host, err)
	}
	if len(ips) == 0 {
		return nil, fmt.Errorf("failed to resolve %s: no addresses", host)
	}
	for _, ip := range ips {
		if blockedIP(ip.IP) {
			return nil, fmt.Errorf("%w: %s resolves to %s", ErrBlockedAddress, host, ip.IP)
		}
	}

	return fasthttp.DialTimeout(net.JoinHostPort(ips[0].IP.String(), port), constants.ExternalAPITimeout)
}

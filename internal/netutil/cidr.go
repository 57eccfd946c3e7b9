// Package netutil expands CIDR ranges into scan targets.
package netutil

import (
	"fmt"
	"net/netip"
	"strings"
)

// ExpandTargets takes a CIDR range (or a single IP) and a
// comma-separated port list, and returns one base URL per host:port
// combination. Network and broadcast addresses are skipped for IPv4
// prefixes wider than /31.
func ExpandTargets(cidr, portsStr, scheme string) ([]string, error) {
	prefix, err := parsePrefix(cidr)
	if err != nil {
		return nil, err
	}

	ports := parsePorts(portsStr)
	if len(ports) == 0 {
		if scheme == "https" {
			ports = []string{"443"}
		} else {
			ports = []string{"80"}
		}
	}

	var urls []string
	skipEdges := prefix.Addr().Is4() && prefix.Bits() < 31

	for addr := prefix.Masked().Addr(); prefix.Contains(addr); addr = addr.Next() {
		if skipEdges && (addr == prefix.Masked().Addr() || !prefix.Contains(addr.Next())) {
			continue
		}
		for _, port := range ports {
			urls = append(urls, formatTarget(scheme, addr, port))
		}
	}

	return urls, nil
}

func parsePrefix(cidr string) (netip.Prefix, error) {
	if prefix, err := netip.ParsePrefix(cidr); err == nil {
		return prefix, nil
	}
	// A bare IP is treated as a single-host prefix.
	addr, err := netip.ParseAddr(cidr)
	if err != nil {
		return netip.Prefix{}, fmt.Errorf("invalid CIDR or IP: %q", cidr)
	}
	return netip.PrefixFrom(addr, addr.BitLen()), nil
}

func formatTarget(scheme string, addr netip.Addr, port string) string {
	host := addr.String()
	if addr.Is6() {
		host = "[" + host + "]"
	}
	// Default ports stay implicit so targets read cleanly.
	if (scheme == "http" && port == "80") || (scheme == "https" && port == "443") {
		return fmt.Sprintf("%s://%s", scheme, host)
	}
	return fmt.Sprintf("%s://%s:%s", scheme, host, port)
}

func parsePorts(s string) []string {
	if s == "" {
		return nil
	}
	var ports []string
	for _, p := range strings.Split(s, ",") {
		p = strings.TrimSpace(p)
		if p != "" {
			ports = append(ports, p)
		}
	}
	return ports
}

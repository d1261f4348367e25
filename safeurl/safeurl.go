// Package safeurl guards the boundaries where readpipe touches the outside
// world: URL validation before a fetch (scheme and SSRF checks), file-name
// validation before a store write (path traversal), and bounded body reads.
package safeurl

import (
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"path/filepath"
	"strings"
)

// MaxBody is the default cap for remote body reads (20 MiB). PDF downloads
// regularly exceed the 1 MiB typical of HTML pages, so the cap is generous.
const MaxBody int64 = 20 << 20

// ErrTraversal is returned when a user-supplied name escapes its base directory.
var ErrTraversal = errors.New("safeurl: path traversal detected")

// ErrPrivateAddress is returned when a URL targets a private or loopback address.
var ErrPrivateAddress = errors.New("safeurl: URL targets a private or loopback address")

// ErrScheme is returned when a URL uses a non-HTTP(S) scheme.
var ErrScheme = errors.New("safeurl: only http and https schemes are allowed")

// Validate checks that rawURL uses http/https, has a hostname, and does not
// resolve to a private or loopback IP. DNS resolution is performed to catch
// internal hostnames pointing at private ranges.
func Validate(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("safeurl: invalid URL: %w", err)
	}
	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return ErrScheme
	}
	host := u.Hostname()
	if host == "" {
		return fmt.Errorf("safeurl: URL has no host")
	}

	if ip := net.ParseIP(host); ip != nil {
		if isPrivateIP(ip) {
			return ErrPrivateAddress
		}
		return nil
	}

	addrs, err := net.LookupHost(host)
	if err != nil {
		// DNS failure: let the fetch surface the network error instead.
		return nil
	}
	for _, a := range addrs {
		if ip := net.ParseIP(a); ip != nil && isPrivateIP(ip) {
			return ErrPrivateAddress
		}
	}
	return nil
}

// Join validates that joining base and name does not escape base.
// Returns the cleaned path or ErrTraversal.
func Join(base, name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrTraversal
	}
	cleaned := filepath.Join(base, filepath.Clean("/"+name))
	root := filepath.Clean(base)
	if cleaned != root && !strings.HasPrefix(cleaned, root+string(filepath.Separator)) {
		return "", ErrTraversal
	}
	return cleaned, nil
}

// ReadAllLimited reads at most maxBytes from r and errors beyond the limit,
// so a hostile server cannot exhaust memory with an unbounded body.
func ReadAllLimited(r io.Reader, maxBytes int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > maxBytes {
		return nil, fmt.Errorf("safeurl: body exceeds %d bytes", maxBytes)
	}
	return data, nil
}

func isPrivateIP(ip net.IP) bool {
	if ip.IsLoopback() || ip.IsLinkLocalUnicast() || ip.IsLinkLocalMulticast() {
		return true
	}
	for _, block := range []string{
		"10.0.0.0/8",
		"172.16.0.0/12",
		"192.168.0.0/16",
		"169.254.0.0/16",
		"fc00::/7",
		"::1/128",
	} {
		_, cidr, err := net.ParseCIDR(block)
		if err != nil {
			continue
		}
		if cidr.Contains(ip) {
			return true
		}
	}
	return false
}

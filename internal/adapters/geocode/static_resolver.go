package geocode

import (
	"context"
	"strings"
)

// StaticResolver resolves postal codes from a fixed address table.
// Useful as a fixture where no geocoder is reachable.
type StaticResolver struct {
	m map[string]string
}

func NewStaticResolver(codes map[string]string) *StaticResolver {
	m := make(map[string]string, len(codes))
	for addr, code := range codes {
		m[normalize(addr)] = strings.TrimSpace(code)
	}
	return &StaticResolver{m: m}
}

func (s *StaticResolver) ResolvePostalCodes(ctx context.Context, addresses []string) (map[string]string, error) {
	out := make(map[string]string, len(addresses))
	for _, a := range addresses {
		if code, ok := s.m[normalize(a)]; ok && code != "" {
			out[a] = code
		}
	}
	return out, nil
}

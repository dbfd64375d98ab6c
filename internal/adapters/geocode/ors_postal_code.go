package geocode

import (
	"bouquet-tour-service/internal/adapters/cache"
	"bouquet-tour-service/internal/platform/obs"
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// ORSPostalCodeResolver implements ports.PostalCodeResolver using the
// OpenRouteService geocoding endpoint, with a persistent SQL cache in front.
// It is safe for concurrent use.
type ORSPostalCodeResolver struct {
	session *http.Client
	apiKey  string
	baseURL string
	country string
	backoff time.Duration
	cache   *cache.SQLPostalCodeCache
}

type Option func(*ORSPostalCodeResolver)

// WithBaseURL points the resolver at another ORS deployment (or a test server).
func WithBaseURL(u string) Option {
	return func(o *ORSPostalCodeResolver) { o.baseURL = strings.TrimRight(u, "/") }
}

func WithBackoff(d time.Duration) Option {
	return func(o *ORSPostalCodeResolver) { o.backoff = d }
}

func NewORSPostalCodeResolver(
	apiKey string,
	postalCache *cache.SQLPostalCodeCache,
	opts ...Option,
) (*ORSPostalCodeResolver, error) {
	if apiKey == "" {
		return nil, errors.New("ORS api key is empty")
	}

	r := &ORSPostalCodeResolver{
		session: &http.Client{Timeout: 10 * time.Second},
		apiKey:  apiKey,
		baseURL: "https://api.openrouteservice.org",
		country: "FR",
		backoff: 200 * time.Millisecond,
		cache:   postalCache,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r, nil
}

// normalize ensures consistent cache keys by collapsing whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// ResolvePostalCodes looks addresses up in the cache, then geocodes the misses
// one by one. Addresses the geocoder cannot place are left out of the result.
// Keys of the result are the addresses as given by the caller.
//
// Lookup failures do not discard what was resolved: the result always holds
// the cache hits and fresh codes, and the error joins one LookupError per
// failed address. A throttled or unauthorized lookup ends the batch early.
func (o *ORSPostalCodeResolver) ResolvePostalCodes(
	ctx context.Context,
	addresses []string,
) (_ map[string]string, err error) {
	defer obs.Time(ctx, "ors.ResolvePostalCodes")(&err)
	logger := zerolog.Ctx(ctx)

	byNorm := make(map[string][]string, len(addresses))
	norms := make([]string, 0, len(addresses))
	for _, a := range addresses {
		n := normalize(a)
		if n == "" {
			continue
		}
		if _, ok := byNorm[n]; !ok {
			norms = append(norms, n)
		}
		byNorm[n] = append(byNorm[n], a)
	}

	out := make(map[string]string, len(addresses))
	if len(norms) == 0 {
		return out, nil
	}

	hits := map[string]string{}
	// Check persistent cache before issuing external API calls.
	if o.cache != nil {
		cached, err := o.cache.GetMany(ctx, norms)
		if err != nil {
			logger.Warn().Err(err).Msg("postal code cache read failed")
		} else {
			hits = cached
		}
	}

	misses := make([]string, 0, len(norms))
	for _, n := range norms {
		if _, ok := hits[n]; !ok {
			misses = append(misses, n)
		}
	}

	fresh := make(map[string]string, len(misses))
	var failures []error
	for i, n := range misses {
		code, err := o.lookup(ctx, n)
		if err != nil {
			failures = append(failures, err)
			if stopsBatch(err) {
				logger.Warn().Err(err).Int("skipped", len(misses)-i-1).Msg("geocoding stopped")
				break
			}
			continue
		}
		if code != "" {
			fresh[n] = code
		}
	}

	if o.cache != nil && len(fresh) > 0 {
		if err := o.cache.PutMany(ctx, fresh); err != nil {
			logger.Warn().Err(err).Msg("postal code cache write failed")
		}
	}

	for n, originals := range byNorm {
		code, ok := hits[n]
		if !ok {
			code, ok = fresh[n]
		}
		if !ok {
			continue
		}
		for _, a := range originals {
			out[a] = code
		}
	}

	return out, errors.Join(failures...)
}

// Package probe implements reachability and latency checks against upstream
// sites, reusing the search fan-out discipline but joining on all results
// instead of streaming them.
package probe

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/spf13/viper"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/key"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/network"
	"github.com/vodhound/vodhound/site"
)

// ErrTimeout marks a probe that ran into the site's configured deadline.
var ErrTimeout = errors.New("timeout")

// Result is the outcome of probing one site.
type Result struct {
	SiteID       string
	Name         string
	OK           bool
	Elapsed      time.Duration
	ResponseSize int
	Keyword      string
	Err          error
}

// Report aggregates a full probe sweep.
type Report struct {
	Total     int
	Succeeded int
	Failed    int
	Results   []Result
}

// keyword picks a random probe keyword so upstreams cannot fingerprint the
// checks by a fixed query.
func keyword() string {
	keywords := viper.GetStringSlice(key.ProbeKeywords)
	if len(keywords) == 0 {
		return "电影"
	}

	return keywords[rand.Intn(len(keywords))]
}

// One sends a single real search request to the site and validates that the
// answer looks like a live collection API rather than a block page. A timed
// out probe reports ErrTimeout with the elapsed time capped at the site's
// configured deadline; it never aborts a surrounding sweep.
func One(ctx context.Context, s *site.Site) Result {
	result := Result{
		SiteID:  s.ID,
		Name:    s.Name,
		Keyword: keyword(),
	}

	target, err := probeURL(s, result.Keyword)
	if err != nil {
		result.Err = err
		return result
	}

	deadline := s.Duration()
	callCtx, cancel := context.WithTimeout(ctx, deadline)
	defer cancel()

	req, err := http.NewRequestWithContext(callCtx, http.MethodGet, target, nil)
	if err != nil {
		result.Err = err
		return result
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)

	started := time.Now()
	resp, err := network.Client.Do(req)
	result.Elapsed = time.Since(started)

	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			result.Elapsed = deadline
			result.Err = fmt.Errorf("%w after %s", ErrTimeout, deadline)
		} else {
			result.Err = err
		}

		log.WithFields("probe failed", log.Fields{"site": s.ID, "err": result.Err})
		return result
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		result.Err = err
		return result
	}

	result.ResponseSize = len(body)

	if resp.StatusCode != http.StatusOK {
		result.Err = fmt.Errorf("status %d", resp.StatusCode)
		return result
	}

	if err = validate(body); err != nil {
		result.Err = err
		return result
	}

	result.OK = true
	return result
}

// probeURL builds the test request. Unlike search, probes send no page
// parameter; the first page is all the check needs.
func probeURL(s *site.Site, keyword string) (string, error) {
	u, err := url.Parse(s.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url for %s: %w", s.ID, err)
	}

	q := u.Query()
	q.Set(s.ActionParam, "detail")
	q.Set(s.SearchParam, keyword)
	u.RawQuery = q.Encode()

	return u.String(), nil
}

// All probes every given site concurrently and waits for all of them. The
// result order matches the input order.
func All(ctx context.Context, sites []*site.Site) Report {
	results := make([]Result, len(sites))

	var wg sync.WaitGroup
	for i, s := range sites {
		wg.Add(1)

		go func(i int, s *site.Site) {
			defer wg.Done()
			results[i] = One(ctx, s)
		}(i, s)
	}

	wg.Wait()

	report := Report{Total: len(sites), Results: results}
	for _, result := range results {
		if result.OK {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	return report
}

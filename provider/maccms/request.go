package maccms

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/vodhound/vodhound/auth"
	"github.com/vodhound/vodhound/constant"
	"github.com/vodhound/vodhound/log"
	"github.com/vodhound/vodhound/network"
	"github.com/vodhound/vodhound/util"
)

// ErrNotJSON marks an upstream that answered with something other than the
// protocol's JSON envelope, typically an HTML block page.
var ErrNotJSON = errors.New("upstream returned a non-JSON response")

// buildURL assembles the search request using the site's configured
// parameter names. A keyring token, when present, rides along as a query
// parameter since collection APIs authenticate paid tiers that way.
func (m *Source) buildURL(keyword string, page int) (string, error) {
	u, err := url.Parse(m.site.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid base url for %s: %w", m.site.ID, err)
	}

	q := u.Query()
	q.Set(m.site.ActionParam, "detail")
	q.Set(m.site.SearchParam, keyword)
	q.Set(m.site.PageParam, strconv.Itoa(page))

	if token, err := auth.GetToken(m.site.ID); err == nil && token != "" {
		q.Set("token", token)
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (m *Source) fetch(ctx context.Context, keyword string, page int) (*envelope, error) {
	target, err := m.buildURL(keyword, page)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, err
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", constant.UserAgent)

	log.WithFields("requesting upstream page", log.Fields{"site": m.site.ID, "page": page})

	resp, err := network.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s answered with status %d", m.site.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	env, err := decodeEnvelope(body)
	if err != nil {
		if looksLikeHTML(body) {
			return nil, fmt.Errorf("%w: %s served an HTML page instead of the API envelope", ErrNotJSON, m.site.Name)
		}

		return nil, fmt.Errorf("%w: %s", ErrNotJSON, err)
	}

	return env, nil
}

func looksLikeHTML(body []byte) bool {
	head := strings.ToLower(strings.TrimSpace(string(body[:util.Min(len(body), 256)])))
	return strings.HasPrefix(head, "<!doctype") || strings.HasPrefix(head, "<html")
}

// Package auth provides a high-level API for persisting and retrieving per-site API tokens from the system keyring.
//
// Some VOD collection APIs hand out access tokens for their paid tiers; tokens never
// belong in the sites registry file, so they live in the operating system keyring keyed
// by site id.
package auth

import (
	"github.com/zalando/go-keyring"
)

const service = "vodhound"

// SetToken persists the API token for the given site id to the system keyring.
func SetToken(siteID, token string) error {
	return keyring.Set(service, siteID, token)
}

// GetToken retrieves the API token for the given site id. A missing entry returns keyring.ErrNotFound.
func GetToken(siteID string) (string, error) {
	return keyring.Get(service, siteID)
}

// DeleteToken removes the API token for the given site id from the system keyring.
func DeleteToken(siteID string) error {
	return keyring.Delete(service, siteID)
}

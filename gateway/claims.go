package gateway

import (
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Claim names carried in issued tokens. Clearance, compartments and
// organization come from identity-provider attribute mappers, which emit
// them either as a plain string or as a single-element list depending on
// mapper type. stringClaim normalizes both shapes.
const (
	claimUsername     = "preferred_username"
	claimOrganization = "organization"
	claimClearance    = "clearance_level"
	claimCompartments = "compartments"
	claimCells        = "cells"
	claimRealmAccess  = "realm_access"
)

// stringClaim reads a claim that may be a string or a single-element
// list of strings. Missing, empty or unexpectedly typed values yield the
// default.
func stringClaim(claims jwt.MapClaims, name, def string) string {
	v, ok := claims[name]
	if !ok {
		return def
	}
	switch t := v.(type) {
	case string:
		if t == "" {
			return def
		}
		return t
	case []interface{}:
		if len(t) == 0 {
			return def
		}
		if s, ok := t[0].(string); ok && s != "" {
			return s
		}
		return def
	default:
		return def
	}
}

// listClaim reads a claim that may be a comma-delimited string, a plain
// string, or a list of strings. Entries are trimmed and empties dropped.
// The second return value is false when the claim is present but has a
// shape outside those three.
func listClaim(claims jwt.MapClaims, name string) ([]string, bool) {
	v, ok := claims[name]
	if !ok {
		return nil, true
	}
	switch t := v.(type) {
	case string:
		return splitTrim(t), true
	case []interface{}:
		var out []string
		for _, item := range t {
			if s, ok := item.(string); ok {
				out = append(out, splitTrim(s)...)
			}
		}
		return out, true
	default:
		return nil, false
	}
}

func splitTrim(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// realmRoles extracts realm_access.roles. The issuer mixes application
// roles with its own internal roles (default-roles-*, uma_authorization),
// so callers intersect the result with the application vocabulary.
func realmRoles(claims jwt.MapClaims) []string {
	ra, ok := claims[claimRealmAccess].(map[string]interface{})
	if !ok {
		return nil
	}
	raw, ok := ra["roles"].([]interface{})
	if !ok {
		return nil
	}
	roles := make([]string, 0, len(raw))
	for _, r := range raw {
		if s, ok := r.(string); ok {
			roles = append(roles, s)
		}
	}
	return roles
}

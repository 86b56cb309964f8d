// Package gateway validates signed bearer tokens and turns their claims
// into a policy.Principal. It is the only place credentials are parsed;
// everything past it works with the typed principal.
package gateway

import (
	"context"
	"crypto/rsa"
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skubra/cleargate/classification"
	apperrors "github.com/skubra/cleargate/errors"
	"github.com/skubra/cleargate/logger"
	"github.com/skubra/cleargate/policy"
	"github.com/skubra/cleargate/util"
)

// KeySource resolves a verification key by key id. Implemented by
// keyset.Cache.
type KeySource interface {
	Key(ctx context.Context, kid string) (*rsa.PublicKey, error)
}

// Config configures a Gateway.
type Config struct {
	// Algorithm is the only accepted signing algorithm. Empty means RS256.
	Algorithm string

	// Issuer, when set, is required to match the token's iss claim.
	// Off by default: federated tokens may carry the upstream issuer.
	Issuer string

	// Audience, when set, is required to appear in the token's aud claim.
	// Off by default: the issuer does not stamp aud consistently.
	Audience string

	// Roles is the application role vocabulary. Token roles outside it
	// are dropped. Empty means policy.DefaultRoleVocabulary.
	Roles []string

	// CompartmentCells derives cell membership from compartments when the
	// token carries no cells claim.
	CompartmentCells map[string][]string

	// Now overrides the clock used for expiry checks, for tests.
	Now func() time.Time
}

// Gateway validates tokens against a key source.
type Gateway struct {
	keys KeySource
	cfg  Config
	log  *logger.Logger
}

// New creates a Gateway.
func New(keys KeySource, cfg Config, log *logger.Logger) *Gateway {
	if cfg.Algorithm == "" {
		cfg.Algorithm = "RS256"
	}
	if len(cfg.Roles) == 0 {
		cfg.Roles = policy.DefaultRoleVocabulary
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Gateway{keys: keys, cfg: cfg, log: log.WithComponent("gateway")}
}

// Validate verifies the raw token's signature and time claims and builds
// the principal from its payload. Every failure maps to a typed error:
// TOKEN_EXPIRED, INVALID_SIGNATURE, UNKNOWN_KEY_ID, KEYSET_UNAVAILABLE or
// MALFORMED_CLAIMS.
func (g *Gateway) Validate(ctx context.Context, raw string) (policy.Principal, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.NewParser(g.parserOptions()...).ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, apperrors.MalformedClaims("kid", "token carries no key id")
		}
		return g.keys.Key(ctx, kid)
	})
	if err != nil {
		return policy.Principal{}, g.mapError(err)
	}

	p, err := g.principal(claims)
	if err != nil {
		return policy.Principal{}, err
	}
	g.log.Debug("token validated", logger.Fields(
		logger.FieldUsername, p.Username,
		logger.FieldOrganization, p.Organization,
		logger.FieldClearance, string(p.Clearance),
	))
	return p, nil
}

func (g *Gateway) parserOptions() []jwt.ParserOption {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{g.cfg.Algorithm}),
	}
	if g.cfg.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(g.cfg.Issuer))
	}
	if g.cfg.Audience != "" {
		opts = append(opts, jwt.WithAudience(g.cfg.Audience))
	}
	if g.cfg.Now != nil {
		opts = append(opts, jwt.WithTimeFunc(g.cfg.Now))
	}
	return opts
}

// mapError translates parse failures into the typed taxonomy. Typed
// errors from the key source (unknown kid, key set outage) pass through
// unchanged.
func (g *Gateway) mapError(err error) error {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return apperrors.TokenExpired()
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return apperrors.InvalidSignature()
	case errors.Is(err, jwt.ErrTokenMalformed):
		return apperrors.MalformedClaims("token", "not a well-formed signed token")
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return apperrors.MalformedClaims("iss", "issuer mismatch")
	case errors.Is(err, jwt.ErrTokenInvalidAudience):
		return apperrors.MalformedClaims("aud", "audience mismatch")
	default:
		return apperrors.InvalidSignature().WithCause(err)
	}
}

// principal maps validated claims onto the policy subject. A subject
// identity is required; absent security attributes degrade to the
// least-privileged value, so a token with no clearance claim yields an
// UNCLASSIFIED subject rather than a partially-populated one.
func (g *Gateway) principal(claims jwt.MapClaims) (policy.Principal, error) {
	username := stringClaim(claims, claimUsername, "")
	if username == "" {
		username = stringClaim(claims, "sub", "")
	}
	if username == "" {
		return policy.Principal{}, apperrors.MalformedClaims(claimUsername, "token identifies no subject")
	}

	clearanceRaw := stringClaim(claims, claimClearance, string(classification.Unclassified))
	clearance, known := classification.Parse(clearanceRaw)
	if !known {
		g.log.Warn("unrecognized clearance claim", logger.Fields(
			logger.FieldUsername, username,
			logger.FieldClearance, clearanceRaw,
		))
	}

	compartments, ok := listClaim(claims, claimCompartments)
	if !ok {
		// Fail closed: the subject gets no compartments, not an error.
		g.log.Warn("unparseable compartments claim, treating as empty", logger.Fields(
			logger.FieldUsername, username,
			logger.FieldReason, string(apperrors.ErrCodeMalformedCompartments),
		))
	}

	cells, _ := listClaim(claims, claimCells)
	if len(cells) == 0 {
		cells = g.derivedCells(compartments)
	}

	return policy.Principal{
		Username:     username,
		Organization: stringClaim(claims, claimOrganization, "Unknown"),
		Clearance:    clearance,
		Cells:        util.NewSet(cells...),
		Compartments: util.NewSet(compartments...),
		Roles:        policy.IntersectVocabulary(realmRoles(claims), g.cfg.Roles),
	}, nil
}

func (g *Gateway) derivedCells(compartments []string) []string {
	var out []string
	for _, c := range compartments {
		out = append(out, g.cfg.CompartmentCells[c]...)
	}
	return util.Unique(out)
}

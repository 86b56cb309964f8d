// Package config loads and validates service configuration from YAML
// files and environment variables.
package config

import (
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"

	apperrors "github.com/skubra/cleargate/errors"
	"github.com/skubra/cleargate/logger"
	"github.com/skubra/cleargate/policy"
)

// Config is the full configuration of the decision service.
type Config struct {
	Base     BaseConfig     `yaml:"base" mapstructure:"base"`
	Logging  logger.Config  `yaml:"logging" mapstructure:"logging"`
	Keycloak KeycloakConfig `yaml:"keycloak" mapstructure:"keycloak"`
	Policy   PolicyConfig   `yaml:"policy" mapstructure:"policy"`
}

// BaseConfig contains the fields every deployment needs.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// KeycloakConfig points the gateway at the token issuer.
type KeycloakConfig struct {
	// JWKSURL is the issuer's published key set endpoint.
	JWKSURL string `yaml:"jwks_url" mapstructure:"jwks_url" validate:"required,url"`

	// Algorithm is the accepted token signing algorithm.
	Algorithm string `yaml:"algorithm" mapstructure:"algorithm" validate:"oneof=RS256 RS384 RS512"`

	// Issuer and Audience opt in to the corresponding token checks.
	// Both are off by default; federated tokens carry foreign issuers
	// and the issuer does not stamp aud consistently.
	Issuer   string `yaml:"issuer" mapstructure:"issuer"`
	Audience string `yaml:"audience" mapstructure:"audience"`

	// CacheTTL bounds the freshness of the verification key snapshot.
	CacheTTL time.Duration `yaml:"cache_ttl" mapstructure:"cache_ttl"`

	// StaleGrace extends an expired snapshot when the issuer is down.
	StaleGrace time.Duration `yaml:"stale_grace" mapstructure:"stale_grace"`
}

// PolicyConfig selects the active gate layers and the role vocabulary.
type PolicyConfig struct {
	// Mode names the active layer set: rbac, cell or ntk.
	Mode string `yaml:"mode" mapstructure:"mode" validate:"oneof=rbac cell ntk"`

	// Roles is the application role vocabulary. Token roles outside it
	// are ignored.
	Roles []string `yaml:"roles" mapstructure:"roles"`

	// CompartmentCells derives cell membership from compartments for
	// tokens that carry no cells claim.
	CompartmentCells map[string][]string `yaml:"compartment_cells" mapstructure:"compartment_cells"`
}

// ApplyDefaults fills unset fields with their defaults.
func (c *Config) ApplyDefaults() {
	if c.Base.Environment == "" {
		c.Base.Environment = "development"
	}
	if c.Base.Environment == "development" {
		c.Base.Debug = true
	}
	c.Logging.ApplyDefaults()
	if c.Keycloak.Algorithm == "" {
		c.Keycloak.Algorithm = "RS256"
	}
	if c.Keycloak.CacheTTL <= 0 {
		c.Keycloak.CacheTTL = 300 * time.Second
	}
	if c.Policy.Mode == "" {
		c.Policy.Mode = "ntk"
	}
	if len(c.Policy.Roles) == 0 {
		c.Policy.Roles = policy.DefaultRoleVocabulary
	}
}

// Validate checks the configuration. The returned error is an
// INVALID_INPUT AppError naming every failing field.
func (c *Config) Validate() error {
	if err := c.Logging.Validate(); err != nil {
		return err
	}
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return apperrors.InvalidInput("", "validation failed")
	}
	messages := make([]string, 0, len(verrs))
	for _, e := range verrs {
		messages = append(messages, fmt.Sprintf("%s: failed %q", e.Field(), e.Tag()))
	}
	return apperrors.InvalidInput("config", strings.Join(messages, "; "))
}

// Mode returns the parsed layer set.
func (c *Config) Mode() (policy.Layers, error) {
	return policy.ParseMode(c.Policy.Mode)
}

var (
	validate *validator.Validate
	once     sync.Once
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

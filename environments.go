package avela

import "fmt"

// Environment identifies an Avela deployment. The well-known names below
// cover the vendor's standard environments; any other identifier is accepted
// and resolved through the templated URL scheme.
type Environment string

// Well-known environments.
const (
	EnvDev     Environment = "dev"
	EnvQA      Environment = "qa"
	EnvUAT     Environment = "uat"
	EnvStaging Environment = "staging"
	EnvProd    Environment = "prod"
)

// Endpoints is the resolved URL triple for one environment. All three are
// overridable via options for self-hosted deployments and tests.
type Endpoints struct {
	AuthURL  string // OAuth2 token endpoint
	BaseURL  string // Customer API base, including the /api/rest/v2 prefix
	Audience string // OAuth2 audience claim for the token exchange
}

// endpointsFor resolves an environment name to its endpoints. Production and
// staging have fixed URLs (staging authenticates against a direct Auth0 host,
// the documented exception); every other environment follows the template.
func endpointsFor(env Environment) Endpoints {
	switch env {
	case EnvProd:
		return Endpoints{
			AuthURL:  "https://auth.avela.org/oauth/token",
			BaseURL:  "https://prod.execute-api.apply.avela.org/api/rest/v2",
			Audience: "https://api.apply.avela.org/v1/graphql",
		}
	case EnvStaging:
		return Endpoints{
			AuthURL:  "https://avela-staging.us.auth0.com/oauth/token",
			BaseURL:  "https://staging.execute-api.apply.avela.org/api/rest/v2",
			Audience: "https://staging.api.apply.avela.org/v1/graphql",
		}
	default:
		return Endpoints{
			AuthURL:  fmt.Sprintf("https://%s.auth.avela.org/oauth/token", env),
			BaseURL:  fmt.Sprintf("https://%s.execute-api.apply.avela.org/api/rest/v2", env),
			Audience: fmt.Sprintf("https://%s.api.apply.avela.org/v1/graphql", env),
		}
	}
}

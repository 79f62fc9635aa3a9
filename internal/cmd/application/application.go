// Package application provides the interface commands depend on.
//
// The App struct from cmd/rostersync/app implements Application; commands
// accept the interface so they can be tested with Mock:
//
//	mock := &application.Mock{
//	    SettingsFunc: func() application.Settings {
//	        return application.Settings{OutputRoot: t.TempDir()}
//	    },
//	}
//	cmd := convert.NewCommand(mock)
package application

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/rostersync/internal/sources/brightspace"
	"github.com/agentstation/rostersync/pkg/constants"
	"github.com/agentstation/rostersync/pkg/errors"
	"github.com/agentstation/rostersync/pkg/hierarchy"
)

// Application provides what commands need from the running application.
type Application interface {
	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml, wide).
	OutputFormat() string

	// Settings returns the conversion defaults from configuration.
	Settings() Settings

	// Brightspace returns the Data Hub client configuration.
	Brightspace() brightspace.Config

	// SaveRefreshToken persists a rotated refresh token to the config file.
	SaveRefreshToken(token string) error

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}

// Settings are the configured conversion defaults. Command flags override them.
type Settings struct {
	OutputRoot       string
	SystemUser       string
	LeafOrganization string
	LeafType         string
	LeafExpression   string
}

// DefaultSettings returns the settings used when nothing is configured.
func DefaultSettings() Settings {
	return Settings{
		OutputRoot:       ".",
		SystemUser:       constants.DefaultSystemUser,
		LeafOrganization: constants.DefaultLeafOrganization,
		LeafType:         constants.DefaultLeafType,
	}
}

// Leaf builds the course predicate: the CEL expression when one is set,
// otherwise the organization and type match.
func (s Settings) Leaf() (hierarchy.Predicate, error) {
	if s.LeafExpression != "" {
		p, err := hierarchy.NewExpressionPredicate(s.LeafExpression)
		if err != nil {
			return nil, errors.NewConfigError("leaf_expression", err.Error(), err)
		}
		return p, nil
	}

	p := hierarchy.CoursePredicate()
	if s.LeafOrganization != "" {
		p.Organization = s.LeafOrganization
	}
	if s.LeafType != "" {
		p.Type = s.LeafType
	}
	return p, nil
}

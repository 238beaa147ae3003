package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/urfave/cli/v3"
)

// Gemini is the Vertex AI project used by the gemini capture backend
type Gemini struct {
	projectID string
	location  string
}

func (g *Gemini) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for the gemini capture backend",
			Category:    "Capture",
			Sources:     cli.EnvVars("CHARFORGE_GEMINI_PROJECT"),
			Destination: &g.projectID,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for the gemini capture backend",
			Value:       "us-central1",
			Category:    "Capture",
			Sources:     cli.EnvVars("CHARFORGE_GEMINI_LOCATION"),
			Destination: &g.location,
		},
	}
}

func (g *Gemini) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("gemini_project", g.projectID),
		slog.String("gemini_location", g.location),
	}
}

// Configure creates the LLM client that renders captures
func (g *Gemini) Configure(ctx context.Context) (gollem.LLMClient, error) {
	if g.projectID == "" {
		return nil, goerr.Wrap(ErrInvalidConfig, "gemini-project is required when using gemini capture")
	}

	client, err := gemini.New(ctx, g.projectID, g.location)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("project_id", g.projectID), goerr.V("location", g.location))
	}
	return client, nil
}

package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/seba2390/SymMediaStreamer/internal/discovery"
)

// selectRenderer discovers renderers and picks one: by case-insensitive
// name substring when filter is set, otherwise the only one found. Multiple
// matches are an error listing the candidates.
func selectRenderer(ctx context.Context, app *App, filter string) (discovery.Renderer, error) {
	svc := discovery.NewService(app.Log)
	renderers, err := svc.ListRenderers(ctx, discovery.Options{
		Timeout: app.Cfg.DiscoverTimeout,
		MX:      app.Cfg.DiscoverMX,
	})
	if err != nil {
		return discovery.Renderer{}, err
	}
	if len(renderers) == 0 {
		return discovery.Renderer{}, fmt.Errorf("no renderers found on the network")
	}

	if filter == "" {
		if len(renderers) == 1 {
			return renderers[0], nil
		}
		return discovery.Renderer{}, fmt.Errorf(
			"%d renderers found, pick one with --renderer: %s",
			len(renderers), rendererNames(renderers))
	}

	var matches []discovery.Renderer
	for _, r := range renderers {
		if strings.Contains(strings.ToLower(r.Name()), strings.ToLower(filter)) {
			matches = append(matches, r)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return discovery.Renderer{}, fmt.Errorf(
			"no renderer matches %q, found: %s", filter, rendererNames(renderers))
	default:
		return discovery.Renderer{}, fmt.Errorf(
			"%q is ambiguous, matches: %s", filter, rendererNames(matches))
	}
}

func rendererNames(renderers []discovery.Renderer) string {
	names := make([]string, len(renderers))
	for i, r := range renderers {
		names[i] = r.Name()
	}
	return strings.Join(names, ", ")
}

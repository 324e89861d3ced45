package sources

import (
	"context"
	"fmt"

	"github.com/tmc/langchaingo/tools/duckduckgo"
)

type SearchSource struct {
	client *duckduckgo.Tool
}

func NewSearchSource() (*SearchSource, error) {
	ddg, err := duckduckgo.New(10, duckduckgo.DefaultUserAgent)
	if err != nil {
		return nil, err
	}
	return &SearchSource{client: ddg}, nil
}

func (s *SearchSource) Name() string {
	return "search"
}

func (s *SearchSource) Description() string {
	return "Search the web using DuckDuckGo for background material on artifacts, sites and civilizations."
}

func (s *SearchSource) Gather(ctx context.Context, target string) (string, error) {
	res, err := s.client.Call(ctx, target)
	if err != nil {
		return "", fmt.Errorf("search failed: %w", err)
	}
	return res, nil
}

package regions

import (
	"fmt"
	"sort"
	"strings"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

// Option is the JSON shape returned by the handler.
type Option struct {
	Value   string `json:"value"`
	Label   string `json:"label"`
	Country string `json:"country,omitempty"`
}

// Search filters options by name or code. Exact code matches rank first,
// then name prefixes, then substring matches, each by name.
func Search(options []model.Option, query string, limit int, opts Options) []model.Option {
	limit = opts.pageSize(limit)
	if limit == 0 {
		return nil
	}

	query = strings.TrimSpace(query)
	if query == "" {
		if opts.EmptySearchMode != EmptySearchAll {
			return nil
		}
		if len(options) > limit {
			options = options[:limit]
		}
		return append([]model.Option(nil), options...)
	}

	q := strings.ToLower(query)
	matches := make([]match, 0, 16)
	for _, option := range options {
		code := strings.ToLower(fmt.Sprint(option.ID))
		name := strings.ToLower(option.Name)
		rank := -1
		switch {
		case code == q:
			rank = 0
		case strings.HasPrefix(name, q):
			rank = 1
		case strings.Contains(name, q):
			rank = 2
		}
		if rank >= 0 {
			matches = append(matches, match{option: option, rank: rank})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].rank != matches[j].rank {
			return matches[i].rank < matches[j].rank
		}
		return matches[i].option.Name < matches[j].option.Name
	})
	if len(matches) > limit {
		matches = matches[:limit]
	}

	out := make([]model.Option, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.option)
	}
	return out
}

// SearchOptions is Search shaped for JSON responses.
func SearchOptions(options []model.Option, query string, limit int, opts Options) []Option {
	results := Search(options, query, limit, opts)
	out := make([]Option, 0, len(results))
	for _, option := range results {
		out = append(out, toOption(option))
	}
	return out
}

func toOption(option model.Option) Option {
	out := Option{Value: fmt.Sprint(option.ID), Label: option.Name}
	if option.CountryID != nil {
		out.Country = fmt.Sprint(option.CountryID)
	}
	return out
}

type match struct {
	option model.Option
	rank   int
}

package regions

import (
	"bufio"
	"embed"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-uirenderer/pkg/model"
)

//go:embed data/regions.txt
var dataFS embed.FS

const defaultListPath = "data/regions.txt"

// Data holds countries and their states. States carry CountryID so they can
// be handed to address fields as-is.
type Data struct {
	Countries []model.Option
	States    []model.Option
}

var (
	defaultOnce sync.Once
	defaultData Data
	defaultErr  error
)

// DefaultData returns a copy of the embedded lists.
func DefaultData() (Data, error) {
	defaultOnce.Do(func() {
		f, err := dataFS.Open(defaultListPath)
		if err != nil {
			defaultErr = err
			return
		}
		defer func() { _ = f.Close() }()
		defaultData, defaultErr = Load(f)
	})
	if defaultErr != nil {
		return Data{}, defaultErr
	}
	return defaultData.Clone(), nil
}

// Load reads "country,state,name" lines. An empty state column declares a
// country. Blank lines and # comments are skipped; duplicates keep the first
// entry.
func Load(r io.Reader) (Data, error) {
	if r == nil {
		return Data{}, fmt.Errorf("regions: missing reader")
	}

	var data Data
	seen := map[string]struct{}{}
	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		parts := strings.SplitN(text, ",", 3)
		if len(parts) != 3 {
			return Data{}, fmt.Errorf("regions: line %d: expected country,state,name", line)
		}
		country := strings.ToUpper(strings.TrimSpace(parts[0]))
		state := strings.ToUpper(strings.TrimSpace(parts[1]))
		name := strings.TrimSpace(parts[2])
		if country == "" || name == "" {
			return Data{}, fmt.Errorf("regions: line %d: country and name are required", line)
		}

		key := country + "/" + state
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}

		if state == "" {
			data.Countries = append(data.Countries, model.Option{ID: country, Name: name})
			continue
		}
		data.States = append(data.States, model.Option{ID: state, Name: name, CountryID: country})
	}
	if err := scanner.Err(); err != nil {
		return Data{}, err
	}

	sortOptions(data.Countries)
	sortOptions(data.States)
	return data, nil
}

// Clone copies the lists.
func (d Data) Clone() Data {
	return Data{
		Countries: append([]model.Option(nil), d.Countries...),
		States:    append([]model.Option(nil), d.States...),
	}
}

// StatesOf returns the states of country, sorted by name.
func (d Data) StatesOf(country string) []model.Option {
	country = strings.TrimSpace(country)
	if country == "" {
		return nil
	}
	var out []model.Option
	for _, state := range d.States {
		if strings.EqualFold(fmt.Sprint(state.CountryID), country) {
			out = append(out, state)
		}
	}
	return out
}

// HasCountry reports whether code is a known country.
func (d Data) HasCountry(code string) bool {
	for _, country := range d.Countries {
		if strings.EqualFold(fmt.Sprint(country.ID), strings.TrimSpace(code)) {
			return true
		}
	}
	return false
}

func sortOptions(options []model.Option) {
	sort.SliceStable(options, func(i, j int) bool {
		return options[i].Name < options[j].Name
	})
}

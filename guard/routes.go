package guard

import (
	_ "embed"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

//go:embed routes.yaml
var defaultRoutesYAML []byte

// Route is one entry of the route table. Path segments starting with ':'
// match any single segment; a "**" segment matches the rest of the URL.
type Route struct {
	Path        string `yaml:"path"`
	Requirement `yaml:",inline"`

	segments []string
}

// RouteTable is an ordered list of routes; the first match wins.
type RouteTable struct {
	Routes []Route `yaml:"routes"`
}

// LoadRoutes parses a YAML route table.
func LoadRoutes(r io.Reader) (*RouteTable, error) {
	var table RouteTable
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&table); err != nil {
		return nil, errors.Wrap(err, "failed to decode route table")
	}

	for i := range table.Routes {
		route := &table.Routes[i]
		route.segments = splitPath(route.Path)
		for j, seg := range route.segments {
			if seg == "**" && j != len(route.segments)-1 {
				return nil, errors.Errorf("route %q: ** must be the last segment", route.Path)
			}
		}
	}
	return &table, nil
}

// DefaultRoutes returns the Convivio client route table.
func DefaultRoutes() *RouteTable {
	table, err := LoadRoutes(strings.NewReader(string(defaultRoutesYAML)))
	if err != nil {
		panic(fmt.Sprintf("guard: embedded route table is invalid: %v", err))
	}
	return table
}

// Match returns the first route matching url. Query and fragment are ignored.
func (t *RouteTable) Match(url string) (Route, bool) {
	segments := splitPath(stripQuery(url))
	for _, route := range t.Routes {
		if route.matches(segments) {
			return route, true
		}
	}
	return Route{}, false
}

func (r Route) matches(segments []string) bool {
	for i, seg := range r.segments {
		if seg == "**" {
			return true
		}
		if i >= len(segments) {
			return false
		}
		if !strings.HasPrefix(seg, ":") && seg != segments[i] {
			return false
		}
	}
	return len(segments) == len(r.segments)
}

func stripQuery(url string) string {
	if i := strings.IndexAny(url, "?#"); i >= 0 {
		return url[:i]
	}
	return url
}

func splitPath(p string) []string {
	p = strings.Trim(p, "/")
	if p == "" {
		return nil
	}
	return strings.Split(p, "/")
}

package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

// TeamPathPrefix is where a team's product listing lives.
const TeamPathPrefix = "/times/"

type Team struct {
	Name string `yaml:"-" json:"name"`
	Slug string `yaml:"-" json:"slug"`
	Path string `yaml:"-" json:"path"`
}

type Group struct {
	Title string   `yaml:"title" json:"title"`
	Names []string `yaml:"teams" json:"-"`
	Teams []Team   `yaml:"-" json:"teams"`
}

type Section struct {
	Title  string  `yaml:"title" json:"title"`
	Groups []Group `yaml:"groups" json:"groups"`
}

// Menu is the header navigation: the team directory and the search
// suggestions offered while typing.
type Menu struct {
	Sections    []Section `yaml:"sections" json:"sections"`
	Suggestions []string  `yaml:"suggestions" json:"suggestions"`
}

// LoadMenu reads the menu from path, or the built-in one when path is empty.
func LoadMenu(path string) (*Menu, error) {
	raw := defaultMenu
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read menu: %w", err)
		}
		raw = b
	}
	return ParseMenu(raw)
}

func ParseMenu(raw []byte) (*Menu, error) {
	var m Menu
	if err := yaml.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("parse menu: %w", err)
	}
	for si := range m.Sections {
		for gi := range m.Sections[si].Groups {
			g := &m.Sections[si].Groups[gi]
			g.Teams = make([]Team, 0, len(g.Names))
			for _, name := range g.Names {
				slug := Slugify(name)
				if slug == "" {
					return nil, fmt.Errorf("parse menu: team %q has an empty slug", name)
				}
				g.Teams = append(g.Teams, Team{Name: name, Slug: slug, Path: TeamPathPrefix + slug})
			}
		}
	}
	return &m, nil
}

// Team finds a directory entry by slug.
func (m *Menu) Team(slug string) (Team, bool) {
	for _, s := range m.Sections {
		for _, g := range s.Groups {
			for _, t := range g.Teams {
				if t.Slug == slug {
					return t, true
				}
			}
		}
	}
	return Team{}, false
}

// Suggest returns the suggestions containing q, ignoring case. A blank q
// returns all of them.
func (m *Menu) Suggest(q string) []string {
	q = strings.ToLower(strings.TrimSpace(q))
	out := make([]string, 0, len(m.Suggestions))
	for _, s := range m.Suggestions {
		if q == "" || strings.Contains(strings.ToLower(s), q) {
			out = append(out, s)
		}
	}
	return out
}

// Teams lists every directory entry in menu order.
func (m *Menu) Teams() []Team {
	var out []Team
	for _, s := range m.Sections {
		for _, g := range s.Groups {
			out = append(out, g.Teams...)
		}
	}
	return out
}

// Package palette is the registry of known lines and their display colors.
package palette

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jusunglee/trainusage/internal/models"
)

// DefaultFallback is used for lines missing from the registry
const DefaultFallback = "#82ca9d"

// Entry pairs a line with its color
type Entry struct {
	Line  string `json:"line" yaml:"line"`
	Color string `json:"color" yaml:"color"`
}

// Registry is an ordered line → color mapping. Its lines are the universe
// offered to the line picker.
type Registry struct {
	entries  []Entry
	colors   map[string]string
	fallback string
}

// New builds a registry; later duplicates overwrite the color but keep the
// first position. Blank lines and lines named models.HourField are skipped.
func New(entries []Entry, fallback string) *Registry {
	if fallback == "" {
		fallback = DefaultFallback
	}
	r := &Registry{
		colors:   make(map[string]string, len(entries)),
		fallback: fallback,
	}
	for _, e := range entries {
		if e.Line == "" || e.Line == models.HourField {
			continue
		}
		if _, ok := r.colors[e.Line]; !ok {
			r.entries = append(r.entries, e)
		} else {
			for i := range r.entries {
				if r.entries[i].Line == e.Line {
					r.entries[i].Color = e.Color
				}
			}
		}
		r.colors[e.Line] = e.Color
	}
	return r
}

// Default returns the Sydney Trains palette
func Default() *Registry {
	return New([]Entry{
		{"Blue Mountains Line", "#1f77b4"},
		{"Carlingford replacement buses", "#ff7f0e"},
		{"Central Coast & Newcastle Line", "#2ca02c"},
		{"Hunter Line", "#d62728"},
		{"NSW TrainLink Southern Train Services", "#9467bd"},
		{"NSW TrainLink Western Train Services", "#8c564b"},
		{"North Coast NSW", "#e377c2"},
		{"North West NSW", "#7f7f7f"},
		{"South Coast Line", "#bcbd22"},
		{"Southern Highlands Line", "#17becf"},
		{"T1 North Shore Line & T1 Western Line", "#393b79"},
		{"T2 Inner West & Leppington Line", "#637939"},
		{"T3 Bankstown Line", "#8c6d31"},
		{"T4 Eastern Suburbs & Illawarra Line", "#e6550d"},
		{"T5 Cumberland Line", "#fdae6b"},
		{"T7 Olympic Park Line", "#31a354"},
		{"T8 Airport & South Line", "#756bb1"},
		{"T9 Northern Line", "#9c9ede"},
		{"Western NSW", "#d6616b"},
	}, DefaultFallback)
}

type fileFormat struct {
	Fallback string  `yaml:"fallback"`
	Lines    []Entry `yaml:"lines"`
}

// LoadFile reads a registry from a YAML file of the form
//
//	fallback: "#82ca9d"
//	lines:
//	  - line: T1 North Shore Line & T1 Western Line
//	    color: "#393b79"
func LoadFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read palette file: %w", err)
	}

	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse palette file %s: %w", path, err)
	}
	if len(f.Lines) == 0 {
		return nil, fmt.Errorf("palette file %s has no lines", path)
	}
	for _, e := range f.Lines {
		if e.Line == models.HourField {
			return nil, fmt.Errorf("palette file %s: line name %q is reserved", path, e.Line)
		}
	}

	return New(f.Lines, f.Fallback), nil
}

// Color returns the line's color or the fallback
func (r *Registry) Color(line string) string {
	if c, ok := r.colors[line]; ok && c != "" {
		return c
	}
	return r.fallback
}

// Fallback returns the color used for unknown lines
func (r *Registry) Fallback() string {
	return r.fallback
}

// Known reports whether line is in the registry
func (r *Registry) Known(line string) bool {
	_, ok := r.colors[line]
	return ok
}

// Entries returns every registered line in order
func (r *Registry) Entries() []Entry {
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Lines returns every registered line name in order
func (r *Registry) Lines() []string {
	out := make([]string, len(r.entries))
	for i, e := range r.entries {
		out[i] = e.Line
	}
	return out
}

// LinesIn returns the registered lines belonging to category
func (r *Registry) LinesIn(category models.Category) []string {
	var out []string
	for _, e := range r.entries {
		if models.CategoryOf(e.Line) == category {
			out = append(out, e.Line)
		}
	}
	return out
}

// EntriesIn returns the registered entries belonging to category
func (r *Registry) EntriesIn(category models.Category) []Entry {
	var out []Entry
	for _, e := range r.entries {
		if models.CategoryOf(e.Line) == category {
			out = append(out, e)
		}
	}
	return out
}

// Hex returns the color without its leading '#'
func Hex(color string) string {
	return strings.TrimPrefix(color, "#")
}

// Package holiday loads the company holiday calendar from YAML.
//
//	version: 1
//	holidays:
//	  - date: 2025-03-31
//	    name: Idul Fitri
//	  - date: 2025-08-17
//	    name: Independence Day
//	    recurring: true
package holiday

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

var ErrUnsupportedVersion = errors.New("holiday calendar: unsupported version")

type Holiday struct {
	Date      string `yaml:"date" json:"date"`
	Name      string `yaml:"name" json:"name"`
	Recurring bool   `yaml:"recurring" json:"recurring"`
}

type file struct {
	Version  int       `yaml:"version"`
	Holidays []Holiday `yaml:"holidays"`
}

// Calendar answers holiday lookups. The zero value and a nil *Calendar have
// no holidays.
type Calendar struct {
	fixed     map[string]Holiday
	recurring map[string]Holiday
}

func Parse(b []byte) (*Calendar, error) {
	var f file
	if err := yaml.Unmarshal(b, &f); err != nil {
		return nil, fmt.Errorf("holiday calendar: %w", err)
	}
	if f.Version != 1 {
		return nil, ErrUnsupportedVersion
	}

	c := &Calendar{fixed: map[string]Holiday{}, recurring: map[string]Holiday{}}
	for i, h := range f.Holidays {
		d, err := time.Parse(dateLayout, h.Date)
		if err != nil {
			return nil, fmt.Errorf("holiday calendar: entry %d: invalid date %q", i, h.Date)
		}
		if h.Recurring {
			c.recurring[d.Format("01-02")] = h
		} else {
			c.fixed[h.Date] = h
		}
	}
	return c, nil
}

func Load(path string) (*Calendar, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Lookup returns the holiday on day, if any.
func (c *Calendar) Lookup(day time.Time) (Holiday, bool) {
	if c == nil {
		return Holiday{}, false
	}
	if h, ok := c.fixed[day.Format(dateLayout)]; ok {
		return h, true
	}
	if h, ok := c.recurring[day.Format("01-02")]; ok {
		h.Date = day.Format(dateLayout)
		return h, true
	}
	return Holiday{}, false
}

func (c *Calendar) IsHoliday(day time.Time) bool {
	_, ok := c.Lookup(day)
	return ok
}

// Between lists holidays from start to end inclusive, in date order.
func (c *Calendar) Between(start, end time.Time) []Holiday {
	var out []Holiday
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if h, ok := c.Lookup(d); ok {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

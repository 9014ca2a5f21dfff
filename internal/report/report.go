// Package report aggregates scope and tag distributions over the record
// store and renders them as tables, JSON, YAML or spreadsheets.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"gopkg.in/yaml.v3"

	"github.com/lukas-hzb/geometa/internal/country"
	"github.com/lukas-hzb/geometa/internal/model"
)

// NoTags labels metas that carry no tag.
const NoTags = "(none)"

// Count is a labelled tally.
type Count struct {
	Label string `json:"label" yaml:"label"`
	Count int    `json:"count" yaml:"count"`
}

// CountryRow is the breakdown for a single country group.
type CountryRow struct {
	Country string         `json:"country" yaml:"country"`
	Code    string         `json:"code" yaml:"code"`
	Metas   int            `json:"metas" yaml:"metas"`
	Titled  int            `json:"titled" yaml:"titled"`
	Scopes  map[string]int `json:"scopes" yaml:"scopes"`
	Tags    map[string]int `json:"tags" yaml:"tags"`
}

// Distribution summarizes a record store. Scopes and Tags list every
// enumerated value, including zero counts, in declaration order.
type Distribution struct {
	Total     int          `json:"total" yaml:"total"`
	Titled    int          `json:"titled" yaml:"titled"`
	Scopes    []Count      `json:"scopes" yaml:"scopes"`
	Tags      []Count      `json:"tags" yaml:"tags"`
	Countries []CountryRow `json:"countries" yaml:"countries"`
}

// Tally counts scopes and tags across all groups. Tags outside the
// vocabulary are ignored; a meta with no vocabulary tag counts as NoTags.
func Tally(groups []model.CountryGroup) Distribution {
	scopeCounts := make(map[model.Scope]int)
	tagCounts := make(map[string]int)
	d := Distribution{Countries: make([]CountryRow, 0, len(groups))}

	for _, g := range groups {
		row := CountryRow{
			Country: g.Country,
			Code:    country.Code(g.Country),
			Metas:   len(g.Metas),
			Scopes:  make(map[string]int),
			Tags:    make(map[string]int),
		}
		for _, m := range g.Metas {
			d.Total++
			if m.Title != "" {
				d.Titled++
				row.Titled++
			}
			scopeCounts[m.Scope]++
			row.Scopes[m.Scope.Label()]++

			tagged := false
			for _, t := range m.Tags {
				if !model.ValidTag(t) {
					continue
				}
				tagged = true
				tagCounts[t]++
				row.Tags[t]++
			}
			if !tagged {
				tagCounts[NoTags]++
				row.Tags[NoTags]++
			}
		}
		d.Countries = append(d.Countries, row)
	}

	for _, s := range model.Scopes() {
		d.Scopes = append(d.Scopes, Count{Label: s.Label(), Count: scopeCounts[s]})
	}
	for _, t := range model.Tags() {
		d.Tags = append(d.Tags, Count{Label: t, Count: tagCounts[t]})
	}
	d.Tags = append(d.Tags, Count{Label: NoTags, Count: tagCounts[NoTags]})
	return d
}

// ByCount returns a copy of counts ordered by descending count. Ties keep
// their original order.
func ByCount(counts []Count) []Count {
	out := make([]Count, len(counts))
	copy(out, counts)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	return out
}

// WriteTable writes both distributions as aligned text, largest first.
func WriteTable(out io.Writer, d Distribution) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "SCOPE\tMETAS")
	_, _ = fmt.Fprintln(w, "-----\t-----")
	for _, c := range ByCount(d.Scopes) {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", c.Label, c.Count)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintln(w, "TAG\tMETAS")
	_, _ = fmt.Fprintln(w, "---\t-----")
	for _, c := range ByCount(d.Tags) {
		_, _ = fmt.Fprintf(w, "%s\t%d\n", c.Label, c.Count)
	}
	_, _ = fmt.Fprintln(w)
	_, _ = fmt.Fprintf(w, "Total:\t%d\n", d.Total)
	_, _ = fmt.Fprintf(w, "Titled:\t%d\n", d.Titled)
	return eris.Wrap(w.Flush(), "report: flush table")
}

// WriteJSON writes d as indented JSON.
func WriteJSON(w io.Writer, d Distribution) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return eris.Wrap(enc.Encode(d), "report: encode json")
}

// WriteYAML writes d as YAML.
func WriteYAML(w io.Writer, d Distribution) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return eris.Wrap(err, "report: encode yaml")
	}
	return eris.Wrap(enc.Close(), "report: flush yaml")
}

// Sheet names used by WriteXLSX.
const (
	SheetScopes    = "Scopes"
	SheetTags      = "Tags"
	SheetCountries = "Countries"
)

// WriteXLSX saves d as a workbook with one sheet per breakdown.
func WriteXLSX(path string, d Distribution) error {
	f := xlsx.NewFile()

	if err := addCountSheet(f, SheetScopes, "Scope", ByCount(d.Scopes)); err != nil {
		return err
	}
	if err := addCountSheet(f, SheetTags, "Tag", ByCount(d.Tags)); err != nil {
		return err
	}

	sheet, err := f.AddSheet(SheetCountries)
	if err != nil {
		return eris.Wrapf(err, "report: add sheet %s", SheetCountries)
	}
	header := []string{"Country", "Code", "Metas", "Titled"}
	for _, s := range model.Scopes() {
		header = append(header, s.Label())
	}
	header = append(header, model.Tags()...)
	header = append(header, NoTags)
	addStringRow(sheet, header)

	for _, c := range d.Countries {
		row := sheet.AddRow()
		row.AddCell().SetString(c.Country)
		row.AddCell().SetString(c.Code)
		row.AddCell().SetInt(c.Metas)
		row.AddCell().SetInt(c.Titled)
		for _, s := range model.Scopes() {
			row.AddCell().SetInt(c.Scopes[s.Label()])
		}
		for _, t := range model.Tags() {
			row.AddCell().SetInt(c.Tags[t])
		}
		row.AddCell().SetInt(c.Tags[NoTags])
	}

	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	return nil
}

func addCountSheet(f *xlsx.File, name, label string, counts []Count) error {
	sheet, err := f.AddSheet(name)
	if err != nil {
		return eris.Wrapf(err, "report: add sheet %s", name)
	}
	addStringRow(sheet, []string{label, "Metas"})
	for _, c := range counts {
		row := sheet.AddRow()
		row.AddCell().SetString(c.Label)
		row.AddCell().SetInt(c.Count)
	}
	return nil
}

func addStringRow(sheet *xlsx.Sheet, values []string) {
	row := sheet.AddRow()
	for _, v := range values {
		row.AddCell().SetString(v)
	}
}

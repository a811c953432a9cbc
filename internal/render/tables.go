package render

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter/tw"

	"github.com/couchcryptid/qsolog/internal/domain"
	"github.com/couchcryptid/qsolog/internal/query"
)

const unconfirmed = "Unconfirmed"

// ContactsToTableData lays out qsos in the contact table used by reports.
func ContactsToTableData(caption string, qsos []domain.QSO) Data {
	data := Data{
		Caption: caption,
		Headers: []string{"Callsign", "Grid", "Date UTC", "Hdg", "Dist", "Band", "RST TX/RX", "DXCC"},
		Align: []tw.Align{
			tw.AlignLeft, tw.AlignLeft, tw.AlignLeft, tw.AlignLeft,
			tw.AlignRight, tw.AlignRight, tw.AlignRight, tw.AlignLeft,
		},
	}
	for _, q := range qsos {
		data.Rows = append(data.Rows, contactRow(q))
	}
	return data
}

func contactRow(q domain.QSO) []string {
	grid := q.Text(domain.FieldGrid)
	if len(grid) > 4 {
		grid = grid[:4]
	}

	var hdg, dist string
	if path, ok := q.Path(); ok {
		hdg = path.Cardinal
		dist = strconv.Itoa(path.Distance) + "mi"
	}

	place := query.Place(q)
	if place == "" {
		place = unconfirmed
	}

	return []string{
		q.Call(),
		grid,
		q.Start().Format(time.DateOnly),
		hdg,
		dist,
		strconv.Itoa(q.Band()) + "m",
		signalReports(q),
		place,
	}
}

// signalReports formats sent and received reports as "+05/-12".
func signalReports(q domain.QSO) string {
	sentV, okS := q.Get(domain.FieldRSTSent)
	rcvdV, okR := q.Get(domain.FieldRSTRcvd)
	if !okS || !okR {
		return "N/A"
	}
	sent, okS := sentV.Int()
	rcvd, okR := rcvdV.Int()
	if !okS || !okR {
		return "N/A"
	}
	return fmt.Sprintf("%+03d/%+03d", sent, rcvd)
}

// CensusToTableData lists how many QSOs carry each field.
func CensusToTableData(census []query.FieldCount, total int) Data {
	data := Data{
		Headers: []string{"Field", "Count", "Percent"},
		Align:   []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight},
	}
	for _, fc := range census {
		data.Rows = append(data.Rows, []string{
			fc.Name,
			fmt.Sprintf("%d/%d", fc.Count, total),
			fmt.Sprintf("%.3f%%", fc.Percent),
		})
	}
	return data
}

// RowsToTableData wraps projected field rows with their field names.
func RowsToTableData(fields []string, rows [][]string) Data {
	return Data{Headers: fields, Rows: rows}
}

// TalliesToTableData lays out name/count pairs.
func TalliesToTableData(caption, nameHeader string, tallies []query.Tally) Data {
	data := Data{
		Caption: caption,
		Headers: []string{nameHeader, "QSOs"},
		Align:   []tw.Align{tw.AlignLeft, tw.AlignRight},
	}
	for _, t := range tallies {
		data.Rows = append(data.Rows, []string{t.Name, strconv.Itoa(t.Count)})
	}
	return data
}

// Report is the stats summary in a form suited to JSON and YAML.
type Report struct {
	Generated        string        `json:"generated" yaml:"generated"`
	Total            int           `json:"total" yaml:"total"`
	Confirmed        int           `json:"confirmed" yaml:"confirmed"`
	ConfirmedPercent float64       `json:"confirmed_percent" yaml:"confirmed_percent"`
	Countries        []query.Tally `json:"countries" yaml:"countries"`
	States           []query.Tally `json:"states" yaml:"states"`
	MostRecent       []ReportQSO   `json:"most_recent" yaml:"most_recent"`
	MostDistant      []ReportQSO   `json:"most_distant_confirmed" yaml:"most_distant_confirmed"`
}

// ReportQSO is one line of a report table.
type ReportQSO struct {
	Call     string `json:"call" yaml:"call"`
	Grid     string `json:"grid,omitempty" yaml:"grid,omitempty"`
	Date     string `json:"date" yaml:"date"`
	Cardinal string `json:"cardinal,omitempty" yaml:"cardinal,omitempty"`
	Distance int    `json:"distance_mi,omitempty" yaml:"distance_mi,omitempty"`
	Band     int    `json:"band_m" yaml:"band_m"`
	Place    string `json:"place,omitempty" yaml:"place,omitempty"`
}

// NewReport assembles the stats summary of a group.
func NewReport(g query.Group, recent, distant int) Report {
	s := g.Stats()
	return Report{
		Generated:        clock.Now().UTC().Format(time.RFC3339),
		Total:            s.Total,
		Confirmed:        s.Confirmed,
		ConfirmedPercent: s.ConfirmedPercent,
		Countries:        s.Countries,
		States:           s.States,
		MostRecent:       reportQSOs(query.MostRecent(g.QSOs, recent)),
		MostDistant:      reportQSOs(query.MostDistant(g.QSLs, distant)),
	}
}

func reportQSOs(qsos []domain.QSO) []ReportQSO {
	out := make([]ReportQSO, 0, len(qsos))
	for _, q := range qsos {
		r := ReportQSO{
			Call:  q.Call(),
			Grid:  q.Text(domain.FieldGrid),
			Date:  q.Start().Format(time.DateOnly),
			Band:  q.Band(),
			Place: query.Place(q),
		}
		if path, ok := q.Path(); ok {
			r.Cardinal = path.Cardinal
			r.Distance = path.Distance
		}
		out = append(out, r)
	}
	return out
}

// WriteReport writes the stats summary as text with tables.
func WriteReport(w io.Writer, g query.Group, recent, distant int) error {
	s := g.Stats()

	var b strings.Builder
	fmt.Fprintf(&b, "Generated %s\n\n", clock.Now().UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Totals: %d QSOs, %d Confirmed (%.1f%%)\n\n", s.Total, s.Confirmed, s.ConfirmedPercent)
	if _, err := io.WriteString(w, b.String()); err != nil {
		return err
	}

	tables := []Data{
		TalliesToTableData(fmt.Sprintf("DXCC Countries (%d)", len(s.Countries)), "Country", s.Countries),
		TalliesToTableData(fmt.Sprintf("US States (%d)", len(s.States)), "State", s.States),
		ContactsToTableData("Most Recent QSOs", query.MostRecent(g.QSOs, recent)),
		ContactsToTableData("Most Distant Confirmed QSLs", query.MostDistant(g.QSLs, distant)),
	}
	for _, t := range tables {
		if err := writeTable(w, t); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "\n"); err != nil {
			return err
		}
	}
	return nil
}

// WriteDelimited writes rows joined by delim, one per line, without padding.
func WriteDelimited(w io.Writer, rows [][]string, delim string) error {
	for _, row := range rows {
		if _, err := io.WriteString(w, strings.Join(row, delim)+"\n"); err != nil {
			return err
		}
	}
	return nil
}

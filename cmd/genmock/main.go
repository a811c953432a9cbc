// Command genmock writes a pair of overlapping ADIF logs for demos and manual
// testing: a station log with signal reports, and a confirmation log that
// reports the same contacts a few minutes off, adds grids and QSL data, and
// carries one record with no callsign. It builds the station log through the
// domain package so the fixture matches what the loader accepts, and reloads
// both files through the pipeline to report the merged result.
//
// Usage:
//
//	go run ./cmd/genmock -out-dir data/mock
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/qsolog/internal/adif"
	"github.com/couchcryptid/qsolog/internal/domain"
	"github.com/couchcryptid/qsolog/internal/observability"
	"github.com/couchcryptid/qsolog/internal/pipeline"
	"github.com/couchcryptid/qsolog/internal/render"
)

var generatedAt = time.Date(2024, time.April, 27, 6, 0, 0, 0, time.UTC)

type contact struct {
	call, band, date, timeOn, mode string
	rstSent, rstRcvd               string
	grid, country, state           string
	confirmed                      bool
}

var contacts = []contact{
	{"K1ABC", "40m", "20240426", "120000", "CW", "599", "579", "FN42", "UNITED STATES OF AMERICA", "MA", true},
	{"W2XYZ", "20m", "20240426", "130500", "SSB", "59", "57", "FN20", "UNITED STATES OF AMERICA", "NY", false},
	{"JA1AAA", "20m", "20240426", "140000", "FT8", "-10", "-15", "PM95", "JAPAN", "", true},
	{"KH6BB", "15m", "20240426", "183000", "FT8", "-03", "-08", "BL11", "HAWAII", "HI", true},
	{"VK2CC", "20m", "20240427", "0715", "CW", "559", "449", "QF56", "AUSTRALIA", "", true},
	{"G4DDD", "40m", "20240427", "2200", "SSB", "57", "55", "IO91", "ENGLAND", "", false},
}

const (
	myCall = "N0XX"
	myGrid = "EM48"
	shift  = 4 * time.Minute
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	outDir := flag.String("out-dir", "", "directory to write station.adi and confirmations.adi into")
	flag.Parse()

	if *outDir == "" {
		flag.Usage()
		return fmt.Errorf("missing required flag: -out-dir")
	}
	if err := os.MkdirAll(*outDir, 0o755); err != nil {
		return err
	}

	// Fixed clock for reproducible header timestamps.
	fake := clockwork.NewFakeClockAt(generatedAt)
	render.SetClock(fake)
	defer render.SetClock(nil)

	station := filepath.Join(*outDir, "station.adi")
	if err := writeStationLog(station); err != nil {
		return fmt.Errorf("writing station log: %w", err)
	}
	log.Printf("wrote %s: %d records", station, len(contacts))

	confirmations := filepath.Join(*outDir, "confirmations.adi")
	n, err := writeConfirmations(confirmations, fake.Now())
	if err != nil {
		return fmt.Errorf("writing confirmations: %w", err)
	}
	log.Printf("wrote %s: %d records", confirmations, n)

	return printStats([]string{station, confirmations})
}

func writeStationLog(path string) error {
	qsos := make([]domain.QSO, 0, len(contacts))
	for _, c := range contacts {
		q, err := domain.NewQSO(adif.Record{
			domain.FieldCall:        c.call,
			domain.FieldBand:        c.band,
			domain.FieldDate:        c.date,
			domain.FieldTimeOn:      c.timeOn,
			domain.FieldMode:        c.mode,
			domain.FieldRSTSent:     c.rstSent,
			domain.FieldRSTRcvd:     c.rstRcvd,
			domain.FieldStationCall: myCall,
			domain.FieldMyGrid:      myGrid,
		})
		if err != nil {
			return fmt.Errorf("contact %s: %w", c.call, err)
		}
		qsos = append(qsos, q)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := render.WriteADIF(f, qsos); err != nil {
		return err
	}
	return f.Close()
}

func writeConfirmations(path string, now time.Time) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := adif.NewWriter(f)
	if err := w.WriteHeader("Confirmations "+now.Format(time.RFC3339), adif.Record{"programid": "genmock"}); err != nil {
		return 0, err
	}

	n := 0
	for _, c := range contacts {
		start, err := time.Parse("20060102150405", c.date+padTime(c.timeOn))
		if err != nil {
			return 0, fmt.Errorf("contact %s: %w", c.call, err)
		}
		start = start.Add(shift)

		rec := adif.Record{
			domain.FieldCall:    c.call,
			domain.FieldBand:    c.band,
			domain.FieldDate:    start.Format("20060102"),
			domain.FieldTimeOn:  start.Format("150405"),
			domain.FieldGrid:    c.grid,
			domain.FieldMyGrid:  myGrid,
			domain.FieldCountry: c.country,
		}
		if c.state != "" {
			rec[domain.FieldState] = c.state
		}
		if c.confirmed {
			rec[domain.FieldQSLRcvd] = "Y"
			rec[domain.FieldQSLDate] = now.Format("20060102")
		}
		if err := w.WriteRecord(rec); err != nil {
			return 0, err
		}
		n++
	}

	// A record the loader must drop: no callsign.
	if err := w.WriteRecord(adif.Record{
		domain.FieldBand:   "20m",
		domain.FieldDate:   "20240427",
		domain.FieldTimeOn: "090000",
	}); err != nil {
		return 0, err
	}
	n++

	if err := w.Flush(); err != nil {
		return 0, err
	}
	return n, f.Close()
}

func padTime(hhmm string) string {
	if len(hhmm) == 4 {
		return hhmm + "00"
	}
	return hhmm
}

func printStats(paths []string) error {
	p := pipeline.New(observability.NewDiscardLogger(), observability.NewMetrics(), pipeline.DefaultOptions())
	res, err := p.Run(context.Background(), paths)
	if err != nil {
		return err
	}

	confirmed := 0
	for _, q := range res.QSOs {
		if q.Confirmed() {
			confirmed++
		}
	}
	fmt.Printf("\n=== Merge Summary ===\n")
	fmt.Printf("Records read:  %d\n", res.Parsed)
	fmt.Printf("Dropped:       %d\n", len(res.Diagnostics))
	fmt.Printf("Absorbed:      %d\n", res.Absorbed)
	fmt.Printf("Merged QSOs:   %d (%d confirmed)\n", len(res.QSOs), confirmed)
	for _, d := range res.Diagnostics {
		fmt.Printf("  %s\n", d.Error())
	}
	return nil
}

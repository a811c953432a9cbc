package render

import (
	"io"
	"time"

	"github.com/couchcryptid/qsolog/internal/adif"
	"github.com/couchcryptid/qsolog/internal/domain"
)

// ProgramID identifies exports written by this tool.
const ProgramID = "qsolog"

// WriteADIF writes qsos as an ADIF document: a header stamped with the
// current time, then one record per QSO. Derived fields are not written.
func WriteADIF(w io.Writer, qsos []domain.QSO) error {
	aw := adif.NewWriter(w)
	comment := "Generated " + clock.Now().UTC().Format(time.RFC3339)
	if err := aw.WriteHeader(comment, adif.Record{"programid": ProgramID}); err != nil {
		return err
	}
	for _, q := range qsos {
		if err := aw.WriteRecord(q.Tags()); err != nil {
			return err
		}
	}
	return aw.Flush()
}

// Maps converts qsos to plain maps for JSON and YAML output.
func Maps(qsos []domain.QSO) []map[string]any {
	out := make([]map[string]any, len(qsos))
	for i, q := range qsos {
		out[i] = q.Map()
	}
	return out
}

package transform

import (
	"log"

	"opinionetl/internal/model"
)

// Rejected describes a record dropped by validation.
type Rejected struct {
	Kind    model.Kind
	Index   int // position in the deduplicated input
	Reasons []string
}

// Stats summarizes one transform pass.
type Stats struct {
	In         int // records entering the stage
	Duplicates int // dropped as duplicate natural keys
	Unkeyed    int // dropped for missing natural keys
	Rejected   int // dropped by validation
	Out        int // records admitted to the load set
}

// Stage is the transform step of the pipeline: de-duplicate, clean, then
// validate. Rejections do not abort processing of sibling records.
type Stage struct {
	// Reject, when set, receives every validation rejection. Rejections are
	// always logged regardless.
	Reject func(Rejected)
}

// Apply runs the full transform over one batch of raw records of a single
// kind and returns the cleaned, validated survivors in input order.
func (s *Stage) Apply(in []model.Record) ([]model.Record, Stats) {
	st := Stats{In: len(in)}
	if len(in) == 0 {
		return nil, st
	}

	var dd DeDup
	unique := dd.Apply(in)
	st.Duplicates = dd.Duplicates
	st.Unkeyed = dd.Unkeyed
	if st.Duplicates > 0 || st.Unkeyed > 0 {
		log.Printf("transform: kind=%s duplicates_removed=%d unkeyed_dropped=%d",
			kindOf(in), st.Duplicates, st.Unkeyed)
	}

	out := make([]model.Record, 0, len(unique))
	for i, r := range unique {
		Clean(r)
		ok, reasons := Validate(r)
		if !ok {
			st.Rejected++
			log.Printf("transform: kind=%s row=%d rejected: %v", r.Kind(), i, reasons)
			if s.Reject != nil {
				s.Reject(Rejected{Kind: r.Kind(), Index: i, Reasons: reasons})
			}
			continue
		}
		out = append(out, r)
	}
	st.Out = len(out)
	return out, st
}

func kindOf(in []model.Record) model.Kind {
	if len(in) == 0 {
		return model.KindSource
	}
	return in[0].Kind()
}

package model

import (
	"strings"
	"time"

	"github.com/deppfellow/gearguardian/internal/validation"
)

// Date is a calendar day encoded as "2006-01-02".
type Date struct {
	time.Time
}

const dateLayout = "2006-01-02"

func (d *Date) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		return nil
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.Format(dateLayout) + `"`), nil
}

// EmptyRequest is used by endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }

type IDRequest struct {
	ID int64 `param:"id" validate:"required,gte=1"`
}

func (r *IDRequest) Validate() error { return validation.Struct(r) }

// PageRequest carries the page_number/num_records path parameters.
type PageRequest struct {
	PageNumber int `param:"page_number" validate:"gte=1"`
	NumRecords int `param:"num_records" validate:"gte=1,lte=100"`
}

func (r *PageRequest) Validate() error { return validation.Struct(r) }

func (r *PageRequest) Page() Page {
	return Page{Number: r.PageNumber, NumRecords: r.NumRecords}
}

package result

import "errors"

// Column limits of the results table
const (
	MaxTestTypeLength = 100
	MaxStatusLength   = 50
)

var ErrResultNotFound = errors.New("result not found")

// Result is a recorded lab result for a user. UserID is opaque and never
// checked. LabName is not stored: it is resolved from the lab catalog when
// the result is read and stays nil when the lab no longer exists.
type Result struct {
	ID         int64   `json:"id"`
	UserID     int64   `json:"userId"`
	LabID      int64   `json:"labId"`
	TestType   string  `json:"testType"`
	ValueJSON  string  `json:"valueJson"`
	Status     string  `json:"status"`
	ResultDate Date    `json:"resultDate"`
	LabName    *string `json:"labName"`
}

// ResultParams carries the writable fields of a result. UserID and LabID are
// pointers so that a missing value can be told apart from zero.
type ResultParams struct {
	UserID     *int64
	LabID      *int64
	TestType   string
	ValueJSON  string
	Status     string
	ResultDate Date
}

func (p ResultParams) record() Result {
	r := Result{
		TestType:   p.TestType,
		ValueJSON:  p.ValueJSON,
		Status:     p.Status,
		ResultDate: p.ResultDate,
	}
	if p.UserID != nil {
		r.UserID = *p.UserID
	}
	if p.LabID != nil {
		r.LabID = *p.LabID
	}
	return r
}

package roundtrip

import (
	"net/http"
	"strconv"
	"time"

	"github.com/oklog/ulid/v2"
)

type RequestViewModel struct {
	ID           ulid.ULID
	TimeStart    time.Time
	Label        string
	Status       *int
	ResponseTime *time.Duration
}

func (r RequestViewModel) String() string {
	if r.Status != nil {
		return r.Label + "." + strconv.Itoa(*r.Status)
	}
	return r.Label
}

type RequestStartedEvent struct {
	Request     *http.Request
	RequestView *RequestViewModel
}

type RequestEndedEvent struct {
	Request     *http.Request
	RequestView *RequestViewModel
	Response    *http.Response
	Err         error
}

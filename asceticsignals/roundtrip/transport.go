// Package roundtrip instruments an http.RoundTripper with protected signals
// announcing the start and the end of every request.
package roundtrip

import (
	"fmt"
	"net/http"
	"os"
	"slices"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/pkg/errors"

	"github.com/krew-solutions/ascetic-signals-go/asceticsignals/signals"
)

var hostname string

func init() {
	hostname, _ = os.Hostname()
}

type Transport struct {
	base             http.RoundTripper
	onRequestStarted *signals.ProtectedSignalController[RequestStartedEvent]
	onRequestEnded   *signals.ProtectedSignalController[RequestEndedEvent]
}

// NewTransport wraps base, or http.DefaultTransport when base is nil.
func NewTransport(base http.RoundTripper, opts ...signals.DispatcherOption) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	startedOpts := append(slices.Clone(opts), signals.WithLabel("roundtrip.request_started"))
	endedOpts := append(slices.Clone(opts), signals.WithLabel("roundtrip.request_ended"))
	return &Transport{
		base:             base,
		onRequestStarted: signals.NewProtectedSignalController[RequestStartedEvent](startedOpts...),
		onRequestEnded:   signals.NewProtectedSignalController[RequestEndedEvent](endedOpts...),
	}
}

func (t *Transport) OnRequestStarted() *signals.ProtectedSignalImp[RequestStartedEvent] {
	return t.onRequestStarted.Signal()
}

func (t *Transport) OnRequestEnded() *signals.ProtectedSignalImp[RequestEndedEvent] {
	return t.onRequestEnded.Signal()
}

// Client returns an http.Client sending its requests through t.
func (t *Transport) Client() *http.Client {
	return &http.Client{Transport: t}
}

// RoundTrip announces the request, performs it with the base transport and
// announces its outcome. A request-started subscriber error aborts the
// request; a request-ended subscriber error replaces a successful response.
func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	requestView := &RequestViewModel{
		ID:        ulid.Make(),
		TimeStart: time.Now(),
		Label: fmt.Sprintf(
			"ascetic-signals.%s.%s.%s.%s",
			hostname, req.Method, req.URL.Host, req.URL.Path,
		),
	}

	if err := t.onRequestStarted.Activate(RequestStartedEvent{
		Request:     req,
		RequestView: requestView,
	}); err != nil {
		if req.Body != nil {
			_ = req.Body.Close()
		}
		return nil, errors.WithMessage(err, "roundtrip: request started")
	}

	resp, err := t.base.RoundTrip(req)

	responseTime := time.Since(requestView.TimeStart)
	requestView.ResponseTime = &responseTime
	if resp != nil {
		status := resp.StatusCode
		requestView.Status = &status
	}

	if endErr := t.onRequestEnded.Activate(RequestEndedEvent{
		Request:     req,
		RequestView: requestView,
		Response:    resp,
		Err:         err,
	}); endErr != nil && err == nil {
		if resp != nil && resp.Body != nil {
			_ = resp.Body.Close()
		}
		return nil, errors.WithMessage(endErr, "roundtrip: request ended")
	}

	return resp, err
}

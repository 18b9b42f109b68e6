// Package payload implements the beacon payload codec: it turns the
// base64 "data" query parameter into a typed tracking record, or rejects
// it outright. Unknown extra fields are ignored; the "type" discriminator
// is never cross-checked against "category" — that is the browser's
// contract, not this core's.
package payload

import (
	"encoding/base64"
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// PageViewCategory is the sentinel category value that marks an event as a
// page view.
const PageViewCategory = "Page views"

// Tracking is the inner "tracking" block of the wire envelope.
type Tracking struct {
	Type     string `json:"type"`
	Identity string `json:"identity"`
	IsTouch  bool   `json:"isTouch"`
	UA       string `json:"ua"`
	Event    string `json:"event"`
	Category string `json:"category"`
	Referrer string `json:"referrer"`
}

// Envelope is the full decoded wire record.
type Envelope struct {
	SiteID   string    `json:"site_id" validate:"required"`
	Tracking *Tracking `json:"tracking" validate:"required"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ErrEmpty, ErrBadEncoding and ErrInvalid classify decode failures so
// callers (the ingest handler) can log without string-matching.
var (
	ErrEmpty       = fmt.Errorf("payload: empty data parameter")
	ErrBadEncoding = fmt.Errorf("payload: data is not valid base64")
	ErrInvalid     = fmt.Errorf("payload: decoded body is not a valid tracking envelope")
)

// Decode turns the base64-encoded "data" query parameter into an Envelope.
// It rejects empty input, non-base64 input, a non-object top level, a
// missing site_id, and a missing tracking object.
func Decode(data string) (*Envelope, error) {
	if data == "" {
		return nil, ErrEmpty
	}

	raw, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadEncoding, err)
	}

	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	if err := validate.Struct(&env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return &env, nil
}

// IsPageView reports whether the tracking block's category is the
// page-view sentinel.
func (t *Tracking) IsPageView() bool {
	return t.Category == PageViewCategory
}

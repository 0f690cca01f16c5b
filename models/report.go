package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

type ReportKind string

const (
	KindLost  ReportKind = "lost"
	KindFound ReportKind = "found"
)

var phonePattern = regexp.MustCompile(`^\d{11}$`)

// NoDescription is stored when a found item is submitted without one.
const NoDescription = "No description"

// Report is one lost-or-found claim, stored as a JSON document under
// reports/{id}. Kind-specific fields (ContactPhone, ImageRef) are only
// set for found items.
type Report struct {
	ID               string     `json:"id"`
	Kind             ReportKind `json:"kind"`
	Item             string     `json:"item"`
	Location         string     `json:"location"`
	Description      string     `json:"description,omitempty"`
	ContactPhone     string     `json:"contact_phone,omitempty"`
	ReporterID       string     `json:"reporter"`
	VerificationCode string     `json:"verification_code"`
	ImageRef         string     `json:"image_ref,omitempty"`
	Resolved         bool       `json:"resolved"`
	ResolvedAt       *time.Time `json:"resolved_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}

type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewLostReport validates and builds an unsaved lost report. ID, code and
// timestamps are assigned by the repository on create.
func NewLostReport(reporterID, item, location, description string) (*Report, error) {
	item = strings.TrimSpace(item)
	location = strings.TrimSpace(location)
	if item == "" {
		return nil, &ValidationError{Field: "item", Reason: "required"}
	}
	if location == "" {
		return nil, &ValidationError{Field: "location", Reason: "required"}
	}
	return &Report{
		Kind:        KindLost,
		Item:        item,
		Location:    location,
		Description: strings.TrimSpace(description),
		ReporterID:  reporterID,
	}, nil
}

// NewFoundReport validates and builds an unsaved found report. The contact
// phone must be an 11-digit number; an empty description gets the
// NoDescription sentinel.
func NewFoundReport(reporterID, item, location, phone, description, imageRef string) (*Report, error) {
	item = strings.TrimSpace(item)
	location = strings.TrimSpace(location)
	phone = strings.TrimSpace(phone)
	description = strings.TrimSpace(description)
	if item == "" {
		return nil, &ValidationError{Field: "item", Reason: "required"}
	}
	if location == "" {
		return nil, &ValidationError{Field: "location", Reason: "required"}
	}
	if !phonePattern.MatchString(phone) {
		return nil, &ValidationError{Field: "contact_phone", Reason: "must be an 11-digit number"}
	}
	if description == "" {
		description = NoDescription
	}
	return &Report{
		Kind:         KindFound,
		Item:         item,
		Location:     location,
		Description:  description,
		ContactPhone: phone,
		ReporterID:   reporterID,
		ImageRef:     imageRef,
	}, nil
}

// ValidPhone reports whether s is an acceptable contact phone.
func ValidPhone(s string) bool {
	return phonePattern.MatchString(strings.TrimSpace(s))
}

// ResolvedLabel is the user-facing name of the resolved state for this
// report's kind: found items are "claimed", lost items "recovered".
func (r *Report) ResolvedLabel() string {
	if r.Kind == KindFound {
		return "claimed"
	}
	return "recovered"
}

// NameEquals compares item names the way search and matching do: trimmed,
// case-insensitive equality.
func (r *Report) NameEquals(name string) bool {
	return strings.EqualFold(strings.TrimSpace(r.Item), strings.TrimSpace(name))
}

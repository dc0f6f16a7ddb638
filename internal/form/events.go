package form

import "github.com/csg33k/fpr-form/internal/domain"

// Event is one user interaction or asynchronous completion fed to the reducer.
type Event interface{ event() }

// Mount initialises the form from a restored snapshot, or from the field
// definitions when Persisted is nil.
type Mount struct{ Persisted *domain.FormState }

type Focus struct{ Field domain.FieldKind }

// Blur carries the value the field held when it lost focus.
type Blur struct {
	Field domain.FieldKind
	Value string
}

// Input is a keystroke in a plain text field; Value is the full candidate text.
type Input struct {
	Field domain.FieldKind
	Value string
}

type PanInput struct{ Value string }

type DateInput struct{ Value string }

type TabSelect struct {
	Field domain.FieldKind
	Value string
}

// CitySelect picks one of the cached city options. Position is 1-based.
type CitySelect struct {
	City     string
	Position int
}

type CityPopupToggle struct{}

type ProductPopupToggle struct{}

type ProductSelect struct{ Label string }

// DropdownOpen opens the popup of a selection field.
type DropdownOpen struct{ Field domain.FieldKind }

type TncToggle struct{ Checked bool }

// Clear empties a text field and focuses it.
type Clear struct{ Field domain.FieldKind }

// PincodeResolved completes the lookup started at Generation. Failed marks a
// transport failure, which is treated like an unresolved pincode.
type PincodeResolved struct {
	Generation uint64
	Result     domain.PincodeResult
	Failed     bool
}

// Prefill seeds the form from previously verified details.
type Prefill struct{ Details domain.CustomerDetails }

func (Mount) event()              {}
func (Focus) event()              {}
func (Blur) event()               {}
func (Input) event()              {}
func (PanInput) event()           {}
func (DateInput) event()          {}
func (TabSelect) event()          {}
func (CitySelect) event()         {}
func (CityPopupToggle) event()    {}
func (ProductPopupToggle) event() {}
func (ProductSelect) event()      {}
func (DropdownOpen) event()       {}
func (TncToggle) event()          {}
func (Clear) event()              {}
func (PincodeResolved) event()    {}
func (Prefill) event()            {}

// Effect is work the reducer asks the caller to perform outside the state update.
type Effect interface{ effect() }

// LookupPincode asks for the city of PinCode; the answer must come back as a
// PincodeResolved carrying the same Generation.
type LookupPincode struct {
	PinCode    string
	Generation uint64
}

// Track emits one analytics event.
type Track struct{ Event domain.AnalyticsEvent }

func (LookupPincode) effect() {}
func (Track) effect()         {}

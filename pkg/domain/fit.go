package domain

// Fit qualifies how a measured width sits inside (or near) a matched rule's
// band. It is advisory display data and never feeds back into matching.
type Fit string

const (
	FitSnug     Fit = "snug"
	FitStandard Fit = "standard"
	FitLoose    Fit = "loose"
)

// IsValid checks if the fit is one of the supported enum values.
func (f Fit) IsValid() bool {
	switch f {
	case FitSnug, FitStandard, FitLoose:
		return true
	}
	return false
}

// String returns the string representation of the fit.
func (f Fit) String() string {
	return string(f)
}

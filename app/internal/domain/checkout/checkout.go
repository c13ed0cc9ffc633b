package checkout

type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusSubmitting Status = "SUBMITTING"
	StatusSubmitted  Status = "SUBMITTED"
	StatusCompleted  Status = "COMPLETED"
)

type Field string

const (
	FieldCity    Field = "city"
	FieldCountry Field = "country"
)

func (f Field) IsValid() bool {
	switch f {
	case FieldCity, FieldCountry:
		return true
	default:
		return false
	}
}

// Label is the field name shown to shoppers.
func (f Field) Label() string {
	switch f {
	case FieldCity:
		return "City"
	case FieldCountry:
		return "Country"
	default:
		return string(f)
	}
}

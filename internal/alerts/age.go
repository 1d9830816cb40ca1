package alerts

import (
	"errors"
	"fmt"
	"time"
)

const BirthdateLayout = "01/02/2006"

// AdultAge is the highest age still counted as a child.
const AdultAge = 18

var ErrInvalidBirthdate = errors.New("invalid birthdate")

// Age returns the whole years elapsed between birthdate (MM/dd/yyyy) and today.
// An empty birthdate yields 0. Any other unparsable value is an ErrInvalidBirthdate.
func Age(birthdate string, today time.Time) (int, error) {
	if birthdate == "" {
		return 0, nil
	}
	dob, err := time.Parse(BirthdateLayout, birthdate)
	if err != nil {
		return 0, fmt.Errorf("%w %q: %v", ErrInvalidBirthdate, birthdate, err)
	}

	var years = today.Year() - dob.Year()
	if today.Month() < dob.Month() || (today.Month() == dob.Month() && today.Day() < dob.Day()) {
		years--
	}
	return years, nil
}

func IsChild(age int) bool {
	return age <= AdultAge
}

package stations

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// FireStation maps a street address to the number of the station serving it.
type FireStation struct {
	Address string `json:"address" db:"address"`
	Station int    `json:"station" db:"station"`
}

// UnmarshalJSON accepts the station number as a JSON number or as a decimal string.
func (f *FireStation) UnmarshalJSON(data []byte) error {
	var raw struct {
		Address string          `json:"address"`
		Station json.RawMessage `json:"station"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	f.Address = raw.Address
	f.Station = 0

	var text = strings.TrimSpace(string(raw.Station))
	if text == "" || text == "null" {
		return nil
	}
	if strings.HasPrefix(text, `"`) {
		if err := json.Unmarshal(raw.Station, &text); err != nil {
			return err
		}
		text = strings.TrimSpace(text)
		if text == "" {
			return nil
		}
	}
	station, err := strconv.Atoi(text)
	if err != nil {
		return fmt.Errorf("invalid station number for address %q: %w", raw.Address, err)
	}
	f.Station = station
	return nil
}

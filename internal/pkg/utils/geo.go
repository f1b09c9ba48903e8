package utils

import "strconv"

// ValidateCoordinates проверяет валидность координат
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// ParseCoordinates parses upstream string coordinates; ok is false for blank or out of range values.
func ParseCoordinates(lat, lon string) (float64, float64, bool) {
	if lat == "" || lon == "" {
		return 0, 0, false
	}
	la, err := strconv.ParseFloat(lat, 64)
	if err != nil {
		return 0, 0, false
	}
	lo, err := strconv.ParseFloat(lon, 64)
	if err != nil {
		return 0, 0, false
	}
	if !ValidateCoordinates(la, lo) {
		return 0, 0, false
	}
	return la, lo, true
}

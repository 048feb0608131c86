package enums

import "fmt"

// WaterPointStatus tracks the operational state of a water point.
type WaterPointStatus string

const (
	WaterPointStatusActive      WaterPointStatus = "active"
	WaterPointStatusMaintenance WaterPointStatus = "maintenance"
	WaterPointStatusOffline     WaterPointStatus = "offline"
	WaterPointStatusArchived    WaterPointStatus = "archived"
)

var validWaterPointStatuses = []WaterPointStatus{
	WaterPointStatusActive,
	WaterPointStatusMaintenance,
	WaterPointStatusOffline,
	WaterPointStatusArchived,
}

func (s WaterPointStatus) String() string {
	return string(s)
}

func (s WaterPointStatus) IsValid() bool {
	for _, candidate := range validWaterPointStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

func ParseWaterPointStatus(value string) (WaterPointStatus, error) {
	for _, candidate := range validWaterPointStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid water point status %q", value)
}

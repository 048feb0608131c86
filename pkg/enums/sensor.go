package enums

// SensorChannel identifies one simulated telemetry channel on a water point.
type SensorChannel string

const (
	SensorChannelFlow        SensorChannel = "flow"
	SensorChannelTemperature SensorChannel = "temperature"
	SensorChannelPH          SensorChannel = "ph"
	SensorChannelPressure    SensorChannel = "pressure"
	SensorChannelTurbidity   SensorChannel = "turbidity"
	SensorChannelChlorine    SensorChannel = "chlorine"
)

// SensorChannels lists every channel in stable report order.
var SensorChannels = []SensorChannel{
	SensorChannelFlow,
	SensorChannelTemperature,
	SensorChannelPH,
	SensorChannelPressure,
	SensorChannelTurbidity,
	SensorChannelChlorine,
}

func (c SensorChannel) String() string {
	return string(c)
}

// SensorStatus classifies a single reading against its normal range.
type SensorStatus string

const (
	SensorStatusNormal  SensorStatus = "normal"
	SensorStatusWarning SensorStatus = "warning"
	SensorStatusLow     SensorStatus = "low"
	SensorStatusHigh    SensorStatus = "high"
	SensorStatusOffline SensorStatus = "offline"
)

func (s SensorStatus) String() string {
	return string(s)
}

// IsCritical reports whether the reading sits outside the critical band.
func (s SensorStatus) IsCritical() bool {
	return s == SensorStatusLow || s == SensorStatusHigh
}

// OverallStatus is the derived health classification of a water point.
type OverallStatus string

const (
	OverallStatusNormal   OverallStatus = "normal"
	OverallStatusWarning  OverallStatus = "warning"
	OverallStatusCritical OverallStatus = "critical"
	OverallStatusOffline  OverallStatus = "offline"
)

func (s OverallStatus) String() string {
	return string(s)
}

package monitoring

import (
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"github.com/aquasafi/aquasafi-backend/pkg/db/models"
	"github.com/aquasafi/aquasafi-backend/pkg/enums"
)

// Reading is one simulated sensor sample on a water point.
type Reading struct {
	Channel enums.SensorChannel `json:"channel"`
	Value   float64             `json:"value"`
	Unit    string              `json:"unit"`
	Status  enums.SensorStatus  `json:"status"`
}

// Telemetry carries the mocked device-level figures reported alongside
// sensor readings.
type Telemetry struct {
	Connectivity string  `json:"connectivity"`
	BatteryLevel int     `json:"battery_level"`
	SignalDBM    int     `json:"signal_dbm"`
	UptimeHours  float64 `json:"uptime_hours"`
}

// SensorReader produces the current readings for a water point. The
// simulated implementation is the only one today; real telemetry
// ingestion would slot in behind the same interface.
type SensorReader interface {
	Read(point *models.WaterPoint, latest *models.QualityCheck) []Reading
	Device(point *models.WaterPoint) Telemetry
}

type channelSpec struct {
	base float64
	min  float64
	max  float64
	unit string
}

var channelSpecs = map[enums.SensorChannel]channelSpec{
	enums.SensorChannelFlow:        {base: 45.2, min: 20, max: 80, unit: "L/min"},
	enums.SensorChannelTemperature: {base: 24.5, min: 15, max: 30, unit: "C"},
	enums.SensorChannelPH:          {base: 7.2, min: 6.5, max: 8.5, unit: "pH"},
	enums.SensorChannelPressure:    {base: 2.8, min: 1.5, max: 4.0, unit: "bar"},
	enums.SensorChannelTurbidity:   {base: 2.1, min: 0, max: 5, unit: "NTU"},
	enums.SensorChannelChlorine:    {base: 0.8, min: 0.2, max: 4.0, unit: "ppm"},
}

// SimulatedReader jitters each channel's baseline by up to ±10% per
// read. When the point has a quality check on record, the measured
// channels track that sample instead of the baseline.
type SimulatedReader struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSimulatedReader seeds the simulation from the wall clock.
func NewSimulatedReader() *SimulatedReader {
	return &SimulatedReader{rng: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (s *SimulatedReader) Read(point *models.WaterPoint, latest *models.QualityCheck) []Reading {
	readings := make([]Reading, 0, len(enums.SensorChannels))
	if point.Status == enums.WaterPointStatusOffline {
		for _, channel := range enums.SensorChannels {
			readings = append(readings, Reading{
				Channel: channel,
				Value:   0,
				Unit:    channelSpecs[channel].unit,
				Status:  enums.SensorStatusOffline,
			})
		}
		return readings
	}

	for _, channel := range enums.SensorChannels {
		spec := channelSpecs[channel]
		value := s.jitter(s.baseline(channel, spec, latest))
		readings = append(readings, Reading{
			Channel: channel,
			Value:   value,
			Unit:    spec.unit,
			Status:  classify(value, spec),
		})
	}
	return readings
}

// Device reports mocked connectivity and power figures. They are
// derived from the point's ID so a point keeps a stable profile
// across reads.
func (s *SimulatedReader) Device(point *models.WaterPoint) Telemetry {
	if point.Status == enums.WaterPointStatusOffline {
		return Telemetry{Connectivity: "offline"}
	}

	h := fnv.New32a()
	h.Write(point.ID[:])
	seed := h.Sum32()

	connectivity := "good"
	if seed%5 == 0 {
		connectivity = "degraded"
	}
	return Telemetry{
		Connectivity: connectivity,
		BatteryLevel: 60 + int(seed%40),
		SignalDBM:    -50 - int(seed%40),
		UptimeHours:  float64(24 + seed%720),
	}
}

// baseline picks the channel's simulation anchor, preferring the
// latest quality check for the channels it actually measures.
func (s *SimulatedReader) baseline(channel enums.SensorChannel, spec channelSpec, latest *models.QualityCheck) float64 {
	if latest == nil {
		return spec.base
	}
	switch channel {
	case enums.SensorChannelTemperature:
		if latest.Temperature != nil {
			return *latest.Temperature
		}
	case enums.SensorChannelPH:
		if latest.PHLevel != nil {
			return *latest.PHLevel
		}
	case enums.SensorChannelTurbidity:
		if latest.Turbidity != nil {
			return *latest.Turbidity
		}
	case enums.SensorChannelChlorine:
		if latest.ChlorineLevel != nil {
			return *latest.ChlorineLevel
		}
	}
	return spec.base
}

func (s *SimulatedReader) jitter(value float64) float64 {
	s.mu.Lock()
	factor := 0.9 + s.rng.Float64()*0.2
	s.mu.Unlock()
	return value * factor
}

// classify grades a reading against its normal range. More than 20%
// past either bound is critical (low/high); inside the 20% margin but
// outside the normal range is a warning.
func classify(value float64, spec channelSpec) enums.SensorStatus {
	margin := (spec.max - spec.min) * 0.2
	switch {
	case value < spec.min-margin:
		return enums.SensorStatusLow
	case value > spec.max+margin:
		return enums.SensorStatusHigh
	case value < spec.min || value > spec.max:
		return enums.SensorStatusWarning
	default:
		return enums.SensorStatusNormal
	}
}

// OverallFromReadings folds per-channel statuses and the alert flag
// into the point's overall classification.
func OverallFromReadings(point *models.WaterPoint, readings []Reading, hasActiveAlert bool) enums.OverallStatus {
	if point.Status == enums.WaterPointStatusOffline {
		return enums.OverallStatusOffline
	}
	warning := hasActiveAlert
	for _, reading := range readings {
		if reading.Status.IsCritical() {
			return enums.OverallStatusCritical
		}
		if reading.Status == enums.SensorStatusWarning {
			warning = true
		}
	}
	if warning {
		return enums.OverallStatusWarning
	}
	return enums.OverallStatusNormal
}

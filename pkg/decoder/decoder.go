package decoder

import (
	"math"

	"github.com/pkg/errors"
	"github.com/tidwall/gjson"

	"rf2dash/pkg/model"
)

var ErrMalformed = errors.New("malformed telemetry message")

// Decode parses one inbound payload. Fields are read independently, so a
// wrong-typed field never invalidates the rest of the message.
func Decode(payload []byte) (model.TelemetrySample, error) {
	s := model.TelemetrySample{}
	if !gjson.ValidBytes(payload) {
		return s, errors.Wrap(ErrMalformed, "invalid json")
	}
	obj := gjson.ParseBytes(payload)
	if !obj.IsObject() {
		return s, errors.Wrapf(ErrMalformed, "expected object, got %s", obj.Type)
	}

	s.Session = intField(obj, "session")
	s.Gear = intField(obj, "gear")
	s.Place = intField(obj, "place")
	s.Brake = floatField(obj, "brake")
	s.Throttle = floatField(obj, "throttle")
	s.DriverName = stringField(obj, "driverName")
	s.VehicleName = stringField(obj, "vehicleName")
	s.TrackName = stringField(obj, "trackName")
	return s, nil
}

// intField treats fractional numbers as absent.
func intField(obj gjson.Result, key string) *int {
	r := obj.Get(key)
	if r.Type != gjson.Number || r.Num != math.Trunc(r.Num) {
		return nil
	}
	v := int(r.Int())
	return &v
}

func floatField(obj gjson.Result, key string) *float64 {
	r := obj.Get(key)
	if r.Type != gjson.Number {
		return nil
	}
	v := r.Float()
	return &v
}

// stringField keeps present keys of any other type as an empty string so
// the display still shows its placeholder.
func stringField(obj gjson.Result, key string) *string {
	r := obj.Get(key)
	if !r.Exists() {
		return nil
	}
	v := ""
	if r.Type == gjson.String {
		v = r.String()
	}
	return &v
}

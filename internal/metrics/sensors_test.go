package metrics

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shirou/gopsutil/v4/sensors"
)

func TestSensorRecord(t *testing.T) {
	stats := []sensors.TemperatureStat{
		{SensorKey: "TC0P", Temperature: 48, High: 90, Critical: 105},
		{SensorKey: "TG0P", Temperature: 51},
		{SensorKey: "TC0P", Temperature: 49},
	}

	rec, err := sensorRecord(stats, nil)
	if err != nil {
		t.Fatalf("sensorRecord() error = %v", err)
	}
	if len(rec) != 2 || rec[0].Name != "TC0P" || len(rec[0].Readings) != 2 {
		t.Fatalf("rec = %+v, want TC0P with 2 readings then TG0P", rec)
	}
	first := rec[0].Readings[0]
	if first.High == nil || *first.High != 90 || first.Critical == nil || *first.Critical != 105 {
		t.Errorf("reading[0] = %+v, want high 90 critical 105", first)
	}
	if rec[1].Readings[0].High != nil {
		t.Error("zero high threshold should be absent")
	}
}

func TestSensorRecord_Errors(t *testing.T) {
	warn := &sensors.Warnings{}
	warn.Add(errors.New("smc key TA0P unreadable"))

	tests := []struct {
		name      string
		stats     []sensors.TemperatureStat
		err       error
		wantErr   bool
		wantChips int
	}{
		{"warnings keep partial stats", []sensors.TemperatureStat{{SensorKey: "TC0P", Temperature: 40}}, warn, false, 1},
		{"wrapped warnings", nil, fmt.Errorf("sensors: %w", warn), false, 0},
		{"not implemented", nil, errors.New("not implemented yet"), false, 0},
		{"query failure", nil, errors.New("wmi: access denied"), true, 0},
		{"query failure with stats", []sensors.TemperatureStat{{SensorKey: "x"}}, errors.New("ioctl failed"), true, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, err := sensorRecord(tt.stats, tt.err)
			if (err != nil) != tt.wantErr {
				t.Fatalf("sensorRecord() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if rec == nil {
				t.Fatal("rec = nil, want empty record")
			}
			if len(rec) != tt.wantChips {
				t.Errorf("got %d chips, want %d", len(rec), tt.wantChips)
			}
		})
	}
}

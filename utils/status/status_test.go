package status

import (
	"math"
	"testing"
)

type classifierCase struct {
	name  string
	value float64
	want  Result
}

func runClassifierCases(t *testing.T, classify func(float64) Result, tests []classifierCase) {
	t.Helper()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.value); got != tt.want {
				t.Errorf("classify(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestBattery(t *testing.T) {
	runClassifierCases(t, Battery, []classifierCase{
		{name: "good battery", value: 3.8, want: Result{High, Green}},
		{name: "medium battery", value: 3.4, want: Result{Medium, Yellow}},
		{name: "low battery", value: 2.9, want: Result{Low, Red}},
		{name: "medium boundary", value: 3.3, want: Result{Medium, Yellow}},
		{name: "high boundary", value: 3.7, want: Result{High, Green}},
		{name: "just below medium", value: 3.2999, want: Result{Low, Red}},
		{name: "negative", value: -1, want: Result{Low, Red}},
		{name: "NaN", value: math.NaN(), want: Result{Low, Red}},
		{name: "+Inf", value: math.Inf(1), want: Result{High, Green}},
		{name: "-Inf", value: math.Inf(-1), want: Result{Low, Red}},
	})
}

func TestSoilMoisture(t *testing.T) {
	runClassifierCases(t, SoilMoisture, []classifierCase{
		{name: "optimal", value: 50, want: Result{Optimal, Green}},
		{name: "very dry", value: 15, want: Result{VeryDry, Red}},
		{name: "dry", value: 25, want: Result{Dry, Orange}},
		{name: "moist", value: 65, want: Result{Moist, Blue}},
		{name: "wet", value: 95, want: Result{Wet, Purple}},
		{name: "dry boundary", value: 20, want: Result{Dry, Orange}},
		{name: "optimal boundary", value: 40, want: Result{Optimal, Green}},
		{name: "moist boundary", value: 60, want: Result{Moist, Blue}},
		{name: "wet boundary", value: 80, want: Result{Wet, Purple}},
		{name: "negative", value: -5, want: Result{VeryDry, Red}},
		{name: "NaN", value: math.NaN(), want: Result{VeryDry, Red}},
		{name: "+Inf", value: math.Inf(1), want: Result{Wet, Purple}},
	})
}

// The optimal pH range is closed at 7.5 while the lower ranges are half-open.
// This asymmetry is intentional and kept for compatibility.
func TestSoilPH(t *testing.T) {
	runClassifierCases(t, SoilPH, []classifierCase{
		{name: "optimal", value: 6.8, want: Result{Optimal, Green}},
		{name: "acidic", value: 5.5, want: Result{Acidic, Red}},
		{name: "slightly acidic", value: 6.2, want: Result{SlightlyAcidic, Orange}},
		{name: "slightly acidic boundary", value: 6.0, want: Result{SlightlyAcidic, Orange}},
		{name: "optimal lower boundary", value: 6.5, want: Result{Optimal, Green}},
		{name: "optimal upper boundary is inclusive", value: 7.5, want: Result{Optimal, Green}},
		{name: "just above optimal", value: 7.51, want: Result{SlightlyAlkaline, Yellow}},
		{name: "slightly alkaline upper boundary", value: 8.0, want: Result{SlightlyAlkaline, Yellow}},
		{name: "alkaline", value: 8.01, want: Result{Alkaline, Red}},
		{name: "NaN", value: math.NaN(), want: Result{Acidic, Red}},
		{name: "+Inf", value: math.Inf(1), want: Result{Alkaline, Red}},
	})
}

// As with pH, the optimal temperature range is closed at 30 °C.
func TestTemperature(t *testing.T) {
	runClassifierCases(t, Temperature, []classifierCase{
		{name: "optimal", value: 28, want: Result{Optimal, Green}},
		{name: "hot", value: 38, want: Result{Hot, Red}},
		{name: "cold", value: 4, want: Result{Cold, Blue}},
		{name: "cool", value: 15, want: Result{Cool, Cyan}},
		{name: "cool boundary", value: 10, want: Result{Cool, Cyan}},
		{name: "optimal lower boundary", value: 20, want: Result{Optimal, Green}},
		{name: "optimal upper boundary is inclusive", value: 30, want: Result{Optimal, Green}},
		{name: "just above optimal", value: 30.1, want: Result{Warm, Orange}},
		{name: "warm upper boundary", value: 35, want: Result{Warm, Orange}},
		{name: "just above warm", value: 35.01, want: Result{Hot, Red}},
		{name: "below freezing", value: -12, want: Result{Cold, Blue}},
		{name: "NaN", value: math.NaN(), want: Result{Cold, Blue}},
		{name: "-Inf", value: math.Inf(-1), want: Result{Cold, Blue}},
	})
}

func TestColorTextClass(t *testing.T) {
	if got := Green.TextClass(); got != "text-green-500" {
		t.Errorf("Expected text-green-500, got %q", got)
	}
	if got := Battery(2.9).Color.TextClass(); got != "text-red-500" {
		t.Errorf("Expected text-red-500, got %q", got)
	}
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{input: "battery", want: KindBattery},
		{input: " Moisture ", want: KindSoilMoisture},
		{input: "ph", want: KindSoilPH},
		{input: "TEMP", want: KindTemperature},
		{input: "humidity", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseKind(tt.input)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseKind(%q) expected error, got nil", tt.input)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseKind(%q) unexpected error: %v", tt.input, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseKind(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestClassify(t *testing.T) {
	for _, kind := range Kinds {
		if _, err := Classify(kind, 1); err != nil {
			t.Errorf("Classify(%q) unexpected error: %v", kind, err)
		}
	}

	got, err := Classify(KindSoilPH, 7.5)
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}
	if got.Status != Optimal {
		t.Errorf("Expected optimal, got %q", got.Status)
	}

	if _, err := Classify(Kind("wind"), 3); err == nil {
		t.Error("Expected error for unknown kind, got nil")
	}
}

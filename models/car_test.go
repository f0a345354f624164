package models

import "testing"

func TestParseFuelLabel(t *testing.T) {
	cases := []struct {
		label string
		want  FuelType
	}{
		{"Diesel", FuelDiesel},
		{"gasóleo", FuelDiesel},
		{"Gasolina", FuelPetrol},
		{"petrol", FuelPetrol},
		{"Elétrico", FuelElectric},
		{"eletrico", FuelElectric},
		{"Electric", FuelElectric},
		{"Híbrido", FuelHybrid},
		{"hybrid (plug-in)", FuelHybrid},
		{"", FuelOther},
		{"GPL", FuelOther},
	}
	for _, tc := range cases {
		if got := ParseFuelLabel(tc.label); got != tc.want {
			t.Errorf("%q: expected %s, got %s", tc.label, tc.want, got)
		}
	}
}

func TestSearchFilterIsEmpty(t *testing.T) {
	if !(SearchFilter{}).IsEmpty() {
		t.Error("zero filter must be empty")
	}

	price := 30000
	cases := []SearchFilter{
		{Brand: "BMW"},
		{Model: "X5"},
		{MaxPrice: &price},
		{Fuel: "Diesel"},
		{Location: "Lisboa"},
	}
	for _, f := range cases {
		if f.IsEmpty() {
			t.Errorf("filter %+v must not be empty", f)
		}
	}
}

package normalize

import (
	"testing"

	"github.com/guidoenr/freebee/internal/frame"
)

func flat(db float64) frame.Spectrum {
	var s frame.Spectrum
	for ch := range s.Magnitude {
		for band := range s.Magnitude[ch] {
			s.Magnitude[ch][band] = db
		}
	}
	return s
}

func TestFlatSpectrumIsZero(t *testing.T) {
	for _, db := range []float64{-40, -100, 0} {
		got := Normalize(flat(db))
		if got != (Intensity{}) {
			t.Fatalf("flat %f dB: got=%v want zeros", db, got)
		}
	}
}

func TestFlatMeansAcrossChannelsIsZero(t *testing.T) {
	var s frame.Spectrum
	for band := 0; band < frame.Bands; band++ {
		s.Magnitude[0][band] = -30
		s.Magnitude[1][band] = -50
	}
	if got := Normalize(s); got != (Intensity{}) {
		t.Fatalf("got=%v want zeros", got)
	}
}

func TestStretchPreservesOrder(t *testing.T) {
	var s frame.Spectrum
	for band := 0; band < frame.Bands; band++ {
		s.Magnitude[0][band] = -90 + float64((band*7)%frame.Bands)*4
		s.Magnitude[1][band] = s.Magnitude[0][band] - 2
	}
	means := s.BandMeans()
	got := Normalize(s)

	minBand, maxBand := 0, 0
	for band := range means {
		if means[band] < means[minBand] {
			minBand = band
		}
		if means[band] > means[maxBand] {
			maxBand = band
		}
	}
	if got[minBand] != 0 {
		t.Fatalf("min band %d intensity=%f want=0", minBand, got[minBand])
	}
	if got[maxBand] != 1 {
		t.Fatalf("max band %d intensity=%f want=1", maxBand, got[maxBand])
	}
	for i := range got {
		if got[i] < 0 || got[i] > 1 {
			t.Fatalf("band %d intensity %f out of range", i, got[i])
		}
		for j := range got {
			if means[i] < means[j] && !(got[i] < got[j]) {
				t.Fatalf("order not preserved between bands %d and %d", i, j)
			}
		}
	}
}

func TestEndToEndScenario(t *testing.T) {
	s := flat(-60)
	for ch := 0; ch < frame.Channels; ch++ {
		s.Magnitude[ch][5] = -20
		s.Magnitude[ch][12] = -90
	}
	got := Normalize(s)

	if got[5] != 1.0 {
		t.Fatalf("band 5=%v want=1", got[5])
	}
	if got[12] != 0.0 {
		t.Fatalf("band 12=%v want=0", got[12])
	}
	want := 30.0 / 70.0
	for band, v := range got {
		if band == 5 || band == 12 {
			continue
		}
		if v != want {
			t.Fatalf("band %d=%v want=%v", band, v, want)
		}
	}
}

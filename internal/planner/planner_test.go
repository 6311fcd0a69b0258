package planner

import (
	"testing"
	"time"
)

func at(hour, min int) time.Time {
	return time.Date(2026, time.March, 14, hour, min, 0, 0, time.UTC)
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name      string
		start     time.Time
		end       time.Time
		duration  int
		wantCount int
	}{
		{
			name:      "two hour window with 60 minute slots",
			start:     at(20, 0),
			end:       at(22, 0),
			duration:  60,
			wantCount: 2,
		},
		{
			name:      "partial trailing slot is dropped",
			start:     at(20, 0),
			end:       at(21, 50),
			duration:  60,
			wantCount: 1,
		},
		{
			name:      "window shorter than one slot",
			start:     at(20, 0),
			end:       at(20, 15),
			duration:  20,
			wantCount: 0,
		},
		{
			name:      "exact multiple of 20 minute slots",
			start:     at(19, 0),
			end:       at(23, 0),
			duration:  20,
			wantCount: 12,
		},
		{
			name:      "30 minute slots over odd window",
			start:     at(18, 0),
			end:       at(21, 45),
			duration:  30,
			wantCount: 7,
		},
		{
			name:      "end equals start",
			start:     at(20, 0),
			end:       at(20, 0),
			duration:  30,
			wantCount: 0,
		},
		{
			name:      "end before start",
			start:     at(22, 0),
			end:       at(20, 0),
			duration:  30,
			wantCount: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			slots := Generate(tt.start, tt.end, tt.duration)

			if len(slots) != tt.wantCount {
				t.Fatalf("Generate() returned %d slots, want %d", len(slots), tt.wantCount)
			}

			dur := time.Duration(tt.duration) * time.Minute
			for i, slot := range slots {
				if slot.Index != i {
					t.Errorf("slot %d has index %d", i, slot.Index)
				}
				wantStart := tt.start.Add(time.Duration(i) * dur)
				if !slot.StartTime.Equal(wantStart) {
					t.Errorf("slot %d starts at %v, want %v", i, slot.StartTime, wantStart)
				}
				if !slot.EndTime.Equal(wantStart.Add(dur)) {
					t.Errorf("slot %d ends at %v, want %v", i, slot.EndTime, wantStart.Add(dur))
				}
				if i > 0 && !slots[i-1].EndTime.Equal(slot.StartTime) {
					t.Errorf("gap between slot %d and %d", i-1, i)
				}
				if slot.EndTime.After(tt.end) {
					t.Errorf("slot %d ends past the event window", i)
				}
			}
		})
	}
}

func TestGenerateDeterministic(t *testing.T) {
	a := Generate(at(20, 0), at(23, 0), 30)
	b := Generate(at(20, 0), at(23, 0), 30)

	if len(a) != len(b) {
		t.Fatalf("same inputs produced %d and %d slots", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("slot %d differs between runs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

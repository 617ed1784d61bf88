package threading

import "testing"

func TestNewComponentsSerial(t *testing.T) {
	tc := NewComponents(false)
	defer tc.Shutdown()

	if tc.Dispatcher() != nil {
		t.Errorf("Expected no dispatcher for serial rendering")
	}
	if tc.GetDetailedPerformanceStats() == nil {
		t.Errorf("Expected performance stats")
	}
}

func TestNewComponentsParallel(t *testing.T) {
	tc := NewComponents(true)

	d := tc.Dispatcher()
	if d == nil {
		t.Fatalf("Expected a column dispatcher")
	}
	seen := make([]bool, 64)
	d.Dispatch(len(seen), func(col int) { seen[col] = true })
	for col, ok := range seen {
		if !ok {
			t.Errorf("Column %d was not dispatched", col)
		}
	}

	tc.Shutdown()
	tc.Shutdown()
}

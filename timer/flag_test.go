package timer

import "testing"

func TestFlag(t *testing.T) {
	var f Flag
	if f.Raised() || f.Observe() {
		t.Fatal("zero flag is raised")
	}
	f.Raise()
	f.Raise()
	if !f.Raised() {
		t.Fatal("Raised after Raise returned false")
	}
	if !f.Observe() {
		t.Fatal("Observe after Raise returned false")
	}
	if f.Observe() {
		t.Fatal("Observe did not clear the flag")
	}
	f.Raise()
	f.Clear()
	if f.Raised() {
		t.Fatal("Clear did not clear the flag")
	}
}

package transcript

import "testing"

func TestAppendAndEntries(t *testing.T) {
	l := New[string]()

	if l.Len() != 0 {
		t.Fatalf("new log should be empty, got len %d", l.Len())
	}

	l.Append("one")
	l.Append("two")
	l.Append("three")

	entries := l.Entries()
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	expected := []string{"one", "two", "three"}
	for i, want := range expected {
		if entries[i] != want {
			t.Errorf("entry %d: expected %q, got %q", i, want, entries[i])
		}
	}
}

func TestEntriesReturnsCopy(t *testing.T) {
	l := New[int]()
	l.Append(1)
	l.Append(2)

	entries := l.Entries()
	entries[0] = 99

	fresh := l.Entries()
	if fresh[0] != 1 {
		t.Errorf("mutating the returned slice changed the log: got %d", fresh[0])
	}
}

func TestClear(t *testing.T) {
	l := New[string]()
	l.Append("a")
	l.Append("b")
	l.Append("c")

	l.Clear()

	if l.Len() != 0 {
		t.Errorf("expected empty log after Clear, got len %d", l.Len())
	}
	if len(l.Entries()) != 0 {
		t.Errorf("expected no entries after Clear, got %d", len(l.Entries()))
	}
}

package command

import "testing"

func TestTrieInsertSearch(t *testing.T) {
	tr := newTrie[int]()
	tr.Insert("server", 1)
	tr.Insert("screen", 2)

	if v, ok := tr.Search("server"); !ok || v != 1 {
		t.Fatalf("Search(server) = %d, %v, want 1, true", v, ok)
	}
	if v, ok := tr.Search("screen"); !ok || v != 2 {
		t.Fatalf("Search(screen) = %d, %v, want 2, true", v, ok)
	}
	if _, ok := tr.Search("serv"); ok {
		t.Fatal("expected prefix-only key to not match")
	}
	if _, ok := tr.Search("unknown"); ok {
		t.Fatal("expected missing key to not match")
	}
}

func TestTrieRemove(t *testing.T) {
	tr := newTrie[int]()
	tr.Insert("exit", 1)
	tr.Insert("exitcode", 2)

	if !tr.Remove("exit") {
		t.Fatal("expected Remove(exit) to succeed")
	}
	if _, ok := tr.Search("exit"); ok {
		t.Fatal("expected exit to be gone")
	}
	if v, ok := tr.Search("exitcode"); !ok || v != 2 {
		t.Fatal("expected exitcode to survive removing the shorter key")
	}
	if tr.Remove("exit") {
		t.Fatal("expected second Remove(exit) to report nothing removed")
	}
}

func TestTrieSizeAndWalk(t *testing.T) {
	tr := newTrie[string]()
	tr.Insert("b", "B")
	tr.Insert("a", "A")
	tr.Insert("c", "C")
	if tr.Size() != 3 {
		t.Fatalf("Size() = %d, want 3", tr.Size())
	}

	var keys []string
	tr.Walk(func(key string, _ string) { keys = append(keys, key) })
	want := []string{"a", "b", "c"}
	if len(keys) != len(want) {
		t.Fatalf("Walk produced %v, want %v", keys, want)
	}
	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("Walk order = %v, want %v", keys, want)
		}
	}
}

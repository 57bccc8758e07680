package postgres

import "testing"

func TestConnString(t *testing.T) {
	s := Settings{Host: "db", Port: "5432", User: "roommap", Database: "maps"}
	want := "host=db port=5432 user=roommap dbname=maps sslmode=disable"
	if got := s.ConnString(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	s.Password = "pw"
	want = "host=db port=5432 user=roommap password=pw dbname=maps sslmode=disable"
	if got := s.ConnString(); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

package mqtt

// Topics builds the topic names for one level.
type Topics struct {
	Prefix string
	Level  string
}

// Regenerate is where regeneration commands arrive.
func (t Topics) Regenerate() string {
	return t.Prefix + "/" + t.Level + "/regenerate"
}

// Layout is where layout summaries are published.
func (t Topics) Layout() string {
	return t.Prefix + "/" + t.Level + "/layout"
}

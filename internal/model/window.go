package model

// Window represents a top-level window of the host application.
type Window struct {
	App     string `yaml:"app"               json:"app"`
	PID     int    `yaml:"pid"               json:"pid"`
	Title   string `yaml:"title"             json:"title"`
	ID      int    `yaml:"id,omitempty"      json:"id,omitempty"`
	Focused bool   `yaml:"focused,omitempty" json:"focused,omitempty"`
}

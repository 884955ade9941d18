package config

// SetPath points the academic config at a file, for tests
func (a *Academic) SetPath(path string) {
	a.path = path
}

package component

// Script runs a tengo file each frame against one track.
type Script struct {
	Name  string
	File  string
	Track string
}

var ScriptComponent = NewComponent[Script]()

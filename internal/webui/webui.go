// Package webui provides the embedded static files for the selling-chat
// web interface.
package webui

import "embed"

//go:embed static/*
var staticFS embed.FS

// Index returns the chat page. The UI is a single self-contained file.
func Index() []byte {
	b, err := staticFS.ReadFile("static/index.html")
	if err != nil {
		// The file is compiled in; failing to read it is a build bug.
		panic(err)
	}
	return b
}

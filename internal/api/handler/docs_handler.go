package handler

import (
	_ "embed"
	"net/http"
)

//go:embed docs/api.md
var apiDocs []byte

// Docs serves the API reference document.
func Docs(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.Write(apiDocs)
}

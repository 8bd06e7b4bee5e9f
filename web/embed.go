// Package web carries the embedded HTML templates for the server-rendered
// pages.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
